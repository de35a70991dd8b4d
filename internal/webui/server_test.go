package webui

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ficore/internal/population"
	"ficore/internal/session"
	"ficore/internal/wizard"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	env, err := session.NewEnvelope("webui-test-secret", time.Hour, nil, nil)
	require.NoError(t, err)
	sessions := session.NewManager(env, nil, session.ManagerConfig{}, nil, nil)

	machine := wizard.NewMachine(nil, nil)
	finalizer := wizard.NewFinalizer(population.NewMemoryStore(), nil, nil, nil, nil)

	srv := NewServer(DefaultServerConfig(), sessions, machine, finalizer, nil, nil, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) *http.Response {
	t.Helper()
	resp, err := client.PostForm(target, form)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out), "body: %s", body)
	return out
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestBudgetFlowEndToEnd(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)

	resp := postForm(t, client, ts.URL+"/budget/step/1", url.Values{
		"first_name": {"Ada"},
		"email":      {"ada@example.com"},
		"language":   {"en"},
	})
	resp.Body.Close()

	resp = postForm(t, client, ts.URL+"/budget/step/2", url.Values{
		"monthly_income": {"150,000"},
	})
	resp.Body.Close()

	resp = postForm(t, client, ts.URL+"/budget/step/3", url.Values{
		"housing_expenses":   {"30000"},
		"food_expenses":      {"45000"},
		"transport_expenses": {"20000"},
		"other_expenses":     {"10000"},
	})
	resp.Body.Close()

	// Final step redirects through to the dashboard.
	resp = postForm(t, client, ts.URL+"/budget/step/4", url.Values{
		"savings_goal": {"15000"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasSuffix(resp.Request.URL.Path, "/budget/dashboard"))

	body := decodeBody(t, resp)
	assert.Equal(t, "budget_dashboard", body["view"])
	assert.EqualValues(t, 30000, body["surplus_deficit"])
	assert.EqualValues(t, 1, body["rank"])
	assert.EqualValues(t, 1, body["total_users"])
	assert.Contains(t, body, "flashes")

	// The dashboard is one-shot: a second visit bounces to step 1.
	resp, err := client.Get(ts.URL + "/budget/dashboard")
	require.NoError(t, err)
	body = decodeBody(t, resp)
	assert.Equal(t, "budget_step1", body["view"])
}

func TestBudgetValidationErrorKeepsStep(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)

	resp := postForm(t, client, ts.URL+"/budget/step/1", url.Values{
		"first_name": {"Ada"},
		"email":      {"ada@example.com"},
	})
	resp.Body.Close()

	resp = postForm(t, client, ts.URL+"/budget/step/2", url.Values{
		"monthly_income": {"12,34,56a"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "validation_error", body["view"])
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "monthly_income")
}

func TestMidFlowWithoutSessionRedirectsToStart(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)

	resp := postForm(t, client, ts.URL+"/budget/step/3", url.Values{
		"housing_expenses":   {"1"},
		"food_expenses":      {"1"},
		"transport_expenses": {"1"},
		"other_expenses":     {"1"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "budget_step1", body["view"])
	assert.Contains(t, body, "flashes")
}

func TestBackButtonDiscardsValues(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)

	resp := postForm(t, client, ts.URL+"/budget/step/1", url.Values{
		"first_name": {"Ada"},
		"email":      {"ada@example.com"},
	})
	resp.Body.Close()

	resp = postForm(t, client, ts.URL+"/budget/step/2", url.Values{
		"back":           {"Back"},
		"monthly_income": {"999"},
	})
	body := decodeBody(t, resp)
	assert.Equal(t, "budget_step1", body["view"])
}

func TestHealthFlowEndToEnd(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)

	resp := postForm(t, client, ts.URL+"/health/step/1", url.Values{
		"first_name": {"Ada"},
		"email":      {"ada@example.com"},
		"language":   {"en"},
	})
	resp.Body.Close()

	resp = postForm(t, client, ts.URL+"/health/step/2", url.Values{
		"business_name": {"Ada Ventures"},
		"user_type":     {"SME"},
	})
	resp.Body.Close()

	resp = postForm(t, client, ts.URL+"/health/step/3", url.Values{
		"income_revenue":     {"100000"},
		"expenses_costs":     {"60000"},
		"debt_loan":          {"20000"},
		"debt_interest_rate": {"10"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "health_dashboard", body["view"])
	assert.InDelta(t, 56.67, body["health_score"].(float64), 0.001)
	assert.EqualValues(t, 1, body["rank"])
}

func TestQuizFlowEndToEnd(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)
	questions := wizard.DefaultQuestions()

	step1 := url.Values{"language": {"en"}}
	for _, q := range questions[0:4] {
		step1.Set(q.ID, "Yes")
	}
	resp := postForm(t, client, ts.URL+"/quiz/step/1", step1)
	resp.Body.Close()

	step2 := url.Values{}
	for _, q := range questions[4:7] {
		step2.Set(q.ID, "Yes")
	}
	resp = postForm(t, client, ts.URL+"/quiz/step/2", step2)
	resp.Body.Close()

	step3 := url.Values{}
	for _, q := range questions[7:10] {
		step3.Set(q.ID, "Yes")
	}
	resp = postForm(t, client, ts.URL+"/quiz/step/3", step3)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "quiz_results", body["view"])
	assert.Equal(t, "Planner", body["personality"])

	// Results are one-shot too.
	again, err := client.Get(ts.URL + "/quiz/results")
	require.NoError(t, err)
	body = decodeBody(t, again)
	assert.Equal(t, "quiz_step1", body["view"])
}

func TestShowStepListsFieldsAndQuestions(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/quiz/step/1")
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, "quiz_step1", body["view"])
	assert.Len(t, body["questions"], 4)
	assert.Len(t, body["fields"], 4)

	resp, err = http.Get(ts.URL + "/budget/step/9")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestLogoutClearsSession(t *testing.T) {
	ts := newTestServer(t)
	client := newClient(t)

	resp := postForm(t, client, ts.URL+"/budget/step/1", url.Values{
		"first_name": {"Ada"},
		"email":      {"ada@example.com"},
	})
	resp.Body.Close()

	resp, err := client.Get(ts.URL + "/logout")
	require.NoError(t, err)
	resp.Body.Close()

	// Mid-flow submit after logout finds no draft.
	resp = postForm(t, client, ts.URL+"/budget/step/2", url.Values{"monthly_income": {"1"}})
	body := decodeBody(t, resp)
	assert.Equal(t, "budget_step1", body["view"])
}
