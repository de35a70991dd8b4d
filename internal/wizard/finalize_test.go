package wizard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ficore/internal/badges"
	"ficore/internal/errs"
	"ficore/internal/population"
	"ficore/internal/scoring"
	"ficore/internal/session"
)

func f64(v float64) *float64 { return &v }

type recordingNotifier struct {
	budget, health, quiz int
}

func (n *recordingNotifier) BudgetReport(string, string, scoring.BudgetResult, string) { n.budget++ }
func (n *recordingNotifier) HealthReport(string, string, scoring.HealthResult, string) { n.health++ }
func (n *recordingNotifier) QuizReport(string, string, scoring.QuizResult, string)     { n.quiz++ }

func budgetRecord() *session.Record {
	rec := session.NewRecord()
	rec.Email = "ada@example.com"
	rec.Budget = &session.BudgetDraft{
		Step:              4,
		FirstName:         "Ada",
		Email:             "ada@example.com",
		Language:          "en",
		AutoEmail:         true,
		MonthlyIncome:     f64(150000),
		HousingExpenses:   f64(30000),
		FoodExpenses:      f64(45000),
		TransportExpenses: f64(20000),
		OtherExpenses:     f64(10000),
		SavingsGoal:       f64(15000),
	}
	return rec
}

func healthRecord() *session.Record {
	rec := session.NewRecord()
	rec.Email = "ada@example.com"
	rec.Health = &session.HealthDraft{
		Step:         3,
		FirstName:    "Ada",
		Email:        "ada@example.com",
		Language:     "en",
		BusinessName: "Ada Ventures",
		UserType:     "SME",
		Income:       f64(100000),
		Expenses:     f64(60000),
		Debt:         f64(20000),
		InterestRate: f64(10),
	}
	return rec
}

func quizRecord(answers map[string]string) *session.Record {
	rec := session.NewRecord()
	rec.Email = "ada@example.com"
	rec.Quiz = &session.QuizDraft{
		Step:      3,
		FirstName: "Ada",
		Email:     "ada@example.com",
		Language:  "en",
		Answers:   answers,
	}
	return rec
}

func allYes() map[string]string {
	out := make(map[string]string)
	for _, q := range DefaultQuestions() {
		out[q.ID] = "Yes"
	}
	return out
}

func TestFinalizeBudgetAppendsRowAndNotifies(t *testing.T) {
	store := population.NewMemoryStore()
	notifier := &recordingNotifier{}
	fin := NewFinalizer(store, notifier, nil, nil, nil)
	rec := budgetRecord()

	res, badgeList, err := fin.FinalizeBudget(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, 30000.0, res.SurplusDeficit)
	assert.Equal(t, []string{badges.FirstBudget}, badgeList)
	assert.Equal(t, 1, notifier.budget)

	rows, err := store.Rows(context.Background(), population.FlowBudget)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "30000", rows[0][population.ColumnIndex(population.FlowBudget, "surplus_deficit")])
}

func TestFinalizeBudgetWithoutDraft(t *testing.T) {
	fin := NewFinalizer(population.NewMemoryStore(), nil, nil, nil, nil)
	_, _, err := fin.FinalizeBudget(context.Background(), session.NewRecord())
	assert.True(t, errs.IsSessionExpired(err))
}

func TestFinalizeBudgetBackendFailure(t *testing.T) {
	fin := NewFinalizer(failingStore{}, nil, nil, nil, nil)
	_, _, err := fin.FinalizeBudget(context.Background(), budgetRecord())
	require.Error(t, err)
	assert.True(t, errs.IsBackendUnavailable(err))
}

func TestBudgetDashboardRanksStrictly(t *testing.T) {
	store := population.NewMemoryStore()
	fin := NewFinalizer(store, nil, nil, nil, nil)
	ctx := context.Background()

	// Two earlier users: one richer, one tied with Ada's 30000 surplus.
	seed := func(email string, surplus float64) {
		row := population.BudgetRow(&session.BudgetDraft{Email: email}, scoring.BudgetResult{SurplusDeficit: surplus}, nil, fin.now())
		require.NoError(t, store.Append(ctx, population.FlowBudget, row))
	}
	seed("rich@example.com", 90000)
	seed("tied@example.com", 30000)

	rec := budgetRecord()
	_, _, err := fin.FinalizeBudget(ctx, rec)
	require.NoError(t, err)

	summary, err := fin.BudgetDashboard(ctx, rec)
	require.NoError(t, err)
	// Only the 90000 surplus beats Ada; the tie shares her rank.
	assert.Equal(t, 2, summary.Rank)
	assert.Equal(t, 3, summary.TotalUsers)
	assert.Equal(t, 30000.0, summary.Result.SurplusDeficit)
}

func TestFinalizeHealthStagesDashboard(t *testing.T) {
	store := population.NewMemoryStore()
	notifier := &recordingNotifier{}
	fin := NewFinalizer(store, notifier, nil, nil, nil)
	rec := healthRecord()
	rec.Health.AutoEmail = true

	dd, err := fin.FinalizeHealth(context.Background(), rec)
	require.NoError(t, err)
	assert.InDelta(t, 56.67, dd.HealthScore, 0.001)
	assert.Equal(t, scoring.HealthCategoryModerate, dd.ScoreDescription)
	// Sole member of the population: inclusive counting ranks her 1 of 1.
	assert.Equal(t, 1, dd.Rank)
	assert.Equal(t, 1, dd.TotalUsers)
	assert.Contains(t, dd.Badges, badges.FirstHealth)
	assert.Contains(t, dd.Badges, badges.FinancialStable)
	assert.Contains(t, dd.Badges, badges.DebtSlayer)
	assert.Same(t, dd, rec.Dashboard)
	assert.Equal(t, 1, notifier.health)
}

func TestFinalizeHealthInclusiveRanking(t *testing.T) {
	store := population.NewMemoryStore()
	fin := NewFinalizer(store, nil, nil, nil, nil)
	ctx := context.Background()

	// A healthier earlier user: zero debt, tiny expenses.
	prior := population.HealthRow(&session.HealthDraft{
		Email:    "fit@example.com",
		Income:   f64(100000),
		Expenses: f64(10000),
	}, fin.now())
	require.NoError(t, store.Append(ctx, population.FlowHealth, prior))

	dd, err := fin.FinalizeHealth(ctx, healthRecord())
	require.NoError(t, err)
	// count(>= 56.67) over {96.67 approx, 56.67} includes herself.
	assert.Equal(t, 2, dd.Rank)
	assert.Equal(t, 2, dd.TotalUsers)
}

func TestFinalizeQuizAllPositiveIsPlanner(t *testing.T) {
	store := population.NewMemoryStore()
	notifier := &recordingNotifier{}
	fin := NewFinalizer(store, notifier, nil, nil, nil)
	rec := quizRecord(allYes())
	rec.Quiz.AutoEmail = true

	outcome, err := fin.FinalizeQuiz(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, scoring.PersonalityPlanner, outcome.Personality)
	assert.Contains(t, outcome.Badges, badges.FirstQuiz)
	assert.Contains(t, outcome.Badges, badges.MasterPlanner)
	assert.Same(t, outcome, rec.QuizResults)
	assert.Equal(t, 1, notifier.quiz)

	rows, err := store.Rows(context.Background(), population.FlowQuiz)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Planner", rows[0][population.ColumnIndex(population.FlowQuiz, "personality")])
}

func TestFinalizeQuizAvoiderBadgeNeedsPopulation(t *testing.T) {
	store := population.NewMemoryStore()
	fin := NewFinalizer(store, nil, nil, nil, nil)
	ctx := context.Background()

	allNo := make(map[string]string)
	for _, q := range DefaultQuestions() {
		allNo[q.ID] = "No"
	}

	outcome, err := fin.FinalizeQuiz(ctx, quizRecord(allNo))
	require.NoError(t, err)
	assert.Equal(t, scoring.PersonalityAvoider, outcome.Personality)
	// Population was empty before this append.
	assert.NotContains(t, outcome.Badges, badges.NeedsGuidance)

	// Grow the population past the threshold, then submit again.
	for i := 0; i < 11; i++ {
		row := population.QuizRow(&session.QuizDraft{}, Prompts(fin.questions), make([]string, 10), "Saver", nil, fin.now())
		require.NoError(t, store.Append(ctx, population.FlowQuiz, row))
	}
	outcome, err = fin.FinalizeQuiz(ctx, quizRecord(allNo))
	require.NoError(t, err)
	assert.Contains(t, outcome.Badges, badges.NeedsGuidance)
}

type failingStore struct{}

func (failingStore) Append(context.Context, population.Flow, []string) error {
	return assert.AnError
}

func (failingStore) Rows(context.Context, population.Flow) ([][]string, error) {
	return nil, assert.AnError
}
