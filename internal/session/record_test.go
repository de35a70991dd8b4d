package session

import "testing"

func TestRecordActiveEmpty(t *testing.T) {
	rec := NewRecord()
	if !rec.ActiveEmpty() {
		t.Fatal("fresh record should be active-empty")
	}

	rec.Budget = &BudgetDraft{Step: 1}
	if rec.ActiveEmpty() {
		t.Fatal("budget draft should mark the record active")
	}

	rec = &Record{QuizResults: &QuizOutcome{Personality: "Planner"}}
	if rec.ActiveEmpty() {
		t.Fatal("pending quiz results should mark the record active")
	}

	// An in-progress quiz draft alone does not count as active: the
	// restore trigger checks budget, health and quiz results only.
	rec = &Record{Quiz: &QuizDraft{Step: 2}}
	if !rec.ActiveEmpty() {
		t.Fatal("quiz draft alone should not block a restore")
	}
}

func TestRecordIdentityPrecedence(t *testing.T) {
	rec := &Record{
		Budget: &BudgetDraft{Email: "budget@example.com"},
		Health: &HealthDraft{Email: "health@example.com"},
	}
	if got := rec.Identity(); got != "budget@example.com" {
		t.Fatalf("Identity() = %q, want budget draft email first", got)
	}

	rec.Email = "bare@example.com"
	if got := rec.Identity(); got != "bare@example.com" {
		t.Fatalf("Identity() = %q, want bare identity to win", got)
	}
}

func TestRecordFlashesAreOneShot(t *testing.T) {
	rec := NewRecord()
	rec.AddFlash(FlashError, "Session Expired")
	rec.AddFlash(FlashSuccess, "Submission Success")

	flashes := rec.TakeFlashes()
	if len(flashes) != 2 {
		t.Fatalf("TakeFlashes() returned %d flashes, want 2", len(flashes))
	}
	if flashes[0].Message != "Session Expired" {
		t.Errorf("flash order not preserved: %+v", flashes)
	}
	if again := rec.TakeFlashes(); again != nil {
		t.Fatalf("second TakeFlashes() = %+v, want nil", again)
	}
	if !rec.Modified() {
		t.Fatal("flash operations should mark the record modified")
	}
}

func TestRecordClearFlow(t *testing.T) {
	rec := &Record{
		Email:       "ada@example.com",
		Health:      &HealthDraft{Step: 3},
		Dashboard:   &DashboardData{HealthScore: 56.67},
		QuizResults: &QuizOutcome{Personality: "Saver"},
	}
	rec.ClearHealth()
	if rec.Health != nil || rec.Dashboard != nil {
		t.Fatal("ClearHealth should drop draft and dashboard data")
	}
	if rec.Email == "" {
		t.Fatal("identity must survive a flow clear")
	}
	rec.ClearQuiz()
	if rec.QuizResults != nil {
		t.Fatal("ClearQuiz should drop pending results")
	}
}
