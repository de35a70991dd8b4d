// Package badges awards achievement labels from a user's submission history
// and their latest computed result. Rules run in a fixed order; duplicates
// are not suppressed here, callers de-duplicate if they need to.
package badges

import "ficore/internal/scoring"

// Badge labels.
const (
	FirstBudget     = "First Budget Completed!"
	FirstHealth     = "First Health Score Completed!"
	FinancialStable = "Financial Stability Achieved!"
	DebtSlayer      = "Debt Slayer!"
	FirstQuiz       = "First Quiz Completed!"
	MasterPlanner   = "Master Planner!"
	NeedsGuidance   = "Needs Guidance!"
)

// Budget awards badges for the budget flow. historyLen counts the user's
// budget submissions including the latest one.
func Budget(historyLen int) []string {
	var out []string
	if historyLen == 1 {
		out = append(out, FirstBudget)
	}
	return out
}

// Health awards badges for the health flow against the latest result.
func Health(historyLen int, latest scoring.HealthResult) []string {
	var out []string
	if historyLen == 1 {
		out = append(out, FirstHealth)
	}
	if latest.Score >= 50 {
		out = append(out, FinancialStable)
	}
	if latest.DebtToIncome < 0.3 {
		out = append(out, DebtSlayer)
	}
	return out
}

// Quiz awards badges for the quiz flow. The completion badge is awarded on
// every submission; the cautionary Avoider badge only fires once the
// population is large enough to make the comparison meaningful.
func Quiz(latest scoring.QuizResult, populationSize int) []string {
	out := []string{FirstQuiz}
	if latest.Personality == scoring.PersonalityPlanner {
		out = append(out, MasterPlanner)
	} else if latest.Personality == scoring.PersonalityAvoider && populationSize > 10 {
		out = append(out, NeedsGuidance)
	}
	return out
}
