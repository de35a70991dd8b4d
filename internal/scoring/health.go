package scoring

import "math"

// Course references surfaced with each health category. Opaque links, not
// computed here.
const (
	CourseInvestingTitle = "Ficore Simplified Investing Course"
	CourseInvestingURL   = "https://youtube.com/@ficore.africa"
	CourseSavingsTitle   = "Ficore Savings Mastery"
	CourseSavingsURL     = "https://www.youtube.com/@FICORE.AFRICA"
	CourseDebtTitle      = "Ficore Debt and Expense Management"
	CourseDebtURL        = "https://www.youtube.com/@FICORE.AFRICA"
	CourseRecoveryTitle  = "Ficore Financial Recovery"
	CourseRecoveryURL    = "https://www.youtube.com/@FICORE.AFRICA"
)

// Health category descriptions.
const (
	HealthCategoryStable   = "Stable Income; invest excess now"
	HealthCategoryModerate = "Moderate; save something monthly!"
	HealthCategoryAtRisk   = "At Risk; manage your expense!"
	HealthCategoryCritical = "Critical; seek financial help!"
)

// incomeEpsilon guards the ratio denominators against a zero income.
const incomeEpsilon = 1e-10

// HealthInput carries the raw fields collected by the health wizard.
type HealthInput struct {
	Income       float64
	Expenses     float64
	Debt         float64
	InterestRate float64 // percent
}

// HealthResult is the immutable outcome of the health score calculation.
// The unclipped ratios are kept because the category tie-breakers read them.
type HealthResult struct {
	Score float64 // 0..100, rounded to 2 decimals

	CashFlowRatio  float64 // unclipped
	DebtToIncome   float64 // unclipped
	InterestBurden float64 // clipped to [0,1]

	NormCashFlow     float64
	NormDebtToIncome float64
	NormInterest     float64

	Category    string
	Advice      string
	CourseTitle string
	CourseURL   string
}

// Health computes the composite 0-100 health score: an equal-weighted
// average of normalized cash flow, inverted debt-to-income and inverted
// debt interest burden.
func Health(in HealthInput) HealthResult {
	incomeSafe := in.Income
	if incomeSafe == 0 {
		incomeSafe = incomeEpsilon
	}

	cashFlow := (in.Income - in.Expenses) / incomeSafe
	debtToIncome := in.Debt / incomeSafe
	burden := clip(in.InterestRate, 0, math.Inf(1)) / 20
	burden = clip(burden, 0, 1)

	normCashFlow := clip(cashFlow, 0, 1)
	normDebtToIncome := 1 - clip(debtToIncome, 0, 1)
	normInterest := 1 - burden

	score := round2((normCashFlow + normDebtToIncome + normInterest) / 3 * 100)

	result := HealthResult{
		Score:            score,
		CashFlowRatio:    cashFlow,
		DebtToIncome:     debtToIncome,
		InterestBurden:   burden,
		NormCashFlow:     normCashFlow,
		NormDebtToIncome: normDebtToIncome,
		NormInterest:     normInterest,
	}
	result.Category, result.Advice, result.CourseTitle, result.CourseURL = healthCategory(score, cashFlow, burden)
	return result
}

// healthCategory selects the narrative branch. Boundary semantics match the
// historical behaviour exactly: a burden of exactly 0.5 is not "> 0.5" and
// stays in the moderate branch.
func healthCategory(score, cashFlow, burden float64) (category, advice, courseTitle, courseURL string) {
	switch {
	case score >= 75:
		return HealthCategoryStable,
			"Keep up your positive cash flow and invest the excess.",
			CourseInvestingTitle, CourseInvestingURL
	case score >= 50:
		if cashFlow < 0.3 || burden > 0.5 {
			return HealthCategoryAtRisk,
				"Trim expenses and bring your debt interest under control.",
				CourseDebtTitle, CourseDebtURL
		}
		return HealthCategoryModerate,
			"Set aside something every month to build a buffer.",
			CourseSavingsTitle, CourseSavingsURL
	case score >= 25:
		return HealthCategoryAtRisk,
			"Trim expenses and bring your debt interest under control.",
			CourseDebtTitle, CourseDebtURL
	default:
		return HealthCategoryCritical,
			"Seek help and start a recovery plan now.",
			CourseRecoveryTitle, CourseRecoveryURL
	}
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
