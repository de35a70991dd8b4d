package scoring

// BudgetInput carries the raw fields collected by the budget wizard.
type BudgetInput struct {
	MonthlyIncome     float64
	HousingExpenses   float64
	FoodExpenses      float64
	TransportExpenses float64
	OtherExpenses     float64
	SavingsGoal       float64
}

// BudgetResult is the immutable outcome of the budget calculation.
type BudgetResult struct {
	TotalExpenses  float64
	Savings        float64
	SurplusDeficit float64
	Category       string
	Advice         string
}

// Budget outcome categories.
const (
	BudgetCategorySavings   = "Savings"
	BudgetCategoryOverspend = "Overspend"
)

const (
	budgetAdviceSurplus = "Great job! Save or invest your surplus to grow your wealth."
	budgetAdviceDeficit = "Reduce non-essential spending to balance your budget."
)

// Budget computes the surplus/deficit outcome. When no explicit savings goal
// is set, savings default to 10% of income (never negative).
func Budget(in BudgetInput) BudgetResult {
	total := in.HousingExpenses + in.FoodExpenses + in.TransportExpenses + in.OtherExpenses

	savings := in.SavingsGoal
	if savings <= 0 {
		savings = in.MonthlyIncome * 0.10
		if savings < 0 {
			savings = 0
		}
	}

	surplus := in.MonthlyIncome - total - savings

	result := BudgetResult{
		TotalExpenses:  total,
		Savings:        savings,
		SurplusDeficit: surplus,
	}
	if surplus >= 0 {
		result.Category = BudgetCategorySavings
		result.Advice = budgetAdviceSurplus
	} else {
		result.Category = BudgetCategoryOverspend
		result.Advice = budgetAdviceDeficit
	}
	return result
}
