package scoring

import "testing"

func TestBudgetSurplus(t *testing.T) {
	result := Budget(BudgetInput{
		MonthlyIncome:     150000,
		HousingExpenses:   30000,
		FoodExpenses:      45000,
		TransportExpenses: 10000,
		OtherExpenses:     20000,
		SavingsGoal:       0,
	})

	if result.TotalExpenses != 105000 {
		t.Errorf("TotalExpenses = %v, want 105000", result.TotalExpenses)
	}
	if result.Savings != 15000 {
		t.Errorf("Savings = %v, want 15000 (10%% of income)", result.Savings)
	}
	if result.SurplusDeficit != 30000 {
		t.Errorf("SurplusDeficit = %v, want 30000", result.SurplusDeficit)
	}
	if result.Category != BudgetCategorySavings {
		t.Errorf("Category = %q, want %q", result.Category, BudgetCategorySavings)
	}
}

func TestBudgetExplicitGoalWins(t *testing.T) {
	result := Budget(BudgetInput{
		MonthlyIncome:     100000,
		HousingExpenses:   40000,
		FoodExpenses:      30000,
		TransportExpenses: 10000,
		OtherExpenses:     10000,
		SavingsGoal:       25000,
	})

	if result.Savings != 25000 {
		t.Errorf("Savings = %v, want explicit goal 25000", result.Savings)
	}
	if result.SurplusDeficit != -15000 {
		t.Errorf("SurplusDeficit = %v, want -15000", result.SurplusDeficit)
	}
	if result.Category != BudgetCategoryOverspend {
		t.Errorf("Category = %q, want %q", result.Category, BudgetCategoryOverspend)
	}
	if result.Advice != budgetAdviceDeficit {
		t.Errorf("Advice = %q, want deficit advice", result.Advice)
	}
}

func TestBudgetBreakEvenIsSavings(t *testing.T) {
	result := Budget(BudgetInput{MonthlyIncome: 100000, HousingExpenses: 90000, SavingsGoal: 10000})
	if result.SurplusDeficit != 0 {
		t.Fatalf("SurplusDeficit = %v, want 0", result.SurplusDeficit)
	}
	if result.Category != BudgetCategorySavings {
		t.Errorf("surplus of exactly zero should be %q, got %q", BudgetCategorySavings, result.Category)
	}
}
