package wizard

// FlowKind names one end-to-end wizard.
type FlowKind string

const (
	FlowBudget FlowKind = "budget"
	FlowHealth FlowKind = "health"
	FlowQuiz   FlowKind = "quiz"
)

// Step is one screen of a flow: the fields it collects and, for the quiz,
// the slice of catalogue questions it asks.
type Step struct {
	Name      string
	Fields    []FieldSpec
	Questions []Question
	Final     bool
}

var languageOptions = []string{"en", "ha"}

func identityFields(required bool) []FieldSpec {
	return []FieldSpec{
		{Name: "first_name", Label: "First Name", Kind: KindText, Required: required},
		{Name: "email", Label: "Email", Kind: KindEmail, Required: required},
		{Name: "language", Label: "Language", Kind: KindSelect, Options: languageOptions},
		{Name: "auto_email", Label: "Receive Email Report", Kind: KindCheckbox},
	}
}

func budgetSteps() []Step {
	return []Step{
		{Name: "budget_step1", Fields: identityFields(true)},
		{Name: "budget_step2", Fields: []FieldSpec{
			{Name: "monthly_income", Label: "Monthly Income", Kind: KindAmount, Required: true},
		}},
		{Name: "budget_step3", Fields: []FieldSpec{
			{Name: "housing_expenses", Label: "Housing Expenses", Kind: KindAmount, Required: true},
			{Name: "food_expenses", Label: "Food Expenses", Kind: KindAmount, Required: true},
			{Name: "transport_expenses", Label: "Transport Expenses", Kind: KindAmount, Required: true},
			{Name: "other_expenses", Label: "Other Expenses", Kind: KindAmount, Required: true},
		}},
		{Name: "budget_step4", Final: true, Fields: []FieldSpec{
			{Name: "savings_goal", Label: "Savings Goal", Kind: KindAmount},
			{Name: "auto_email", Label: "Receive Email Report", Kind: KindCheckbox},
		}},
	}
}

func healthSteps() []Step {
	return []Step{
		{Name: "health_step1", Fields: identityFields(true)},
		{Name: "health_step2", Fields: []FieldSpec{
			{Name: "business_name", Label: "Business Name", Kind: KindText, Required: true},
			{Name: "user_type", Label: "User Type", Kind: KindSelect, Required: true, Options: []string{"SME", "Individual"}},
		}},
		{Name: "health_step3", Final: true, Fields: []FieldSpec{
			{Name: "income_revenue", Label: "Monthly Income/Revenue", Kind: KindAmount, Required: true},
			{Name: "expenses_costs", Label: "Monthly Expenses/Costs", Kind: KindAmount, Required: true},
			{Name: "debt_loan", Label: "Total Debt/Loan Amount", Kind: KindAmount, Required: true},
			{Name: "debt_interest_rate", Label: "Debt Interest Rate (%)", Kind: KindRate, Required: true},
		}},
	}
}

// quizSteps spreads the ten-question catalogue over three screens. Identity
// fields are optional for the quiz.
func quizSteps(questions []Question) []Step {
	steps := []Step{
		{Name: "quiz_step1", Fields: identityFields(false)},
		{Name: "quiz_step2"},
		{Name: "quiz_step3", Final: true},
	}
	if len(questions) >= 10 {
		steps[0].Questions = questions[0:4]
		steps[1].Questions = questions[4:7]
		steps[2].Questions = questions[7:10]
	}
	return steps
}
