package wizard

import (
	"fmt"

	"ficore/internal/errs"
	"ficore/internal/logging"
	"ficore/internal/session"
)

// Done is the step number returned when a flow's terminal step was accepted
// and the caller should finalize.
const Done = 0

// Machine validates step submissions, merges them into the session draft and
// computes the next step.
type Machine struct {
	questions []Question
	logger    logging.Logger
}

// NewMachine builds a step machine over a quiz catalogue.
func NewMachine(questions []Question, logger logging.Logger) *Machine {
	if len(questions) == 0 {
		questions = DefaultQuestions()
	}
	return &Machine{questions: questions, logger: logging.OrNop(logger)}
}

// Questions exposes the active quiz catalogue.
func (m *Machine) Questions() []Question { return m.questions }

// Steps returns a flow's step sequence.
func (m *Machine) Steps(flow FlowKind) []Step {
	switch flow {
	case FlowBudget:
		return budgetSteps()
	case FlowHealth:
		return healthSteps()
	case FlowQuiz:
		return quizSteps(m.questions)
	}
	return nil
}

// Step returns one step definition, 1-based.
func (m *Machine) Step(flow FlowKind, n int) (Step, error) {
	steps := m.Steps(flow)
	if n < 1 || n > len(steps) {
		return Step{}, fmt.Errorf("%s flow has no step %d", flow, n)
	}
	return steps[n-1], nil
}

// Back steps the flow one screen backwards without merging anything. The
// submitted values on the abandoned screen are discarded.
func (m *Machine) Back(flow FlowKind, n int) int {
	if n <= 1 {
		return 1
	}
	return n - 1
}

// Submit validates a step's form, merges it into the session draft and
// returns the next step number (Done after the terminal step). A mid-flow
// submission with no draft in the session means the cookie was lost.
func (m *Machine) Submit(rec *session.Record, flow FlowKind, n int, form Form) (int, error) {
	step, err := m.Step(flow, n)
	if err != nil {
		return 0, err
	}
	if n > 1 && m.draftMissing(rec, flow) {
		return 0, &errs.SessionExpiredError{Flow: string(flow)}
	}

	if err := Validate(step.Fields, form); err != nil {
		return 0, err
	}
	if err := m.validateQuestions(step, form); err != nil {
		return 0, err
	}

	switch flow {
	case FlowBudget:
		m.mergeBudget(rec, n, form)
	case FlowHealth:
		m.mergeHealth(rec, n, form)
	case FlowQuiz:
		m.mergeQuiz(rec, step, n, form)
	}
	rec.Touch()

	if step.Final {
		return Done, nil
	}
	return n + 1, nil
}

func (m *Machine) draftMissing(rec *session.Record, flow FlowKind) bool {
	switch flow {
	case FlowBudget:
		return rec.Budget == nil
	case FlowHealth:
		return rec.Health == nil
	case FlowQuiz:
		return rec.Quiz == nil
	}
	return true
}

func (m *Machine) validateQuestions(step Step, form Form) error {
	problems := make(map[string]string)
	for _, q := range step.Questions {
		answer := form.Get(q.ID)
		if answer == "" {
			if q.Required {
				problems[q.ID] = "An answer is required"
			}
			continue
		}
		valid := false
		for _, opt := range q.Options {
			if answer == opt {
				valid = true
				break
			}
		}
		if !valid {
			problems[q.ID] = "Invalid choice"
		}
	}
	if len(problems) > 0 {
		return &errs.ValidationError{Fields: problems}
	}
	return nil
}

// amount parses an already-validated amount field; absent optional fields
// stay nil so a later step can tell "unset" from zero.
func amount(form Form, name string) *float64 {
	raw := form.Get(name)
	if raw == "" {
		return nil
	}
	v, err := ParseAmount(raw)
	if err != nil {
		return nil
	}
	return &v
}

func (m *Machine) mergeBudget(rec *session.Record, n int, form Form) {
	if rec.Budget == nil {
		rec.Budget = &session.BudgetDraft{}
	}
	draft := rec.Budget
	switch n {
	case 1:
		draft.FirstName = SanitizeText(form.Get("first_name"))
		draft.Email = form.Get("email")
		draft.Language = form.Get("language")
		draft.AutoEmail = form.Bool("auto_email")
		rec.SetIdentity(draft.Email)
		if draft.Language != "" {
			rec.Language = draft.Language
		}
	case 2:
		draft.MonthlyIncome = amount(form, "monthly_income")
	case 3:
		draft.HousingExpenses = amount(form, "housing_expenses")
		draft.FoodExpenses = amount(form, "food_expenses")
		draft.TransportExpenses = amount(form, "transport_expenses")
		draft.OtherExpenses = amount(form, "other_expenses")
	case 4:
		draft.SavingsGoal = amount(form, "savings_goal")
		if form.Get("auto_email") != "" {
			draft.AutoEmail = form.Bool("auto_email")
		}
	}
	draft.Step = n
}

func (m *Machine) mergeHealth(rec *session.Record, n int, form Form) {
	if rec.Health == nil {
		rec.Health = &session.HealthDraft{}
	}
	draft := rec.Health
	switch n {
	case 1:
		draft.FirstName = SanitizeText(form.Get("first_name"))
		draft.Email = form.Get("email")
		draft.Language = form.Get("language")
		draft.AutoEmail = form.Bool("auto_email")
		rec.SetIdentity(draft.Email)
		if draft.Language != "" {
			rec.Language = draft.Language
		}
	case 2:
		draft.BusinessName = SanitizeText(form.Get("business_name"))
		draft.UserType = form.Get("user_type")
	case 3:
		draft.Income = amount(form, "income_revenue")
		draft.Expenses = amount(form, "expenses_costs")
		draft.Debt = amount(form, "debt_loan")
		draft.InterestRate = amount(form, "debt_interest_rate")
	}
	draft.Step = n
}

func (m *Machine) mergeQuiz(rec *session.Record, step Step, n int, form Form) {
	if rec.Quiz == nil {
		rec.Quiz = &session.QuizDraft{}
	}
	draft := rec.Quiz
	if n == 1 {
		draft.FirstName = SanitizeText(form.Get("first_name"))
		draft.Email = form.Get("email")
		draft.Language = form.Get("language")
		draft.AutoEmail = form.Bool("auto_email")
		rec.SetIdentity(draft.Email)
		if draft.Language != "" {
			rec.Language = draft.Language
		}
	}
	if draft.Answers == nil {
		draft.Answers = make(map[string]string)
	}
	for _, q := range step.Questions {
		if answer := form.Get(q.ID); answer != "" {
			draft.Answers[q.ID] = answer
		}
	}
	draft.Step = n
}
