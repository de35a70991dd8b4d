package wizard

import (
	"context"
	"fmt"
	"time"

	"ficore/internal/badges"
	"ficore/internal/errs"
	"ficore/internal/logging"
	"ficore/internal/metrics"
	"ficore/internal/population"
	"ficore/internal/ranking"
	"ficore/internal/scoring"
	"ficore/internal/session"
)

// Notifier sends result reports by email. Implementations must not block
// the request.
type Notifier interface {
	BudgetReport(email, firstName string, res scoring.BudgetResult, language string)
	HealthReport(email, firstName string, res scoring.HealthResult, language string)
	QuizReport(email, firstName string, res scoring.QuizResult, language string)
}

// BudgetSummary is what the budget dashboard renders.
type BudgetSummary struct {
	FirstName  string
	Result     scoring.BudgetResult
	Badges     []string
	Rank       int
	TotalUsers int
}

// Finalizer seals completed flows: it scores the draft, assigns badges,
// appends the population row and stages the result for its one-shot view.
type Finalizer struct {
	store     population.Store
	notifier  Notifier
	questions []Question
	metrics   *metrics.Metrics
	logger    logging.Logger
	now       func() time.Time
}

// NewFinalizer wires the finalize path. notifier may be nil to disable
// email reports.
func NewFinalizer(store population.Store, notifier Notifier, questions []Question, m *metrics.Metrics, logger logging.Logger) *Finalizer {
	if len(questions) == 0 {
		questions = DefaultQuestions()
	}
	return &Finalizer{
		store:     store,
		notifier:  notifier,
		questions: questions,
		metrics:   m,
		logger:    logging.OrNop(logger),
		now:       time.Now,
	}
}

// guard converts a scoring panic into an error instead of a crashed request.
func guard(flow FlowKind, err *error) {
	if r := recover(); r != nil {
		*err = &errs.ComputationError{Flow: string(flow), Err: fmt.Errorf("%v", r)}
	}
}

func (f *Finalizer) append(ctx context.Context, flow population.Flow, row []string) error {
	start := f.now()
	err := f.store.Append(ctx, flow, row)
	f.metrics.ObserveAppend(string(flow), f.now().Sub(start), err)
	if err != nil {
		return &errs.BackendUnavailableError{Op: fmt.Sprintf("%s append", flow), Err: err}
	}
	return nil
}

// FinalizeBudget seals the budget flow. Rank and total users are written as
// placeholders; the dashboard recomputes them against the live population.
func (f *Finalizer) FinalizeBudget(ctx context.Context, rec *session.Record) (res scoring.BudgetResult, badgeList []string, err error) {
	defer guard(FlowBudget, &err)

	draft := rec.Budget
	if draft == nil {
		return res, nil, &errs.SessionExpiredError{Flow: string(FlowBudget)}
	}

	res = scoring.Budget(budgetInput(draft))

	history := 1
	if rows, rowsErr := f.store.Rows(ctx, population.FlowBudget); rowsErr == nil {
		history = population.CountByEmail(population.FlowBudget, rows, draft.Email) + 1
	} else {
		f.logger.Warn("budget history unavailable, assuming first submission: %v", rowsErr)
	}
	badgeList = badges.Budget(history)

	if err = f.append(ctx, population.FlowBudget, population.BudgetRow(draft, res, badgeList, f.now())); err != nil {
		return res, nil, err
	}
	f.metrics.Submission(string(FlowBudget))
	rec.Touch()

	if f.notifier != nil && draft.AutoEmail && draft.Email != "" {
		f.notifier.BudgetReport(draft.Email, draft.FirstName, res, draft.Language)
	}
	f.logger.Info("budget flow finalized for %s", draft.Email)
	return res, badgeList, nil
}

// BudgetDashboard recomputes the sealed draft's result and ranks it against
// every stored surplus. Budget ranking counts strictly greater scores.
func (f *Finalizer) BudgetDashboard(ctx context.Context, rec *session.Record) (*BudgetSummary, error) {
	draft := rec.Budget
	if draft == nil {
		return nil, &errs.SessionExpiredError{Flow: string(FlowBudget)}
	}

	res := scoring.Budget(budgetInput(draft))

	rows, err := f.store.Rows(ctx, population.FlowBudget)
	if err != nil {
		return nil, &errs.BackendUnavailableError{Op: "budget rows", Err: err}
	}
	history := population.CountByEmail(population.FlowBudget, rows, draft.Email)
	rank, total := ranking.Rank(res.SurplusDeficit, population.BudgetSurpluses(rows), ranking.StrictAbove)

	return &BudgetSummary{
		FirstName:  draft.FirstName,
		Result:     res,
		Badges:     badges.Budget(history),
		Rank:       rank,
		TotalUsers: total,
	}, nil
}

// FinalizeHealth seals the health flow: the row is appended first, then the
// score is ranked against the whole population including it. Health ranking
// counts greater-or-equal scores, so a user always counts themselves.
func (f *Finalizer) FinalizeHealth(ctx context.Context, rec *session.Record) (dd *session.DashboardData, err error) {
	defer guard(FlowHealth, &err)

	draft := rec.Health
	if draft == nil {
		return nil, &errs.SessionExpiredError{Flow: string(FlowHealth)}
	}

	res := scoring.Health(scoring.HealthInput{
		Income:       deref(draft.Income),
		Expenses:     deref(draft.Expenses),
		Debt:         deref(draft.Debt),
		InterestRate: deref(draft.InterestRate),
	})

	if err = f.append(ctx, population.FlowHealth, population.HealthRow(draft, f.now())); err != nil {
		return nil, err
	}
	f.metrics.Submission(string(FlowHealth))

	rows, rowsErr := f.store.Rows(ctx, population.FlowHealth)
	if rowsErr != nil {
		return nil, &errs.BackendUnavailableError{Op: "health rows", Err: rowsErr}
	}
	rank, total := ranking.Rank(res.Score, population.HealthScores(rows), ranking.Inclusive)
	history := population.CountByEmail(population.FlowHealth, rows, draft.Email)
	badgeList := badges.Health(history, res)

	dd = &session.DashboardData{
		FirstName:        draft.FirstName,
		Email:            draft.Email,
		Language:         draft.Language,
		HealthScore:      res.Score,
		ScoreDescription: res.Category,
		CourseTitle:      res.CourseTitle,
		CourseURL:        res.CourseURL,
		Rank:             rank,
		TotalUsers:       total,
		Badges:           badgeList,
	}
	rec.Dashboard = dd
	rec.Touch()

	if f.notifier != nil && draft.AutoEmail && draft.Email != "" {
		f.notifier.HealthReport(draft.Email, draft.FirstName, res, draft.Language)
	}
	f.logger.Info("health flow finalized for %s (score %.2f, rank %d/%d)", draft.Email, res.Score, rank, total)
	return dd, nil
}

// FinalizeQuiz seals the quiz flow. The population size for the cautionary
// badge is read before the append, so the new submission does not count
// toward its own threshold.
func (f *Finalizer) FinalizeQuiz(ctx context.Context, rec *session.Record) (outcome *session.QuizOutcome, err error) {
	defer guard(FlowQuiz, &err)

	draft := rec.Quiz
	if draft == nil {
		return nil, &errs.SessionExpiredError{Flow: string(FlowQuiz)}
	}

	res := scoring.Quiz(Entries(f.questions, draft.Answers))

	populationSize := 0
	if rows, rowsErr := f.store.Rows(ctx, population.FlowQuiz); rowsErr == nil {
		populationSize = len(rows)
	} else {
		f.logger.Warn("quiz population unavailable, sizing it zero: %v", rowsErr)
	}
	badgeList := badges.Quiz(res, populationSize)

	row := population.QuizRow(draft, Prompts(f.questions), AnswersInOrder(f.questions, draft.Answers), res.Personality, badgeList, f.now())
	if err = f.append(ctx, population.FlowQuiz, row); err != nil {
		return nil, err
	}
	f.metrics.Submission(string(FlowQuiz))

	outcome = &session.QuizOutcome{
		FirstName:   draft.FirstName,
		Email:       draft.Email,
		Language:    draft.Language,
		Personality: res.Personality,
		Description: res.Description,
		Tip:         res.Tip,
		Badges:      badgeList,
		Answers:     answersByPrompt(f.questions, draft.Answers),
	}
	rec.QuizResults = outcome
	rec.Touch()

	if f.notifier != nil && draft.AutoEmail && draft.Email != "" {
		f.notifier.QuizReport(draft.Email, draft.FirstName, res, draft.Language)
	}
	f.logger.Info("quiz flow finalized for %s (%s)", draft.Email, res.Personality)
	return outcome, nil
}

func budgetInput(draft *session.BudgetDraft) scoring.BudgetInput {
	return scoring.BudgetInput{
		MonthlyIncome:     deref(draft.MonthlyIncome),
		HousingExpenses:   deref(draft.HousingExpenses),
		FoodExpenses:      deref(draft.FoodExpenses),
		TransportExpenses: deref(draft.TransportExpenses),
		OtherExpenses:     deref(draft.OtherExpenses),
		SavingsGoal:       deref(draft.SavingsGoal),
	}
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func answersByPrompt(questions []Question, answers map[string]string) map[string]string {
	out := make(map[string]string, len(questions))
	for _, q := range questions {
		if a, ok := answers[q.ID]; ok {
			out[q.Prompt] = a
		}
	}
	return out
}
