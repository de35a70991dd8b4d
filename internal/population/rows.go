package population

import (
	"strconv"
	"strings"
	"time"

	"ficore/internal/scoring"
	"ficore/internal/session"
)

// rowTimestamp is the worksheet timestamp layout.
const rowTimestamp = "2006-01-02 15:04:05"

func cell(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func boolCell(v bool) string {
	return strconv.FormatBool(v)
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// CellFloat parses a numeric cell, tolerating thousands separators.
func CellFloat(row []string, idx int) (float64, bool) {
	if idx < 0 || idx >= len(row) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(row[idx]), ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// BudgetRow builds the budget worksheet row for a finalized draft. Rank and
// total users are written as zero placeholders: they are recomputed against
// the live population on every dashboard read.
func BudgetRow(draft *session.BudgetDraft, res scoring.BudgetResult, badges []string, now time.Time) []string {
	return []string{
		now.Format(rowTimestamp),
		draft.FirstName,
		draft.Email,
		draft.Language,
		cell(deref(draft.MonthlyIncome)),
		cell(deref(draft.HousingExpenses)),
		cell(deref(draft.FoodExpenses)),
		cell(deref(draft.TransportExpenses)),
		cell(deref(draft.OtherExpenses)),
		cell(deref(draft.SavingsGoal)),
		boolCell(draft.AutoEmail),
		cell(res.TotalExpenses),
		cell(res.Savings),
		cell(res.SurplusDeficit),
		strings.Join(badges, ", "),
		"0",
		"0",
	}
}

// HealthRow builds the health worksheet row. The row stores raw inputs only;
// scores are derived on read so a formula change reranks history too.
func HealthRow(draft *session.HealthDraft, now time.Time) []string {
	return []string{
		now.Format(rowTimestamp),
		draft.BusinessName,
		cell(deref(draft.Income)),
		cell(deref(draft.Expenses)),
		cell(deref(draft.Debt)),
		cell(deref(draft.InterestRate)),
		boolCell(draft.AutoEmail),
		"",
		draft.FirstName,
		"",
		draft.UserType,
		draft.Email,
		"",
		draft.Language,
	}
}

// QuizRow builds the quiz worksheet row: question prompts and the visitor's
// answers in catalogue order, then the assigned personality.
func QuizRow(draft *session.QuizDraft, prompts, answers []string, personality string, badges []string, now time.Time) []string {
	row := make([]string, 0, len(quizHeaders))
	row = append(row,
		now.UTC().Format(rowTimestamp)+" UTC",
		draft.FirstName,
		draft.Email,
		draft.Language,
	)
	for i := 0; i < 10; i++ {
		if i < len(prompts) {
			row = append(row, prompts[i])
		} else {
			row = append(row, "")
		}
	}
	for i := 0; i < 10; i++ {
		if i < len(answers) {
			row = append(row, answers[i])
		} else {
			row = append(row, "")
		}
	}
	return append(row, personality, strings.Join(badges, ","), boolCell(draft.AutoEmail))
}

// Column positions read back by the ranking paths.
var (
	budgetSurplusCol    = ColumnIndex(FlowBudget, "surplus_deficit")
	budgetEmailCol      = ColumnIndex(FlowBudget, "email")
	healthEmailCol      = ColumnIndex(FlowHealth, "email")
	healthIncomeCol     = ColumnIndex(FlowHealth, "income_revenue")
	healthExpensesCol   = ColumnIndex(FlowHealth, "expenses_costs")
	healthDebtCol       = ColumnIndex(FlowHealth, "debt_loan")
	healthInterestCol   = ColumnIndex(FlowHealth, "debt_interest_rate")
	quizEmailCol        = ColumnIndex(FlowQuiz, "email")
	quizFirstAnswerCol  = ColumnIndex(FlowQuiz, "answer_1")
	quizAnswerColsCount = 10
)

// BudgetSurpluses extracts every row's surplus for ranking. Rows with an
// unparseable cell are skipped rather than poisoning the whole read.
func BudgetSurpluses(rows [][]string) []float64 {
	out := make([]float64, 0, len(rows))
	for _, row := range rows {
		if v, ok := CellFloat(row, budgetSurplusCol); ok {
			out = append(out, v)
		}
	}
	return out
}

// HealthScores recomputes the composite score for every stored row from its
// raw input columns.
func HealthScores(rows [][]string) []float64 {
	out := make([]float64, 0, len(rows))
	for _, row := range rows {
		income, ok := CellFloat(row, healthIncomeCol)
		if !ok {
			continue
		}
		expenses, _ := CellFloat(row, healthExpensesCol)
		debt, _ := CellFloat(row, healthDebtCol)
		rate, _ := CellFloat(row, healthInterestCol)
		res := scoring.Health(scoring.HealthInput{
			Income:       income,
			Expenses:     expenses,
			Debt:         debt,
			InterestRate: rate,
		})
		out = append(out, res.Score)
	}
	return out
}

// QuizAnswers returns a row's ten answer cells in catalogue order.
func QuizAnswers(row []string) []string {
	if quizFirstAnswerCol < 0 || len(row) < quizFirstAnswerCol+quizAnswerColsCount {
		return nil
	}
	return row[quizFirstAnswerCol : quizFirstAnswerCol+quizAnswerColsCount]
}

// CountByEmail counts a flow's rows belonging to an identity, the submission
// history length the badge rules key off.
func CountByEmail(flow Flow, rows [][]string, email string) int {
	col := -1
	switch flow {
	case FlowBudget:
		col = budgetEmailCol
	case FlowHealth:
		col = healthEmailCol
	case FlowQuiz:
		col = quizEmailCol
	}
	if col < 0 || email == "" {
		return 0
	}
	n := 0
	for _, row := range rows {
		if col < len(row) && row[col] == email {
			n++
		}
	}
	return n
}
