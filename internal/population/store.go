// Package population stores one append-only worksheet of submission rows per
// flow and serves the reads the ranking and badge logic needs.
package population

import (
	"context"
	"fmt"
)

// Flow names a worksheet.
type Flow string

// Worksheets.
const (
	FlowBudget Flow = "Budget"
	FlowHealth Flow = "Health"
	FlowQuiz   Flow = "Quiz"
)

var budgetHeaders = []string{
	"Timestamp", "first_name", "email", "language", "monthly_income",
	"housing_expenses", "food_expenses", "transport_expenses", "other_expenses",
	"savings_goal", "auto_email", "total_expenses", "savings", "surplus_deficit",
	"badges", "rank", "total_users",
}

var healthHeaders = []string{
	"Timestamp", "business_name", "income_revenue", "expenses_costs", "debt_loan",
	"debt_interest_rate", "auto_email", "phone_number", "first_name", "last_name",
	"user_type", "email", "badges", "language",
}

var quizHeaders = []string{
	"Timestamp", "first_name", "email", "language",
	"question_1", "question_2", "question_3", "question_4", "question_5",
	"question_6", "question_7", "question_8", "question_9", "question_10",
	"answer_1", "answer_2", "answer_3", "answer_4", "answer_5",
	"answer_6", "answer_7", "answer_8", "answer_9", "answer_10",
	"personality", "badges", "auto_email",
}

// Headers returns the fixed column schema for a flow.
func Headers(flow Flow) []string {
	switch flow {
	case FlowBudget:
		return budgetHeaders
	case FlowHealth:
		return healthHeaders
	case FlowQuiz:
		return quizHeaders
	}
	return nil
}

// ColumnIndex returns the position of a named column, or -1.
func ColumnIndex(flow Flow, name string) int {
	for i, h := range Headers(flow) {
		if h == name {
			return i
		}
	}
	return -1
}

// ValidateRow rejects rows whose width does not match the flow's schema.
// Width drift is how a schema bug silently corrupts every later read, so it
// fails loudly at the write.
func ValidateRow(flow Flow, row []string) error {
	want := len(Headers(flow))
	if want == 0 {
		return fmt.Errorf("population: unknown flow %q", flow)
	}
	if len(row) != want {
		return fmt.Errorf("population: %s row has %d cells, schema has %d", flow, len(row), want)
	}
	return nil
}

// Store is the append-only worksheet backend.
type Store interface {
	// Append adds one row to the flow's worksheet. The row must match the
	// flow's schema width.
	Append(ctx context.Context, flow Flow, row []string) error
	// Rows returns every stored row for the flow in append order.
	Rows(ctx context.Context, flow Flow) ([][]string, error)
}
