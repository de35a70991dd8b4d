package mailer

import (
	"fmt"
	"strings"

	"ficore/internal/scoring"
)

// Reporter formats flow results into report emails and hands them to the
// dispatcher. It satisfies the wizard's Notifier contract.
type Reporter struct {
	dispatcher *Dispatcher
}

func NewReporter(d *Dispatcher) *Reporter {
	return &Reporter{dispatcher: d}
}

func greeting(firstName, language string) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "there"
	}
	if language == "ha" {
		return fmt.Sprintf("Sannu %s,", name)
	}
	return fmt.Sprintf("Hello %s,", name)
}

// BudgetReport mails the monthly budget summary.
func (r *Reporter) BudgetReport(email, firstName string, res scoring.BudgetResult, language string) {
	body := fmt.Sprintf(`%s

Here is your budget summary:

  Total expenses:   %.2f
  Planned savings:  %.2f
  Surplus/Deficit:  %.2f
  Status:           %s

%s
`, greeting(firstName, language), res.TotalExpenses, res.Savings, res.SurplusDeficit, res.Category, res.Advice)
	r.dispatcher.Enqueue(Message{To: email, Subject: "Your Budget Report", Body: body})
}

// HealthReport mails the financial health summary.
func (r *Reporter) HealthReport(email, firstName string, res scoring.HealthResult, language string) {
	body := fmt.Sprintf(`%s

Your financial health score is %.2f out of 100.

  Category: %s
  Advice:   %s

Recommended course: %s
%s
`, greeting(firstName, language), res.Score, res.Category, res.Advice, res.CourseTitle, res.CourseURL)
	r.dispatcher.Enqueue(Message{To: email, Subject: "Your Financial Health Report", Body: body})
}

// QuizReport mails the personality quiz outcome.
func (r *Reporter) QuizReport(email, firstName string, res scoring.QuizResult, language string) {
	body := fmt.Sprintf(`%s

Your money personality is: %s

%s

Tip: %s
`, greeting(firstName, language), res.Personality, res.Description, res.Tip)
	r.dispatcher.Enqueue(Message{To: email, Subject: "Your Money Personality Result", Body: body})
}
