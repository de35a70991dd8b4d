// Package session persists wizard state across stateless HTTP requests: a
// typed record, a compressing codec, a tamper-evident cookie envelope and a
// manager that glues them to the request cycle.
package session

// Flash is a one-shot notice carried to the next rendered view.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Flash levels.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// BudgetDraft accumulates the budget wizard's fields. Pointer fields are
// nil until the owning step has been submitted.
type BudgetDraft struct {
	Step      int    `json:"step"`
	FirstName string `json:"first_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Language  string `json:"language,omitempty"`
	AutoEmail bool   `json:"auto_email,omitempty"`

	MonthlyIncome     *float64 `json:"monthly_income,omitempty"`
	HousingExpenses   *float64 `json:"housing_expenses,omitempty"`
	FoodExpenses      *float64 `json:"food_expenses,omitempty"`
	TransportExpenses *float64 `json:"transport_expenses,omitempty"`
	OtherExpenses     *float64 `json:"other_expenses,omitempty"`
	SavingsGoal       *float64 `json:"savings_goal,omitempty"`
}

// HealthDraft accumulates the health wizard's fields.
type HealthDraft struct {
	Step      int    `json:"step"`
	FirstName string `json:"first_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Language  string `json:"language,omitempty"`
	AutoEmail bool   `json:"auto_email,omitempty"`

	BusinessName string `json:"business_name,omitempty"`
	UserType     string `json:"user_type,omitempty"`

	Income       *float64 `json:"income_revenue,omitempty"`
	Expenses     *float64 `json:"expenses_costs,omitempty"`
	Debt         *float64 `json:"debt_loan,omitempty"`
	InterestRate *float64 `json:"debt_interest_rate,omitempty"`
}

// QuizDraft accumulates answered quiz questions keyed by question id.
type QuizDraft struct {
	Step      int               `json:"step"`
	FirstName string            `json:"first_name,omitempty"`
	Email     string            `json:"email,omitempty"`
	Language  string            `json:"language,omitempty"`
	AutoEmail bool              `json:"auto_email,omitempty"`
	Answers   map[string]string `json:"answers,omitempty"`
}

// QuizOutcome is the finalized quiz result held until the results view
// renders it once.
type QuizOutcome struct {
	FirstName   string            `json:"first_name,omitempty"`
	Email       string            `json:"email,omitempty"`
	Language    string            `json:"language,omitempty"`
	Personality string            `json:"personality"`
	Description string            `json:"personality_desc"`
	Tip         string            `json:"tip"`
	Badges      []string          `json:"badges,omitempty"`
	Answers     map[string]string `json:"answers,omitempty"`
}

// DashboardData is the finalized health result held until the dashboard
// renders it once.
type DashboardData struct {
	FirstName        string   `json:"first_name,omitempty"`
	Email            string   `json:"email,omitempty"`
	Language         string   `json:"language,omitempty"`
	HealthScore      float64  `json:"health_score"`
	ScoreDescription string   `json:"score_description"`
	CourseTitle      string   `json:"course_title"`
	CourseURL        string   `json:"course_url"`
	Rank             int      `json:"rank"`
	TotalUsers       int      `json:"total_users"`
	Badges           []string `json:"badges,omitempty"`
}

// Record is the full per-visitor session state. Field tags are the wire
// mapping: the JSON form is what the codec compresses and what the backup
// store writes. At most one active draft is populated at a time; a
// finalized outcome may briefly coexist before its one-shot view clears it.
type Record struct {
	Language string `json:"language,omitempty"`
	// Email is the last-known identity, kept even after drafts are
	// cleared so a cookie that lost its draft can still be restored.
	Email string `json:"email,omitempty"`

	Budget      *BudgetDraft   `json:"budget_data,omitempty"`
	Health      *HealthDraft   `json:"health_data,omitempty"`
	Quiz        *QuizDraft     `json:"quiz_data,omitempty"`
	QuizResults *QuizOutcome   `json:"quiz_results,omitempty"`
	Dashboard   *DashboardData `json:"dashboard_data,omitempty"`

	Flashes []Flash `json:"_flashes,omitempty"`

	modified bool
}

// NewRecord returns an empty, unmodified record.
func NewRecord() *Record {
	return &Record{}
}

// Touch marks the record as needing a cookie rewrite.
func (r *Record) Touch() { r.modified = true }

// Modified reports whether the record changed during this request.
func (r *Record) Modified() bool { return r.modified }

// IsZero reports whether nothing worth persisting remains.
func (r *Record) IsZero() bool {
	return r.Language == "" && r.Email == "" &&
		r.Budget == nil && r.Health == nil && r.Quiz == nil &&
		r.QuizResults == nil && r.Dashboard == nil && len(r.Flashes) == 0
}

// ActiveEmpty reports whether the record carries none of the keys that mark
// a live wizard: this is the signal that the compressed cookie was lost and
// a backup restore may apply.
func (r *Record) ActiveEmpty() bool {
	return r.Budget == nil && r.Health == nil && r.QuizResults == nil
}

// Identity returns the best-known email for this visitor: the bare identity
// field first, then whichever draft captured one.
func (r *Record) Identity() string {
	if r.Email != "" {
		return r.Email
	}
	if r.Budget != nil && r.Budget.Email != "" {
		return r.Budget.Email
	}
	if r.Health != nil && r.Health.Email != "" {
		return r.Health.Email
	}
	if r.Quiz != nil && r.Quiz.Email != "" {
		return r.Quiz.Email
	}
	if r.QuizResults != nil && r.QuizResults.Email != "" {
		return r.QuizResults.Email
	}
	return ""
}

// SetIdentity records the last-known email.
func (r *Record) SetIdentity(email string) {
	if email == "" || r.Email == email {
		return
	}
	r.Email = email
	r.modified = true
}

// AddFlash queues a one-shot notice.
func (r *Record) AddFlash(level, message string) {
	r.Flashes = append(r.Flashes, Flash{Level: level, Message: message})
	r.modified = true
}

// TakeFlashes drains and returns queued notices.
func (r *Record) TakeFlashes() []Flash {
	if len(r.Flashes) == 0 {
		return nil
	}
	out := r.Flashes
	r.Flashes = nil
	r.modified = true
	return out
}

// Clear wipes the record. Used on logout.
func (r *Record) Clear() {
	*r = Record{modified: true}
}

// ClearBudget pops the budget draft (one-shot dashboard semantics).
func (r *Record) ClearBudget() {
	if r.Budget == nil {
		return
	}
	r.Budget = nil
	r.modified = true
}

// ClearHealth pops the health draft and its dashboard payload.
func (r *Record) ClearHealth() {
	if r.Health == nil && r.Dashboard == nil {
		return
	}
	r.Health = nil
	r.Dashboard = nil
	r.modified = true
}

// ClearQuiz pops the quiz draft and its results payload.
func (r *Record) ClearQuiz() {
	if r.Quiz == nil && r.QuizResults == nil {
		return
	}
	r.Quiz = nil
	r.QuizResults = nil
	r.modified = true
}
