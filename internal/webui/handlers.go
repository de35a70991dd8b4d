package webui

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ficore/internal/errs"
	"ficore/internal/logging"
	"ficore/internal/render"
	"ficore/internal/session"
	"ficore/internal/wizard"
)

type handlers struct {
	sessions  *session.Manager
	machine   *wizard.Machine
	finalizer *wizard.Finalizer
	render    render.Renderer
	logger    logging.Logger
}

func newHandlers(sessions *session.Manager, machine *wizard.Machine, finalizer *wizard.Finalizer, renderer render.Renderer, logger logging.Logger) *handlers {
	return &handlers{
		sessions:  sessions,
		machine:   machine,
		finalizer: finalizer,
		render:    renderer,
		logger:    logger,
	}
}

func flowPath(flow wizard.FlowKind, n int) string {
	return fmt.Sprintf("/%s/step/%d", flow, n)
}

// flash queues a translated one-shot notice.
func flash(rec *session.Record, level, key string) {
	rec.AddFlash(level, render.Translate(rec.Language, key))
}

func (h *handlers) index(c *gin.Context) {
	h.render.View(c, http.StatusOK, "index", gin.H{
		"flows": []string{string(wizard.FlowBudget), string(wizard.FlowHealth), string(wizard.FlowQuiz)},
	})
}

func (h *handlers) setLanguage(c *gin.Context) {
	lang := c.PostForm("language")
	if lang != "en" && lang != "ha" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported language"})
		return
	}
	rec := session.FromContext(c)
	rec.Language = lang
	rec.Touch()
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *handlers) logout(c *gin.Context) {
	rec := session.FromContext(c)
	if identity := rec.Identity(); identity != "" {
		h.sessions.DeleteBackup(identity)
	}
	rec.Clear()
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *handlers) stepNumber(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such step"})
		return 0, false
	}
	return n, true
}

func (h *handlers) showStep(flow wizard.FlowKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, ok := h.stepNumber(c)
		if !ok {
			return
		}
		step, err := h.machine.Step(flow, n)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such step"})
			return
		}

		data := gin.H{
			"flow":  string(flow),
			"step":  n,
			"name":  step.Name,
			"final": step.Final,
		}
		if len(step.Fields) > 0 {
			fields := make([]gin.H, 0, len(step.Fields))
			for _, f := range step.Fields {
				fields = append(fields, gin.H{"name": f.Name, "label": f.Label, "required": f.Required})
			}
			data["fields"] = fields
		}
		if len(step.Questions) > 0 {
			questions := make([]gin.H, 0, len(step.Questions))
			for _, q := range step.Questions {
				questions = append(questions, gin.H{"id": q.ID, "prompt": q.Prompt, "options": q.Options})
			}
			data["questions"] = questions
		}
		h.render.View(c, http.StatusOK, step.Name, data)
	}
}

func (h *handlers) submitStep(flow wizard.FlowKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, ok := h.stepNumber(c)
		if !ok {
			return
		}
		rec := session.FromContext(c)

		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed form"})
			return
		}
		form := make(wizard.Form, len(c.Request.PostForm))
		for key, values := range c.Request.PostForm {
			if len(values) > 0 {
				form[key] = values[0]
			}
		}

		// The back button discards this screen's values.
		if _, back := form["back"]; back {
			c.Redirect(http.StatusSeeOther, flowPath(flow, h.machine.Back(flow, n)))
			return
		}

		next, err := h.machine.Submit(rec, flow, n, form)
		switch {
		case err == nil:
		case errs.IsValidation(err):
			var verr *errs.ValidationError
			errors.As(err, &verr)
			flash(rec, session.FlashError, render.MsgInvalidInput)
			h.render.View(c, http.StatusUnprocessableEntity, "validation_error", gin.H{
				"flow":   string(flow),
				"step":   n,
				"fields": verr.Fields,
			})
			return
		case errs.IsSessionExpired(err):
			flash(rec, session.FlashError, render.MsgSessionExpired)
			c.Redirect(http.StatusSeeOther, flowPath(flow, 1))
			return
		default:
			c.JSON(http.StatusNotFound, gin.H{"error": "no such step"})
			return
		}

		if next != wizard.Done {
			c.Redirect(http.StatusSeeOther, flowPath(flow, next))
			return
		}
		h.finalize(c, flow, rec)
	}
}

// finalize seals a completed flow and routes to its result view. Backend and
// computation failures send the user back to step 1 with a notice; their
// draft stays in the session so nothing retyped is lost.
func (h *handlers) finalize(c *gin.Context, flow wizard.FlowKind, rec *session.Record) {
	var autoEmail bool
	var resultPath string
	var err error

	ctx := c.Request.Context()
	switch flow {
	case wizard.FlowBudget:
		autoEmail = rec.Budget != nil && rec.Budget.AutoEmail
		_, _, err = h.finalizer.FinalizeBudget(ctx, rec)
		resultPath = "/budget/dashboard"
	case wizard.FlowHealth:
		autoEmail = rec.Health != nil && rec.Health.AutoEmail
		_, err = h.finalizer.FinalizeHealth(ctx, rec)
		resultPath = "/health/dashboard"
	case wizard.FlowQuiz:
		autoEmail = rec.Quiz != nil && rec.Quiz.AutoEmail
		_, err = h.finalizer.FinalizeQuiz(ctx, rec)
		resultPath = "/quiz/results"
	}

	switch {
	case err == nil:
	case errs.IsSessionExpired(err):
		flash(rec, session.FlashError, render.MsgSessionExpired)
		c.Redirect(http.StatusSeeOther, flowPath(flow, 1))
		return
	case errs.IsBackendUnavailable(err):
		h.logger.Error("%s finalize hit unavailable backend: %v", flow, err)
		flash(rec, session.FlashError, render.MsgStoreError)
		c.Redirect(http.StatusSeeOther, flowPath(flow, 1))
		return
	default:
		h.logger.Error("%s finalize failed: %v", flow, err)
		flash(rec, session.FlashError, render.MsgTryAgain)
		c.Redirect(http.StatusSeeOther, flowPath(flow, 1))
		return
	}

	if autoEmail {
		flash(rec, session.FlashSuccess, render.MsgCheckInbox)
	}
	flash(rec, session.FlashSuccess, render.MsgSubmissionSuccess)
	c.Redirect(http.StatusSeeOther, resultPath)
}

// budgetDashboard recomputes the sealed result with its live rank, renders
// it once and pops the draft.
func (h *handlers) budgetDashboard(c *gin.Context) {
	rec := session.FromContext(c)
	summary, err := h.finalizer.BudgetDashboard(c.Request.Context(), rec)
	if err != nil {
		if errs.IsBackendUnavailable(err) {
			flash(rec, session.FlashError, render.MsgStoreError)
		} else {
			flash(rec, session.FlashError, render.MsgSessionExpired)
		}
		c.Redirect(http.StatusSeeOther, flowPath(wizard.FlowBudget, 1))
		return
	}
	h.render.View(c, http.StatusOK, "budget_dashboard", gin.H{
		"first_name":      summary.FirstName,
		"total_expenses":  summary.Result.TotalExpenses,
		"savings":         summary.Result.Savings,
		"surplus_deficit": summary.Result.SurplusDeficit,
		"category":        summary.Result.Category,
		"advice":          summary.Result.Advice,
		"badges":          summary.Badges,
		"rank":            summary.Rank,
		"total_users":     summary.TotalUsers,
	})
	rec.ClearBudget()
}

// healthDashboard renders the staged result once and pops it.
func (h *handlers) healthDashboard(c *gin.Context) {
	rec := session.FromContext(c)
	dd := rec.Dashboard
	if dd == nil {
		flash(rec, session.FlashError, render.MsgSessionExpired)
		c.Redirect(http.StatusSeeOther, flowPath(wizard.FlowHealth, 1))
		return
	}
	h.render.View(c, http.StatusOK, "health_dashboard", gin.H{
		"first_name":        dd.FirstName,
		"health_score":      dd.HealthScore,
		"score_description": dd.ScoreDescription,
		"course_title":      dd.CourseTitle,
		"course_url":        dd.CourseURL,
		"rank":              dd.Rank,
		"total_users":       dd.TotalUsers,
		"badges":            dd.Badges,
	})
	rec.ClearHealth()
}

// quizResults renders the staged outcome once and pops it.
func (h *handlers) quizResults(c *gin.Context) {
	rec := session.FromContext(c)
	outcome := rec.QuizResults
	if outcome == nil {
		flash(rec, session.FlashError, render.MsgSessionExpired)
		c.Redirect(http.StatusSeeOther, flowPath(wizard.FlowQuiz, 1))
		return
	}
	h.render.View(c, http.StatusOK, "quiz_results", gin.H{
		"first_name":       outcome.FirstName,
		"personality":      outcome.Personality,
		"personality_desc": outcome.Description,
		"tip":              outcome.Tip,
		"badges":           outcome.Badges,
		"answers":          outcome.Answers,
	})
	rec.ClearQuiz()
}
