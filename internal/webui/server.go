// Package webui serves the wizard flows over HTTP.
package webui

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ficore/internal/logging"
	"ficore/internal/render"
	"ficore/internal/session"
	"ficore/internal/wizard"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host         string
	Port         int
	EnableCORS   bool
	Debug        bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns sensible listener defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "localhost",
		Port:         8080,
		EnableCORS:   true,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server wires the session middleware, wizard handlers and metrics endpoint
// into one gin engine.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	logger     logging.Logger
	startTime  time.Time
}

// NewServer builds the HTTP server around the wizard components. registry
// may be nil to skip the metrics endpoint.
func NewServer(
	cfg ServerConfig,
	sessions *session.Manager,
	machine *wizard.Machine,
	finalizer *wizard.Finalizer,
	renderer render.Renderer,
	registry *prometheus.Registry,
	logger logging.Logger,
) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if renderer == nil {
		renderer = render.JSON{}
	}

	engine := gin.New()
	engine.Use(gin.Logger())
	engine.Use(gin.Recovery())

	if cfg.EnableCORS {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Requested-With"}
		engine.Use(cors.New(corsConfig))
	}

	s := &Server{
		engine:    engine,
		logger:    logging.OrNop(logger),
		startTime: time.Now(),
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	h := newHandlers(sessions, machine, finalizer, renderer, s.logger)
	s.setupRoutes(sessions, h, registry)
	return s
}

func (s *Server) setupRoutes(sessions *session.Manager, h *handlers, registry *prometheus.Registry) {
	s.engine.GET("/healthz", s.handleHealthz)
	if registry != nil {
		s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	app := s.engine.Group("/")
	app.Use(session.Middleware(sessions))
	{
		app.GET("/", h.index)
		app.POST("/language", h.setLanguage)
		app.GET("/logout", h.logout)

		app.GET("/budget/step/:n", h.showStep(wizard.FlowBudget))
		app.POST("/budget/step/:n", h.submitStep(wizard.FlowBudget))
		app.GET("/budget/dashboard", h.budgetDashboard)

		app.GET("/health/step/:n", h.showStep(wizard.FlowHealth))
		app.POST("/health/step/:n", h.submitStep(wizard.FlowHealth))
		app.GET("/health/dashboard", h.healthDashboard)

		app.GET("/quiz/step/:n", h.showStep(wizard.FlowQuiz))
		app.POST("/quiz/step/:n", h.submitStep(wizard.FlowQuiz))
		app.GET("/quiz/results", h.quizResults)
	}
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	})
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Start serves until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.logger.Info("starting web server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping web server")
	return s.httpServer.Shutdown(ctx)
}
