// Command ficore serves the financial wizard flows: budget planning, a
// financial health score and the money personality quiz.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"ficore/internal/config"
	"ficore/internal/errs"
	"ficore/internal/logging"
	"ficore/internal/mailer"
	"ficore/internal/metrics"
	"ficore/internal/population"
	"ficore/internal/render"
	"ficore/internal/session"
	"ficore/internal/session/backup"
	"ficore/internal/webui"
	"ficore/internal/wizard"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ficore: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logging.Configure(cfg.Logging.Path, parseLevel(cfg.Logging.Level))
	logger := logging.NewComponentLogger("main")

	var registry *prometheus.Registry
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		m, err = metrics.New(cfg.Metrics.Namespace, registry)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Session layer: cookie envelope plus the per-identity backup mirror.
	env, err := session.NewEnvelope(cfg.Session.SecretKey, cfg.Session.Lifetime.Std(), logging.NewComponentLogger("session"), m)
	if err != nil {
		return err
	}
	var backupStore session.BackupStore
	var sweeper *backup.Sweeper
	if cfg.Backup.Enabled {
		store, err := backup.NewStore(cfg.Backup.Dir, logging.NewComponentLogger("backup"), m)
		if err != nil {
			return err
		}
		backupStore = store
		sweeper = backup.NewSweeper(store, cfg.Session.Lifetime.Std(), logging.NewComponentLogger("backup-sweep"))
		if err := sweeper.Start(cfg.Backup.SweepSpec); err != nil {
			return fmt.Errorf("backup sweeper: %w", err)
		}
		defer sweeper.Stop()
	}
	sessions := session.NewManager(env, backupStore, session.ManagerConfig{
		CookieName: cfg.Session.CookieName,
		Lifetime:   cfg.Session.Lifetime.Std(),
		Secure:     cfg.Session.Secure,
	}, logging.NewComponentLogger("session"), m)

	// Population store: Postgres when a DSN is configured, memory otherwise,
	// always wrapped with retry and a read cache.
	popLogger := logging.NewComponentLogger("population")
	var base population.Store
	if cfg.Population.DSN != "" {
		pool, err := pgxpool.New(ctx, cfg.Population.DSN)
		if err != nil {
			return fmt.Errorf("postgres pool: %w", err)
		}
		defer pool.Close()
		pg, err := population.NewPostgresStore(pool)
		if err != nil {
			return err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			return err
		}
		base = pg
		logger.Info("population store: postgres")
	} else {
		base = population.NewMemoryStore()
		logger.Warn("population store: in-memory (set population.dsn for durability)")
	}
	store := population.NewCachedStore(
		population.NewRetryingStore(base, errs.DefaultRetryConfig(), popLogger),
		cfg.Population.CacheTTL.Std(),
	)

	// Quiz catalogue.
	questions := wizard.DefaultQuestions()
	if cfg.Population.Questions != "" {
		questions, err = wizard.LoadQuestions(cfg.Population.Questions)
		if err != nil {
			return err
		}
	}

	// Outbound report mail.
	var notifier wizard.Notifier
	if cfg.Mail.Enabled {
		sender, err := mailer.NewSMTPSender(mailer.SMTPConfig{
			Addr:     cfg.Mail.SMTPAddr,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		})
		if err != nil {
			return err
		}
		dispatcher := mailer.NewDispatcher(sender, cfg.Mail.Workers, cfg.Mail.QueueSize, logging.NewComponentLogger("mailer"), m)
		defer dispatcher.Close()
		notifier = mailer.NewReporter(dispatcher)
	}

	machine := wizard.NewMachine(questions, logging.NewComponentLogger("wizard"))
	finalizer := wizard.NewFinalizer(store, notifier, questions, m, logging.NewComponentLogger("wizard"))

	server := webui.NewServer(webui.ServerConfig{
		Host:       cfg.Server.Host,
		Port:       cfg.Server.Port,
		EnableCORS: cfg.Server.EnableCORS,
		Debug:      cfg.Server.Debug,
	}, sessions, machine, finalizer, render.JSON{}, registry, logging.NewComponentLogger("webui"))

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func parseLevel(level string) logging.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logging.DEBUG
	case "warn", "warning":
		return logging.WARN
	case "error":
		return logging.ERROR
	default:
		return logging.INFO
	}
}
