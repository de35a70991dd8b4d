// Package config loads the application configuration from YAML with
// environment overrides for deployment secrets.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts "1h30m" style strings in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err == nil {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", raw, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration value: %w", err)
	}
	*d = Duration(time.Duration(n))
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Session    SessionConfig    `yaml:"session"`
	Backup     BackupConfig     `yaml:"backup"`
	Population PopulationConfig `yaml:"population"`
	Mail       MailConfig       `yaml:"mail"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type ServerConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	EnableCORS bool   `yaml:"enable_cors"`
	Debug      bool   `yaml:"debug"`
}

type SessionConfig struct {
	SecretKey  string   `yaml:"secret_key"`
	CookieName string   `yaml:"cookie_name"`
	Lifetime   Duration `yaml:"lifetime"`
	Secure     bool     `yaml:"secure"`
}

type BackupConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Dir       string `yaml:"dir"`
	SweepSpec string `yaml:"sweep_spec"` // cron expression
}

type PopulationConfig struct {
	// DSN selects Postgres when set; empty runs on the in-memory store.
	DSN       string   `yaml:"dsn"`
	CacheTTL  Duration `yaml:"cache_ttl"`
	Questions string   `yaml:"questions"` // optional quiz catalogue file
}

type MailConfig struct {
	Enabled   bool   `yaml:"enabled"`
	SMTPAddr  string `yaml:"smtp_addr"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	From      string `yaml:"from"`
	Workers   int    `yaml:"workers"`
	QueueSize int    `yaml:"queue_size"`
}

type LoggingConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:       "localhost",
			Port:       8080,
			EnableCORS: true,
		},
		Session: SessionConfig{
			CookieName: "session_id",
			Lifetime:   Duration(time.Hour),
		},
		Backup: BackupConfig{
			Enabled:   true,
			Dir:       "session_backup",
			SweepSpec: "@every 15m",
		},
		Population: PopulationConfig{
			CacheTTL: Duration(time.Hour),
		},
		Mail: MailConfig{
			Workers:   2,
			QueueSize: 64,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "ficore",
		},
	}
}

// Load reads path (when non-empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv lets deployments inject secrets without a config file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("FICORE_SECRET_KEY"); v != "" {
		cfg.Session.SecretKey = v
	}
	if v := os.Getenv("FICORE_POSTGRES_DSN"); v != "" {
		cfg.Population.DSN = v
	}
	if v := os.Getenv("FICORE_SMTP_PASSWORD"); v != "" {
		cfg.Mail.Password = v
	}
	if v := os.Getenv("FICORE_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("FICORE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}

// Validate rejects configurations the server cannot safely run with.
func (c Config) Validate() error {
	if c.Session.SecretKey == "" {
		return fmt.Errorf("session secret key is required (set session.secret_key or FICORE_SECRET_KEY)")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d is out of range", c.Server.Port)
	}
	if c.Session.Lifetime <= 0 {
		return fmt.Errorf("session lifetime must be positive")
	}
	if c.Mail.Enabled && (c.Mail.SMTPAddr == "" || c.Mail.From == "") {
		return fmt.Errorf("mail is enabled but smtp_addr or from is missing")
	}
	if c.Backup.Enabled && c.Backup.Dir == "" {
		return fmt.Errorf("backup is enabled but dir is missing")
	}
	return nil
}
