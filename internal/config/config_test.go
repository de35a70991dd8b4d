package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSecret(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret key")
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("FICORE_SECRET_KEY", "env-secret")
	t.Setenv("FICORE_PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.Session.SecretKey)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.Session.Lifetime.Std())
	assert.True(t, cfg.Backup.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	doc := `
server:
  host: 0.0.0.0
  port: 8000
session:
  secret_key: file-secret
  lifetime: 30m
mail:
  enabled: true
  smtp_addr: smtp.example.com:587
  from: reports@example.com
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "file-secret", cfg.Session.SecretKey)
	assert.Equal(t, 30*time.Minute, cfg.Session.Lifetime.Std())
	assert.Equal(t, "smtp.example.com:587", cfg.Mail.SMTPAddr)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Session.SecretKey = "x"

	bad := cfg
	bad.Server.Port = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Mail.Enabled = true
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Backup.Dir = ""
	assert.Error(t, bad.Validate())

	assert.NoError(t, cfg.Validate())
}
