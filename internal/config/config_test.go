package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var envVars = []string{
	"TOPSIS_PORT", "TOPSIS_METRICS_PORT", "TOPSIS_MAX_UPLOAD_BYTES", "TOPSIS_RATE_LIMIT",
	"TOPSIS_OUTPUT_PRECISION", "TOPSIS_HERMES_URL", "TOPSIS_SMTP_HOST", "TOPSIS_SMTP_PORT",
	"TOPSIS_SMTP_USERNAME", "TOPSIS_SMTP_PASSWORD", "TOPSIS_SMTP_FROM",
	"TOPSIS_LOG_LEVEL", "TOPSIS_LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8700 {
		t.Errorf("expected port 8700, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected metrics port 8701, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.MaxUploadBytes != 10<<20 {
		t.Errorf("expected 10MiB upload limit, got %d", cfg.Server.MaxUploadBytes)
	}
	if cfg.Server.RateLimitPerMinute != 120 {
		t.Errorf("expected rate limit 120, got %d", cfg.Server.RateLimitPerMinute)
	}
	if cfg.Output.Precision != 6 {
		t.Errorf("expected precision 6, got %d", cfg.Output.Precision)
	}
	if cfg.Hermes.URL != "nats://localhost:4222" {
		t.Errorf("expected nats URL, got %s", cfg.Hermes.URL)
	}
	if cfg.Mail.Host != "smtp.gmail.com" || cfg.Mail.Port != 465 {
		t.Errorf("expected smtp.gmail.com:465, got %s:%d", cfg.Mail.Host, cfg.Mail.Port)
	}
	if cfg.Mail.Username != "" || cfg.Mail.Password != "" {
		t.Error("no mail credentials may be compiled in")
	}
	if cfg.Mail.Enabled() {
		t.Error("mail must be disabled without credentials")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got '%s'", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format 'json', got '%s'", cfg.Logging.Format)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "topsis.yaml")
	content := `
server:
  port: 9000
output:
  precision: -1
mail:
  username: ranker@example.com
  from: ranker@example.com
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected default metrics port kept, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Output.Precision != -1 {
		t.Errorf("expected precision -1, got %d", cfg.Output.Precision)
	}
	if !cfg.Mail.Enabled() {
		t.Error("expected mail enabled with username and from set")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOPSIS_PORT", "9100")
	t.Setenv("TOPSIS_OUTPUT_PRECISION", "3")
	t.Setenv("TOPSIS_HERMES_URL", "")
	t.Setenv("TOPSIS_SMTP_USERNAME", "bot@example.com")
	t.Setenv("TOPSIS_SMTP_PASSWORD", "s3cret")
	t.Setenv("TOPSIS_SMTP_FROM", "bot@example.com")
	t.Setenv("TOPSIS_LOG_FORMAT", "text")
	t.Setenv("TOPSIS_RATE_LIMIT", "not-a-number")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("expected port 9100, got %d", cfg.Server.Port)
	}
	if cfg.Output.Precision != 3 {
		t.Errorf("expected precision 3, got %d", cfg.Output.Precision)
	}
	if cfg.Hermes.URL != "" {
		t.Errorf("expected hermes disabled by empty env, got %q", cfg.Hermes.URL)
	}
	if cfg.Mail.Password != "s3cret" || !cfg.Mail.Enabled() {
		t.Error("expected mail credentials from env")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected text format, got %s", cfg.Logging.Format)
	}
	if cfg.Server.RateLimitPerMinute != 120 {
		t.Errorf("unparseable env must keep default, got %d", cfg.Server.RateLimitPerMinute)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"huge metrics port", func(c *Config) { c.Server.MetricsPort = 70000 }},
		{"negative upload", func(c *Config) { c.Server.MaxUploadBytes = -1 }},
		{"zero rate limit", func(c *Config) { c.Server.RateLimitPerMinute = 0 }},
		{"precision below -1", func(c *Config) { c.Output.Precision = -2 }},
		{"negative mail port", func(c *Config) { c.Mail.Port = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LoggingConfig{Level: "warn", Format: "text"}.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message logged at warn level")
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "k=v") {
		t.Errorf("expected text-format warn line, got %q", out)
	}

	buf.Reset()
	LoggingConfig{Level: "bogus", Format: "json"}.NewLogger(&buf).Info("json line")
	if !strings.Contains(buf.String(), `"msg":"json line"`) {
		t.Errorf("expected JSON output at info level, got %q", buf.String())
	}
}
