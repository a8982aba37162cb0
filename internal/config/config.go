package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Output  OutputConfig  `yaml:"output"`
	Hermes  HermesConfig  `yaml:"hermes"`
	Mail    MailConfig    `yaml:"mail"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Port               int   `yaml:"port"`
	MetricsPort        int   `yaml:"metrics_port"`
	MaxUploadBytes     int64 `yaml:"max_upload_bytes"`
	RateLimitPerMinute int   `yaml:"rate_limit_per_minute"`
}

type OutputConfig struct {
	// Precision is the number of decimals written for scores; -1 writes the
	// shortest exact representation.
	Precision int `yaml:"precision"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

// MailConfig holds SMTP delivery settings. Credentials are only ever read from
// the config file or the environment.
type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	Subject  string `yaml:"subject"`
}

// Enabled reports whether enough is configured to send mail.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.Username != "" && m.From != ""
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               8700,
			MetricsPort:        8701,
			MaxUploadBytes:     10 << 20,
			RateLimitPerMinute: 120,
		},
		Output: OutputConfig{
			Precision: 6,
		},
		Hermes: HermesConfig{
			URL: "nats://localhost:4222",
		},
		Mail: MailConfig{
			Host:    "smtp.gmail.com",
			Port:    465,
			Subject: "TOPSIS Result File",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.MetricsPort <= 0 || c.Server.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port %d", c.Server.MetricsPort)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes)
	}
	if c.Server.RateLimitPerMinute <= 0 {
		return fmt.Errorf("rate_limit_per_minute must be positive, got %d", c.Server.RateLimitPerMinute)
	}
	if c.Output.Precision < -1 {
		return fmt.Errorf("output precision must be >= -1, got %d", c.Output.Precision)
	}
	if c.Mail.Port < 0 || c.Mail.Port > 65535 {
		return fmt.Errorf("invalid mail port %d", c.Mail.Port)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TOPSIS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("TOPSIS_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("TOPSIS_MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Server.MaxUploadBytes = n
		}
	}
	if v := os.Getenv("TOPSIS_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimitPerMinute = n
		}
	}
	if v := os.Getenv("TOPSIS_OUTPUT_PRECISION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Output.Precision = n
		}
	}
	if v, ok := os.LookupEnv("TOPSIS_HERMES_URL"); ok {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("TOPSIS_SMTP_HOST"); v != "" {
		cfg.Mail.Host = v
	}
	if v := os.Getenv("TOPSIS_SMTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Mail.Port = n
		}
	}
	if v := os.Getenv("TOPSIS_SMTP_USERNAME"); v != "" {
		cfg.Mail.Username = v
	}
	if v := os.Getenv("TOPSIS_SMTP_PASSWORD"); v != "" {
		cfg.Mail.Password = v
	}
	if v := os.Getenv("TOPSIS_SMTP_FROM"); v != "" {
		cfg.Mail.From = v
	}
	if v := os.Getenv("TOPSIS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TOPSIS_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
