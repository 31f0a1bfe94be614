package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	Port        string
	DatabaseURL string
	LogLevel    string
	CORSOrigins []string

	// AuthSecret enables bearer-token auth on /send-mail when non-empty.
	AuthSecret string

	SMTP      SMTPConfig
	Broadcast BroadcastConfig
	Ingest    IngestConfig
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
	Timeout  time.Duration
}

// Configured reports whether both credentials are present.
func (c SMTPConfig) Configured() bool {
	return strings.TrimSpace(c.Username) != "" && strings.TrimSpace(c.Password) != ""
}

type BroadcastConfig struct {
	PauseEvery int
	Pause      time.Duration
	RatePerSec int
}

type IngestConfig struct {
	Dir       string
	Upload    bool
	RulesFile string
	Rules     Rules
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8000"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		AuthSecret:  getEnv("TOKEN_AUTH_SECRET", ""),
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Username: getEnv("EMAIL_USER", ""),
			Password: getEnv("EMAIL_PASS", ""),
			FromName: getEnv("EMAIL_FROM_NAME", "MEDHA Command Center"),
		},
		Ingest: IngestConfig{
			Dir:       getEnv("INGEST_DIR", "./details_for_ai"),
			RulesFile: getEnv("INGEST_RULES_FILE", ""),
		},
	}

	var err error
	if cfg.SMTP.Port, err = getEnvAsInt("SMTP_PORT", 465); err != nil {
		return nil, err
	}
	if cfg.SMTP.Timeout, err = ParseDurationOrDefault("SMTP_TIMEOUT", os.Getenv("SMTP_TIMEOUT"), 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.Broadcast.PauseEvery, err = getEnvAsInt("BROADCAST_PAUSE_EVERY", 10); err != nil {
		return nil, err
	}
	if cfg.Broadcast.Pause, err = ParseDurationOrDefault("BROADCAST_PAUSE", os.Getenv("BROADCAST_PAUSE"), time.Second); err != nil {
		return nil, err
	}
	if cfg.Broadcast.RatePerSec, err = getEnvAsInt("BROADCAST_RATE_PER_SEC", 0); err != nil {
		return nil, err
	}
	if cfg.Ingest.Upload, err = getEnvAsBool("INGEST_UPLOAD", false); err != nil {
		return nil, err
	}

	cfg.Ingest.Rules = DefaultRules()
	if cfg.Ingest.RulesFile != "" {
		rules, err := LoadRules(cfg.Ingest.RulesFile)
		if err != nil {
			return nil, err
		}
		cfg.Ingest.Rules = rules
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, errors.Wrapf(err, "%s: invalid integer %q", key, valueStr)
	}
	if value < 0 {
		return 0, errors.Errorf("%s: must be >= 0", key)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return false, errors.Wrapf(err, "%s: invalid boolean %q", key, valueStr)
	}
	return value, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
