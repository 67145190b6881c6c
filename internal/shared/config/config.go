package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"cvmatch-backend/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string

	ReportsDir          string
	FeedbackDir         string
	ReportRetentionDays int
	MaxContentSizeKB    int

	LLMProvider      string
	GroqAPIKey       string
	OpenRouterAPIKey string
	DefaultModel     string
	BackupModel      string
	LLMTimeout       time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	cfg := Config{
		Port:                getEnv("PORT", "8080"),
		CORSAllowOrigin:     splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:                 normalizeEnv(getEnv("ENV", "dev")),
		ReportsDir:          getEnv("REPORTS_DIR", "./reports"),
		FeedbackDir:         getEnv("FEEDBACK_DIR", "./feedback"),
		ReportRetentionDays: getEnvInt("REPORT_RETENTION_DAYS", 30),
		MaxContentSizeKB:    getEnvInt("MAX_CONTENT_SIZE_KB", 30),
		LLMProvider:         strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER"))),
		GroqAPIKey:          os.Getenv("GROQ_API_KEY"),
		OpenRouterAPIKey:    os.Getenv("OPENROUTER_API_KEY"),
		DefaultModel:        getEnv("DEFAULT_MODEL", ""),
		BackupModel:         getEnv("BACKUP_MODEL", "mistralai/mistral-7b-instruct"),
	}

	if secs := getEnvInt("LLM_TIMEOUT_SECONDS", 0); secs > 0 {
		cfg.LLMTimeout = time.Duration(secs) * time.Second
	}

	logKeyStatus("GROQ_API_KEY", cfg.GroqAPIKey)
	logKeyStatus("OPENROUTER_API_KEY", cfg.OpenRouterAPIKey)

	return cfg
}

// MaxContentBytes returns the submission size cap in bytes.
func (c Config) MaxContentBytes() int {
	return c.MaxContentSizeKB * 1024
}

// RetentionPeriod returns the report retention window as a duration.
func (c Config) RetentionPeriod() time.Duration {
	return time.Duration(c.ReportRetentionDays) * 24 * time.Hour
}

// RedactKey returns a short preview of an API key safe for logs.
func RedactKey(key string) string {
	if key == "" {
		return "unset"
	}
	if len(key) <= 7 {
		return "[too short]"
	}
	return key[:4] + "..." + key[len(key)-3:]
}

func logKeyStatus(name, key string) {
	if key == "" {
		telemetry.Warn("config.api_key", map[string]any{"var": name, "status": "not set"})
		return
	}
	telemetry.Info("config.api_key", map[string]any{"var": name, "preview": RedactKey(key)})
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
