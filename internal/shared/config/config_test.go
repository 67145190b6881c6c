package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "CORS_ALLOW_ORIGINS", "ENV",
		"REPORTS_DIR", "FEEDBACK_DIR", "REPORT_RETENTION_DAYS", "MAX_CONTENT_SIZE_KB",
		"LLM_PROVIDER", "GROQ_API_KEY", "OPENROUTER_API_KEY",
		"DEFAULT_MODEL", "BACKUP_MODEL", "LLM_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Env != "dev" {
		t.Errorf("Env = %q, want dev", cfg.Env)
	}
	if cfg.ReportsDir != "./reports" || cfg.FeedbackDir != "./feedback" {
		t.Errorf("dirs = %q, %q", cfg.ReportsDir, cfg.FeedbackDir)
	}
	if cfg.ReportRetentionDays != 30 {
		t.Errorf("ReportRetentionDays = %d, want 30", cfg.ReportRetentionDays)
	}
	if cfg.MaxContentSizeKB != 30 {
		t.Errorf("MaxContentSizeKB = %d, want 30", cfg.MaxContentSizeKB)
	}
	if cfg.BackupModel != "mistralai/mistral-7b-instruct" {
		t.Errorf("BackupModel = %q", cfg.BackupModel)
	}
	if cfg.LLMTimeout != 0 {
		t.Errorf("LLMTimeout = %v, want zero (provider default)", cfg.LLMTimeout)
	}
	if len(cfg.CORSAllowOrigin) != 1 || cfg.CORSAllowOrigin[0] != "http://localhost:5173" {
		t.Errorf("CORSAllowOrigin = %v", cfg.CORSAllowOrigin)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "Prod")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("REPORT_RETENTION_DAYS", "7")
	t.Setenv("LLM_PROVIDER", " Groq ")
	t.Setenv("LLM_TIMEOUT_SECONDS", "45")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Errorf("Env = %q, want production", cfg.Env)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.CORSAllowOrigin) != len(want) {
		t.Fatalf("CORSAllowOrigin = %v", cfg.CORSAllowOrigin)
	}
	for i := range want {
		if cfg.CORSAllowOrigin[i] != want[i] {
			t.Errorf("CORSAllowOrigin[%d] = %q, want %q", i, cfg.CORSAllowOrigin[i], want[i])
		}
	}
	if cfg.ReportRetentionDays != 7 {
		t.Errorf("ReportRetentionDays = %d", cfg.ReportRetentionDays)
	}
	if cfg.LLMProvider != "groq" {
		t.Errorf("LLMProvider = %q, want groq", cfg.LLMProvider)
	}
	if cfg.LLMTimeout != 45*time.Second {
		t.Errorf("LLMTimeout = %v", cfg.LLMTimeout)
	}
}

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "unset", value: "", want: 30},
		{name: "not a number", value: "lots", want: 30},
		{name: "negative", value: "-5", want: 30},
		{name: "valid", value: "12", want: 12},
		{name: "padded", value: " 12 ", want: 12},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MAX_CONTENT_SIZE_KB", tt.value)
			if got := getEnvInt("MAX_CONTENT_SIZE_KB", 30); got != tt.want {
				t.Fatalf("getEnvInt(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestRedactKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "empty", key: "", want: "unset"},
		{name: "short", key: "abc1234", want: "[too short]"},
		{name: "normal", key: "gsk_abcdef123456xyz", want: "gsk_...xyz"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := RedactKey(tt.key); got != tt.want {
				t.Fatalf("RedactKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestDerivedValues(t *testing.T) {
	cfg := Config{MaxContentSizeKB: 30, ReportRetentionDays: 30}
	if got := cfg.MaxContentBytes(); got != 30*1024 {
		t.Errorf("MaxContentBytes = %d", got)
	}
	if got := cfg.RetentionPeriod(); got != 30*24*time.Hour {
		t.Errorf("RetentionPeriod = %v", got)
	}
}
