package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envKeys = []string{
	"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL", "MODEL_TEMPERATURE",
	"OPENAI_REQUEST_TIMEOUT", "OPENAI_MAX_PROMPT_TOKENS", "TELEGRAM_APITOKEN",
	"TELEGRAM_NOT_PUBLIC", "TELEGRAM_ADMIN_IDS", "TELEGRAM_PREMIUM_IDS",
	"CUSTOM_TONE_PREMIUM_ONLY", "REDIS_ENDPOINT", "REDIS_PASSWORD", "REDIS_DB",
	"REDIS_DRAFT_TTL", "STORAGE_BACKEND", "HTTP_PORT", "NATS_URL", "NATS_TOKEN",
	"LOG_LEVEL",
}

// clearEnv unsets every variable the config reads; t.Setenv restores them.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.OpenAI.OpenAIModel != "gpt-3.5-turbo" {
		t.Errorf("expected default model, got %s", cfg.OpenAI.OpenAIModel)
	}
	if cfg.OpenAI.ModelTemperature != 0.7 {
		t.Errorf("expected default temperature 0.7, got %v", cfg.OpenAI.ModelTemperature)
	}
	if cfg.OpenAI.RequestTimeout != time.Minute {
		t.Errorf("expected default timeout 1m, got %v", cfg.OpenAI.RequestTimeout)
	}
	if cfg.OpenAI.MaxPromptTokens != 3500 {
		t.Errorf("expected default prompt ceiling 3500, got %d", cfg.OpenAI.MaxPromptTokens)
	}
	if cfg.Storage.Backend != StorageMemory {
		t.Errorf("expected memory storage, got %s", cfg.Storage.Backend)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.HTTP.Port)
	}
	if cfg.Redis.DraftTTL != 24*time.Hour {
		t.Errorf("expected default draft ttl 24h, got %v", cfg.Redis.DraftTTL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.OpenAI.HasKey() {
		t.Error("expected no api key by default")
	}
}

func TestLoadConfig_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("MODEL_TEMPERATURE", "0.2")
	t.Setenv("TELEGRAM_ADMIN_IDS", "1,2")
	t.Setenv("TELEGRAM_PREMIUM_IDS", "3")
	t.Setenv("CUSTOM_TONE_PREMIUM_ONLY", "true")
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_DRAFT_TTL", "2h")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.OpenAI.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("expected custom model, got %s", cfg.OpenAI.OpenAIModel)
	}
	if cfg.OpenAI.ModelTemperature != 0.2 {
		t.Errorf("expected temperature 0.2, got %v", cfg.OpenAI.ModelTemperature)
	}
	if len(cfg.Telegram.AdminTelegramIDList) != 2 || cfg.Telegram.AdminTelegramIDList[1] != 2 {
		t.Errorf("unexpected admin ids %v", cfg.Telegram.AdminTelegramIDList)
	}
	if len(cfg.Telegram.PremiumTelegramIDList) != 1 || cfg.Telegram.PremiumTelegramIDList[0] != 3 {
		t.Errorf("unexpected premium ids %v", cfg.Telegram.PremiumTelegramIDList)
	}
	if !cfg.Telegram.CustomTonePremiumOnly {
		t.Error("expected custom tone to be premium only")
	}
	if cfg.Storage.Backend != StorageRedis {
		t.Errorf("expected redis storage, got %s", cfg.Storage.Backend)
	}
	if cfg.Redis.DraftTTL != 2*time.Hour {
		t.Errorf("expected draft ttl 2h, got %v", cfg.Redis.DraftTTL)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
}

func TestLoadConfig_YAMLFileWithEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
openai:
  model: gpt-4o
  max_prompt_tokens: 2000
http:
  port: 7000
log_level: debug
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("HTTP_PORT", "7100")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenAI.OpenAIModel != "gpt-4o" {
		t.Errorf("expected model from file, got %s", cfg.OpenAI.OpenAIModel)
	}
	if cfg.OpenAI.MaxPromptTokens != 2000 {
		t.Errorf("expected prompt ceiling from file, got %d", cfg.OpenAI.MaxPromptTokens)
	}
	if cfg.HTTP.Port != 7100 {
		t.Errorf("expected env to override file port, got %d", cfg.HTTP.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level from file, got %s", cfg.LogLevel)
	}
}

func TestLoadConfig_UnknownStorage(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BACKEND", "postgres")

	if _, err := LoadConfig(""); err == nil {
		t.Fatal("expected error for unknown storage backend")
	}
}

func TestKeyStatus(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", KeyStatusMissing},
		{"   ", KeyStatusMissing},
		{"sk-abc123", KeyStatusDetected},
		{"abc123", KeyStatusInvalid},
	}
	for _, tt := range tests {
		if got := (OpenAI{OpenAIAPIKey: tt.key}).KeyStatus(); got != tt.want {
			t.Errorf("KeyStatus(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestAPIBaseURL(t *testing.T) {
	got, err := OpenAI{OpenAIBaseURL: "https://api.openai.com"}.APIBaseURL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://api.openai.com/v1" {
		t.Errorf("unexpected base url %q", got)
	}
}
