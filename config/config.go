package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"

	apiKeyPrefix = "sk-"

	KeyStatusDetected = "API key detected"
	KeyStatusInvalid  = "Invalid API key format"
	KeyStatusMissing  = "No API key found. Please add OPENAI_API_KEY to your environment"
)

type OpenAI struct {
	OpenAIAPIKey     string        `yaml:"api_key" env:"OPENAI_API_KEY"`
	OpenAIModel      string        `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-3.5-turbo"`
	OpenAIBaseURL    string        `yaml:"base_url" env:"OPENAI_BASE_URL" env-default:"https://api.openai.com"`
	ModelTemperature float32       `yaml:"model_temperature" env:"MODEL_TEMPERATURE" env-default:"0.7"`
	RequestTimeout   time.Duration `yaml:"request_timeout" env:"OPENAI_REQUEST_TIMEOUT" env-default:"60s"`
	MaxPromptTokens  int           `yaml:"max_prompt_tokens" env:"OPENAI_MAX_PROMPT_TOKENS" env-default:"3500"`
}

// HasKey reports whether a credential was supplied at all. A key with an
// unexpected prefix is still used; KeyStatus flags it.
func (o OpenAI) HasKey() bool {
	return strings.TrimSpace(o.OpenAIAPIKey) != ""
}

func (o OpenAI) KeyStatus() string {
	switch {
	case !o.HasKey():
		return KeyStatusMissing
	case strings.HasPrefix(o.OpenAIAPIKey, apiKeyPrefix):
		return KeyStatusDetected
	default:
		return KeyStatusInvalid
	}
}

type Telegram struct {
	TelegramAPIToken      string  `yaml:"api_token" env:"TELEGRAM_APITOKEN"`
	IsNotPublic           bool    `yaml:"is_not_public" env:"TELEGRAM_NOT_PUBLIC" env-default:"false"`
	AdminTelegramIDList   []int64 `yaml:"admin_ids" env:"TELEGRAM_ADMIN_IDS" env-separator:","`
	PremiumTelegramIDList []int64 `yaml:"premium_ids" env:"TELEGRAM_PREMIUM_IDS" env-separator:","`
	CustomTonePremiumOnly bool    `yaml:"custom_tone_premium_only" env:"CUSTOM_TONE_PREMIUM_ONLY" env-default:"false"`
}

type Redis struct {
	Endpoint string        `yaml:"endpoint" env:"REDIS_ENDPOINT" env-default:"localhost:6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	DraftTTL time.Duration `yaml:"draft_ttl" env:"REDIS_DRAFT_TTL" env-default:"24h"`
}

type Storage struct {
	Backend string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"memory"`
}

type HTTP struct {
	Port int `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

type NATS struct {
	URL   string `yaml:"url" env:"NATS_URL"`
	Token string `yaml:"token" env:"NATS_TOKEN"`
}

type Config struct {
	OpenAI   OpenAI   `yaml:"openai"`
	Telegram Telegram `yaml:"telegram"`
	Redis    Redis    `yaml:"redis"`
	Storage  Storage  `yaml:"storage"`
	HTTP     HTTP     `yaml:"http"`
	NATS     NATS     `yaml:"nats"`
	LogLevel string   `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
}

// LoadConfig reads the YAML file at cfgPath, when given, and then the
// environment, which wins over the file.
func LoadConfig(cfgPath string) (*Config, error) {
	var cfg Config
	if cfgPath != "" {
		if err := cleanenv.ReadConfig(cfgPath, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", cfgPath, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.OpenAI.MaxPromptTokens <= 0 {
		return fmt.Errorf("max prompt tokens must be positive, got %d", c.OpenAI.MaxPromptTokens)
	}
	return nil
}

// APIBaseURL is the base URL with the API version path the client expects.
func (o OpenAI) APIBaseURL() (string, error) {
	return url.JoinPath(o.OpenAIBaseURL, "/v1")
}
