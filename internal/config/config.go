package config

import (
	"log"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

// Config is the process bootstrap configuration read from the
// environment. Runtime-tunable values live in the settings store.
type Config struct {
	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// Storage
	ConfigFilePath string `env:"CONFIG_FILE_PATH" envDefault:"data/whatsapp_bot_config.json"`
	UserFilePath   string `env:"USER_FILE_PATH" envDefault:"data/user_details.json"`
	StorageDriver  string `env:"STORAGE_DRIVER" envDefault:"jsonl"`
	LogFilePath    string `env:"LOG_FILE_PATH" envDefault:"logs/interactions.jsonl"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"data/interactions.db"`

	// Monitor dashboard
	MonitorPort int `env:"MONITOR_PORT" envDefault:"8080"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
