package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	SessionTTLSeconds int `mapstructure:"SESSION_TTL_SECONDS"`
	OrderTTLSeconds   int `mapstructure:"ORDER_TTL_SECONDS"`

	// Mongo holds the archive of placed orders and, optionally, the menu.
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	DatabaseName  string `mapstructure:"DATABASE_NAME"`
	ArchiveOrders bool   `mapstructure:"ARCHIVE_ORDERS"`

	// Menu catalog.
	MenuSource string `mapstructure:"MENU_SOURCE"`
	MenuPath   string `mapstructure:"MENU_PATH"`

	// Intent classifier snapshot.
	IntentModelPath string `mapstructure:"INTENT_MODEL_PATH"`

	// Generative model used by the decision arbiter.
	LLMProvider       string  `mapstructure:"LLM_PROVIDER"`
	GeminiAPIKey      string  `mapstructure:"GEMINI_API_KEY"`
	GeminiModel       string  `mapstructure:"GEMINI_MODEL"`
	OllamaURL         string  `mapstructure:"OLLAMA_URL"`
	OllamaModel       string  `mapstructure:"OLLAMA_MODEL"`
	LLMTemperature    float32 `mapstructure:"LLM_TEMPERATURE"`
	LLMMaxTokens      int     `mapstructure:"LLM_MAX_TOKENS"`
	LLMTimeoutSeconds int     `mapstructure:"LLM_TIMEOUT_SECONDS"`

	// Voice ordering. Empty disables /agent/voice.
	GoogleServiceAccountFile string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_FILE"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 3)
	viper.SetDefault("SESSION_TTL_SECONDS", 3600)
	viper.SetDefault("ORDER_TTL_SECONDS", 86400)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "tableorder")
	viper.SetDefault("ARCHIVE_ORDERS", true)
	viper.SetDefault("MENU_SOURCE", "file")
	viper.SetDefault("MENU_PATH", "data/menu.json")
	viper.SetDefault("INTENT_MODEL_PATH", "data/intent_model.json")
	viper.SetDefault("LLM_PROVIDER", "gemini")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("OLLAMA_URL", "http://localhost:11434")
	viper.SetDefault("OLLAMA_MODEL", "llama3.2")
	viper.SetDefault("LLM_TEMPERATURE", 0.2)
	viper.SetDefault("LLM_MAX_TOKENS", 256)
	viper.SetDefault("LLM_TIMEOUT_SECONDS", 15)
	viper.SetDefault("GOOGLE_SERVICE_ACCOUNT_FILE", "")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// SessionTTL is how long an idle session and its cart survive in the store.
func SessionTTL() time.Duration {
	return time.Duration(AppConfig.SessionTTLSeconds) * time.Second
}

func OrderTTL() time.Duration {
	return time.Duration(AppConfig.OrderTTLSeconds) * time.Second
}

func LLMTimeout() time.Duration {
	return time.Duration(AppConfig.LLMTimeoutSeconds) * time.Second
}
