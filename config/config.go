package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port      string `mapstructure:"port"`
	UploadDir string `mapstructure:"upload_dir"`
	// MaxUploadMB caps the size of one uploaded document.
	MaxUploadMB int64 `mapstructure:"max_upload_mb"`

	// AIProvider selects the generation backend: "openai" or "gemini".
	AIProvider     string `mapstructure:"ai_provider"`
	AIEndpoint     string `mapstructure:"ai_endpoint"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
	SummaryModel   string `mapstructure:"summary_model"`
	// SummaryTimeoutSeconds bounds the best-effort chunk summarization
	// call during ingestion.
	SummaryTimeoutSeconds int `mapstructure:"summary_timeout_seconds"`
	// TopK is the number of records retrieved per question.
	TopK int `mapstructure:"top_k"`

	OpenAIAPIKey string `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	MongoURI     string `mapstructure:"MONGODB_URI"`

	WeaviateStoreConfig WeaviateStoreConfig `mapstructure:"weaviate_store_config"`
}

type WeaviateStoreConfig struct {
	Host   string `mapstructure:"host"`
	APIKey string `mapstructure:"WEAVIATE_APIKEY"` // Changed to match env var
}

func (c *Config) SummaryTimeout() time.Duration {
	if c.SummaryTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.SummaryTimeoutSeconds) * time.Second
}

func (c *Config) MaxUploadBytes() int64 {
	if c.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return c.MaxUploadMB << 20
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set up Viper to read from config file
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("ai_provider", "openai")
	v.SetDefault("model", "gpt-4o-mini")
	v.SetDefault("summary_model", "gpt-4o")
	v.SetDefault("embedding_model", "text-embedding-3-small")
	v.SetDefault("top_k", 5)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Bind environment variables
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("GEMINI_API_KEY")
	v.BindEnv("WEAVIATE_APIKEY")
	v.BindEnv("MONGODB_URI")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
