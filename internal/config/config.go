package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Clerk    ClerkConfig    `mapstructure:"clerk"`
	AI       AIConfig       `mapstructure:"ai"`
	S3       S3Config       `mapstructure:"s3"`
	Log      LogConfig      `mapstructure:"log"`
	App      AppConfig      `mapstructure:"app"`
}

type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	Mode         string        `mapstructure:"mode"` // gin mode: debug, release, test
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
	// Transactions enables multi-document transactions for plan activation.
	// Only valid against a replica set or sharded cluster.
	Transactions bool `mapstructure:"transactions"`
}

// ClerkConfig holds the identity provider webhook settings.
type ClerkConfig struct {
	WebhookSecret string `mapstructure:"webhook_secret"` // "whsec_..." signing secret
}

// AIConfig selects and configures the generative model backend.
type AIConfig struct {
	Provider          string        `mapstructure:"provider"` // "gemini" or "ollama"
	Model             string        `mapstructure:"model"`
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"` // Ollama only
	Temperature       float32       `mapstructure:"temperature"`
	TopP              float32       `mapstructure:"top_p"`
	Timeout           time.Duration `mapstructure:"timeout"`
	SystemInstruction string        `mapstructure:"system_instruction"`
}

// S3Config configures the archive of raw model output. Empty bucket disables it.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"` // Human readable console output
}

type AppConfig struct {
	// ExposeErrorDetails adds the raw error text to generation failure responses.
	ExposeErrorDetails bool `mapstructure:"expose_error_details"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, ai.api_key -> AI_API_KEY
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// Names used by the identity and AI providers' own tooling
	_ = v.BindEnv("clerk.webhook_secret", "CLERK_WEBHOOK_SECRET")
	_ = v.BindEnv("ai.api_key", "AI_API_KEY", "GEMINI_API_KEY")

	setDefaults(v)

	err = v.ReadInConfig()
	// A missing config file is fine, env vars and defaults still apply.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.write_timeout", "90s") // Two model calls run inside one request
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "fitness_program")
	v.SetDefault("database.transactions", false)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.0-flash-001")
	v.SetDefault("ai.base_url", "http://localhost:11434")
	v.SetDefault("ai.temperature", 0.4)
	v.SetDefault("ai.top_p", 0.8)
	v.SetDefault("ai.timeout", "60s")
	v.SetDefault("ai.system_instruction", "You are a fitness and nutrition expert that provides helpful advice.")
	// Unmarshal only sees env vars for keys viper already knows about
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("app.expose_error_details", false)
}
