package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig holds secrets and endpoints taken from the environment.
type AppConfig struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LLM      LLMEnv
	Telegram TelegramConfig
	Server   ServerConfig
	Storage  StorageEnv
	AMQP     AMQPConfig
	R2       R2Config
}

type LLMEnv struct {
	GroqAPIKey   string `envconfig:"GROQ_API_KEY"`
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	Provider     string `envconfig:"LLM_PROVIDER"`
	Model        string `envconfig:"LLM_MODEL"`
	BaseURL      string `envconfig:"LLM_BASE_URL"`
}

type TelegramConfig struct {
	Token   string `envconfig:"TELEGRAM_BOT_TOKEN"`
	BaseURL string `envconfig:"TELEGRAM_API_URL" default:"https://api.telegram.org"`
}

type ServerConfig struct {
	Address         string        `envconfig:"SERVER_ADDRESS" default:":8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"150s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

type StorageEnv struct {
	Driver string `envconfig:"STORAGE_DRIVER"`
	DSN    string `envconfig:"STORAGE_DSN"`
	Path   string `envconfig:"STORAGE_PATH"`
}

type AMQPConfig struct {
	URL      string `envconfig:"AMQP_URL"`
	Exchange string `envconfig:"AMQP_EXCHANGE" default:"intake_events"`
}

// R2Config targets any S3 compatible bucket; Endpoint may be left empty for AWS.
type R2Config struct {
	AccountID string `envconfig:"R2_ACCOUNT_ID"`
	AccessKey string `envconfig:"R2_ACCESS_KEY"`
	SecretKey string `envconfig:"R2_SECRET_KEY"`
	Bucket    string `envconfig:"R2_BUCKET"`
	Endpoint  string `envconfig:"R2_ENDPOINT"`
	Region    string `envconfig:"R2_REGION" default:"auto"`
}

func LoadAppConfig() (*AppConfig, error) {
	app := new(AppConfig)
	if err := envconfig.Process("", app); err != nil {
		return nil, err
	}
	return app, nil
}

// Enabled reports whether uploads are configured.
func (r R2Config) Enabled() bool {
	return r.Bucket != "" && r.AccessKey != "" && r.SecretKey != ""
}

// ApplyEnv overlays environment values on the file configuration and re-validates it.
func (c *Config) ApplyEnv(app *AppConfig) error {
	if app.LLM.Provider != "" {
		c.LLM.Provider = app.LLM.Provider
	}
	if app.LLM.Model != "" {
		c.LLM.Model = app.LLM.Model
	}
	if app.LLM.BaseURL != "" {
		c.LLM.BaseURL = app.LLM.BaseURL
	}
	if c.LLM.Provider == ProviderGemini {
		c.LLM.APIKey = app.LLM.GeminiAPIKey
	} else {
		c.LLM.APIKey = app.LLM.GroqAPIKey
	}

	if app.Storage.Driver != "" {
		c.Storage.Driver = app.Storage.Driver
	}
	if app.Storage.DSN != "" {
		c.Storage.DSN = app.Storage.DSN
	}
	if app.Storage.Path != "" {
		c.Storage.Path = app.Storage.Path
	}

	return validateConfig(c)
}
