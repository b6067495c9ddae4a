package config

import "time"

// Config is the intake configuration read from config/intake.yaml.
type Config struct {
	IntakeConfig IntakeConfig  `yaml:"intake_config"`
	LLM          LLMConfig     `yaml:"llm"`
	Storage      StorageConfig `yaml:"storage"`
	Export       ExportConfig  `yaml:"export"`
	Sessions     SessionConfig `yaml:"sessions"`
}

// IntakeConfig holds the question generation knobs.
type IntakeConfig struct {
	QuestionCount int      `yaml:"question_count"`
	MaxTokens     int      `yaml:"max_tokens"`
	Temperature   float64  `yaml:"temperature"`
	EndKeywords   []string `yaml:"end_keywords"`
}

// StorageConfig selects the candidate log backend.
type StorageConfig struct {
	Driver string `yaml:"driver"` // file | postgres | sqlite
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

type ExportConfig struct {
	Dir string `yaml:"dir"`
}

type SessionConfig struct {
	IdleTTL   time.Duration `yaml:"idle_ttl"`
	RateLimit int           `yaml:"rate_limit"`
}

const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// Default returns the configuration used when no file overrides a value.
func Default() *Config {
	return &Config{
		IntakeConfig: IntakeConfig{
			QuestionCount: 4,
			MaxTokens:     1200,
			Temperature:   0.2,
			EndKeywords:   []string{"exit", "quit", "bye", "stop", "end", "goodbye"},
		},
		LLM: LLMConfig{
			Provider: ProviderOpenAI,
			Model:    "llama-3.1-8b-instant",
			BaseURL:  "https://api.groq.com/openai/v1",
			Timeout:  120 * time.Second,
		},
		Storage: StorageConfig{
			Driver: StorageFile,
			Path:   "simulated_candidates.json",
		},
		Export: ExportConfig{
			Dir: "output",
		},
		Sessions: SessionConfig{
			IdleTTL:   24 * time.Hour,
			RateLimit: 10,
		},
	}
}

func (c *Config) GetQuestionCount() int {
	return c.IntakeConfig.QuestionCount
}

func (c *Config) GetMaxTokens() int {
	return c.IntakeConfig.MaxTokens
}

func (c *Config) GetTemperature() float64 {
	return c.IntakeConfig.Temperature
}
