package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML file on top of Default and validates the result.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", filename, err)
	}
	return Parse(data)
}

// Parse decodes YAML content on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.IntakeConfig.QuestionCount <= 0 {
		return fmt.Errorf("question_count must be greater than 0")
	}

	if config.IntakeConfig.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be greater than 0")
	}

	if t := config.IntakeConfig.Temperature; t < 0 || t > 1 {
		return fmt.Errorf("temperature must be between 0 and 1, got %v", t)
	}

	if err := config.LLM.ValidateConfig(); err != nil {
		return err
	}

	switch config.Storage.Driver {
	case StorageFile:
		if config.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the file driver")
		}
	case StoragePostgres, StorageSQLite:
		if config.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for the %s driver", config.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	if config.Sessions.RateLimit < 0 {
		return fmt.Errorf("sessions.rate_limit cannot be negative")
	}

	return nil
}
