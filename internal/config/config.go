package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the run settings of the scheduler binaries. Command-line flags take precedence over it.
type Config struct {
	NodeBudget   int    `yaml:"node_budget" validate:"gte=0"`
	LogLevel     string `yaml:"log_level" validate:"oneof=debug info warn error"`
	Development  bool   `yaml:"development"`
	OutputFormat string `yaml:"output_format" validate:"oneof=json csv"`
}

func Default() Config {
	return Config{
		NodeBudget:   0,
		LogLevel:     "info",
		Development:  false,
		OutputFormat: "json",
	}
}

// Load reads a YAML config file on top of the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read config file: %w", err)
	}
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return Config{}, fmt.Errorf("cannot parse config file: %w", err)
	}
	if err := validator.New().Struct(config); err != nil {
		return Config{}, fmt.Errorf("invalid config file: %w", err)
	}

	return config, nil
}
