package logger

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvLevel names the environment variable read by ConfigFromEnv.
const EnvLevel = "LOG_LEVEL"

type Config struct {
	Level     string `yaml:"level"`
	ShowColor bool   `yaml:"showColor"`
	ShowDate  bool   `yaml:"showDate"`
}

// DefaultConfig logs at INFO with timestamps and no color.
func DefaultConfig() Config {
	return Config{
		Level:     InfoLevel.String(),
		ShowColor: false,
		ShowDate:  true,
	}
}

// ConfigFromEnv returns DefaultConfig with the level taken from LOG_LEVEL
// when it is set.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if lvl := os.Getenv(EnvLevel); lvl != "" {
		cfg.Level = lvl
	}
	return cfg
}

// LoadConfig decodes a YAML document over DefaultConfig. An empty document
// yields the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decoding logger config: %w", err)
	}
	if _, err := ParseLevel(cfg.Level); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
