package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds server settings loaded from an optional YAML file with
// environment overrides.
type Config struct {
	Port int `yaml:"port"`

	NATS struct {
		URL           string `yaml:"url"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"nats"`

	Trade struct {
		FairnessThresholdPercent float64 `yaml:"fairness_threshold_percent"`
	} `yaml:"trade"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{Port: 8080}
	cfg.NATS.SubjectPrefix = "draft.events"
	cfg.Trade.FairnessThresholdPercent = 15
	return cfg
}

// Load reads the YAML file at path (if it exists) over the defaults and
// then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("NATS_SUBJECT_PREFIX"); v != "" {
		cfg.NATS.SubjectPrefix = v
	}

	return cfg, nil
}
