package application

import (
	"errors"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	ioplan "ioforge/internal/ioplan/domain"
)

// Config tunes the assignment engine defaults.
type Config struct {
	CardSizes       []int  `yaml:"card_sizes"`
	DefaultChannels int    `yaml:"default_channels"`
	TagPrefix       string `yaml:"tag_prefix"`
}

// LoadConfig loads engine config from yaml or env.
func LoadConfig() (Config, error) {
	cfg := Config{
		DefaultChannels: getenvIntDefault("IOFORGE_DEFAULT_CHANNELS", 16),
		TagPrefix:       getenvDefault("IOFORGE_TAG_PREFIX", "IO"),
	}

	if path := os.Getenv("IOFORGE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if len(cfg.CardSizes) == 0 {
		cfg.CardSizes = append([]int(nil), ioplan.StandardCardSizes...)
	}
	for _, size := range cfg.CardSizes {
		if size <= 0 {
			return cfg, errors.New("ioplan config: card sizes must be positive")
		}
	}
	if cfg.DefaultChannels <= 0 {
		return cfg, errors.New("ioplan config: default channel count must be positive")
	}
	if cfg.TagPrefix == "" {
		cfg.TagPrefix = "IO"
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
