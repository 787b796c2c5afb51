// Package config loads engine settings from an embedded default catalog,
// an optional YAML override file and environment variables, in that order.
package config

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultFiles embed.FS

type Config struct {
	Engine  EngineConfig `yaml:"engine"`
	Log     LogConfig    `yaml:"log"`
	Search  SearchConfig `yaml:"search"`
	Options []OptionSpec `yaml:"options"`
}

type EngineConfig struct {
	Name   string `yaml:"name"`
	Author string `yaml:"author"`
	About  string `yaml:"about"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type SearchConfig struct {
	MoveTimeMillis int    `yaml:"movetime_ms"`
	OwnBook        bool   `yaml:"own_book"`
	Style          string `yaml:"style"`
}

// Load resolves the effective configuration. A file named by UCIWIRE_CONFIG
// overrides the embedded defaults, environment variables override both.
func Load() (*Config, error) {
	cfg, err := loadEmbedded()
	if err != nil {
		return nil, err
	}

	if path := strings.TrimSpace(os.Getenv("UCIWIRE_CONFIG")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEmbedded() (*Config, error) {
	raw, err := fs.ReadFile(defaultFiles, "defaults.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded defaults: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse embedded defaults: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("UCIWIRE_LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("UCIWIRE_LOG_FILE")); v != "" {
		cfg.Log.File = v
	}
	if v := strings.TrimSpace(os.Getenv("UCIWIRE_MOVETIME_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Search.MoveTimeMillis = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("UCIWIRE_OWN_BOOK")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Search.OwnBook = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("UCIWIRE_STYLE")); v != "" {
		cfg.Search.Style = v
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Engine.Name) == "" {
		return errors.New("engine name is required")
	}
	if strings.TrimSpace(c.Engine.Author) == "" {
		return errors.New("engine author is required")
	}
	if c.Search.MoveTimeMillis <= 0 {
		return errors.New("movetime_ms must be positive")
	}
	if _, err := c.OptionMsgs(); err != nil {
		return err
	}
	return nil
}
