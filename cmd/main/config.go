package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/natefinch/atomic"

	"github.com/CTAG07/passforge/pkg/password"
)

// Config holds all settings for a passforge run. Everything that shapes the
// generated password is an explicit value here, not process-wide state.
type Config struct {
	LogLevel           string `json:"log_level"`
	WordlistPath       string `json:"wordlist_path"`
	DatabasePath       string `json:"database_path"`
	ModelName          string `json:"model_name"`
	Order              int    `json:"order"`
	Sections           int    `json:"sections"`
	SectionLength      int    `json:"section_length"`
	Delimiter          string `json:"delimiter"`
	CapitalsPerSection int    `json:"capitals_per_section"`
	DigitsPerSection   int    `json:"digits_per_section"`
	MaxAttempts        int    `json:"max_attempts"`
	CopyToClipboard    bool   `json:"copy_to_clipboard"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	p := password.DefaultPolicy()
	return &Config{
		LogLevel:           "info",
		WordlistPath:       "/usr/share/dict/words",
		DatabasePath:       "./passforge.db?_journal_mode=WAL&_busy_timeout=5000",
		ModelName:          "default",
		Order:              3,
		Sections:           p.Sections,
		SectionLength:      p.SectionLength,
		Delimiter:          p.Delimiter,
		CapitalsPerSection: p.CapitalsPerSection,
		DigitsPerSection:   p.DigitsPerSection,
		MaxAttempts:        p.MaxAttempts,
		CopyToClipboard:    false,
	}
}

// Policy converts the config's password-shape fields into a password.Policy.
func (c *Config) Policy() password.Policy {
	return password.Policy{
		Sections:           c.Sections,
		SectionLength:      c.SectionLength,
		Delimiter:          c.Delimiter,
		CapitalsPerSection: c.CapitalsPerSection,
		DigitsPerSection:   c.DigitsPerSection,
		MaxAttempts:        c.MaxAttempts,
	}
}

// loadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func loadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		// If the file doesn't exist, create it with the default config.
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// Warn instead of failing; the run can proceed with defaults.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		// For other errors (e.g., permission denied), return the error.
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}
