// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"toolhost/internal/files"
)

// Config represents the application configuration.
type Config struct {
	APIKey            string     `json:"api_key"`
	APIURL            string     `json:"api_url,omitempty"`
	Model             string     `json:"model"`
	Temperature       *float32   `json:"temperature,omitempty"`
	MaxTokens         *int       `json:"max_tokens,omitempty"`
	SandboxRoot       string     `json:"sandbox_root,omitempty"`
	FileLimits        FileLimits `json:"file_limits,omitempty"`
	WebTimeoutSeconds int        `json:"web_timeout_seconds,omitempty"`
	AllowPrivateHosts bool       `json:"allow_private_hosts,omitempty"`
	HistoryFile       string     `json:"history_file,omitempty"`
	MaxToolRounds     int        `json:"max_tool_rounds,omitempty"`
}

// FileLimits configures resource limits for sandboxed file access.
type FileLimits struct {
	MaxFileSizeBytes int64 `json:"max_file_size_bytes,omitempty"`
	MaxTextChars     int   `json:"max_text_chars,omitempty"`
	MaxListEntries   int   `json:"max_list_entries,omitempty"`
	MaxSearchDepth   int   `json:"max_search_depth,omitempty"`
	MaxSearchMatches int   `json:"max_search_matches,omitempty"`
}

// DefaultConfig returns a config with default values.
func DefaultConfig() *Config {
	defaults := files.DefaultLimits()
	return &Config{
		Model:  "gpt-4o-mini",
		APIURL: "https://api.openai.com/v1",
		FileLimits: FileLimits{
			MaxFileSizeBytes: defaults.MaxFileSizeBytes,
			MaxTextChars:     defaults.MaxTextChars,
			MaxListEntries:   defaults.MaxListEntries,
			MaxSearchDepth:   defaults.MaxSearchDepth,
			MaxSearchMatches: defaults.MaxSearchMatches,
		},
		WebTimeoutSeconds: 10,
		HistoryFile:       ".toolhost_history",
		MaxToolRounds:     8,
	}
}

// LoadConfig loads configuration from a JSON file when it exists and
// applies environment overrides. A missing config file is not an error;
// a malformed one is.
func LoadConfig(filepath string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(filepath); err == nil {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath, err)
		}
	}

	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		config.APIKey = val
	}
	if val := os.Getenv("OPENAI_API_URL"); val != "" {
		config.APIURL = val
	}
	if val := os.Getenv("TOOLHOST_SANDBOX"); val != "" {
		config.SandboxRoot = val
	}

	if config.Model == "" {
		config.Model = "gpt-4o-mini"
	}
	if config.APIURL == "" {
		config.APIURL = "https://api.openai.com/v1"
	}
	if config.WebTimeoutSeconds <= 0 {
		config.WebTimeoutSeconds = 10
	}
	if config.MaxToolRounds <= 0 {
		config.MaxToolRounds = 8
	}

	return config, nil
}

// FileLimitsConfig returns file limits for runtime enforcement; zero
// fields fall back to the defaults.
func (c *Config) FileLimitsConfig() files.Limits {
	return files.Limits{
		MaxFileSizeBytes: c.FileLimits.MaxFileSizeBytes,
		MaxTextChars:     c.FileLimits.MaxTextChars,
		MaxListEntries:   c.FileLimits.MaxListEntries,
		MaxSearchDepth:   c.FileLimits.MaxSearchDepth,
		MaxSearchMatches: c.FileLimits.MaxSearchMatches,
	}
}

// WebTimeout returns the outbound request timeout.
func (c *Config) WebTimeout() time.Duration {
	return time.Duration(c.WebTimeoutSeconds) * time.Second
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Field   string
	Message string
}

// Validate checks the configuration for common issues and returns
// warnings. The chat session enforces its own hard requirements.
func (c *Config) Validate() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Temperature != nil {
		temp := *c.Temperature
		if temp < 0 || temp > 2 {
			warnings = append(warnings, ValidationWarning{
				Field:   "temperature",
				Message: fmt.Sprintf("temperature %.2f is outside recommended range [0, 2]", temp),
			})
		}
	}

	if c.MaxTokens != nil {
		tokens := *c.MaxTokens
		if tokens <= 0 {
			warnings = append(warnings, ValidationWarning{
				Field:   "max_tokens",
				Message: fmt.Sprintf("max_tokens %d must be positive", tokens),
			})
		}
	}

	if c.FileLimits.MaxFileSizeBytes < 0 {
		warnings = append(warnings, ValidationWarning{
			Field:   "file_limits.max_file_size_bytes",
			Message: "negative size limit ignored, using default",
		})
	}

	return warnings
}
