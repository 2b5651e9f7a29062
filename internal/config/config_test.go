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
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.APIURL != "https://api.openai.com/v1" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.WebTimeout() != 10*time.Second {
		t.Errorf("WebTimeout = %v", cfg.WebTimeout())
	}
	if cfg.FileLimits.MaxFileSizeBytes != 10*1024*1024 {
		t.Errorf("MaxFileSizeBytes = %d", cfg.FileLimits.MaxFileSizeBytes)
	}
	if cfg.MaxToolRounds <= 0 {
		t.Errorf("MaxToolRounds = %d", cfg.MaxToolRounds)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_API_URL", "")
	t.Setenv("TOOLHOST_SANDBOX", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", cfg.Model)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_API_URL", "")
	t.Setenv("TOOLHOST_SANDBOX", "")

	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"api_key": "file-key",
		"model": "gpt-4o",
		"sandbox_root": "/srv/sandbox",
		"web_timeout_seconds": 5,
		"file_limits": {"max_text_chars": 1234}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.APIKey != "file-key" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.SandboxRoot != "/srv/sandbox" {
		t.Errorf("SandboxRoot = %q", cfg.SandboxRoot)
	}
	if cfg.WebTimeout() != 5*time.Second {
		t.Errorf("WebTimeout = %v", cfg.WebTimeout())
	}
	if cfg.FileLimits.MaxTextChars != 1234 {
		t.Errorf("MaxTextChars = %d", cfg.FileLimits.MaxTextChars)
	}
	// Unset file limits stay at their defaults after normalization.
	if got := cfg.FileLimitsConfig(); got.MaxTextChars != 1234 {
		t.Errorf("FileLimitsConfig().MaxTextChars = %d", got.MaxTextChars)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"api_key": "file-key"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("OPENAI_API_URL", "https://proxy.internal/v1")
	t.Setenv("TOOLHOST_SANDBOX", "/data/box")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env override", cfg.APIKey)
	}
	if cfg.APIURL != "https://proxy.internal/v1" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.SandboxRoot != "/data/box" {
		t.Errorf("SandboxRoot = %q", cfg.SandboxRoot)
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{broken`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestValidateWarnings(t *testing.T) {
	cfg := DefaultConfig()
	badTemp := float32(5.0)
	badTokens := -1
	cfg.Temperature = &badTemp
	cfg.MaxTokens = &badTokens

	warnings := cfg.Validate()
	fields := map[string]bool{}
	for _, w := range warnings {
		fields[w.Field] = true
	}
	if !fields["temperature"] {
		t.Error("missing temperature warning")
	}
	if !fields["max_tokens"] {
		t.Error("missing max_tokens warning")
	}

	if extra := DefaultConfig().Validate(); len(extra) != 0 {
		t.Errorf("default config produced warnings: %v", extra)
	}
}
