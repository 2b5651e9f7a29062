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

package tools

import (
	"context"
	"strings"
	"testing"
	"time"

	"toolhost/internal/calc"
	"toolhost/internal/clock"
	apperrors "toolhost/internal/errors"
	"toolhost/internal/files"
	"toolhost/internal/web"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	accessor, err := files.NewAccessor(t.TempDir())
	if err != nil {
		t.Fatalf("NewAccessor: %v", err)
	}
	fixed := time.Date(2026, time.August, 24, 10, 30, 0, 0, time.Local)
	clk := clock.NewClockAt(func() time.Time { return fixed })
	return NewRegistry(calc.NewEvaluator(), accessor, web.NewFetcher(), clk)
}

func TestRegistryNames(t *testing.T) {
	r := newTestRegistry(t)
	want := []string{"calculator", "file", "web", "time"}
	got := r.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	r := newTestRegistry(t)
	result := r.Dispatch(context.Background(), "shell", "ls")
	if result.OK {
		t.Fatal("unknown tool should not succeed")
	}
	if result.Kind != apperrors.KindUnknownTool {
		t.Errorf("kind = %q, want %q", result.Kind, apperrors.KindUnknownTool)
	}
	if !strings.Contains(result.Text, "unknown tool: shell") {
		t.Errorf("Text = %q", result.Text)
	}
	if !strings.Contains(result.Text, "calculator") {
		t.Errorf("available tools not listed: %q", result.Text)
	}
}

func TestDispatchFreeTextArgument(t *testing.T) {
	r := newTestRegistry(t)
	result := r.Dispatch(context.Background(), "calculator", "2+3*4")
	if !result.OK {
		t.Fatalf("Dispatch failed: %s", result.Text)
	}
	if result.Text != "14" {
		t.Errorf("Text = %q, want %q", result.Text, "14")
	}
}

func TestDispatchJSONArgument(t *testing.T) {
	r := newTestRegistry(t)
	result := r.Dispatch(context.Background(), "calculator", `{"expression": "10km to m"}`)
	if !result.OK {
		t.Fatalf("Dispatch failed: %s", result.Text)
	}
	if result.Text != "10km = 10000m" {
		t.Errorf("Text = %q", result.Text)
	}
}

func TestDispatchMalformedJSONArgument(t *testing.T) {
	r := newTestRegistry(t)
	result := r.Dispatch(context.Background(), "calculator", `{"expression": `)
	if result.OK {
		t.Fatal("malformed JSON arguments should fail")
	}
	if result.Kind != apperrors.KindJSONDecode {
		t.Errorf("kind = %q, want %q", result.Kind, apperrors.KindJSONDecode)
	}
}

func TestDispatchCodedFailure(t *testing.T) {
	r := newTestRegistry(t)
	result := r.Dispatch(context.Background(), "calculator", "10/0")
	if result.OK {
		t.Fatal("division by zero should fail")
	}
	if result.Kind != apperrors.KindDivisionByZero {
		t.Errorf("kind = %q, want %q", result.Kind, apperrors.KindDivisionByZero)
	}
}

func TestDispatchFileOperations(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	result := r.Dispatch(ctx, "file", `{"operation":"write","path":"x.txt","content":"payload"}`)
	if !result.OK {
		t.Fatalf("write failed: %s", result.Text)
	}

	result = r.Dispatch(ctx, "file", `{"operation":"read","path":"x.txt"}`)
	if !result.OK || result.Text != "payload" {
		t.Errorf("read = %+v", result)
	}

	// Free text goes to the path field, operation defaults to read.
	result = r.Dispatch(ctx, "file", "x.txt")
	if !result.OK || result.Text != "payload" {
		t.Errorf("free-text read = %+v", result)
	}

	result = r.Dispatch(ctx, "file", `{"operation":"shred","path":"x.txt"}`)
	if result.OK || result.Kind != apperrors.KindInvalidData {
		t.Errorf("unknown operation = %+v", result)
	}

	result = r.Dispatch(ctx, "file", `{"path":"../../etc/passwd"}`)
	if result.OK || result.Kind != apperrors.KindPathEscape {
		t.Errorf("escape = %+v", result)
	}
}

func TestDispatchWebBlockedURL(t *testing.T) {
	r := newTestRegistry(t)
	result := r.Dispatch(context.Background(), "web", "http://127.0.0.1/")
	if result.OK {
		t.Fatal("loopback fetch should fail")
	}
	if result.Kind != apperrors.KindSSRFBlocked {
		t.Errorf("kind = %q, want %q", result.Kind, apperrors.KindSSRFBlocked)
	}
}

func TestDispatchTimeTool(t *testing.T) {
	r := newTestRegistry(t)
	result := r.Dispatch(context.Background(), "time", "what day is tomorrow")
	if !result.OK {
		t.Fatalf("time failed: %s", result.Text)
	}
	if !strings.Contains(result.Text, "tomorrow is Tuesday") {
		t.Errorf("Text = %q", result.Text)
	}
}

func TestDispatchRecoversPanics(t *testing.T) {
	r := newTestRegistry(t)
	r.tools["exploding"] = &Descriptor{
		name:    "exploding",
		summary: "always panics",
		run: func(context.Context, string) (string, error) {
			panic("boom")
		},
	}
	r.order = append(r.order, "exploding")

	result := r.Dispatch(context.Background(), "exploding", "")
	if result.OK {
		t.Fatal("panicking tool should not report success")
	}
	if !strings.Contains(result.Text, "boom") {
		t.Errorf("Text = %q", result.Text)
	}
}

func TestSummariesAndSchemas(t *testing.T) {
	r := newTestRegistry(t)

	listing := r.Summaries()
	for _, name := range r.Names() {
		if !strings.Contains(listing, name+": ") {
			t.Errorf("Summaries missing %q:\n%s", name, listing)
		}
	}

	for _, def := range r.OpenAITools() {
		if def.Function.Name == "" {
			t.Error("tool definition without name")
		}
		if len(def.Function.Description) > maxSummaryBytes {
			t.Errorf("summary for %s exceeds %d bytes", def.Function.Name, maxSummaryBytes)
		}
		params, ok := def.Function.Parameters.(map[string]interface{})
		if !ok {
			t.Fatalf("parameters for %s are not a map", def.Function.Name)
		}
		if params["type"] != "object" {
			t.Errorf("schema for %s has type %v, want object", def.Function.Name, params["type"])
		}
		if _, ok := params["properties"]; !ok {
			t.Errorf("schema for %s has no properties", def.Function.Name)
		}
	}
}

func TestTruncateSummary(t *testing.T) {
	long := strings.Repeat("é", 150) // 300 bytes of two-byte runes
	got := truncateSummary(long)
	if len(got) > maxSummaryBytes {
		t.Errorf("len = %d, want <= %d", len(got), maxSummaryBytes)
	}
	if !strings.HasPrefix(long, got) {
		t.Error("truncation changed content")
	}
	if short := truncateSummary("short"); short != "short" {
		t.Errorf("short summary modified: %q", short)
	}
}
