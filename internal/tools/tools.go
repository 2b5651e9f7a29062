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

// Package tools exposes the capability engines to an untrusted caller
// through a closed registry. The set of tools is fixed at construction
// and Dispatch is the single boundary that turns any failure, panics
// included, into a structured result instead of crashing the host.
package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"

	"toolhost/internal/calc"
	"toolhost/internal/clock"
	apperrors "toolhost/internal/errors"
	"toolhost/internal/files"
	"toolhost/internal/web"
)

// maxSummaryBytes caps tool summaries advertised to the model.
const maxSummaryBytes = 200

// Result is the outcome of one tool invocation. Text carries either the
// tool output or a caller-facing error message; Kind is set when the
// failure maps to a coded class.
type Result struct {
	OK   bool
	Text string
	Kind apperrors.Kind
}

// Descriptor binds a tool name to its summary, parameter schema and
// implementation. Descriptors are only built inside NewRegistry.
type Descriptor struct {
	name    string
	summary string
	params  map[string]interface{}
	run     func(ctx context.Context, argument string) (string, error)
}

// Name returns the tool name.
func (d *Descriptor) Name() string { return d.name }

// Summary returns the advertised one-line summary.
func (d *Descriptor) Summary() string { return d.summary }

// Parameters returns the JSON schema for the tool arguments.
func (d *Descriptor) Parameters() map[string]interface{} { return d.params }

// Registry is the closed set of available tools. It has no registration
// API beyond construction; adding a tool means adding a descriptor to
// NewRegistry.
type Registry struct {
	tools map[string]*Descriptor
	order []string
}

// NewRegistry builds the registry over the provided engines. Every tool
// the host offers is listed here and nowhere else.
func NewRegistry(evaluator *calc.Evaluator, accessor *files.Accessor, fetcher *web.Fetcher, clk *clock.Clock) *Registry {
	r := &Registry{tools: make(map[string]*Descriptor)}
	r.add(calcDescriptor(evaluator))
	r.add(fileDescriptor(accessor))
	r.add(webDescriptor(fetcher))
	r.add(timeDescriptor(clk))
	return r
}

func (r *Registry) add(d *Descriptor) {
	d.summary = truncateSummary(d.summary)
	r.tools[d.name] = d
	r.order = append(r.order, d.name)
}

// Names returns the tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Lookup returns the descriptor for a tool name.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	d, ok := r.tools[name]
	return d, ok
}

// Summaries renders a name-to-summary listing for help output.
func (r *Registry) Summaries() string {
	var sb strings.Builder
	for _, name := range r.order {
		fmt.Fprintf(&sb, "%s: %s\n", name, r.tools[name].summary)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// OpenAITools renders the registry as OpenAI tool definitions.
func (r *Registry) OpenAITools() []openai.Tool {
	defs := make([]openai.Tool, 0, len(r.order))
	for _, name := range r.order {
		d := r.tools[name]
		defs = append(defs, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.name,
				Description: d.summary,
				Parameters:  d.params,
			},
		})
	}
	return defs
}

// Dispatch runs the named tool and never propagates a failure: unknown
// names, coded errors and panics all come back as a Result. This is the
// only place where a tool failure is translated for the caller.
func (r *Registry) Dispatch(ctx context.Context, name, argument string) (result Result) {
	defer func() {
		if rec := recover(); rec != nil {
			result = Result{
				OK:   false,
				Text: fmt.Sprintf("tool %s failed: %v", name, rec),
			}
		}
	}()

	d, ok := r.tools[name]
	if !ok {
		available := r.Names()
		sort.Strings(available)
		return Result{
			OK:   false,
			Text: fmt.Sprintf("unknown tool: %s (available: %s)", name, strings.Join(available, ", ")),
			Kind: apperrors.KindUnknownTool,
		}
	}

	text, err := d.run(ctx, argument)
	if err != nil {
		return Result{OK: false, Text: err.Error(), Kind: apperrors.KindOf(err)}
	}
	return Result{OK: true, Text: text}
}

// truncateSummary caps a summary at the advertised byte budget, keeping
// it valid UTF-8 by cutting on a rune boundary.
func truncateSummary(s string) string {
	if len(s) <= maxSummaryBytes {
		return s
	}
	cut := maxSummaryBytes
	for cut > 0 && (s[cut]&0xc0) == 0x80 {
		cut--
	}
	return s[:cut]
}
