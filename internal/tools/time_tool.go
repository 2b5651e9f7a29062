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

	"toolhost/internal/clock"
)

type timeArgs struct {
	Query string `json:"query" jsonschema:"description=Time question such as 'now' / 'utc' / 'in 5 days' / '3 days ago' / 'days until 2026-12-31' / 'what day is tomorrow'"`
}

func timeDescriptor(clk *clock.Clock) *Descriptor {
	return &Descriptor{
		name:    "time",
		summary: "Answer time and date questions: current time, UTC, date offsets, date differences, countdowns and weekdays",
		params:  mustSchemaParametersFor[timeArgs](),
		run: func(_ context.Context, argument string) (string, error) {
			var args timeArgs
			if err := decodeArgs(argument, "query", &args); err != nil {
				return "", err
			}
			return clk.Answer(args.Query)
		},
	}
}
