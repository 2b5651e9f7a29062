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

	"toolhost/internal/calc"
)

type calcArgs struct {
	Expression string `json:"expression" jsonschema:"description=Expression to evaluate: arithmetic with functions; a unit conversion like '10km to m'; or a statistical aggregate over a bracketed list"`
}

func calcDescriptor(evaluator *calc.Evaluator) *Descriptor {
	return &Descriptor{
		name:    "calculator",
		summary: "Evaluate arithmetic expressions with functions (sin, cos, sqrt, log...), unit conversions (length, weight, temperature) and list statistics (mean, median, std, var)",
		params:  mustSchemaParametersFor[calcArgs](),
		run: func(_ context.Context, argument string) (string, error) {
			var args calcArgs
			if err := decodeArgs(argument, "expression", &args); err != nil {
				return "", err
			}
			return evaluator.Evaluate(args.Expression)
		},
	}
}
