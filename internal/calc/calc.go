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

// Package calc evaluates arithmetic, unit-conversion and statistical
// expressions under a closed grammar. Identifier resolution is limited
// to a fixed function/constant table; there is no path by which input
// text reaches anything callable outside that table.
package calc

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	apperrors "toolhost/internal/errors"
)

// denyPatterns is a defense-in-depth pre-check against inputs that
// look like code rather than arithmetic. The real safety boundary is
// the closed grammar in parser.go; this layer just refuses obviously
// hostile text before it is interpreted at all.
var denyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)import\s`),
	regexp.MustCompile(`(?i)exec\s*\(`),
	regexp.MustCompile(`(?i)eval\s*\(`),
	regexp.MustCompile(`__`),
	regexp.MustCompile(`(?i)open\s*\(`),
	regexp.MustCompile(`(?i)os\.`),
	regexp.MustCompile(`(?i)sys\.`),
	regexp.MustCompile(`(?i)subprocess\.`),
}

// Evaluator is the restricted expression engine. It is stateless and
// safe for concurrent use.
type Evaluator struct{}

// NewEvaluator returns a ready evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate computes a single expression: a unit conversion, a
// statistical aggregate, or plain arithmetic, decided by lexical shape
// in that order.
func (e *Evaluator) Evaluate(expression string) (string, error) {
	if strings.TrimSpace(expression) == "" {
		return "", apperrors.New(apperrors.KindInvalidData, "expression is empty")
	}
	for _, pattern := range denyPatterns {
		if pattern.MatchString(expression) {
			return "", apperrors.New(apperrors.KindUnsafeInput, "expression contains disallowed tokens")
		}
	}

	expr := normalize(expression)

	if isConversion(expr) {
		req, err := parseConversion(expr)
		if err != nil {
			return "", err
		}
		return convert(req)
	}

	if isAggregate(expr) {
		return aggregate(expr)
	}

	value, err := evalExpression(expr)
	if err != nil {
		return "", err
	}
	return formatNumber(value), nil
}

// normalize maps localized operator glyphs to canonical operators.
func normalize(expr string) string {
	expr = strings.ReplaceAll(expr, "×", "*")
	expr = strings.ReplaceAll(expr, "÷", "/")
	expr = strings.ReplaceAll(expr, "**", "^")
	return strings.TrimSpace(expr)
}

// formatNumber renders integral results as integers and everything
// else rounded to six fractional digits.
func formatNumber(value float64) string {
	if value == math.Trunc(value) && math.Abs(value) < 1e15 {
		return strconv.FormatInt(int64(value), 10)
	}
	rounded := math.Round(value*1e6) / 1e6
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
