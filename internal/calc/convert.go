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

package calc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	apperrors "toolhost/internal/errors"
)

// ConversionRequest is the typed form of a "<number><unit> to <unit>"
// expression, produced by parseConversion before any table lookup.
type ConversionRequest struct {
	Value    float64
	FromUnit string
	ToUnit   string
}

var conversionPattern = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)\s*([a-z]+)\s+to\s+([a-z]+)$`)

// isConversion reports whether the expression has the lexical shape of
// a unit conversion. Matching is word-bounded so identifiers that
// merely contain "to" (atan, total) never match.
func isConversion(expr string) bool {
	return conversionPattern.MatchString(strings.ToLower(strings.TrimSpace(expr)))
}

// parseConversion tokenizes a conversion expression into a typed
// request. Parsing is separate from computation so unit validation
// never mixes with text matching.
func parseConversion(expr string) (ConversionRequest, error) {
	m := conversionPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(expr)))
	if m == nil {
		return ConversionRequest{}, apperrors.New(apperrors.KindInvalidData, "conversion format is '<number><unit> to <unit>', e.g. '10km to m'")
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return ConversionRequest{}, apperrors.Newf(apperrors.KindInvalidData, "invalid numeric value: %s", m[1])
	}
	return ConversionRequest{Value: value, FromUnit: m[2], ToUnit: m[3]}, nil
}

// convert executes a typed conversion request.
func convert(req ConversionRequest) (string, error) {
	if isTemperatureUnit(req.FromUnit) && isTemperatureUnit(req.ToUnit) {
		result, err := convertTemperature(req.Value, req.FromUnit, req.ToUnit)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s%s = %s%s",
			formatNumber(req.Value), strings.ToUpper(req.FromUnit),
			formatNumber(result), strings.ToUpper(req.ToUnit)), nil
	}

	result, err := convertLinear(req.Value, req.FromUnit, req.ToUnit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s = %s%s",
		formatNumber(req.Value), req.FromUnit,
		formatNumber(result), req.ToUnit), nil
}
