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
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	apperrors "toolhost/internal/errors"
)

var aggregatePattern = regexp.MustCompile(`^(mean|median|std|var)\(\[([^\]]*)\]\)$`)

// isAggregate reports whether the expression begins with a recognized
// aggregate function applied to a bracketed list.
func isAggregate(expr string) bool {
	trimmed := strings.TrimSpace(expr)
	for _, name := range []string{"mean([", "median([", "std([", "var(["} {
		if strings.HasPrefix(trimmed, name) {
			return true
		}
	}
	return false
}

// aggregate parses and evaluates a statistical aggregate over a
// comma-separated numeric list.
func aggregate(expr string) (string, error) {
	m := aggregatePattern.FindStringSubmatch(strings.TrimSpace(expr))
	if m == nil {
		return "", apperrors.New(apperrors.KindInvalidData, "aggregate format is 'mean([1,2,3,4,5])'")
	}
	fn := m[1]

	data, err := parseNumberList(m[2])
	if err != nil {
		return "", err
	}

	var result float64
	switch fn {
	case "mean":
		result = mean(data)
	case "median":
		result = median(data)
	case "std":
		result, err = sampleStdev(data)
	case "var":
		result, err = sampleVariance(data)
	}
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s: %s (n=%d)", fn, formatNumber(result), len(data)), nil
}

func parseNumberList(list string) ([]float64, error) {
	parts := strings.Split(list, ",")
	data := make([]float64, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		value, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, apperrors.Newf(apperrors.KindInvalidData, "non-numeric list element: %s", trimmed)
		}
		data = append(data, value)
	}
	if len(data) == 0 {
		return nil, apperrors.New(apperrors.KindInvalidData, "aggregate list is empty")
	}
	return data, nil
}

func mean(data []float64) float64 {
	var sum float64
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

func median(data []float64) float64 {
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// sampleVariance requires at least two elements (n-1 denominator).
func sampleVariance(data []float64) (float64, error) {
	if len(data) < 2 {
		return 0, apperrors.New(apperrors.KindInvalidData, "variance requires at least two data points")
	}
	m := mean(data)
	var sum float64
	for _, v := range data {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(data)-1), nil
}

func sampleStdev(data []float64) (float64, error) {
	variance, err := sampleVariance(data)
	if err != nil {
		return 0, apperrors.New(apperrors.KindInvalidData, "standard deviation requires at least two data points")
	}
	return math.Sqrt(variance), nil
}
