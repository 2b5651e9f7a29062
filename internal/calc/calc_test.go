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
	"testing"

	apperrors "toolhost/internal/errors"
)

func TestEvaluateArithmetic(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{"precedence", "2+3*4", "14"},
		{"parentheses", "(2+3)*4", "20"},
		{"power right assoc", "2^3^2", "512"},
		{"double star power", "2**10", "1024"},
		{"floor division", "7//2", "3"},
		{"modulo", "10 % 3", "1"},
		{"unary minus", "-5+3", "-2"},
		{"unicode multiply", "6×7", "42"},
		{"unicode divide", "84÷2", "42"},
		{"sqrt", "sqrt(16)", "4"},
		{"abs", "abs(-3.5)", "3.5"},
		{"log base ten", "log(1000)", "3"},
		{"ln of e", "ln(e)", "1"},
		{"pi constant", "pi*0", "0"},
		{"fractional rounding", "1/3", "0.333333"},
		{"nested functions", "sqrt(abs(-16))", "4"},
	}

	e := NewEvaluator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Evaluate(tt.expr)
			if err != nil {
				t.Fatalf("Evaluate(%q) error: %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
		kind apperrors.Kind
	}{
		{"division by zero", "10/0", apperrors.KindDivisionByZero},
		{"floor division by zero", "10//0", apperrors.KindDivisionByZero},
		{"modulo by zero", "10%0", apperrors.KindDivisionByZero},
		{"empty expression", "   ", apperrors.KindInvalidData},
		{"import attempt", "import os", apperrors.KindUnsafeInput},
		{"dunder access", "__class__", apperrors.KindUnsafeInput},
		{"eval call", "eval(1)", apperrors.KindUnsafeInput},
		{"open call", "open('/etc/passwd')", apperrors.KindUnsafeInput},
		{"os module access", "os.getcwd", apperrors.KindUnsafeInput},
		{"unknown function", "system(1)", apperrors.KindInvalidData},
		{"unknown identifier", "foo+1", apperrors.KindInvalidData},
		{"sqrt negative", "sqrt(-1)", apperrors.KindInvalidData},
		{"log non positive", "log(0)", apperrors.KindInvalidData},
		{"trailing garbage", "1+2 3", apperrors.KindInvalidData},
		{"unbalanced paren", "(1+2", apperrors.KindInvalidData},
	}

	e := NewEvaluator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Evaluate(tt.expr)
			if err == nil {
				t.Fatalf("Evaluate(%q) expected error", tt.expr)
			}
			if got := apperrors.KindOf(err); got != tt.kind {
				t.Errorf("Evaluate(%q) kind = %q, want %q", tt.expr, got, tt.kind)
			}
		})
	}
}

func TestEvaluateConversions(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{"km to m", "10km to m", "10km = 10000m"},
		{"km to m spaced", "10 km to m", "10km = 10000m"},
		{"mile to km", "1mile to km", "1mile = 1.609344km"},
		{"kg to lb", "1kg to lb", "1kg = 2.204624lb"},
		{"celsius to fahrenheit", "0C to F", "0C = 32F"},
		{"fahrenheit to celsius", "212F to C", "212F = 100C"},
		{"celsius to kelvin", "0C to K", "0C = 273.15K"},
	}

	e := NewEvaluator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Evaluate(tt.expr)
			if err != nil {
				t.Fatalf("Evaluate(%q) error: %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluateConversionErrors(t *testing.T) {
	e := NewEvaluator()
	_, err := e.Evaluate("10km to liters")
	if err == nil {
		t.Fatal("expected error for unsupported unit")
	}
	if got := apperrors.KindOf(err); got != apperrors.KindUnsupportedUnit {
		t.Errorf("kind = %q, want %q", got, apperrors.KindUnsupportedUnit)
	}

	// Mixed categories are not convertible.
	_, err = e.Evaluate("10kg to m")
	if err == nil {
		t.Fatal("expected error for cross-category conversion")
	}
	if got := apperrors.KindOf(err); got != apperrors.KindUnsupportedUnit {
		t.Errorf("kind = %q, want %q", got, apperrors.KindUnsupportedUnit)
	}
}

func TestEvaluateAggregates(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{"mean", "mean([1,2,3,4,5])", "mean: 3 (n=5)"},
		{"median odd", "median([3,1,2])", "median: 2 (n=3)"},
		{"median even", "median([1,2,3,4])", "median: 2.5 (n=4)"},
		{"variance", "var([2,4,4,4,5,5,7,9])", "var: 4.571429 (n=8)"},
		{"stdev", "std([2,2])", "std: 0 (n=2)"},
	}

	e := NewEvaluator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Evaluate(tt.expr)
			if err != nil {
				t.Fatalf("Evaluate(%q) error: %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluateAggregateErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"stdev single point", "std([1])"},
		{"variance single point", "var([5])"},
		{"empty list", "mean([])"},
		{"non numeric element", "mean([1,two,3])"},
	}

	e := NewEvaluator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Evaluate(tt.expr)
			if err == nil {
				t.Fatalf("Evaluate(%q) expected error", tt.expr)
			}
			if got := apperrors.KindOf(err); got != apperrors.KindInvalidData {
				t.Errorf("kind = %q, want %q", got, apperrors.KindInvalidData)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{14, "14"},
		{-2, "-2"},
		{0.5, "0.5"},
		{1.0 / 3.0, "0.333333"},
		{2.000000004, "2"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.value); got != tt.want {
			t.Errorf("formatNumber(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
