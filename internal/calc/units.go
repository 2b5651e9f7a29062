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

import apperrors "toolhost/internal/errors"

// unitTables maps category -> unit symbol -> scale factor relative to
// the category base unit (metre, kilogram). Temperature is excluded:
// its scales do not share a zero, so conversion goes through the
// Celsius pivot instead of a linear factor.
var unitTables = map[string]map[string]float64{
	"length": {
		"m":    1,
		"km":   1000,
		"cm":   0.01,
		"mm":   0.001,
		"inch": 0.0254,
		"ft":   0.3048,
		"mile": 1609.344,
	},
	"weight": {
		"kg": 1,
		"g":  0.001,
		"mg": 0.000001,
		"lb": 0.453592,
		"oz": 0.0283495,
	},
}

func isTemperatureUnit(unit string) bool {
	switch unit {
	case "c", "f", "k":
		return true
	}
	return false
}

// convertTemperature converts between c, f and k through the Celsius
// pivot: f = c*9/5+32, k = c+273.15.
func convertTemperature(value float64, from, to string) (float64, error) {
	var celsius float64
	switch from {
	case "c":
		celsius = value
	case "f":
		celsius = (value - 32) * 5 / 9
	case "k":
		celsius = value - 273.15
	default:
		return 0, apperrors.Newf(apperrors.KindUnsupportedUnit, "unsupported temperature unit: %s", from)
	}

	switch to {
	case "c":
		return celsius, nil
	case "f":
		return celsius*9/5 + 32, nil
	case "k":
		return celsius + 273.15, nil
	default:
		return 0, apperrors.Newf(apperrors.KindUnsupportedUnit, "unsupported temperature unit: %s", to)
	}
}

// convertLinear locates a category registering both units and scales
// value through the category base unit.
func convertLinear(value float64, from, to string) (float64, error) {
	for _, table := range unitTables {
		fromFactor, okFrom := table[from]
		toFactor, okTo := table[to]
		if okFrom && okTo {
			return value * fromFactor / toFactor, nil
		}
	}
	return 0, apperrors.Newf(apperrors.KindUnsupportedUnit, "unsupported conversion from %s to %s", from, to)
}
