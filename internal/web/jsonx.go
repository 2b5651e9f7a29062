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

package web

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	apperrors "toolhost/internal/errors"
)

// ParseJSON validates JSON text and reports structural statistics plus
// a capped pretty-printed rendering. Malformed input yields a decode
// error with no partial structure.
func (f *Fetcher) ParseJSON(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", apperrors.New(apperrors.KindJSONDecode, "JSON text is empty")
	}
	if !gjson.Valid(trimmed) {
		return "", apperrors.New(apperrors.KindJSONDecode, "invalid JSON")
	}

	parsed := gjson.Parse(trimmed)
	formatted := strings.TrimRight(string(pretty.Pretty([]byte(trimmed))), "\n")

	lines := []string{
		fmt.Sprintf("statistics: %s", describeJSON(parsed)),
		"",
		"content:",
		capText(formatted, maxTextChars),
	}
	return strings.Join(lines, "\n"), nil
}

// describeJSON summarizes structure: key count and value-type
// histogram for objects, length and first-element type for arrays, the
// bare type for scalars.
func describeJSON(value gjson.Result) string {
	if value.IsObject() {
		histogram := map[string]int{}
		count := 0
		value.ForEach(func(_, v gjson.Result) bool {
			histogram[jsonTypeName(v)]++
			count++
			return true
		})
		names := make([]string, 0, len(histogram))
		for name := range histogram {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s:%d", name, histogram[name]))
		}
		return fmt.Sprintf("object (%d keys), value types: %s", count, strings.Join(parts, ", "))
	}

	if value.IsArray() {
		items := value.Array()
		if len(items) == 0 {
			return "empty array"
		}
		return fmt.Sprintf("array (%d elements), first element: %s", len(items), jsonTypeName(items[0]))
	}

	return fmt.Sprintf("scalar: %s", jsonTypeName(value))
}

func jsonTypeName(value gjson.Result) string {
	switch value.Type {
	case gjson.String:
		return "string"
	case gjson.Number:
		return "number"
	case gjson.True, gjson.False:
		return "bool"
	case gjson.Null:
		return "null"
	case gjson.JSON:
		if value.IsArray() {
			return "array"
		}
		return "object"
	default:
		return "unknown"
	}
}
