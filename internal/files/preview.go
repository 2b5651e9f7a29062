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

package files

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/pretty"

	apperrors "toolhost/internal/errors"
)

const csvPreviewRows = 5

// previewJSON pretty-prints JSON file content, capped.
func previewJSON(data []byte, maxChars int) (string, error) {
	if !json.Valid(data) {
		return "", apperrors.New(apperrors.KindJSONDecode, "file is not valid JSON")
	}
	formatted := strings.TrimRight(string(pretty.Pretty(data)), "\n")
	return "JSON content:\n" + capText(formatted, maxChars), nil
}

// previewCSV shows the first rows of a CSV file with the total count.
func previewCSV(data []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindInvalidData, "failed to parse CSV", err)
	}
	if len(rows) == 0 {
		return "CSV file is empty", nil
	}

	shown := rows
	if len(shown) > csvPreviewRows {
		shown = shown[:csvPreviewRows]
	}
	lines := make([]string, 0, len(shown))
	for _, row := range shown {
		lines = append(lines, strings.Join(row, ","))
	}
	return fmt.Sprintf("CSV content (first %d of %d rows):\n%s",
		len(shown), len(rows), strings.Join(lines, "\n")), nil
}

// previewText caps raw text content with an explicit marker.
func previewText(data []byte, maxChars int) string {
	return capText(string(data), maxChars)
}

func capText(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars]) + fmt.Sprintf("\n...(truncated, showing first %d characters)", maxChars)
}
