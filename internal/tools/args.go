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
	"encoding/json"
	"strings"

	"github.com/mitchellh/mapstructure"

	apperrors "toolhost/internal/errors"
)

// decodeArgs fills a typed request from the raw argument string. A JSON
// object is decoded field by field; anything else is treated as free
// text and placed in the tool's primary field. Decoding happens once,
// up front, so tool implementations only ever see typed requests.
func decodeArgs(argument, primaryField string, out interface{}) error {
	trimmed := strings.TrimSpace(argument)

	fields := map[string]interface{}{}
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
			return apperrors.Wrap(apperrors.KindJSONDecode, "tool arguments are not valid JSON", err)
		}
	} else {
		fields[primaryField] = trimmed
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return apperrors.Wrap(apperrors.KindInvalidData, "failed to build argument decoder", err)
	}
	if err := decoder.Decode(fields); err != nil {
		return apperrors.Wrap(apperrors.KindInvalidData, "tool arguments do not match the expected shape", err)
	}
	return nil
}
