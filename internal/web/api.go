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
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/pretty"

	apperrors "toolhost/internal/errors"
)

// Call issues a REST-style request with an optional JSON body and
// reports method and status alongside the (capped) response body,
// pretty-printed when it parses as JSON.
func (f *Fetcher) Call(ctx context.Context, method, rawURL, body string) (string, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return "", apperrors.Newf(apperrors.KindInvalidData, "unsupported HTTP method: %s", method)
	}

	target, err := f.validateURL(rawURL)
	if err != nil {
		return "", err
	}

	var reader *strings.Reader
	if body != "" {
		if !json.Valid([]byte(body)) {
			return "", apperrors.New(apperrors.KindJSONDecode, "request body is not valid JSON")
		}
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.do(req)
	if err != nil {
		return "", err
	}
	data, err := readBody(resp)
	if err != nil {
		return "", err
	}
	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var rendered string
	if json.Valid(data) {
		formatted := strings.TrimRight(string(pretty.Pretty(data)), "\n")
		rendered = capText(formatted, maxTextChars)
	} else {
		rendered = capText(string(data), maxRawChars)
	}

	lines := []string{
		fmt.Sprintf("url: %s", target),
		fmt.Sprintf("method: %s", method),
		fmt.Sprintf("status: %d", resp.StatusCode),
		"",
		"response:",
		rendered,
	}
	return strings.Join(lines, "\n"), nil
}
