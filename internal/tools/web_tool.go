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
	"strings"

	apperrors "toolhost/internal/errors"
	"toolhost/internal/web"
)

type webArgs struct {
	Operation string `json:"operation,omitempty" jsonschema:"description=One of fetch / links / images / api / parse_json (default fetch)"`
	URL       string `json:"url,omitempty" jsonschema:"description=Target URL (http or https)"`
	Method    string `json:"method,omitempty" jsonschema:"description=HTTP method for api calls: GET / POST / PUT / DELETE (default GET)"`
	Body      string `json:"body,omitempty" jsonschema:"description=JSON request body for api calls"`
	Text      string `json:"text,omitempty" jsonschema:"description=JSON text to analyze (parse_json operation only)"`
}

func webDescriptor(fetcher *web.Fetcher) *Descriptor {
	return &Descriptor{
		name:    "web",
		summary: "Fetch web pages as readable text, extract links and images, call JSON APIs and analyze JSON documents",
		params:  mustSchemaParametersFor[webArgs](),
		run: func(ctx context.Context, argument string) (string, error) {
			var args webArgs
			if err := decodeArgs(argument, "url", &args); err != nil {
				return "", err
			}
			op := strings.ToLower(strings.TrimSpace(args.Operation))
			switch op {
			case "", "fetch":
				return fetcher.Fetch(ctx, args.URL)
			case "links":
				return fetcher.Links(ctx, args.URL)
			case "images":
				return fetcher.Images(ctx, args.URL)
			case "api":
				return fetcher.Call(ctx, args.Method, args.URL, args.Body)
			case "parse_json":
				return fetcher.ParseJSON(args.Text)
			default:
				return "", apperrors.Newf(apperrors.KindInvalidData, "unknown web operation: %s", op)
			}
		},
	}
}
