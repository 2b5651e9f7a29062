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
	"toolhost/internal/files"
)

type fileArgs struct {
	Operation string `json:"operation,omitempty" jsonschema:"description=One of read / write / list / info / mkdir / search / exists (default read)"`
	Path      string `json:"path" jsonschema:"description=Path inside the sandbox relative to its root"`
	Content   string `json:"content,omitempty" jsonschema:"description=Content to write (write operation only)"`
	Pattern   string `json:"pattern,omitempty" jsonschema:"description=Glob pattern such as *.txt (search operation only)"`
}

func fileDescriptor(accessor *files.Accessor) *Descriptor {
	return &Descriptor{
		name:    "file",
		summary: "Read, write, list, inspect, create and search files inside a sandboxed directory",
		params:  mustSchemaParametersFor[fileArgs](),
		run: func(ctx context.Context, argument string) (string, error) {
			var args fileArgs
			if err := decodeArgs(argument, "path", &args); err != nil {
				return "", err
			}
			op := strings.ToLower(strings.TrimSpace(args.Operation))
			switch op {
			case "", "read":
				return accessor.Read(ctx, args.Path)
			case "write":
				return accessor.Write(ctx, args.Path, args.Content)
			case "list", "ls":
				return accessor.List(ctx, args.Path)
			case "info":
				return accessor.Info(ctx, args.Path)
			case "mkdir":
				return accessor.Mkdir(ctx, args.Path)
			case "search":
				return accessor.Search(ctx, args.Path, args.Pattern)
			case "exists":
				return accessor.Exists(ctx, args.Path)
			default:
				return "", apperrors.Newf(apperrors.KindInvalidData, "unknown file operation: %s", op)
			}
		},
	}
}
