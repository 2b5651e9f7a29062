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

package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind identifies a class of tool failure for programmatic handling.
type Kind string

const (
	KindUnsafeInput     Kind = "unsafe_input"
	KindUnsupportedUnit Kind = "unsupported_unit"
	KindInvalidData     Kind = "invalid_data"
	KindDivisionByZero  Kind = "division_by_zero"
	KindPathEscape      Kind = "path_escape"
	KindRestrictedPath  Kind = "restricted_path"
	KindTooLarge        Kind = "too_large"
	KindSSRFBlocked     Kind = "ssrf_blocked"
	KindHTTPStatus      Kind = "http_status"
	KindJSONDecode      Kind = "json_decode"
	KindUnknownTool     Kind = "unknown_tool"
	KindTimeout         Kind = "timeout"
)

// Error wraps an underlying error with a kind and message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" {
		if e.Err != nil {
			return e.Err.Error()
		}
		return string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new kinded error with a message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a new kinded error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new kinded error that wraps an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain; empty when uncoded.
func KindOf(err error) Kind {
	var coded *Error
	if stderrors.As(err, &coded) {
		return coded.Kind
	}
	return ""
}
