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

// Package paths provides path validation and sandbox confinement
// primitives. Every filesystem path a tool touches goes through
// ResolveWithinRoot first; the canonical result is guaranteed to be
// the sandbox root or a descendant of it.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	apperrors "toolhost/internal/errors"
)

// MaxPathLength bounds raw path input before any resolution.
const MaxPathLength = 4096

// ValidatePathString validates raw path input before resolution.
func ValidatePathString(path string) error {
	if strings.TrimSpace(path) == "" {
		return apperrors.New(apperrors.KindInvalidData, "path cannot be empty")
	}
	if strings.IndexByte(path, 0) != -1 {
		return apperrors.New(apperrors.KindInvalidData, "path contains null byte")
	}
	if !utf8.ValidString(path) {
		return apperrors.New(apperrors.KindInvalidData, "path is not valid UTF-8")
	}
	if len(path) > MaxPathLength || len(filepath.Clean(path)) > MaxPathLength {
		return apperrors.Newf(apperrors.KindInvalidData, "path exceeds maximum length of %d characters", MaxPathLength)
	}
	return nil
}

// CanonicalRoot resolves a sandbox root to an absolute, symlink-free
// directory path. It fails when the root does not exist or is not a
// directory; a bad root is a construction-time error, never deferred
// to a tool call.
func CanonicalRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("invalid sandbox root: %v", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve sandbox root: %v", err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("failed to stat sandbox root: %v", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("sandbox root is not a directory: %s", resolved)
	}
	return resolved, nil
}

// ResolveWithinRoot resolves path against a canonical root and verifies
// confinement after symlink and ".." elimination. An empty path or "."
// resolves to the root itself. Absolute paths are accepted only when
// they canonicalize to the root or a descendant.
func ResolveWithinRoot(path, root string) (string, error) {
	if path == "" || path == "." {
		return root, nil
	}
	if err := ValidatePathString(path); err != nil {
		return "", err
	}

	var abs string
	if filepath.IsAbs(path) {
		abs = filepath.Clean(path)
	} else {
		abs = filepath.Clean(filepath.Join(root, path))
	}
	if !HasPathPrefix(abs, root) {
		return "", apperrors.Newf(apperrors.KindPathEscape, "path escapes sandbox: %s", path)
	}

	resolved, err := resolveSymlinked(abs, root)
	if err != nil {
		return "", err
	}
	if !HasPathPrefix(resolved, root) {
		return "", apperrors.Newf(apperrors.KindPathEscape, "path escapes sandbox: %s", path)
	}
	return resolved, nil
}

// resolveSymlinked resolves symlinks for an existing path, or resolves
// the parent when the leaf does not exist yet (write/mkdir targets).
func resolveSymlinked(abs, root string) (string, error) {
	if _, err := os.Lstat(abs); err == nil {
		resolved, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return "", fmt.Errorf("failed to resolve path: %v", err)
		}
		return resolved, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to stat path: %v", err)
	}

	parent := filepath.Dir(abs)
	parentResolved, err := filepath.EvalSymlinks(parent)
	if err != nil {
		if os.IsNotExist(err) {
			// Parent missing: keep the cleaned path so the operation
			// can report a precise "parent does not exist" error.
			return abs, nil
		}
		return "", fmt.Errorf("failed to resolve parent path: %v", err)
	}
	if !HasPathPrefix(parentResolved, root) {
		return "", apperrors.Newf(apperrors.KindPathEscape, "path escapes sandbox: %s", abs)
	}
	return filepath.Join(parentResolved, filepath.Base(abs)), nil
}

// HasPathPrefix returns true when path is base or within base.
func HasPathPrefix(path, base string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, ".."+string(os.PathSeparator)) && rel != "..")
}
