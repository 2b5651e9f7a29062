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

// Package files implements the sandbox-confined file accessor. All
// operations resolve their path through the confinement layer first;
// filesystem faults are rendered as descriptive errors and never
// propagate past this package as panics.
package files

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/u-root/u-root/pkg/core"
	coremkdir "github.com/u-root/u-root/pkg/core/mkdir"

	apperrors "toolhost/internal/errors"
	"toolhost/internal/paths"
)

// Limits configures size and traversal bounds for file operations.
type Limits struct {
	MaxFileSizeBytes int64
	MaxTextChars     int
	MaxListEntries   int
	MaxSearchDepth   int
	MaxSearchMatches int
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() Limits {
	return Limits{
		MaxFileSizeBytes: 10 * 1024 * 1024,
		MaxTextChars:     5000,
		MaxListEntries:   10,
		MaxSearchDepth:   3,
		MaxSearchMatches: 20,
	}
}

// restrictedPrefixes are denied regardless of sandbox containment.
var restrictedPrefixes = []string{
	"/etc", "/sys", "/proc", "/dev",
	"/boot", "/root", "/var/run", "/var/lib",
}

func restrictedDirs() []string {
	dirs := append([]string{}, restrictedPrefixes...)
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "Desktop"), filepath.Join(home, "Documents"))
	}
	return dirs
}

// Accessor performs file operations confined to a fixed sandbox root.
// The root is canonicalized at construction and never widens; the
// accessor is immutable afterwards and safe for concurrent readers.
type Accessor struct {
	root       string
	limits     Limits
	restricted []string
}

// NewAccessor builds an accessor rooted at the given directory. An
// unusable root is a construction-time failure, not a deferred one.
func NewAccessor(root string) (*Accessor, error) {
	return NewAccessorWithLimits(root, DefaultLimits())
}

// NewAccessorWithLimits builds an accessor with explicit limits.
func NewAccessorWithLimits(root string, limits Limits) (*Accessor, error) {
	canonical, err := paths.CanonicalRoot(root)
	if err != nil {
		return nil, err
	}
	if limits.MaxFileSizeBytes <= 0 {
		limits.MaxFileSizeBytes = DefaultLimits().MaxFileSizeBytes
	}
	if limits.MaxTextChars <= 0 {
		limits.MaxTextChars = DefaultLimits().MaxTextChars
	}
	if limits.MaxListEntries <= 0 {
		limits.MaxListEntries = DefaultLimits().MaxListEntries
	}
	if limits.MaxSearchDepth <= 0 {
		limits.MaxSearchDepth = DefaultLimits().MaxSearchDepth
	}
	if limits.MaxSearchMatches <= 0 {
		limits.MaxSearchMatches = DefaultLimits().MaxSearchMatches
	}
	return &Accessor{root: canonical, limits: limits, restricted: restrictedDirs()}, nil
}

// Root returns the canonical sandbox root.
func (a *Accessor) Root() string {
	return a.root
}

// resolve canonicalizes a path, enforces sandbox confinement and the
// restricted-directory deny list.
func (a *Accessor) resolve(path string) (string, error) {
	resolved, err := paths.ResolveWithinRoot(path, a.root)
	if err != nil {
		return "", err
	}
	for _, dir := range a.restricted {
		if paths.HasPathPrefix(resolved, dir) {
			return "", apperrors.Newf(apperrors.KindRestrictedPath, "access to %s is restricted", dir)
		}
	}
	return resolved, nil
}

// Read returns file content, dispatching structured formats to a
// type-aware preview and capping raw text at the configured ceiling.
func (a *Accessor) Read(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resolved, err := a.resolve(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file does not exist: %s", path)
		}
		return "", fmt.Errorf("failed to read file: %v", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("not a file: %s", path)
	}
	if info.Size() > a.limits.MaxFileSizeBytes {
		return "", apperrors.Newf(apperrors.KindTooLarge, "file exceeds maximum size of %d bytes", a.limits.MaxFileSizeBytes)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %v", err)
	}

	switch strings.ToLower(filepath.Ext(resolved)) {
	case ".json":
		return previewJSON(data, a.limits.MaxTextChars)
	case ".csv":
		return previewCSV(data)
	default:
		return previewText(data, a.limits.MaxTextChars), nil
	}
}

// Write creates or overwrites a file with the exact given content. The
// parent directory must already exist.
func (a *Accessor) Write(ctx context.Context, path, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resolved, err := a.resolve(path)
	if err != nil {
		return "", err
	}
	if int64(len(content)) > a.limits.MaxFileSizeBytes {
		return "", apperrors.Newf(apperrors.KindTooLarge, "content exceeds maximum size of %d bytes", a.limits.MaxFileSizeBytes)
	}

	parent := filepath.Dir(resolved)
	if info, err := os.Stat(parent); err != nil || !info.IsDir() {
		return "", fmt.Errorf("parent directory does not exist: %s", parent)
	}
	if info, err := os.Stat(resolved); err == nil && info.IsDir() {
		return "", fmt.Errorf("path is a directory: %s", path)
	}

	if err := os.WriteFile(resolved, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %v", err)
	}
	return fmt.Sprintf("wrote %d bytes to %s", len(content), path), nil
}

// List renders a directory listing with entries separated into
// directories and files, each file annotated with a readable size.
func (a *Accessor) List(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resolved, err := a.resolve(path)
	if err != nil {
		return "", err
	}

	entries, err := os.ReadDir(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("directory does not exist: %s", path)
		}
		return "", fmt.Errorf("failed to list directory: %v", err)
	}
	if len(entries) == 0 {
		return "directory is empty", nil
	}

	var dirs, fileLines []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name()+"/")
			continue
		}
		line := entry.Name()
		if info, err := entry.Info(); err == nil {
			line = fmt.Sprintf("%s (%s)", entry.Name(), formatSize(info.Size()))
		}
		fileLines = append(fileLines, line)
	}

	var out strings.Builder
	max := a.limits.MaxListEntries
	if len(dirs) > 0 {
		out.WriteString("directories:\n")
		writeCapped(&out, dirs, max)
	}
	if len(fileLines) > 0 {
		if out.Len() > 0 {
			out.WriteString("\n")
		}
		out.WriteString("files:\n")
		writeCapped(&out, fileLines, max)
	}
	total := len(dirs) + len(fileLines)
	if total > 2*max {
		fmt.Fprintf(&out, "\n%d entries total, showing first %d per category", total, max)
	}
	return out.String(), nil
}

func writeCapped(out *strings.Builder, lines []string, max int) {
	shown := lines
	if len(shown) > max {
		shown = shown[:max]
	}
	for _, line := range shown {
		out.WriteString("  " + line + "\n")
	}
	if len(lines) > max {
		fmt.Fprintf(out, "  ... %d more\n", len(lines)-max)
	}
}

// Info reports size, timestamps and a permission summary for a path.
func (a *Accessor) Info(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resolved, err := a.resolve(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("path does not exist: %s", path)
		}
		return "", fmt.Errorf("failed to stat path: %v", err)
	}

	created, accessed := statTimes(info)
	lines := []string{
		fmt.Sprintf("path: %s", path),
		fmt.Sprintf("size: %s", formatSize(info.Size())),
		fmt.Sprintf("created: %s", created.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("modified: %s", info.ModTime().Format("2006-01-02 15:04:05")),
		fmt.Sprintf("accessed: %s", accessed.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("mode: %s", info.Mode().Perm()),
	}
	if !info.IsDir() {
		lines = append(lines, fmt.Sprintf("type: %s", fileTypeLabel(resolved)))
	}
	return strings.Join(lines, "\n"), nil
}

// Mkdir creates a directory tree; an existing directory is reported,
// not treated as a fault.
func (a *Accessor) Mkdir(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resolved, err := a.resolve(path)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(resolved); err == nil {
		if info.IsDir() {
			return fmt.Sprintf("directory already exists: %s", path), nil
		}
		return "", fmt.Errorf("path exists and is not a directory: %s", path)
	}

	if _, err := a.runCore(ctx, coremkdir.New(), "-p", resolved); err != nil {
		return "", fmt.Errorf("failed to create directory: %v", err)
	}
	return fmt.Sprintf("created directory: %s", path), nil
}

// runCore executes a u-root core command rooted at the sandbox.
func (a *Accessor) runCore(ctx context.Context, cmd core.Command, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd.SetIO(strings.NewReader(""), &stdout, &stderr)
	cmd.SetWorkingDir(a.root)
	if err := cmd.RunContext(ctx, args...); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%v: %s", err, msg)
		}
		return "", err
	}
	return stdout.String(), nil
}

// Search matches file names against a glob pattern below a directory,
// bounded by the traversal-depth and match-count ceilings.
func (a *Accessor) Search(ctx context.Context, path, pattern string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if pattern == "" {
		pattern = "*"
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return "", apperrors.Newf(apperrors.KindInvalidData, "invalid search pattern: %s", pattern)
	}

	resolved, err := a.resolve(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("directory does not exist: %s", path)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", path)
	}

	var matches []string
	truncated := false
	err = filepath.WalkDir(resolved, func(p string, d fs.DirEntry, walkErr error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if walkErr != nil {
			// Unreadable subtrees are skipped, not fatal.
			return nil
		}
		rel, err := filepath.Rel(resolved, p)
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if rel != "." && strings.Count(rel, string(os.PathSeparator))+1 > a.limits.MaxSearchDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			matches = append(matches, rel)
			if len(matches) >= a.limits.MaxSearchMatches {
				truncated = true
				return filepath.SkipAll
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("search failed: %v", err)
	}

	if len(matches) == 0 {
		return fmt.Sprintf("no files matching %q under %s", pattern, displayPath(path)), nil
	}

	var out strings.Builder
	if truncated {
		fmt.Fprintf(&out, "found %d+ files matching %q (match limit reached):\n", len(matches), pattern)
	} else {
		fmt.Fprintf(&out, "found %d files matching %q:\n", len(matches), pattern)
	}
	shown := matches
	if len(shown) > a.limits.MaxListEntries {
		shown = shown[:a.limits.MaxListEntries]
	}
	for i, m := range shown {
		fmt.Fprintf(&out, "%d. %s\n", i+1, m)
	}
	if len(matches) > len(shown) {
		fmt.Fprintf(&out, "... %d more not shown", len(matches)-len(shown))
	}
	return strings.TrimRight(out.String(), "\n"), nil
}

// Exists reports file, directory or absent; absence is an answer, not
// a fault.
func (a *Accessor) Exists(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	resolved, err := a.resolve(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("does not exist: %s", displayPath(path)), nil
		}
		return "", fmt.Errorf("failed to check path: %v", err)
	}
	if info.IsDir() {
		return fmt.Sprintf("directory exists: %s", displayPath(path)), nil
	}
	return fmt.Sprintf("file exists: %s", displayPath(path)), nil
}

func displayPath(path string) string {
	if path == "" {
		return "."
	}
	return path
}

var fileTypeLabels = map[string]string{
	".txt":  "text file",
	".json": "JSON file",
	".csv":  "CSV file",
	".md":   "Markdown file",
	".log":  "log file",
	".go":   "Go source file",
}

func fileTypeLabel(path string) string {
	if label, ok := fileTypeLabels[strings.ToLower(filepath.Ext(path))]; ok {
		return label
	}
	return "unknown file type"
}

// formatSize converts bytes to human-readable form.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%dB", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	sizes := []string{"KB", "MB", "GB", "TB"}
	return fmt.Sprintf("%.1f%s", float64(bytes)/float64(div), sizes[exp])
}
