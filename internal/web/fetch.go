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
	"fmt"
	"net/http"
	"strings"
)

// Fetch retrieves a page and returns its title, status, raw length and
// a whitespace-collapsed text rendering with scripts and styles
// removed, capped at the text ceiling.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	target, err := f.validateURL(rawURL)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %v", err)
	}
	resp, err := f.do(req)
	if err != nil {
		return "", err
	}
	body, err := readBody(resp)
	if err != nil {
		return "", err
	}
	if err := checkStatus(resp); err != nil {
		return "", err
	}

	doc, err := parseDocument(body)
	if err != nil {
		return "", err
	}

	lines := []string{
		fmt.Sprintf("url: %s", target),
		fmt.Sprintf("title: %s", documentTitle(doc)),
		fmt.Sprintf("status: %d", resp.StatusCode),
		fmt.Sprintf("length: %d bytes", len(body)),
		"",
		"content:",
		capText(documentText(doc), maxTextChars),
	}
	return strings.Join(lines, "\n"), nil
}

// Links extracts anchors from a page, resolving relative references
// against the request URL and dropping non-http(s) targets.
func (f *Fetcher) Links(ctx context.Context, rawURL string) (string, error) {
	target, err := f.validateURL(rawURL)
	if err != nil {
		return "", err
	}
	doc, err := f.fetchDocument(ctx, target.String())
	if err != nil {
		return "", err
	}

	links := extractLinks(doc, target)
	if len(links) == 0 {
		return fmt.Sprintf("no links found at %s", target), nil
	}

	var out strings.Builder
	fmt.Fprintf(&out, "found %d links at %s:\n", len(links), target)
	shown := links
	if len(shown) > maxLinksShown {
		shown = shown[:maxLinksShown]
	}
	for i, link := range shown {
		fmt.Fprintf(&out, "%d. %s\n", i+1, link)
	}
	if len(links) > len(shown) {
		fmt.Fprintf(&out, "... %d more not shown", len(links)-len(shown))
	}
	return strings.TrimRight(out.String(), "\n"), nil
}

// Images extracts image references from a page; data URIs are kept,
// other non-http(s) schemes are dropped.
func (f *Fetcher) Images(ctx context.Context, rawURL string) (string, error) {
	target, err := f.validateURL(rawURL)
	if err != nil {
		return "", err
	}
	doc, err := f.fetchDocument(ctx, target.String())
	if err != nil {
		return "", err
	}

	images := extractImages(doc, target)
	if len(images) == 0 {
		return fmt.Sprintf("no images found at %s", target), nil
	}

	var out strings.Builder
	fmt.Fprintf(&out, "found %d images at %s:\n", len(images), target)
	shown := images
	if len(shown) > maxImagesShown {
		shown = shown[:maxImagesShown]
	}
	for i, img := range shown {
		fmt.Fprintf(&out, "%d. %s\n", i+1, img)
	}
	if len(images) > len(shown) {
		fmt.Fprintf(&out, "... %d more not shown", len(images)-len(shown))
	}
	return strings.TrimRight(out.String(), "\n"), nil
}
