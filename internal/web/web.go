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

// Package web implements the outbound network fetcher: bounded HTTP(S)
// fetch, markup text/link/image extraction, generic API calls and JSON
// introspection. Every URL is validated against loopback and private
// address patterns before a single request is issued.
package web

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	apperrors "toolhost/internal/errors"
)

const (
	defaultTimeout  = 10 * time.Second
	maxTextChars    = 2000
	maxRawChars     = 1000
	maxLinksShown   = 10
	maxImagesShown  = 5
	maxResponseSize = 4 * 1024 * 1024
)

// Fetcher performs bounded outbound HTTP(S) operations. Immutable
// after construction and safe for concurrent use.
type Fetcher struct {
	client       *http.Client
	headers      map[string]string
	allowPrivate bool
}

// Option configures a Fetcher at construction time.
type Option func(*Fetcher)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) { f.client = client }
}

// WithPrivateHosts disables the loopback/private-network block. Meant
// for tests and explicitly trusted internal deployments only.
func WithPrivateHosts(allow bool) Option {
	return func(f *Fetcher) { f.allowPrivate = allow }
}

// WithTimeout overrides the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// NewFetcher returns a fetcher with a fixed timeout and identifying
// header set.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: defaultTimeout},
		headers: map[string]string{
			"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36",
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// do issues a request with the fetcher's header set and classifies
// transport failures.
func (f *Fetcher) do(req *http.Request) (*http.Response, error) {
	for key, value := range f.headers {
		req.Header.Set(key, value)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		if urlErr, ok := err.(*url.Error); ok && urlErr.Timeout() {
			return nil, apperrors.Newf(apperrors.KindTimeout, "request timed out: %s", req.URL)
		}
		return nil, fmt.Errorf("request failed: %v", err)
	}
	return resp, nil
}

// readBody drains a response up to the fixed size ceiling.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}
	return data, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.Newf(apperrors.KindHTTPStatus, "HTTP error %d for %s", resp.StatusCode, resp.Request.URL)
	}
	return nil
}

// capText bounds result text with an explicit truncation marker.
func capText(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + fmt.Sprintf("\n...(truncated, showing first %d characters)", max)
}
