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
	"net"
	"net/url"
	"strings"

	apperrors "toolhost/internal/errors"
)

// validateURL enforces the outbound request policy: explicit http(s)
// scheme and no loopback, private-network, link-local or unspecified
// hosts. It runs before any request is issued.
func (f *Fetcher) validateURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, apperrors.Newf(apperrors.KindInvalidData, "invalid URL: %s", raw)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, apperrors.Newf(apperrors.KindSSRFBlocked, "URL scheme must be http or https: %s", raw)
	}
	host := parsed.Hostname()
	if host == "" {
		return nil, apperrors.Newf(apperrors.KindInvalidData, "URL has no host: %s", raw)
	}
	if f.allowPrivate {
		return parsed, nil
	}

	lower := strings.ToLower(host)
	if lower == "localhost" || strings.HasSuffix(lower, ".localhost") {
		return nil, apperrors.Newf(apperrors.KindSSRFBlocked, "requests to %s are blocked", host)
	}
	if ip := net.ParseIP(host); ip != nil && isForbiddenIP(ip) {
		return nil, apperrors.Newf(apperrors.KindSSRFBlocked, "requests to %s are blocked", host)
	}
	return parsed, nil
}

func isForbiddenIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified()
}
