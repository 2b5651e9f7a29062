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
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// fetchDocument retrieves and parses a page for extraction operations.
func (f *Fetcher) fetchDocument(ctx context.Context, target string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %v", err)
	}
	resp, err := f.do(req)
	if err != nil {
		return nil, err
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return parseDocument(body)
}

func parseDocument(body []byte) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %v", err)
	}
	return doc, nil
}

// documentTitle returns the page title or a placeholder.
func documentTitle(doc *html.Node) string {
	var title string
	walk(doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return false
		}
		return true
	})
	if title == "" {
		return "(no title)"
	}
	return title
}

// documentText renders the page text with script and style content
// stripped and whitespace collapsed.
func documentText(doc *html.Node) string {
	var chunks []string
	walk(doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return false
			}
		}
		if n.Type == html.TextNode {
			if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
				chunks = append(chunks, text)
			}
		}
		return true
	})
	return strings.Join(chunks, "\n")
}

// extractLinks collects resolved anchor targets, "text: href" when
// anchor text is present.
func extractLinks(doc *html.Node, base *url.URL) []string {
	var links []string
	walk(doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "a" {
			href := attrValue(n, "href")
			if href == "" {
				return true
			}
			resolved, ok := resolveRef(base, href)
			if !ok {
				return true
			}
			if text := strings.Join(strings.Fields(nodeText(n)), " "); text != "" {
				links = append(links, fmt.Sprintf("%s: %s", text, resolved))
			} else {
				links = append(links, resolved)
			}
		}
		return true
	})
	return links
}

// extractImages collects image sources with their alt text; data URIs
// pass, other non-http(s) schemes are dropped.
func extractImages(doc *html.Node, base *url.URL) []string {
	var images []string
	walk(doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "img" {
			src := attrValue(n, "src")
			if src == "" {
				return true
			}
			alt := attrValue(n, "alt")
			if alt == "" {
				alt = "(no description)"
			}
			if strings.HasPrefix(src, "data:image") {
				images = append(images, fmt.Sprintf("%s: %s", alt, capText(src, 80)))
				return true
			}
			resolved, ok := resolveRef(base, src)
			if !ok {
				return true
			}
			images = append(images, fmt.Sprintf("%s: %s", alt, resolved))
		}
		return true
	})
	return images
}

// resolveRef resolves a reference against the request URL and keeps
// only http(s) results.
func resolveRef(base *url.URL, ref string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	return resolved.String(), true
}

// walk visits nodes depth-first; visit returning false prunes the
// subtree.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walk(child, visit)
	}
}

func attrValue(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(child *html.Node) bool {
		if child.Type == html.TextNode {
			sb.WriteString(child.Data)
		}
		return true
	})
	return sb.String()
}
