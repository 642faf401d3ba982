// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menuclient

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var anchorTextJSONRe = regexp.MustCompile(`"anchor_text"\s*:\s*"([^"]+)"`)

// ExtractTitle returns the document's <title> text.
func ExtractTitle(doc *html.Node) string {
	return nodeText(findByTag(doc, "title"))
}

// ExtractAnchorText probes a fetched page for its anchor-text override.
// Probes run in order of reliability: the meta tag the renderer emits,
// a data-anchor-text attribute, a hidden form input, and finally a
// JSON blob embedded in the raw markup. Empty string means no
// override was found and the caller falls back to the page title.
func ExtractAnchorText(doc *html.Node, raw string) string {
	for _, meta := range findAllByTag(doc, "meta") {
		if getAttr(meta, "name") == "anchor-text" {
			if content := strings.TrimSpace(getAttr(meta, "content")); content != "" {
				return content
			}
		}
	}

	if n := findNode(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && getAttr(n, "data-anchor-text") != ""
	}); n != nil {
		return strings.TrimSpace(getAttr(n, "data-anchor-text"))
	}

	for _, input := range findAllByTag(doc, "input") {
		name := getAttr(input, "name")
		if name == "anchor_text" || name == "anchor-text" {
			if val := strings.TrimSpace(getAttr(input, "value")); val != "" {
				return val
			}
		}
	}

	if m := anchorTextJSONRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
