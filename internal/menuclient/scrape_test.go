// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menuclient

import (
	"testing"

	"golang.org/x/net/html"
)

type documentFixture struct {
	raw string
	doc *html.Node
}

func mustParse(t *testing.T, raw string) *documentFixture {
	t.Helper()
	doc, err := ParseDocumentString(raw)
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return &documentFixture{raw: raw, doc: doc}
}

func TestExtractTitle(t *testing.T) {
	f := mustParse(t, `<html><head><title>Atlanta - Smith Law</title></head><body></body></html>`)
	if got := ExtractTitle(f.doc); got != "Atlanta - Smith Law" {
		t.Errorf("ExtractTitle() = %q", got)
	}

	empty := mustParse(t, `<html><body><p>no title</p></body></html>`)
	if got := ExtractTitle(empty.doc); got != "" {
		t.Errorf("ExtractTitle() without title = %q, want empty", got)
	}
}

func TestExtractAnchorText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "meta tag",
			raw:  `<html><head><meta name="anchor-text" content="Atlanta Injury Team"></head><body></body></html>`,
			want: "Atlanta Injury Team",
		},
		{
			name: "data attribute",
			raw:  `<html><body><main data-anchor-text="Atlanta Injury Team"></main></body></html>`,
			want: "Atlanta Injury Team",
		},
		{
			name: "hidden input",
			raw:  `<html><body><input type="hidden" name="anchor_text" value="Atlanta Injury Team"></body></html>`,
			want: "Atlanta Injury Team",
		},
		{
			name: "embedded json fallback",
			raw:  `<html><body><script>var cfg = {"anchor_text":"Atlanta Injury Team"};</script></body></html>`,
			want: "Atlanta Injury Team",
		},
		{
			name: "meta wins over data attribute",
			raw:  `<html><head><meta name="anchor-text" content="From Meta"></head><body><main data-anchor-text="From Data"></main></body></html>`,
			want: "From Meta",
		},
		{
			name: "nothing found",
			raw:  `<html><head><title>Atlanta</title></head><body></body></html>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := mustParse(t, tt.raw)
			if got := ExtractAnchorText(f.doc, f.raw); got != tt.want {
				t.Errorf("ExtractAnchorText() = %q, want %q", got, tt.want)
			}
		})
	}
}
