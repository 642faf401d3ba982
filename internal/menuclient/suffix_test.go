// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menuclient

import "testing"

func TestDetectSiteNameSuffix(t *testing.T) {
	tests := []struct {
		name   string
		titles []string
		want   string
	}{
		{
			name: "hyphen separator majority",
			titles: []string{
				"Atlanta - Smith Law",
				"Savannah - Smith Law",
				"Miami - Smith Law",
				"About Us",
			},
			want: " - Smith Law",
		},
		{
			name: "pipe separator",
			titles: []string{
				"Atlanta | Smith Law",
				"Savannah | Smith Law",
			},
			want: " | Smith Law",
		},
		{
			name: "en dash separator",
			titles: []string{
				"Atlanta – Smith Law",
				"Savannah – Smith Law",
			},
			want: " – Smith Law",
		},
		{
			name: "below half threshold",
			titles: []string{
				"Atlanta - Smith Law",
				"Savannah",
				"Miami",
			},
			want: "",
		},
		{
			name: "mixed suffixes no majority",
			titles: []string{
				"Atlanta - Smith Law",
				"Savannah - Jones Law",
				"Miami - Brown Law",
				"Tampa - Green Law",
			},
			want: "",
		},
		{
			name: "last separator occurrence wins",
			titles: []string{
				"Atlanta - Car Accidents - Smith Law",
				"Savannah - Smith Law",
			},
			want: " - Smith Law",
		},
		{
			name:   "single title meets the threshold",
			titles: []string{"Atlanta - Smith Law"},
			want:   " - Smith Law",
		},
		{
			name:   "single title no separator",
			titles: []string{"Atlanta"},
			want:   "",
		},
		{
			name:   "no titles",
			titles: nil,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectSiteNameSuffix(tt.titles); got != tt.want {
				t.Errorf("DetectSiteNameSuffix() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripSuffix(t *testing.T) {
	if got := StripSuffix("Atlanta - Smith Law", " - Smith Law"); got != "Atlanta" {
		t.Errorf("StripSuffix() = %q, want %q", got, "Atlanta")
	}
	if got := StripSuffix("Atlanta", " - Smith Law"); got != "Atlanta" {
		t.Errorf("no-op strip = %q, want unchanged", got)
	}
	if got := StripSuffix(" - Smith Law", " - Smith Law"); got != " - Smith Law" {
		t.Errorf("suffix-only title = %q, want unchanged", got)
	}
	if got := StripSuffix("Atlanta", ""); got != "Atlanta" {
		t.Errorf("empty suffix = %q, want unchanged", got)
	}
}
