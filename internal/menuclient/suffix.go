// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menuclient

import "strings"

// suffixSeparators are tried in order when probing page titles for a
// shared site-name suffix.
var suffixSeparators = []string{" - ", " – ", " | ", " :: "}

// DetectSiteNameSuffix inspects a set of page titles for a shared
// trailing site-name segment, like " - Smith & Jones Law". For each
// separator the trailing segment after its last occurrence is counted;
// the first separator whose most common suffix covers at least half
// the titles wins. Returns the full suffix including the separator,
// or "" when no pattern holds.
func DetectSiteNameSuffix(titles []string) string {
	if len(titles) == 0 {
		return ""
	}

	for _, sep := range suffixSeparators {
		counts := make(map[string]int)
		for _, title := range titles {
			if i := strings.LastIndex(title, sep); i >= 0 {
				counts[title[i:]]++
			}
		}

		var best string
		var bestCount int
		for suffix, count := range counts {
			if count > bestCount {
				best, bestCount = suffix, count
			}
		}
		if bestCount*2 >= len(titles) {
			return best
		}
	}
	return ""
}

// StripSuffix removes a detected site-name suffix from a title. A
// title that is nothing but the suffix is left alone.
func StripSuffix(title, suffix string) string {
	if suffix == "" || title == suffix {
		return title
	}
	return strings.TrimSuffix(title, suffix)
}
