// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menuclient

import (
	"strings"

	"github.com/lexsites/locmenu/internal/util"
)

// PageKind classifies the page a URL resolves to.
type PageKind string

const (
	PageNeither         PageKind = "neither"
	PageCity            PageKind = "city"
	PagePracticeArea    PageKind = "practice_area"
	PageSubPracticeArea PageKind = "sub_practice_area"
)

// Context is the location context derived from a URL path. It lives
// for a single page view; only the city slug and name are persisted
// across views, through a ContextStore.
type Context struct {
	StateSlug           string
	CitySlug            string
	PracticeAreaSlug    string
	SubPracticeAreaSlug string
	Kind                PageKind
}

// Key is the detection key used for the idempotence check: two
// contexts with equal keys never trigger a second fetch or rebuild.
func (c Context) Key() string {
	return strings.Join([]string{
		c.StateSlug, c.CitySlug, c.PracticeAreaSlug, c.SubPracticeAreaSlug, string(c.Kind),
	}, "|")
}

// ParseOptions control how a URL path maps onto location segments.
type ParseOptions struct {
	StateLayerEnabled bool
	DefaultState      string

	// IsCity reports whether a slug names a known city page. A nil
	// func classifies every parsed context as PageNeither.
	IsCity func(slug string) bool
}

// ParsePath derives a location context from a URL path.
//
// With the state layer enabled the first segment is a state, except
// for two-segment paths where a known city in the second position
// marks a state/city pair and anything else falls back to the
// configured default state with city/practice segments. With the
// layer disabled segments map directly to city/practice/sub-practice.
func ParsePath(path string, opt ParseOptions) Context {
	segs := splitPath(path)
	var c Context
	c.Kind = PageNeither

	switch {
	case len(segs) == 0:
		return c
	case !opt.StateLayerEnabled:
		c.CitySlug = segs[0]
		if len(segs) > 1 {
			c.PracticeAreaSlug = segs[1]
		}
		if len(segs) > 2 {
			c.SubPracticeAreaSlug = segs[2]
		}
	case len(segs) == 1:
		c.CitySlug = segs[0]
	case len(segs) == 2:
		if opt.IsCity != nil && opt.IsCity(segs[1]) {
			c.StateSlug = segs[0]
			c.CitySlug = segs[1]
		} else {
			// Legacy two-segment URL under the state layer: assume
			// the configured default state.
			c.StateSlug = opt.DefaultState
			c.CitySlug = segs[0]
			c.PracticeAreaSlug = segs[1]
		}
	default:
		c.StateSlug = segs[0]
		c.CitySlug = segs[1]
		c.PracticeAreaSlug = segs[2]
		if len(segs) > 3 {
			c.SubPracticeAreaSlug = segs[3]
		}
	}

	if opt.IsCity == nil || !opt.IsCity(c.CitySlug) {
		c.Kind = PageNeither
		return c
	}

	switch {
	case c.SubPracticeAreaSlug != "":
		c.Kind = PageSubPracticeArea
	case c.PracticeAreaSlug != "":
		c.Kind = PagePracticeArea
	default:
		c.Kind = PageCity
	}
	return c
}

// splitPath splits a URL path into cleaned slug segments, dropping
// anything that is not a valid slug (query leftovers, file names).
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}

	raw := strings.Split(path, "/")
	segs := make([]string, 0, len(raw))
	for _, s := range raw {
		if s == "" {
			continue
		}
		segs = append(segs, strings.ToLower(s))
	}
	return segs
}

// SlugsEqual compares two slugs after normalization, so stored and
// parsed values match regardless of case or diacritics.
func SlugsEqual(a, b string) bool {
	return util.NormalizeSlug(a) == util.NormalizeSlug(b)
}
