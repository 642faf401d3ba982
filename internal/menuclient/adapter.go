// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menuclient

import (
	"strings"

	"golang.org/x/net/html"
)

// Selectors are the CSS class hooks the engine probes for. Values may
// carry a leading dot, matching the server-provided selector strings.
type Selectors struct {
	AreasWeServe    string
	PracticeAreas   string
	MegaMenu        string
	MegaMenuTitle   string
	MegaMenuContent string
	PracticeWidget  string
	RelatedWidget   string
}

// DefaultSelectors returns the class hooks used by the stock themes.
func DefaultSelectors() Selectors {
	return Selectors{
		AreasWeServe:    "menu-item-areas-we-serve",
		PracticeAreas:   "menu-item-practice-areas",
		MegaMenu:        "e-n-menu",
		MegaMenuTitle:   "e-n-menu-title-text",
		MegaMenuContent: "e-n-menu-content",
		PracticeWidget:  "dynamic-practice-areas-widget",
		RelatedWidget:   "dynamic-related-locations-widget",
	}
}

// className strips an optional leading dot from a selector string.
func className(sel string) string {
	return strings.TrimPrefix(sel, ".")
}

// MenuAdapter is the uniform contract over the two supported menu
// shapes. An adapter is selected once per page view by a capability
// probe and owns one parsed document for its lifetime.
type MenuAdapter interface {
	// Kind identifies the adapter variant, "legacy" or "mega".
	Kind() string

	// SetLabel replaces the practice-areas menu label text.
	SetLabel(text string)

	// RenderPracticeAreas rebuilds the practice-areas submenu for the
	// given city.
	RenderPracticeAreas(areas []PracticeArea)

	// RewriteCityLinks rewrites links under the areas-we-serve branch
	// to point at the newly selected city and reports how many links
	// changed.
	RewriteCityLinks(citySlug string, stateLayerEnabled bool) int

	// Restore puts the menu back into its original unmodified shape.
	Restore()
}

// DetectAdapter probes a parsed document for one of the two supported
// menu shapes. The mega menu component wins when both markers are
// present. Returns nil when no menu is found, which callers treat as
// a host that has not mounted yet.
func DetectAdapter(doc *html.Node, sel Selectors) MenuAdapter {
	if root := findByClass(doc, className(sel.MegaMenu)); root != nil {
		return newMegaMenuAdapter(doc, root, sel)
	}
	if item := findByClass(doc, className(sel.PracticeAreas)); item != nil {
		return newLegacyFlatMenuAdapter(doc, item, sel)
	}
	return nil
}

// rewriteCityHref swaps the city segment of a menu link path for a new
// city slug. Anchor, mail and phone links pass through unchanged, as
// do paths too short to carry a city segment.
func rewriteCityHref(href, citySlug string, stateLayerEnabled bool) (string, bool) {
	if href == "" || href == "#" ||
		strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") {
		return href, false
	}

	path := href
	var prefix string
	if i := strings.Index(href, "://"); i >= 0 {
		rest := href[i+3:]
		slash := strings.Index(rest, "/")
		if slash < 0 {
			return href, false
		}
		prefix = href[:i+3+slash]
		path = rest[slash:]
	}

	trailingSlash := strings.HasSuffix(path, "/") && path != "/"
	segs := splitPath(path)
	if len(segs) == 0 {
		return href, false
	}

	// The city sits after the state segment when the state layer is
	// on, first otherwise.
	cityIdx := 0
	if stateLayerEnabled && len(segs) > 1 {
		cityIdx = 1
	}
	if segs[cityIdx] == citySlug {
		return href, false
	}
	segs[cityIdx] = citySlug

	rebuilt := "/" + strings.Join(segs, "/")
	if trailingSlash {
		rebuilt += "/"
	}
	return prefix + rebuilt, true
}
