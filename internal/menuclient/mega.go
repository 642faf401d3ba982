// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menuclient

import (
	"golang.org/x/net/html"
)

// MegaMenuAdapter drives the mega menu component shape: the
// practice-areas entry is a content panel that takes a two-column link
// grid, and the areas-we-serve panel holds city links whose hrefs can
// be rewritten in place when the city changes.
type MegaMenuAdapter struct {
	doc      *html.Node
	root     *html.Node
	original *html.Node
	sel      Selectors
}

func newMegaMenuAdapter(doc, root *html.Node, sel Selectors) *MegaMenuAdapter {
	return &MegaMenuAdapter{
		doc:      doc,
		root:     root,
		original: cloneNode(root),
		sel:      sel,
	}
}

func (a *MegaMenuAdapter) Kind() string { return "mega" }

// SetLabel replaces the practice-areas title text. The title node is
// looked up inside the practice-areas item first; a component without
// per-item markers falls back to the first title in the menu.
func (a *MegaMenuAdapter) SetLabel(text string) {
	scope := findByClass(a.root, className(a.sel.PracticeAreas))
	if scope == nil {
		scope = a.root
	}
	if title := findByClass(scope, className(a.sel.MegaMenuTitle)); title != nil {
		setText(title, text)
	}
}

// RenderPracticeAreas fills the practice-areas content panel with a
// two-column grid of links, splitting the list down the middle.
func (a *MegaMenuAdapter) RenderPracticeAreas(areas []PracticeArea) {
	panel := a.practicePanel()
	if panel == nil {
		return
	}
	removeChildren(panel)

	grid := newElement("div", html.Attribute{Key: "class", Val: "practice-areas-grid"})
	half := (len(areas) + 1) / 2
	for _, column := range [][]PracticeArea{areas[:half], areas[half:]} {
		if len(column) == 0 {
			continue
		}
		ul := newElement("ul", html.Attribute{Key: "class", Val: "practice-areas-column"})
		for _, area := range column {
			li := newElement("li", html.Attribute{Key: "class", Val: "practice-area-item"})
			li.AppendChild(newLink(area.URL, area.DisplayText))
			ul.AppendChild(li)
		}
		grid.AppendChild(ul)
	}
	panel.AppendChild(grid)
}

// RewriteCityLinks swaps the city path segment of every link under the
// areas-we-serve panel for the new city. This updates an already
// rendered list in one pass with no network call.
func (a *MegaMenuAdapter) RewriteCityLinks(citySlug string, stateLayerEnabled bool) int {
	areas := findByClass(a.root, className(a.sel.AreasWeServe))
	if areas == nil {
		return 0
	}

	var rewritten int
	for _, link := range findAllByTag(areas, "a") {
		href := getAttr(link, "href")
		if next, changed := rewriteCityHref(href, citySlug, stateLayerEnabled); changed {
			setAttr(link, "href", next)
			rewritten++
		}
	}
	return rewritten
}

// Restore swaps the component back to its original children.
func (a *MegaMenuAdapter) Restore() {
	a.root.Attr = append([]html.Attribute(nil), a.original.Attr...)
	replaceChildren(a.root, a.original)
}

// practicePanel locates the content panel of the practice-areas item.
func (a *MegaMenuAdapter) practicePanel() *html.Node {
	scope := findByClass(a.root, className(a.sel.PracticeAreas))
	if scope == nil {
		scope = a.root
	}
	return findByClass(scope, className(a.sel.MegaMenuContent))
}
