// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menuclient

import (
	"fmt"

	"golang.org/x/net/html"
)

// LegacyFlatMenuAdapter drives the classic nav menu shape: the
// practice-areas entry is a plain list item and the adapter synthesizes
// a <ul class="sub-menu"> under it.
type LegacyFlatMenuAdapter struct {
	doc      *html.Node
	item     *html.Node // the practice-areas <li>
	original *html.Node // detached clone of the untouched item
	sel      Selectors
	serial   int
}

func newLegacyFlatMenuAdapter(doc, item *html.Node, sel Selectors) *LegacyFlatMenuAdapter {
	return &LegacyFlatMenuAdapter{
		doc:      doc,
		item:     item,
		original: cloneNode(item),
		sel:      sel,
	}
}

func (a *LegacyFlatMenuAdapter) Kind() string { return "legacy" }

// SetLabel replaces the text of the item's own anchor, leaving any
// synthesized submenu in place.
func (a *LegacyFlatMenuAdapter) SetLabel(text string) {
	if link := a.itemLink(); link != nil {
		setText(link, text)
	}
}

// RenderPracticeAreas replaces the item's submenu with one entry per
// practice area and wires the ARIA relationship between the toggle
// anchor and the submenu list.
func (a *LegacyFlatMenuAdapter) RenderPracticeAreas(areas []PracticeArea) {
	for _, old := range findAllByClass(a.item, "sub-menu") {
		if old.Parent != nil {
			old.Parent.RemoveChild(old)
		}
	}

	a.serial++
	submenuID := fmt.Sprintf("practice-areas-submenu-%d", a.serial)

	ul := newElement("ul",
		html.Attribute{Key: "class", Val: "sub-menu"},
		html.Attribute{Key: "id", Val: submenuID},
	)
	for _, area := range areas {
		li := newElement("li", html.Attribute{Key: "class", Val: "menu-item"})
		li.AppendChild(newLink(area.URL, area.DisplayText))
		ul.AppendChild(li)
	}
	a.item.AppendChild(ul)

	if link := a.itemLink(); link != nil {
		setAttr(link, "aria-haspopup", "true")
		setAttr(link, "aria-expanded", "false")
		setAttr(link, "aria-controls", submenuID)
	}
}

// RewriteCityLinks is a no-op in the legacy shape: its areas-we-serve
// entries are plain city links that already point where they should.
func (a *LegacyFlatMenuAdapter) RewriteCityLinks(string, bool) int { return 0 }

// Restore swaps the item back to its original children and attributes.
func (a *LegacyFlatMenuAdapter) Restore() {
	a.item.Attr = append([]html.Attribute(nil), a.original.Attr...)
	replaceChildren(a.item, a.original)
}

// itemLink returns the item's own toggle anchor: the first <a> that is
// a direct child, so submenu links are never mistaken for it.
func (a *LegacyFlatMenuAdapter) itemLink() *html.Node {
	for c := a.item.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "a" {
			return c
		}
	}
	return nil
}
