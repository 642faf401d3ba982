// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menuclient

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/lexsites/locmenu/internal/util"
)

// Placeholder copy shown by the widgets when no location context binds.
const (
	msgSelectCity          = "Please select a city to view practice areas"
	msgNoPracticeAreas     = "No practice areas found for %s"
	msgNoOtherLocations    = "No other locations offer this practice area"
	msgNoLocations         = "No locations found"
	headingLocationsServed = "Locations Served"
)

// cityDisplayName prefers a known display name and falls back to
// title-casing the slug.
func cityDisplayName(name, slug string) string {
	if name != "" {
		return name
	}
	return util.TitleCase(strings.ReplaceAll(slug, "-", " "))
}

// practiceAreasHeading composes the widget heading for a city.
func practiceAreasHeading(cityDisplay string) string {
	return cityDisplay + " Practice Areas"
}

// resourcesHeading composes the sub-practice-areas heading.
func resourcesHeading(practiceAreaTitle string) string {
	return practiceAreaTitle + " Resources"
}

// renderWidgetList fills a widget container with a heading and a list
// of links.
func renderWidgetList(container *html.Node, heading string, items []widgetItem) {
	removeChildren(container)

	h := newElement("h3", html.Attribute{Key: "class", Val: "widget-title"})
	h.AppendChild(&html.Node{Type: html.TextNode, Data: heading})
	container.AppendChild(h)

	ul := newElement("ul", html.Attribute{Key: "class", Val: "widget-list"})
	for _, item := range items {
		li := newElement("li")
		li.AppendChild(newLink(item.URL, item.Text))
		ul.AppendChild(li)
	}
	container.AppendChild(ul)
}

// renderWidgetMessage replaces a widget's content with placeholder text.
func renderWidgetMessage(container *html.Node, msg string) {
	removeChildren(container)
	p := newElement("p", html.Attribute{Key: "class", Val: "widget-placeholder"})
	p.AppendChild(&html.Node{Type: html.TextNode, Data: msg})
	container.AppendChild(p)
}

type widgetItem struct {
	URL  string
	Text string
}

// noPracticeAreasMsg formats the empty-city placeholder.
func noPracticeAreasMsg(cityDisplay string) string {
	return fmt.Sprintf(msgNoPracticeAreas, cityDisplay)
}
