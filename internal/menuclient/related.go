// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menuclient

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// PopulateRelated fills the related-locations widget. On a practice
// area page the widget binds to the current city and practice area;
// everywhere else it falls into show-all mode listing every known
// city. An unchanged location context is a no-op with no refetch; a
// failed bound fetch is not recorded so the next view retries.
func (e *Engine) PopulateRelated(ctx context.Context, path string) error {
	w := e.widget(e.cfg.Selectors.RelatedWidget)
	if w == nil {
		return nil
	}

	parsed := e.parse(path)
	key := parsed.Key()
	if key == e.relatedKey {
		return nil
	}

	if parsed.Kind == PagePracticeArea || parsed.Kind == PageSubPracticeArea {
		if e.populateBoundRelated(ctx, w, parsed) {
			e.relatedKey = key
		}
		return nil
	}
	e.showAllLocations(ctx, w, parsed.CitySlug)
	e.relatedKey = key
	return nil
}

// populateBoundRelated lists other cities offering the current
// practice area, as "{Practice Area} In {City}" links. Returns false
// when the lookup failed outright.
func (e *Engine) populateBoundRelated(ctx context.Context, w *html.Node, parsed Context) bool {
	matches, err := e.client.GetRelatedLocations(ctx, parsed.PracticeAreaSlug, parsed.CitySlug, parsed.StateSlug)
	if err != nil {
		e.logger.Warn("fetching related locations",
			"engine_id", e.ID(), "practice_area_slug", parsed.PracticeAreaSlug, "error", err)
		renderWidgetMessage(w, msgNoOtherLocations)
		return false
	}
	if len(matches) == 0 {
		renderWidgetMessage(w, msgNoOtherLocations)
		return true
	}

	items := make([]widgetItem, 0, len(matches))
	for _, m := range matches {
		text := e.sanitize.Sanitize(m.PracticeAreaDisplayText) + " In " + e.sanitize.Sanitize(m.CityDisplayText)
		items = append(items, widgetItem{URL: m.PracticeAreaURL, Text: text})
	}
	renderWidgetList(w, "Related Locations", items)
	return true
}

// showAllLocations lists every known city page except aggregator
// entries and the current city. Display names come from the resolver
// when it answers, otherwise from scraping the city page itself, with
// a shared site-name suffix stripped from scraped titles.
func (e *Engine) showAllLocations(ctx context.Context, w *html.Node, currentCitySlug string) {
	type entry struct {
		display   string
		url       string
		slug      string
		fromTitle bool
	}

	var entries []entry
	var scrapedTitles []string

	for _, cp := range e.cfg.CityPages {
		if cp.URL == "" || cp.URL == "#" {
			continue
		}
		if isAggregatorEntry(cp.Title) {
			continue
		}
		if currentCitySlug != "" && SlugsEqual(cp.Slug, currentCitySlug) {
			continue
		}

		ent := entry{url: cp.URL, slug: cp.Slug}

		if res, err := e.client.GetPracticeAreas(ctx, cp.Slug, e.cityStateSlug(cp.Slug)); err == nil && res.CityDisplayText != "" {
			ent.display = res.CityDisplayText
		} else if raw, err := e.client.FetchPage(ctx, cp.URL); err == nil {
			if doc, err := ParseDocumentString(raw); err == nil {
				if anchor := ExtractAnchorText(doc, raw); anchor != "" {
					ent.display = anchor
				} else if title := ExtractTitle(doc); title != "" {
					ent.display = title
					ent.fromTitle = true
					scrapedTitles = append(scrapedTitles, title)
				}
			}
		}

		if ent.display == "" {
			ent.display = cityDisplayName(cp.Title, cp.Slug)
		}
		entries = append(entries, ent)
	}

	if len(entries) == 0 {
		renderWidgetMessage(w, msgNoLocations)
		return
	}

	if suffix := DetectSiteNameSuffix(scrapedTitles); suffix != "" {
		for i := range entries {
			if entries[i].fromTitle {
				entries[i].display = StripSuffix(entries[i].display, suffix)
			}
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].display) < strings.ToLower(entries[j].display)
	})

	items := make([]widgetItem, 0, len(entries))
	for _, ent := range entries {
		items = append(items, widgetItem{URL: ent.url, Text: e.sanitize.Sanitize(ent.display)})
	}
	renderWidgetList(w, headingLocationsServed, items)
}

// isAggregatorEntry reports whether a menu title names a grouping
// entry rather than a real city.
func isAggregatorEntry(title string) bool {
	t := strings.ToLower(strings.TrimSpace(title))
	return strings.Contains(t, "areas we serve") || strings.Contains(t, "more areas")
}
