// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/lexsites/locmenu/internal/cache"
	"github.com/lexsites/locmenu/internal/util"
)

// Match types for related location entries.
const (
	MatchFull    = "full"
	MatchPartial = "partial"
)

// RelatedMatch is one practice area in another city matching the
// requested practice area slug.
type RelatedMatch struct {
	CityID                  int64  `json:"id"`
	CityTitle               string `json:"title"`
	CitySlug                string `json:"slug"`
	CityDisplayText         string `json:"city_display_text"`
	PracticeAreaURL         string `json:"practice_area_url"`
	PracticeAreaDisplayText string `json:"practice_area_display_text"`
	MatchType               string `json:"match_type"`
}

// RelatedLocator finds cities offering a practice area similar to the
// one the visitor is currently viewing.
type RelatedLocator struct {
	resolver          *Resolver
	cities            *cache.CityListCache
	stateLayerEnabled bool
	logger            *slog.Logger
}

// NewRelatedLocator creates a related location finder.
func NewRelatedLocator(resolver *Resolver, cities *cache.CityListCache, stateLayerEnabled bool, logger *slog.Logger) *RelatedLocator {
	return &RelatedLocator{
		resolver:          resolver,
		cities:            cities,
		stateLayerEnabled: stateLayerEnabled,
		logger:            logger,
	}
}

// stateSlugFromURL extracts the state segment from a city URL like
// "/ga/atlanta". Returns empty string when the URL has no state layer.
func stateSlugFromURL(url string) string {
	url = strings.Trim(url, "/")
	parts := strings.Split(url, "/")
	if len(parts) >= 2 {
		return parts[len(parts)-2]
	}
	return ""
}

// slugsMatch classifies how two normalized slugs relate.
// Returns MatchFull for equality, MatchPartial when either contains
// the other, and "" for no match.
func slugsMatch(a, b string) string {
	if a == "" || b == "" {
		return ""
	}
	if a == b {
		return MatchFull
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return MatchPartial
	}
	return ""
}

// Find verifies the visitor's current practice-area page exists, then
// walks every other city in the Areas We Serve list and collects
// practice areas whose slug fully or partially matches
// practiceAreaSlug. Matching is case- and diacritic-insensitive.
// Returns ErrNotFound when the current city and practice area do not
// resolve to a page. Other cities that fail to resolve are skipped, not
// fatal. Results keep the menu's city order; no deduplication is
// applied.
func (rl *RelatedLocator) Find(ctx context.Context, practiceAreaSlug, citySlug, stateSlug string) ([]RelatedMatch, error) {
	target := util.NormalizeSlug(practiceAreaSlug)
	if target == "" {
		return nil, nil
	}
	currentCity := util.NormalizeSlug(citySlug)

	if _, err := rl.resolver.ResolvePracticeAreaPage(ctx, practiceAreaSlug, citySlug, stateSlug); err != nil {
		return nil, err
	}

	cities, err := rl.cities.All(ctx)
	if err != nil {
		return nil, err
	}

	var matches []RelatedMatch
	for _, city := range cities {
		if util.NormalizeSlug(city.Slug) == currentCity {
			continue
		}

		var stateSlug string
		if rl.stateLayerEnabled {
			stateSlug = stateSlugFromURL(city.URL)
		}

		res, err := rl.resolver.ResolveCity(ctx, city.Slug, stateSlug)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				return nil, err
			}
			rl.logger.Warn("skipping unresolvable city in related locations",
				"category", "resolver",
				"city_slug", city.Slug,
			)
			continue
		}

		for _, area := range res.PracticeAreas {
			mt := slugsMatch(util.NormalizeSlug(area.Slug), target)
			if mt == "" {
				continue
			}
			matches = append(matches, RelatedMatch{
				CityID:                  city.ID,
				CityTitle:               city.Title,
				CitySlug:                city.Slug,
				CityDisplayText:         res.CityDisplayText,
				PracticeAreaURL:         area.URL,
				PracticeAreaDisplayText: area.DisplayText,
				MatchType:               mt,
			})
		}
	}

	return matches, nil
}
