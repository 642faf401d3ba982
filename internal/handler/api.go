// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/microcosm-cc/bluemonday"

	"github.com/lexsites/locmenu/internal/service"
)

// APIHandler serves the menu data endpoints consumed by the
// client-side reconciliation engine.
type APIHandler struct {
	resolver *service.Resolver
	related  *service.RelatedLocator
	logger   *slog.Logger
	sanitize *bluemonday.Policy
}

// NewAPIHandler creates the menu API handler.
func NewAPIHandler(resolver *service.Resolver, related *service.RelatedLocator, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		resolver: resolver,
		related:  related,
		logger:   logger,
		// Display text comes from editor-controlled meta fields and is
		// re-emitted into menu markup, so strip any markup on the way out.
		sanitize: bluemonday.StrictPolicy(),
	}
}

// GetPracticeAreas handles GET /get-practice-areas.
// Query: city_slug (required), state_slug (optional).
func (h *APIHandler) GetPracticeAreas(w http.ResponseWriter, r *http.Request) {
	citySlug := r.URL.Query().Get("city_slug")
	if citySlug == "" {
		writeJSONError(w, http.StatusBadRequest, "Missing city_slug parameter")
		return
	}
	stateSlug := r.URL.Query().Get("state_slug")

	res, err := h.resolver.ResolveCity(r.Context(), citySlug, stateSlug)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "City not found")
			return
		}
		h.logger.Error("resolving city", "city_slug", citySlug, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to resolve city")
		return
	}

	areas := make([]map[string]any, 0, len(res.PracticeAreas))
	for _, area := range res.PracticeAreas {
		areas = append(areas, map[string]any{
			"id":           area.ID,
			"title":        h.sanitize.Sanitize(area.Title),
			"slug":         area.Slug,
			"url":          area.URL,
			"anchor_text":  h.sanitize.Sanitize(area.AnchorText),
			"display_text": h.sanitize.Sanitize(area.DisplayText),
		})
	}

	writeJSONSuccess(w, map[string]any{
		"city_name":         h.sanitize.Sanitize(res.CityName),
		"city_anchor_text":  h.sanitize.Sanitize(res.CityAnchorText),
		"city_display_text": h.sanitize.Sanitize(res.CityDisplayText),
		"practice_areas":    areas,
	})
}

// GetRelatedLocations handles GET /get-related-locations.
// Query: practice_area_slug (required), city_slug (required),
// state_slug (optional). 404 when the current city and practice area
// do not resolve to a page.
func (h *APIHandler) GetRelatedLocations(w http.ResponseWriter, r *http.Request) {
	practiceAreaSlug := r.URL.Query().Get("practice_area_slug")
	citySlug := r.URL.Query().Get("city_slug")
	if practiceAreaSlug == "" || citySlug == "" {
		writeJSONError(w, http.StatusBadRequest, "Missing practice_area_slug or city_slug parameter")
		return
	}
	stateSlug := r.URL.Query().Get("state_slug")

	matches, err := h.related.Find(r.Context(), practiceAreaSlug, citySlug, stateSlug)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "Location not found")
			return
		}
		h.logger.Error("finding related locations",
			"practice_area_slug", practiceAreaSlug, "city_slug", citySlug, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to find related locations")
		return
	}

	locations := make([]map[string]any, 0, len(matches))
	for _, m := range matches {
		locations = append(locations, map[string]any{
			"id":                         m.CityID,
			"title":                      h.sanitize.Sanitize(m.CityTitle),
			"slug":                       m.CitySlug,
			"city_display_text":          h.sanitize.Sanitize(m.CityDisplayText),
			"practice_area_url":          m.PracticeAreaURL,
			"practice_area_display_text": h.sanitize.Sanitize(m.PracticeAreaDisplayText),
			"match_type":                 m.MatchType,
		})
	}

	writeJSONSuccess(w, map[string]any{
		"practice_area_slug": practiceAreaSlug,
		"current_city_slug":  citySlug,
		"current_state_slug": stateSlug,
		"related_locations":  locations,
	})
}

// GetSubPracticeAreas handles GET /get-sub-practice-areas.
// Query: practice_area_id, or city_slug + practice_area_slug.
func (h *APIHandler) GetSubPracticeAreas(w http.ResponseWriter, r *http.Request) {
	idParam := r.URL.Query().Get("practice_area_id")
	citySlug := r.URL.Query().Get("city_slug")
	practiceAreaSlug := r.URL.Query().Get("practice_area_slug")

	var practiceAreaID int64
	if idParam != "" {
		id, err := strconv.ParseInt(idParam, 10, 64)
		if err != nil || id <= 0 {
			writeJSONError(w, http.StatusBadRequest, "Invalid practice_area_id parameter")
			return
		}
		practiceAreaID = id
	} else if citySlug == "" || practiceAreaSlug == "" {
		writeJSONError(w, http.StatusBadRequest, "Missing practice_area_id or city_slug and practice_area_slug parameters")
		return
	}

	res, err := h.resolver.ResolveSubPracticeAreas(r.Context(), practiceAreaID, citySlug, practiceAreaSlug)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "Practice area not found")
			return
		}
		h.logger.Error("resolving sub practice areas",
			"practice_area_id", practiceAreaID, "city_slug", citySlug, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to resolve sub practice areas")
		return
	}

	subs := make([]map[string]any, 0, len(res.SubPracticeAreas))
	for _, sub := range res.SubPracticeAreas {
		subs = append(subs, map[string]any{
			"id":          sub.ID,
			"title":       h.sanitize.Sanitize(sub.Title),
			"slug":        sub.Slug,
			"url":         sub.URL,
			"anchor_text": h.sanitize.Sanitize(sub.AnchorText),
		})
	}

	writeJSONSuccess(w, map[string]any{
		"practice_area_id":    res.PracticeAreaID,
		"practice_area_title": h.sanitize.Sanitize(res.PracticeAreaTitle),
		"practice_area_slug":  res.PracticeAreaSlug,
		"sub_practice_areas":  subs,
	})
}
