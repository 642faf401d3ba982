// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/mileusna/useragent"

	"github.com/lexsites/locmenu/internal/cache"
	"github.com/lexsites/locmenu/internal/config"
	"github.com/lexsites/locmenu/internal/geoip"
)

// menuSelectors are the CSS hooks the client engine binds to. Kept
// server-side so themes and the engine stay in sync from one place.
var menuSelectors = map[string]string{
	"areas_we_serve":    ".menu-item-areas-we-serve",
	"practice_areas":    ".menu-item-practice-areas",
	"mega_menu":         ".e-n-menu",
	"mega_menu_title":   ".e-n-menu-title-text",
	"mega_menu_content": ".e-n-menu-content",
	"practice_widget":   ".dynamic-practice-areas-widget",
	"related_widget":    ".dynamic-related-locations-widget",
}

// MenuConfigHandler serves the bootstrap configuration for the
// client-side menu engine.
type MenuConfigHandler struct {
	cfg    *config.Config
	cities *cache.CityListCache
	geo    *geoip.Lookup
	logger *slog.Logger
}

// NewMenuConfigHandler creates the menu config handler.
func NewMenuConfigHandler(cfg *config.Config, cities *cache.CityListCache, geo *geoip.Lookup, logger *slog.Logger) *MenuConfigHandler {
	return &MenuConfigHandler{
		cfg:    cfg,
		cities: cities,
		geo:    geo,
		logger: logger,
	}
}

// MenuConfig handles GET /menu-config.
// The response plays the role a localized script block plays on a
// rendered page: endpoints, the request token, feature flags and the
// current city list, plus a device hint and a GeoIP state suggestion.
func (h *MenuConfigHandler) MenuConfig(w http.ResponseWriter, r *http.Request) {
	cities, err := h.cities.All(r.Context())
	if err != nil {
		h.logger.Error("loading city pages for menu config", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load city pages")
		return
	}

	ua := useragent.Parse(r.UserAgent())
	device := "desktop"
	if ua.Mobile {
		device = "mobile"
	} else if ua.Tablet {
		device = "tablet"
	}

	data := map[string]any{
		"endpoints": map[string]string{
			"practice_areas":     "/get-practice-areas",
			"related_locations":  "/get-related-locations",
			"sub_practice_areas": "/get-sub-practice-areas",
			"menu_context":       "/menu-context",
		},
		"token":               h.cfg.MenuToken,
		"state_layer_enabled": h.cfg.StateLayerEnabled,
		"default_state":       h.cfg.DefaultState,
		"default_city":        h.cfg.DefaultCity,
		"uppercase_menu":      h.cfg.UppercaseMenu,
		"selectors":           menuSelectors,
		"city_pages":          cities,
		"device":              device,
	}

	if h.geo != nil && h.geo.IsEnabled() {
		if state := h.geo.LookupStateSlug(clientIP(r)); state != "" {
			data["suggested_state"] = state
		}
	}

	writeJSONSuccess(w, data)
}

// clientIP extracts the visitor IP, honoring reverse proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
