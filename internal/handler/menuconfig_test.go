// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lexsites/locmenu/internal/cache"
	"github.com/lexsites/locmenu/internal/config"
	"github.com/lexsites/locmenu/internal/geoip"
	"github.com/lexsites/locmenu/internal/model"
	"github.com/lexsites/locmenu/internal/testutil"
)

func newMenuConfigHandler(t *testing.T) *MenuConfigHandler {
	t.Helper()

	cfg := &config.Config{
		MenuToken:         "config-token",
		StateLayerEnabled: true,
		DefaultState:      "ga",
		DefaultCity:       "atlanta",
	}
	cities := cache.NewCityListCache(func(ctx context.Context) ([]model.CityPage, error) {
		return []model.CityPage{{ID: 1, Title: "Atlanta", Slug: "atlanta", URL: "/ga/atlanta"}}, nil
	})
	geo := geoip.NewLookup()
	_ = geo.Init("")

	return NewMenuConfigHandler(cfg, cities, geo, testutil.TestLoggerSilent())
}

func TestMenuConfig(t *testing.T) {
	h := newMenuConfigHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/menu-config", nil)
	rec := httptest.NewRecorder()
	h.MenuConfig(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}

	if body["token"] != "config-token" {
		t.Errorf("token = %v", body["token"])
	}
	if body["state_layer_enabled"] != true {
		t.Error("state_layer_enabled missing")
	}
	if body["default_state"] != "ga" {
		t.Errorf("default_state = %v", body["default_state"])
	}

	selectors, ok := body["selectors"].(map[string]any)
	if !ok {
		t.Fatal("selectors missing")
	}
	if selectors["mega_menu"] != ".e-n-menu" {
		t.Errorf("mega_menu selector = %v", selectors["mega_menu"])
	}
	if selectors["areas_we_serve"] != ".menu-item-areas-we-serve" {
		t.Errorf("areas_we_serve selector = %v", selectors["areas_we_serve"])
	}

	cities, ok := body["city_pages"].([]any)
	if !ok || len(cities) != 1 {
		t.Fatalf("city_pages = %v, want 1 entry", body["city_pages"])
	}

	endpoints, ok := body["endpoints"].(map[string]any)
	if !ok {
		t.Fatal("endpoints missing")
	}
	if endpoints["practice_areas"] != "/get-practice-areas" {
		t.Errorf("practice_areas endpoint = %v", endpoints["practice_areas"])
	}
}

func TestMenuConfig_DeviceHint(t *testing.T) {
	h := newMenuConfigHandler(t)

	tests := []struct {
		name string
		ua   string
		want string
	}{
		{"desktop", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36", "desktop"},
		{"mobile", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1", "mobile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/menu-config", nil)
			req.Header.Set("User-Agent", tt.ua)
			rec := httptest.NewRecorder()
			h.MenuConfig(rec, req)

			var body map[string]any
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if body["device"] != tt.want {
				t.Errorf("device = %v, want %q", body["device"], tt.want)
			}
		})
	}
}
