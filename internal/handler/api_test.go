// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/lexsites/locmenu/internal/cache"
	"github.com/lexsites/locmenu/internal/model"
	"github.com/lexsites/locmenu/internal/service"
	"github.com/lexsites/locmenu/internal/store"
	"github.com/lexsites/locmenu/internal/testutil"
)

// newAPIFixture seeds two cities under ga and returns a ready handler.
func newAPIFixture(t *testing.T) (*APIHandler, *store.Queries, func()) {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	q := store.New(db)

	state := testutil.MustCreatePage(t, q, nil, "GA", 0)
	atlanta := testutil.MustCreatePage(t, q, &state, "Atlanta", 1)
	testutil.MustSetAnchorText(t, q, atlanta.ID, "Atlanta Injury Lawyers")
	car := testutil.MustCreatePage(t, q, &atlanta, "Car Accidents", 1)
	testutil.MustSetAnchorText(t, q, car.ID, "Atlanta Car Accident Lawyer")
	testutil.MustCreatePage(t, q, &atlanta, "Truck Accidents", 2)
	testutil.MustCreatePage(t, q, &car, "Rear-End Collisions", 1)

	savannah := testutil.MustCreatePage(t, q, &state, "Savannah", 2)
	testutil.MustCreatePage(t, q, &savannah, "Car Accidents", 1)

	resolver := service.NewResolver(q, true, "ga")
	cities := cache.NewCityListCache(func(ctx context.Context) ([]model.CityPage, error) {
		return []model.CityPage{
			{ID: 1, Title: "Atlanta", Slug: "atlanta", URL: "/ga/atlanta"},
			{ID: 2, Title: "Savannah", Slug: "savannah", URL: "/ga/savannah"},
		}, nil
	})
	related := service.NewRelatedLocator(resolver, cities, true, testutil.TestLoggerSilent())

	return NewAPIHandler(resolver, related, testutil.TestLoggerSilent()), q, cleanup
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	return body
}

func TestGetPracticeAreas(t *testing.T) {
	h, _, cleanup := newAPIFixture(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/get-practice-areas?city_slug=atlanta&state_slug=ga", nil)
	rec := httptest.NewRecorder()
	h.GetPracticeAreas(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Error("success != true")
	}
	if body["city_name"] != "Atlanta" {
		t.Errorf("city_name = %v", body["city_name"])
	}
	if body["city_display_text"] != "Atlanta Injury Lawyers" {
		t.Errorf("city_display_text = %v", body["city_display_text"])
	}

	areas, ok := body["practice_areas"].([]any)
	if !ok || len(areas) != 2 {
		t.Fatalf("practice_areas = %v, want 2 entries", body["practice_areas"])
	}
	first := areas[0].(map[string]any)
	if first["display_text"] != "Atlanta Car Accident Lawyer" {
		t.Errorf("display_text = %v, want anchor text", first["display_text"])
	}
	if first["url"] != "/ga/atlanta/car-accidents" {
		t.Errorf("url = %v", first["url"])
	}
}

func TestGetPracticeAreas_MissingParam(t *testing.T) {
	h, _, cleanup := newAPIFixture(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/get-practice-areas", nil)
	rec := httptest.NewRecorder()
	h.GetPracticeAreas(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Error("success != false in error envelope")
	}
	if body["message"] == "" || body["message"] == nil {
		t.Error("message missing in error envelope")
	}
}

func TestGetPracticeAreas_NotFound(t *testing.T) {
	h, _, cleanup := newAPIFixture(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/get-practice-areas?city_slug=nowhere", nil)
	rec := httptest.NewRecorder()
	h.GetPracticeAreas(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Error("success != false")
	}
}

func TestGetRelatedLocations(t *testing.T) {
	h, _, cleanup := newAPIFixture(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet,
		"/get-related-locations?practice_area_slug=car-accidents&city_slug=atlanta&state_slug=ga", nil)
	rec := httptest.NewRecorder()
	h.GetRelatedLocations(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	// The request parameters are echoed back alongside the matches.
	if body["practice_area_slug"] != "car-accidents" {
		t.Errorf("practice_area_slug = %v", body["practice_area_slug"])
	}
	if body["current_city_slug"] != "atlanta" {
		t.Errorf("current_city_slug = %v", body["current_city_slug"])
	}
	if body["current_state_slug"] != "ga" {
		t.Errorf("current_state_slug = %v", body["current_state_slug"])
	}

	locations, ok := body["related_locations"].([]any)
	if !ok || len(locations) != 1 {
		t.Fatalf("related_locations = %v, want 1 entry", body["related_locations"])
	}
	match := locations[0].(map[string]any)
	if match["slug"] != "savannah" {
		t.Errorf("slug = %v", match["slug"])
	}
	if match["title"] != "Savannah" {
		t.Errorf("title = %v", match["title"])
	}
	if match["match_type"] != service.MatchFull {
		t.Errorf("match_type = %v", match["match_type"])
	}
}

func TestGetRelatedLocations_UnresolvableCurrentPage(t *testing.T) {
	h, _, cleanup := newAPIFixture(t)
	defer cleanup()

	// A city with no page must 404 even though other cities offer the
	// requested practice area.
	req := httptest.NewRequest(http.MethodGet,
		"/get-related-locations?practice_area_slug=car-accidents&city_slug=nowhere-city&state_slug=ga", nil)
	rec := httptest.NewRecorder()
	h.GetRelatedLocations(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Error("success != false")
	}
}

func TestGetRelatedLocations_MissingParams(t *testing.T) {
	h, _, cleanup := newAPIFixture(t)
	defer cleanup()

	for _, q := range []string{"", "?practice_area_slug=car-accidents", "?city_slug=atlanta"} {
		req := httptest.NewRequest(http.MethodGet, "/get-related-locations"+q, nil)
		rec := httptest.NewRecorder()
		h.GetRelatedLocations(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("query %q: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestGetSubPracticeAreas_ByID(t *testing.T) {
	h, q, cleanup := newAPIFixture(t)
	defer cleanup()

	car, err := q.GetPageByPath(context.Background(), "ga/atlanta/car-accidents")
	if err != nil {
		t.Fatalf("fixture lookup: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet,
		"/get-sub-practice-areas?practice_area_id="+strconv.FormatInt(car.ID, 10), nil)
	rec := httptest.NewRecorder()
	h.GetSubPracticeAreas(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["practice_area_title"] != "Car Accidents" {
		t.Errorf("practice_area_title = %v", body["practice_area_title"])
	}
	if body["practice_area_slug"] != "car-accidents" {
		t.Errorf("practice_area_slug = %v", body["practice_area_slug"])
	}
	if id, ok := body["practice_area_id"].(float64); !ok || int64(id) != car.ID {
		t.Errorf("practice_area_id = %v, want %d", body["practice_area_id"], car.ID)
	}
	subs, ok := body["sub_practice_areas"].([]any)
	if !ok || len(subs) != 1 {
		t.Fatalf("sub_practice_areas = %v, want 1 entry", body["sub_practice_areas"])
	}
}

func TestGetSubPracticeAreas_BadParams(t *testing.T) {
	h, _, cleanup := newAPIFixture(t)
	defer cleanup()

	tests := []string{
		"",                           // nothing
		"?practice_area_id=abc",      // non-numeric
		"?practice_area_id=-4",       // negative
		"?city_slug=atlanta",         // missing practice_area_slug
		"?practice_area_slug=estate", // missing city_slug
	}
	for _, q := range tests {
		req := httptest.NewRequest(http.MethodGet, "/get-sub-practice-areas"+q, nil)
		rec := httptest.NewRecorder()
		h.GetSubPracticeAreas(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("query %q: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestGetSubPracticeAreas_NotFound(t *testing.T) {
	h, _, cleanup := newAPIFixture(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/get-sub-practice-areas?practice_area_id=99999", nil)
	rec := httptest.NewRecorder()
	h.GetSubPracticeAreas(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
