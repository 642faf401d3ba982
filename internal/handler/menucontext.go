// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/lexsites/locmenu/internal/util"
)

// Session keys for the visitor's detected city.
const (
	SessionKeyCitySlug = "current_city_slug"
	SessionKeyCityName = "current_city_name"
)

// MenuContextHandler persists the visitor's city context in the session
// so the menu stays bound to a city across page views.
type MenuContextHandler struct {
	sm *scs.SessionManager
}

// NewMenuContextHandler creates the menu context handler.
func NewMenuContextHandler(sm *scs.SessionManager) *MenuContextHandler {
	return &MenuContextHandler{sm: sm}
}

// GetContext handles GET /menu-context.
func (h *MenuContextHandler) GetContext(w http.ResponseWriter, r *http.Request) {
	writeJSONSuccess(w, map[string]any{
		"city_slug": h.sm.GetString(r.Context(), SessionKeyCitySlug),
		"city_name": h.sm.GetString(r.Context(), SessionKeyCityName),
	})
}

type menuContextRequest struct {
	CitySlug string `json:"city_slug"`
	CityName string `json:"city_name"`
}

// SetContext handles POST /menu-context. An empty city_slug clears the
// stored context.
func (h *MenuContextHandler) SetContext(w http.ResponseWriter, r *http.Request) {
	var req menuContextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.CitySlug == "" {
		h.sm.Remove(r.Context(), SessionKeyCitySlug)
		h.sm.Remove(r.Context(), SessionKeyCityName)
		writeJSONSuccess(w, nil)
		return
	}

	if !util.IsValidSlug(req.CitySlug) {
		writeJSONError(w, http.StatusBadRequest, "Invalid city_slug")
		return
	}

	h.sm.Put(r.Context(), SessionKeyCitySlug, req.CitySlug)
	h.sm.Put(r.Context(), SessionKeyCityName, req.CityName)
	writeJSONSuccess(w, map[string]any{
		"city_slug": req.CitySlug,
		"city_name": req.CityName,
	})
}
