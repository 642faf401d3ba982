// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package menuclient implements the client side of the location-aware
// menu: an HTTP client for the menu data endpoints, a context parser
// for variable-depth location URLs, and a reconciliation engine that
// rewrites a parsed HTML menu to match the resolved location context.
package menuclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrNotFound is returned when the server cannot resolve the requested
// city or practice area.
var ErrNotFound = errors.New("not found")

const tokenHeader = "X-Menu-Token"

// PracticeArea mirrors one practice area entry from the menu API.
type PracticeArea struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	URL         string `json:"url"`
	AnchorText  string `json:"anchor_text"`
	DisplayText string `json:"display_text"`
}

// PracticeAreasResponse is the payload of /get-practice-areas.
type PracticeAreasResponse struct {
	CityName        string         `json:"city_name"`
	CityAnchorText  string         `json:"city_anchor_text"`
	CityDisplayText string         `json:"city_display_text"`
	PracticeAreas   []PracticeArea `json:"practice_areas"`
}

// RelatedLocation mirrors one match from /get-related-locations.
type RelatedLocation struct {
	CityID                  int64  `json:"id"`
	CityTitle               string `json:"title"`
	CitySlug                string `json:"slug"`
	CityDisplayText         string `json:"city_display_text"`
	PracticeAreaURL         string `json:"practice_area_url"`
	PracticeAreaDisplayText string `json:"practice_area_display_text"`
	MatchType               string `json:"match_type"`
}

// SubPracticeArea mirrors one entry from /get-sub-practice-areas.
type SubPracticeArea struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	URL        string `json:"url"`
	AnchorText string `json:"anchor_text"`
}

// SubPracticeAreasResponse is the payload of /get-sub-practice-areas.
type SubPracticeAreasResponse struct {
	PracticeAreaID    int64             `json:"practice_area_id"`
	PracticeAreaTitle string            `json:"practice_area_title"`
	PracticeAreaSlug  string            `json:"practice_area_slug"`
	SubPracticeAreas  []SubPracticeArea `json:"sub_practice_areas"`
}

// Client calls the menu data endpoints with the shared request token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the given server base URL.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithHTTP creates a client using a caller-supplied http.Client.
func NewClientWithHTTP(baseURL, token string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, token: token, http: hc}
}

// GetPracticeAreas fetches the practice areas for a city.
func (c *Client) GetPracticeAreas(ctx context.Context, citySlug, stateSlug string) (*PracticeAreasResponse, error) {
	q := url.Values{"city_slug": {citySlug}}
	if stateSlug != "" {
		q.Set("state_slug", stateSlug)
	}

	var res PracticeAreasResponse
	if err := c.getJSON(ctx, "/get-practice-areas", q, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetRelatedLocations fetches cities offering a matching practice area.
func (c *Client) GetRelatedLocations(ctx context.Context, practiceAreaSlug, citySlug, stateSlug string) ([]RelatedLocation, error) {
	q := url.Values{
		"practice_area_slug": {practiceAreaSlug},
		"city_slug":          {citySlug},
	}
	if stateSlug != "" {
		q.Set("state_slug", stateSlug)
	}

	var res struct {
		RelatedLocations []RelatedLocation `json:"related_locations"`
	}
	if err := c.getJSON(ctx, "/get-related-locations", q, &res); err != nil {
		return nil, err
	}
	return res.RelatedLocations, nil
}

// GetSubPracticeAreas fetches the sub practice areas of a practice
// area, addressed either by ID or by city and practice area slugs.
func (c *Client) GetSubPracticeAreas(ctx context.Context, practiceAreaID int64, citySlug, practiceAreaSlug string) (*SubPracticeAreasResponse, error) {
	q := url.Values{}
	if practiceAreaID > 0 {
		q.Set("practice_area_id", strconv.FormatInt(practiceAreaID, 10))
	} else {
		q.Set("city_slug", citySlug)
		q.Set("practice_area_slug", practiceAreaSlug)
	}

	var res SubPracticeAreasResponse
	if err := c.getJSON(ctx, "/get-sub-practice-areas", q, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// FetchPage retrieves a rendered page body for the scraping fallback.
// The URL may be absolute or a path relative to the client base URL.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (string, error) {
	target := pageURL
	if u, err := url.Parse(pageURL); err == nil && !u.IsAbs() {
		target = c.baseURL + pageURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("creating page request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page %s: %w", pageURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching page %s: status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading page %s: %w", pageURL, err)
	}
	return string(body), nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set(tokenHeader, c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		var envelope struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		if envelope.Message != "" {
			return fmt.Errorf("calling %s: %s", path, envelope.Message)
		}
		return fmt.Errorf("calling %s: status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
