// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// CityPage is a city entry discovered in the Areas We Serve branch of
// the primary menu. Slug is derived from the last segment of URL.
type CityPage struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Slug     string `json:"slug"`
	ParentID int64  `json:"parent_id"`
	Depth    int    `json:"depth"`
}
