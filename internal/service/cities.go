// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/lexsites/locmenu/internal/model"
	"github.com/lexsites/locmenu/internal/store"
)

// MenuStore is the subset of store queries the city lister needs.
type MenuStore interface {
	GetMenuBySlug(ctx context.Context, slug string) (model.Menu, error)
	ListMenuItems(ctx context.Context, menuID int64) ([]model.MenuItem, error)
}

// maxCityDepth bounds recursion when flattening the Areas We Serve
// subtree. Menus nested deeper than this are considered malformed.
const maxCityDepth = 5

// CityLister derives the city page list from the primary menu.
type CityLister struct {
	menus MenuStore
}

// NewCityLister creates a city lister backed by the menu store.
func NewCityLister(menus MenuStore) *CityLister {
	return &CityLister{menus: menus}
}

// isAreasWeServe reports whether a menu item is the Areas We Serve
// branch. The match is case-insensitive and tolerates title variants
// such as "Areas We Proudly Serve".
func isAreasWeServe(title string) bool {
	lower := strings.ToLower(title)
	return strings.Contains(lower, "areas") && strings.Contains(lower, "serve")
}

// slugFromURL extracts the city slug from a menu item URL: the last
// path segment with any trailing slash removed.
func slugFromURL(url string) string {
	url = strings.TrimSuffix(url, "/")
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}

// CityPages returns all cities listed under the Areas We Serve branch
// of the primary menu, flattened in menu order. Nested submenus are
// included up to maxCityDepth levels below the branch root.
func (l *CityLister) CityPages(ctx context.Context) ([]model.CityPage, error) {
	menu, err := l.menus.GetMenuBySlug(ctx, model.MenuPrimary)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	items, err := l.menus.ListMenuItems(ctx, menu.ID)
	if err != nil {
		return nil, err
	}

	// Group items by parent, preserving menu order
	children := make(map[int64][]model.MenuItem)
	for _, it := range items {
		var parent int64
		if it.ParentID.Valid {
			parent = it.ParentID.Int64
		}
		children[parent] = append(children[parent], it)
	}

	// Find the Areas We Serve item among the top level entries
	var rootID int64 = -1
	for _, it := range children[0] {
		if isAreasWeServe(it.Title) {
			rootID = it.ID
			break
		}
	}
	if rootID < 0 {
		return nil, nil
	}

	var cities []model.CityPage
	var walk func(parentID int64, depth int)
	walk = func(parentID int64, depth int) {
		if depth > maxCityDepth {
			return
		}
		for _, it := range children[parentID] {
			// Placeholder entries like "#" group further cities but are not cities themselves
			if it.URL != "" && it.URL != "#" {
				cities = append(cities, model.CityPage{
					ID:       it.ID,
					Title:    it.Title,
					URL:      it.URL,
					Slug:     slugFromURL(it.URL),
					ParentID: parentID,
					Depth:    depth,
				})
			}
			walk(it.ID, depth+1)
		}
	}
	walk(rootID, 1)

	return cities, nil
}
