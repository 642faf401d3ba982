// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements location resolution for the dynamic menu:
// mapping city and state slugs to pages, listing practice areas and
// finding related locations across cities.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lexsites/locmenu/internal/model"
	"github.com/lexsites/locmenu/internal/store"
	"github.com/lexsites/locmenu/internal/util"
)

// ErrNotFound indicates a city or practice area could not be resolved.
var ErrNotFound = errors.New("location not found")

// PageStore is the subset of store queries the resolver needs.
type PageStore interface {
	GetPageByID(ctx context.Context, id int64) (model.Page, error)
	GetPageByPath(ctx context.Context, path string) (model.Page, error)
	ListPublishedChildren(ctx context.Context, parentID int64) ([]model.Page, error)
	GetPageMeta(ctx context.Context, pageID int64, key string) (string, error)
}

// PracticeArea is one practice area entry under a city.
type PracticeArea struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	URL         string `json:"url"`
	AnchorText  string `json:"anchor_text"`
	DisplayText string `json:"display_text"`
}

// CityResolution is the result of resolving a city and its practice areas.
type CityResolution struct {
	CityName        string         `json:"city_name"`
	CityAnchorText  string         `json:"city_anchor_text"`
	CityDisplayText string         `json:"city_display_text"`
	PracticeAreas   []PracticeArea `json:"practice_areas"`
}

// SubPracticeArea is one sub practice area entry under a practice area.
type SubPracticeArea struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	URL        string `json:"url"`
	AnchorText string `json:"anchor_text"`
}

// SubPracticeAreaResolution is the result of resolving a practice area's children.
type SubPracticeAreaResolution struct {
	PracticeAreaID    int64             `json:"practice_area_id"`
	PracticeAreaTitle string            `json:"practice_area_title"`
	PracticeAreaSlug  string            `json:"practice_area_slug"`
	SubPracticeAreas  []SubPracticeArea `json:"sub_practice_areas"`
}

// Resolver resolves location slugs against the page tree.
type Resolver struct {
	pages             PageStore
	stateLayerEnabled bool
	defaultState      string
}

// NewResolver creates a resolver. When stateLayerEnabled is set, city
// paths carry a state segment and defaultState fills in for requests
// that omit it.
func NewResolver(pages PageStore, stateLayerEnabled bool, defaultState string) *Resolver {
	return &Resolver{
		pages:             pages,
		stateLayerEnabled: stateLayerEnabled,
		defaultState:      defaultState,
	}
}

// resolveCityPage finds the published city page for the given slugs.
// With the state layer enabled, the composite state/city path is tried
// first; a plain city path remains as fallback for sites that mounted
// some cities at the root.
func (r *Resolver) resolveCityPage(ctx context.Context, citySlug, stateSlug string) (model.Page, error) {
	if citySlug == "" {
		return model.Page{}, fmt.Errorf("empty city slug: %w", ErrNotFound)
	}

	if r.stateLayerEnabled {
		state := stateSlug
		if state == "" {
			state = r.defaultState
		}
		if state != "" {
			page, err := r.pages.GetPageByPath(ctx, state+"/"+citySlug)
			if err == nil && page.IsPublished() {
				return page, nil
			}
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return model.Page{}, err
			}
		}
	}

	page, err := r.pages.GetPageByPath(ctx, citySlug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Page{}, fmt.Errorf("city %q: %w", citySlug, ErrNotFound)
		}
		return model.Page{}, err
	}
	if !page.IsPublished() {
		return model.Page{}, fmt.Errorf("city %q: %w", citySlug, ErrNotFound)
	}
	return page, nil
}

// ResolveCity resolves a city and lists its practice areas.
// Practice areas are the city's direct published children ordered by
// menu position, then title.
func (r *Resolver) ResolveCity(ctx context.Context, citySlug, stateSlug string) (*CityResolution, error) {
	city, err := r.resolveCityPage(ctx, citySlug, stateSlug)
	if err != nil {
		return nil, err
	}

	cityAnchor, err := r.pages.GetPageMeta(ctx, city.ID, model.MetaKeyAnchorText)
	if err != nil {
		return nil, err
	}

	children, err := r.pages.ListPublishedChildren(ctx, city.ID)
	if err != nil {
		return nil, err
	}

	areas := make([]PracticeArea, 0, len(children))
	for _, child := range children {
		anchor, err := r.pages.GetPageMeta(ctx, child.ID, model.MetaKeyAnchorText)
		if err != nil {
			return nil, err
		}
		areas = append(areas, PracticeArea{
			ID:          child.ID,
			Title:       child.Title,
			Slug:        child.Slug,
			URL:         child.URL(),
			AnchorText:  anchor,
			DisplayText: model.DisplayText(anchor, child.Title),
		})
	}

	return &CityResolution{
		CityName:        city.Title,
		CityAnchorText:  cityAnchor,
		CityDisplayText: model.DisplayText(cityAnchor, city.Title),
		PracticeAreas:   areas,
	}, nil
}

// ResolvePracticeAreaPage resolves the practice-area page the visitor
// is on: the published child of the given city whose slug matches
// practiceAreaSlug, case- and diacritic-insensitively. Returns
// ErrNotFound when either the city or the practice area does not
// resolve.
func (r *Resolver) ResolvePracticeAreaPage(ctx context.Context, practiceAreaSlug, citySlug, stateSlug string) (model.Page, error) {
	city, err := r.resolveCityPage(ctx, citySlug, stateSlug)
	if err != nil {
		return model.Page{}, err
	}

	children, err := r.pages.ListPublishedChildren(ctx, city.ID)
	if err != nil {
		return model.Page{}, err
	}
	want := util.NormalizeSlug(practiceAreaSlug)
	for _, child := range children {
		if util.NormalizeSlug(child.Slug) == want {
			return child, nil
		}
	}
	return model.Page{}, fmt.Errorf("practice area %q in city %q: %w", practiceAreaSlug, citySlug, ErrNotFound)
}

// ResolveSubPracticeAreas lists the direct published children of a
// practice area. The practice area is located by ID when given,
// otherwise by city and practice area slug.
func (r *Resolver) ResolveSubPracticeAreas(ctx context.Context, practiceAreaID int64, citySlug, practiceAreaSlug string) (*SubPracticeAreaResolution, error) {
	var parent model.Page

	switch {
	case practiceAreaID > 0:
		page, err := r.pages.GetPageByID(ctx, practiceAreaID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("practice area %d: %w", practiceAreaID, ErrNotFound)
			}
			return nil, err
		}
		if !page.IsPublished() {
			return nil, fmt.Errorf("practice area %d: %w", practiceAreaID, ErrNotFound)
		}
		parent = page

	case citySlug != "" && practiceAreaSlug != "":
		city, err := r.resolveCityPage(ctx, citySlug, "")
		if err != nil {
			return nil, err
		}
		children, err := r.pages.ListPublishedChildren(ctx, city.ID)
		if err != nil {
			return nil, err
		}
		found := false
		for _, child := range children {
			if child.Slug == practiceAreaSlug {
				parent = child
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("practice area %q in city %q: %w", practiceAreaSlug, citySlug, ErrNotFound)
		}

	default:
		return nil, fmt.Errorf("missing practice area identifier: %w", ErrNotFound)
	}

	children, err := r.pages.ListPublishedChildren(ctx, parent.ID)
	if err != nil {
		return nil, err
	}

	subs := make([]SubPracticeArea, 0, len(children))
	for _, child := range children {
		anchor, err := r.pages.GetPageMeta(ctx, child.ID, model.MetaKeyAnchorText)
		if err != nil {
			return nil, err
		}
		subs = append(subs, SubPracticeArea{
			ID:         child.ID,
			Title:      child.Title,
			Slug:       child.Slug,
			URL:        child.URL(),
			AnchorText: anchor,
		})
	}

	return &SubPracticeAreaResolution{
		PracticeAreaID:    parent.ID,
		PracticeAreaTitle: parent.Title,
		PracticeAreaSlug:  parent.Slug,
		SubPracticeAreas:  subs,
	}, nil
}
