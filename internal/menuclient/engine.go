// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menuclient

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/lexsites/locmenu/internal/model"
	"github.com/lexsites/locmenu/internal/util"
)

// Config carries the bootstrap settings the engine needs, matching
// the /menu-config payload.
type Config struct {
	StateLayerEnabled bool
	DefaultState      string
	DefaultCity       string
	UppercaseMenu     bool
	Device            string
	Selectors         Selectors
	CityPages         []model.CityPage
	Logger            *slog.Logger
}

// Engine reconciles a rendered menu document with the location context
// derived from the current URL. It holds the state for one page view:
// the detected adapter, the last applied detection key and the parsed
// document. Methods are meant to be called from a single goroutine.
type Engine struct {
	id       uuid.UUID
	cfg      Config
	client   *Client
	store    ContextStore
	sanitize *bluemonday.Policy
	logger   *slog.Logger

	doc        *html.Node
	adapter    MenuAdapter
	lastKey    string
	relatedKey string

	citySet map[string]model.CityPage
}

// NewEngine creates an engine over the given API client and context
// store.
func NewEngine(client *Client, store ContextStore, cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Selectors == (Selectors{}) {
		cfg.Selectors = DefaultSelectors()
	}

	citySet := make(map[string]model.CityPage, len(cfg.CityPages))
	for _, cp := range cfg.CityPages {
		citySet[util.NormalizeSlug(cp.Slug)] = cp
	}

	return &Engine{
		id:       uuid.New(),
		cfg:      cfg,
		client:   client,
		store:    store,
		sanitize: bluemonday.StrictPolicy(),
		logger:   logger,
		citySet:  citySet,
	}
}

// ID returns the engine instance identifier, used to correlate log
// records from concurrent page views.
func (e *Engine) ID() string { return e.id.String() }

// Mount probes the document for a supported menu shape and attaches
// the matching adapter.
func (e *Engine) Mount(doc *html.Node) error {
	adapter := DetectAdapter(doc, e.cfg.Selectors)
	if adapter == nil {
		return fmt.Errorf("no supported menu found in document")
	}
	e.doc = doc
	e.adapter = adapter
	e.lastKey = ""
	e.relatedKey = ""
	e.logger.Debug("menu adapter mounted", "engine_id", e.ID(), "kind", adapter.Kind())
	return nil
}

// WaitForHost retries Mount against successive snapshots of the host
// document, covering menus mounted late by the rendering host. Retries
// are bounded with a linearly growing delay; attempts below one
// default to five.
func (e *Engine) WaitForHost(ctx context.Context, next func() *html.Node, attempts int, delay time.Duration) error {
	if attempts < 1 {
		attempts = 5
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		if doc := next(); doc != nil {
			if lastErr = e.Mount(doc); lastErr == nil {
				return nil
			}
		} else {
			lastErr = fmt.Errorf("host document not available")
		}
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay * time.Duration(i)):
		}
	}
	return fmt.Errorf("menu host not found after %d attempts: %w", attempts, lastErr)
}

// Reconcile runs the detection state machine for one page view: parse
// the path, recover or invalidate the stored context, fall back to the
// default city, then either bind the menu to the resolved city or
// restore the original menu. An unchanged detection key is a no-op
// with no network call and no rebuild.
func (e *Engine) Reconcile(ctx context.Context, path string) error {
	if e.adapter == nil {
		return fmt.Errorf("engine not mounted")
	}

	parsed := e.parse(path)
	var cityName string

	if parsed.Kind == PageNeither {
		stored, err := e.store.Load(ctx)
		if err != nil {
			e.logger.Warn("loading stored context", "engine_id", e.ID(), "error", err)
		}
		if stored.CitySlug != "" {
			if e.pathKeepsStoredCity(path, stored.CitySlug) {
				parsed.CitySlug = stored.CitySlug
				parsed.Kind = PageCity
				cityName = stored.CityName
			} else if err := e.store.Clear(ctx); err != nil {
				e.logger.Warn("clearing stored context", "engine_id", e.ID(), "error", err)
			}
		}
	}

	if parsed.Kind == PageNeither && e.cfg.DefaultCity != "" {
		parsed.CitySlug = e.cfg.DefaultCity
		parsed.StateSlug = e.cfg.DefaultState
		parsed.Kind = PageCity
	}

	key := parsed.Key()
	if key == e.lastKey {
		return nil
	}

	if parsed.Kind == PageNeither {
		e.adapter.Restore()
		if w := e.widget(e.cfg.Selectors.PracticeWidget); w != nil {
			renderWidgetMessage(w, msgSelectCity)
		}
		e.lastKey = key
		return nil
	}

	if err := e.bind(ctx, parsed, cityName); err != nil {
		// Degrade to the untouched menu; the next view retries.
		e.logger.Warn("binding city context failed",
			"engine_id", e.ID(), "city_slug", parsed.CitySlug, "error", err)
		e.adapter.Restore()
		if w := e.widget(e.cfg.Selectors.PracticeWidget); w != nil {
			renderWidgetMessage(w, msgSelectCity)
		}
		return nil
	}

	e.lastKey = key
	return nil
}

// BindCity handles a city click inside the areas-we-serve menu: the
// clicked slug and name are persisted, city links are rewritten in
// place, and the full bound transition runs for the new city.
func (e *Engine) BindCity(ctx context.Context, citySlug, cityName string) error {
	if e.adapter == nil {
		return fmt.Errorf("engine not mounted")
	}

	if err := e.store.Save(ctx, StoredContext{CitySlug: citySlug, CityName: cityName}); err != nil {
		e.logger.Warn("saving clicked city", "engine_id", e.ID(), "error", err)
	}
	e.adapter.RewriteCityLinks(citySlug, e.cfg.StateLayerEnabled)

	parsed := Context{
		StateSlug: e.cityStateSlug(citySlug),
		CitySlug:  citySlug,
		Kind:      PageCity,
	}
	key := parsed.Key()
	if key == e.lastKey {
		return nil
	}
	if err := e.bind(ctx, parsed, cityName); err != nil {
		e.logger.Warn("binding clicked city failed",
			"engine_id", e.ID(), "city_slug", citySlug, "error", err)
		return nil
	}
	e.lastKey = key
	return nil
}

// bind is the Bound transition: fetch the city's practice areas,
// persist the context, rewrite the menu and populate the practice
// widget.
func (e *Engine) bind(ctx context.Context, parsed Context, cityName string) error {
	res, err := e.client.GetPracticeAreas(ctx, parsed.CitySlug, parsed.StateSlug)
	if err != nil {
		return err
	}

	display := res.CityDisplayText
	if display == "" {
		display = cityDisplayName(cityName, parsed.CitySlug)
	}
	display = e.sanitize.Sanitize(display)

	if err := e.store.Save(ctx, StoredContext{CitySlug: parsed.CitySlug, CityName: display}); err != nil {
		e.logger.Warn("persisting city context", "engine_id", e.ID(), "error", err)
	}

	label := practiceAreasHeading(display)
	if e.cfg.UppercaseMenu {
		label = strings.ToUpper(label)
	}
	e.adapter.SetLabel(label)

	areas := make([]PracticeArea, len(res.PracticeAreas))
	copy(areas, res.PracticeAreas)
	for i := range areas {
		areas[i].DisplayText = e.sanitize.Sanitize(areas[i].DisplayText)
	}
	e.adapter.RenderPracticeAreas(areas)
	e.adapter.RewriteCityLinks(parsed.CitySlug, e.cfg.StateLayerEnabled)

	e.populatePracticeWidget(ctx, parsed, display, areas)
	return nil
}

// populatePracticeWidget fills the sidebar widget: sub practice areas
// on practice-area pages, plain practice areas otherwise, with the
// sub-practice lookup degrading to the plain list on failure or when
// filtering leaves nothing.
func (e *Engine) populatePracticeWidget(ctx context.Context, parsed Context, cityDisplay string, areas []PracticeArea) {
	w := e.widget(e.cfg.Selectors.PracticeWidget)
	if w == nil {
		return
	}

	if parsed.Kind == PagePracticeArea || parsed.Kind == PageSubPracticeArea {
		res, err := e.client.GetSubPracticeAreas(ctx, 0, parsed.CitySlug, parsed.PracticeAreaSlug)
		if err != nil {
			e.logger.Warn("fetching sub practice areas",
				"engine_id", e.ID(), "practice_area_slug", parsed.PracticeAreaSlug, "error", err)
		} else {
			items := make([]widgetItem, 0, len(res.SubPracticeAreas))
			for _, sub := range res.SubPracticeAreas {
				if parsed.SubPracticeAreaSlug != "" && SlugsEqual(sub.Slug, parsed.SubPracticeAreaSlug) {
					continue
				}
				text := model.DisplayText(sub.AnchorText, sub.Title)
				items = append(items, widgetItem{URL: sub.URL, Text: e.sanitize.Sanitize(text)})
			}
			if len(items) > 0 {
				renderWidgetList(w, resourcesHeading(e.sanitize.Sanitize(res.PracticeAreaTitle)), items)
				return
			}
		}
	}

	if len(areas) == 0 {
		renderWidgetMessage(w, noPracticeAreasMsg(cityDisplay))
		return
	}
	items := make([]widgetItem, 0, len(areas))
	for _, area := range areas {
		items = append(items, widgetItem{URL: area.URL, Text: area.DisplayText})
	}
	renderWidgetList(w, practiceAreasHeading(cityDisplay), items)
}

// parse derives the location context for the current path against the
// known city list.
func (e *Engine) parse(path string) Context {
	return ParsePath(path, ParseOptions{
		StateLayerEnabled: e.cfg.StateLayerEnabled,
		DefaultState:      e.cfg.DefaultState,
		IsCity:            e.isKnownCity,
	})
}

func (e *Engine) isKnownCity(slug string) bool {
	_, ok := e.citySet[util.NormalizeSlug(slug)]
	return ok
}

// pathKeepsStoredCity decides whether a stored city context survives
// the current path. The root path keeps it; any other path must carry
// the stored slug in one of its segments, otherwise the context is
// stale and gets invalidated.
func (e *Engine) pathKeepsStoredCity(path, storedSlug string) bool {
	segs := splitPath(path)
	if len(segs) == 0 {
		return true
	}
	for _, s := range segs {
		if SlugsEqual(s, storedSlug) {
			return true
		}
	}
	return false
}

// cityStateSlug derives the state slug for a known city from its menu
// URL. Empty when the state layer is off or the city is unknown.
func (e *Engine) cityStateSlug(citySlug string) string {
	if !e.cfg.StateLayerEnabled {
		return ""
	}
	cp, ok := e.citySet[util.NormalizeSlug(citySlug)]
	if !ok {
		return e.cfg.DefaultState
	}
	segs := splitPath(cp.URL)
	if len(segs) >= 2 {
		return segs[len(segs)-2]
	}
	return e.cfg.DefaultState
}

// widget locates a widget container by its selector class.
func (e *Engine) widget(sel string) *html.Node {
	if e.doc == nil {
		return nil
	}
	return findByClass(e.doc, className(sel))
}
