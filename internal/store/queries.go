// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lexsites/locmenu/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Queries wraps a database handle with typed accessors for pages,
// menus and events.
type Queries struct {
	db *sql.DB
}

// New returns a Queries instance backed by db.
func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// DB exposes the underlying handle for callers that need it (sessions, health checks).
func (q *Queries) DB() *sql.DB {
	return q.db
}

const pageColumns = `id, parent_id, title, slug, path, body, status, menu_order, created_at, updated_at`

func scanPage(row interface{ Scan(...any) error }) (model.Page, error) {
	var p model.Page
	err := row.Scan(&p.ID, &p.ParentID, &p.Title, &p.Slug, &p.Path, &p.Body,
		&p.Status, &p.MenuOrder, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetPageByID fetches a single page by primary key.
func (q *Queries) GetPageByID(ctx context.Context, id int64) (model.Page, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE id = ?`, id)
	p, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Page{}, fmt.Errorf("page %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Page{}, fmt.Errorf("getting page %d: %w", id, err)
	}
	return p, nil
}

// GetPageByPath fetches a page by its full materialized path, e.g.
// "ga/atlanta/car-accidents".
func (q *Queries) GetPageByPath(ctx context.Context, path string) (model.Page, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE path = ?`, path)
	p, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Page{}, fmt.Errorf("page %q: %w", path, ErrNotFound)
	}
	if err != nil {
		return model.Page{}, fmt.Errorf("getting page %q: %w", path, err)
	}
	return p, nil
}

// ListPublishedChildren returns the direct published children of a page,
// ordered by menu position then title. Grandchildren are never included.
func (q *Queries) ListPublishedChildren(ctx context.Context, parentID int64) ([]model.Page, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+pageColumns+` FROM pages
		 WHERE parent_id = ? AND status = ?
		 ORDER BY menu_order ASC, title ASC`, parentID, model.PageStatusPublished)
	if err != nil {
		return nil, fmt.Errorf("listing children of %d: %w", parentID, err)
	}
	defer rows.Close()

	var pages []model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning page: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// GetPageMeta returns the value for a single meta key, or "" when the
// key is not set on the page.
func (q *Queries) GetPageMeta(ctx context.Context, pageID int64, key string) (string, error) {
	var value string
	err := q.db.QueryRowContext(ctx,
		`SELECT value FROM page_meta WHERE page_id = ? AND key = ?`, pageID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting meta %q for page %d: %w", key, pageID, err)
	}
	return value, nil
}

// SetPageMeta inserts or replaces a meta value on a page.
func (q *Queries) SetPageMeta(ctx context.Context, pageID int64, key, value string) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO page_meta (page_id, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (page_id, key) DO UPDATE SET value = excluded.value`,
		pageID, key, value)
	if err != nil {
		return fmt.Errorf("setting meta %q for page %d: %w", key, pageID, err)
	}
	return nil
}

// CreatePage inserts a page and returns it with its assigned ID.
func (q *Queries) CreatePage(ctx context.Context, p model.Page) (model.Page, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO pages (parent_id, title, slug, path, body, status, menu_order)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ParentID, p.Title, p.Slug, p.Path, p.Body, p.Status, p.MenuOrder)
	if err != nil {
		return model.Page{}, fmt.Errorf("creating page %q: %w", p.Path, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Page{}, fmt.Errorf("creating page %q: %w", p.Path, err)
	}
	return q.GetPageByID(ctx, id)
}

// UpdatePageStatus changes a page's publication status.
func (q *Queries) UpdatePageStatus(ctx context.Context, id int64, status string) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE pages SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("updating page %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating page %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("page %d: %w", id, ErrNotFound)
	}
	return nil
}

// GetMenuBySlug fetches a menu by its slug identifier.
func (q *Queries) GetMenuBySlug(ctx context.Context, slug string) (model.Menu, error) {
	var m model.Menu
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, slug, created_at, updated_at FROM menus WHERE slug = ?`, slug).
		Scan(&m.ID, &m.Name, &m.Slug, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Menu{}, fmt.Errorf("menu %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return model.Menu{}, fmt.Errorf("getting menu %q: %w", slug, err)
	}
	return m, nil
}

// CreateMenu inserts a menu and returns it with its assigned ID.
func (q *Queries) CreateMenu(ctx context.Context, m model.Menu) (model.Menu, error) {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO menus (name, slug) VALUES (?, ?)`, m.Name, m.Slug)
	if err != nil {
		return model.Menu{}, fmt.Errorf("creating menu %q: %w", m.Slug, err)
	}
	return q.GetMenuBySlug(ctx, m.Slug)
}

// ListMenuItems returns all active items of a menu ordered by position.
// Hierarchy is expressed through ParentID; callers rebuild the tree.
func (q *Queries) ListMenuItems(ctx context.Context, menuID int64) ([]model.MenuItem, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, menu_id, parent_id, title, url, css_class, position, is_active, created_at, updated_at
		 FROM menu_items WHERE menu_id = ? AND is_active = 1
		 ORDER BY position ASC, id ASC`, menuID)
	if err != nil {
		return nil, fmt.Errorf("listing items of menu %d: %w", menuID, err)
	}
	defer rows.Close()

	var items []model.MenuItem
	for rows.Next() {
		var it model.MenuItem
		if err := rows.Scan(&it.ID, &it.MenuID, &it.ParentID, &it.Title, &it.URL,
			&it.CSSClass, &it.Position, &it.IsActive, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning menu item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// CreateMenuItem inserts a menu item and returns its assigned ID.
func (q *Queries) CreateMenuItem(ctx context.Context, it model.MenuItem) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO menu_items (menu_id, parent_id, title, url, css_class, position, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		it.MenuID, it.ParentID, it.Title, it.URL, it.CSSClass, it.Position, it.IsActive)
	if err != nil {
		return 0, fmt.Errorf("creating menu item %q: %w", it.Title, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("creating menu item %q: %w", it.Title, err)
	}
	return id, nil
}

// CreateEvent records an application event.
func (q *Queries) CreateEvent(ctx context.Context, e model.Event) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO events (level, category, message, ip) VALUES (?, ?, ?, ?)`,
		e.Level, e.Category, e.Message, e.IP)
	if err != nil {
		return fmt.Errorf("creating event: %w", err)
	}
	return nil
}
