// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Page statuses
const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
)

// Template kinds identifying what a page represents in the location tree.
const (
	TemplateCity         = "city"
	TemplatePracticeArea = "practice_area"
	TemplateGeneric      = "generic"
)

// Page meta keys
const (
	MetaKeyAnchorText = "anchor_text"
	MetaKeyTemplate   = "template"
)

// Page represents a page in the content store. Pages form a tree:
// state pages contain city pages, city pages contain practice-area
// pages, practice-area pages contain sub-practice-area pages.
type Page struct {
	ID        int64         `json:"id"`
	ParentID  sql.NullInt64 `json:"parent_id,omitempty"`
	Title     string        `json:"title"`
	Slug      string        `json:"slug"`
	Path      string        `json:"path"`
	Body      string        `json:"body"`
	Status    string        `json:"status"`
	MenuOrder int           `json:"menu_order"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// IsPublished returns true if the page is published.
func (p *Page) IsPublished() bool {
	return p.Status == PageStatusPublished
}

// IsDraft returns true if the page is a draft.
func (p *Page) IsDraft() bool {
	return p.Status == PageStatusDraft
}

// URL returns the site-relative URL for the page.
func (p *Page) URL() string {
	return "/" + p.Path
}

// DisplayText resolves the text shown for a page in menus and widgets.
// A non-empty anchor text always takes precedence over the title.
func DisplayText(anchorText, title string) string {
	if anchorText != "" {
		return anchorText
	}
	return title
}
