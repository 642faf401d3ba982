// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the locmenu project.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"

	"github.com/lexsites/locmenu/internal/model"
	"github.com/lexsites/locmenu/internal/store"
	"github.com/lexsites/locmenu/internal/util"
)

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a completely silent test logger (error level only).
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestDB creates a temporary test database with migrations applied.
// Returns the database and a cleanup function that should be deferred.
func TestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "locmenu-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		_ = os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		_ = os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
	}
}

// MustCreatePage inserts a published page under an optional parent and
// fails the test on error. The page path is derived from the parent.
func MustCreatePage(t *testing.T, q *store.Queries, parent *model.Page, title string, menuOrder int) model.Page {
	t.Helper()

	slug := util.Slugify(title)
	p := model.Page{
		Title:     title,
		Slug:      slug,
		Path:      slug,
		Status:    model.PageStatusPublished,
		MenuOrder: menuOrder,
	}
	if parent != nil {
		p.ParentID = sql.NullInt64{Int64: parent.ID, Valid: true}
		p.Path = parent.Path + "/" + slug
	}

	created, err := q.CreatePage(context.Background(), p)
	if err != nil {
		t.Fatalf("creating page %q: %v", title, err)
	}
	return created
}

// MustSetAnchorText stores anchor text meta on a page and fails the test on error.
func MustSetAnchorText(t *testing.T, q *store.Queries, pageID int64, anchorText string) {
	t.Helper()

	if err := q.SetPageMeta(context.Background(), pageID, model.MetaKeyAnchorText, anchorText); err != nil {
		t.Fatalf("setting anchor text: %v", err)
	}
}
