package model

import (
	"database/sql"
	"time"
)

// Default menu slugs
const (
	MenuPrimary = "primary"
)

// Menu represents a navigation menu.
type Menu struct {
	ID        int64
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MenuItem represents an item in a navigation menu.
type MenuItem struct {
	ID        int64
	MenuID    int64
	ParentID  sql.NullInt64
	Title     string
	URL       string
	CSSClass  string
	Position  int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
