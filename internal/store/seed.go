package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lexsites/locmenu/internal/model"
	"github.com/lexsites/locmenu/internal/util"
)

// seedPage describes one node of the demo location tree.
type seedPage struct {
	title      string
	anchorText string
	menuOrder  int
	children   []seedPage
}

// demoTree is a small multi-city legal site. The first level holds
// states, the second cities, the third practice areas and the fourth
// sub-practice areas.
var demoTree = []seedPage{
	{title: "Georgia", children: []seedPage{
		{title: "Atlanta", anchorText: "Atlanta Injury Lawyers", children: []seedPage{
			{title: "Car Accidents", anchorText: "Atlanta Car Accident Lawyer", menuOrder: 1, children: []seedPage{
				{title: "Rear-End Collisions", menuOrder: 1},
				{title: "Drunk Driving Accidents", menuOrder: 2},
			}},
			{title: "Truck Accidents", menuOrder: 2},
			{title: "Medical Malpractice", menuOrder: 3},
		}},
		{title: "Savannah", children: []seedPage{
			{title: "Car Accidents", menuOrder: 1},
			{title: "Wrongful Death", menuOrder: 2},
		}},
	}},
	{title: "Florida", children: []seedPage{
		{title: "Miami", children: []seedPage{
			{title: "Car Accidents", menuOrder: 1},
			{title: "Premises Liability", menuOrder: 2},
		}},
	}},
}

// Seed creates demo location pages and the primary menu with an
// "Areas We Serve" subtree. It is idempotent: if the primary menu
// already exists nothing is written.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	_, err := queries.GetMenuBySlug(ctx, model.MenuPrimary)
	if err == nil {
		slog.Info("primary menu already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("checking for primary menu: %w", err)
	}

	for _, state := range demoTree {
		if err := seedSubtree(ctx, queries, nil, "", state, 0); err != nil {
			return err
		}
	}

	if err := seedMenu(ctx, queries); err != nil {
		return err
	}

	slog.Info("seeded demo location tree")
	return nil
}

// templateKindForDepth maps a node's depth in the location tree to its
// template kind: states render generic, cities the city template and
// everything below the practice-area template.
func templateKindForDepth(depth int) string {
	switch depth {
	case 1:
		return model.TemplateCity
	case 2, 3:
		return model.TemplatePracticeArea
	default:
		return model.TemplateGeneric
	}
}

func seedSubtree(ctx context.Context, q *Queries, parentID *int64, parentPath string, sp seedPage, depth int) error {
	slug := util.Slugify(sp.title)
	path := slug
	if parentPath != "" {
		path = parentPath + "/" + slug
	}

	page := model.Page{
		Title:     sp.title,
		Slug:      slug,
		Path:      path,
		Status:    model.PageStatusPublished,
		MenuOrder: sp.menuOrder,
	}
	if parentID != nil {
		page.ParentID = sql.NullInt64{Int64: *parentID, Valid: true}
	}

	created, err := q.CreatePage(ctx, page)
	if err != nil {
		return fmt.Errorf("seeding page %q: %w", path, err)
	}
	if sp.anchorText != "" {
		if err := q.SetPageMeta(ctx, created.ID, model.MetaKeyAnchorText, sp.anchorText); err != nil {
			return err
		}
	}
	if kind := templateKindForDepth(depth); kind != model.TemplateGeneric {
		if err := q.SetPageMeta(ctx, created.ID, model.MetaKeyTemplate, kind); err != nil {
			return err
		}
	}

	for _, child := range sp.children {
		if err := seedSubtree(ctx, q, &created.ID, path, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// seedMenu builds the primary menu with an Areas We Serve branch
// listing every seeded city.
func seedMenu(ctx context.Context, q *Queries) error {
	menu, err := q.CreateMenu(ctx, model.Menu{Name: "Primary", Slug: model.MenuPrimary})
	if err != nil {
		return err
	}

	topItems := []model.MenuItem{
		{MenuID: menu.ID, Title: "Home", URL: "/", Position: 1, IsActive: true},
		{MenuID: menu.ID, Title: "Practice Areas", URL: "#", CSSClass: "menu-item-practice-areas", Position: 2, IsActive: true},
		{MenuID: menu.ID, Title: "Areas We Serve", URL: "#", CSSClass: "menu-item-areas-we-serve", Position: 3, IsActive: true},
		{MenuID: menu.ID, Title: "Contact", URL: "/contact", Position: 4, IsActive: true},
	}

	var areasID int64
	for _, it := range topItems {
		id, err := q.CreateMenuItem(ctx, it)
		if err != nil {
			return err
		}
		if it.Title == "Areas We Serve" {
			areasID = id
		}
	}

	// One menu entry per seeded city, nested under Areas We Serve.
	pos := 1
	for _, state := range demoTree {
		stateSlug := util.Slugify(state.title)
		for _, city := range state.children {
			citySlug := util.Slugify(city.title)
			_, err := q.CreateMenuItem(ctx, model.MenuItem{
				MenuID:   menu.ID,
				ParentID: sql.NullInt64{Int64: areasID, Valid: true},
				Title:    city.title,
				URL:      "/" + stateSlug + "/" + citySlug,
				Position: pos,
				IsActive: true,
			})
			if err != nil {
				return err
			}
			pos++
		}
	}
	return nil
}
