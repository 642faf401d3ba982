package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/lexsites/locmenu/internal/model"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "locmenu-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		_ = os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		_ = os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
	}
}

func createPage(t *testing.T, q *Queries, parent *model.Page, title, slug, status string, menuOrder int) model.Page {
	t.Helper()

	p := model.Page{
		Title:     title,
		Slug:      slug,
		Path:      slug,
		Status:    status,
		MenuOrder: menuOrder,
	}
	if parent != nil {
		p.ParentID = sql.NullInt64{Int64: parent.ID, Valid: true}
		p.Path = parent.Path + "/" + slug
	}

	created, err := q.CreatePage(context.Background(), p)
	if err != nil {
		t.Fatalf("CreatePage(%q): %v", title, err)
	}
	return created
}

func TestGetPageByPath(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	q := New(db)
	ctx := context.Background()

	state := createPage(t, q, nil, "Georgia", "ga", model.PageStatusPublished, 0)
	city := createPage(t, q, &state, "Atlanta", "atlanta", model.PageStatusPublished, 0)
	createPage(t, q, &city, "Car Accidents", "car-accidents", model.PageStatusPublished, 1)

	got, err := q.GetPageByPath(ctx, "ga/atlanta/car-accidents")
	if err != nil {
		t.Fatalf("GetPageByPath: %v", err)
	}
	if got.Title != "Car Accidents" {
		t.Errorf("Title = %q, want %q", got.Title, "Car Accidents")
	}
	if got.ParentID.Int64 != city.ID {
		t.Errorf("ParentID = %d, want %d", got.ParentID.Int64, city.ID)
	}

	_, err = q.GetPageByPath(ctx, "ga/atlanta/no-such-page")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListPublishedChildren(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	q := New(db)
	ctx := context.Background()

	city := createPage(t, q, nil, "Atlanta", "atlanta", model.PageStatusPublished, 0)

	// Same menu order so ties break alphabetically; one draft, one grandchild
	createPage(t, q, &city, "Truck Accidents", "truck-accidents", model.PageStatusPublished, 2)
	car := createPage(t, q, &city, "Car Accidents", "car-accidents", model.PageStatusPublished, 1)
	createPage(t, q, &city, "Medical Malpractice", "medical-malpractice", model.PageStatusPublished, 2)
	createPage(t, q, &city, "Unfinished Draft", "unfinished-draft", model.PageStatusDraft, 0)
	createPage(t, q, &car, "Rear-End Collisions", "rear-end-collisions", model.PageStatusPublished, 1)

	children, err := q.ListPublishedChildren(ctx, city.ID)
	if err != nil {
		t.Fatalf("ListPublishedChildren: %v", err)
	}

	want := []string{"Car Accidents", "Medical Malpractice", "Truck Accidents"}
	if len(children) != len(want) {
		t.Fatalf("got %d children, want %d", len(children), len(want))
	}
	for i, title := range want {
		if children[i].Title != title {
			t.Errorf("children[%d].Title = %q, want %q", i, children[i].Title, title)
		}
	}
}

func TestPageMeta(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	q := New(db)
	ctx := context.Background()

	page := createPage(t, q, nil, "Atlanta", "atlanta", model.PageStatusPublished, 0)

	// Missing key returns empty string, not an error
	val, err := q.GetPageMeta(ctx, page.ID, model.MetaKeyAnchorText)
	if err != nil {
		t.Fatalf("GetPageMeta: %v", err)
	}
	if val != "" {
		t.Errorf("GetPageMeta on unset key = %q, want empty", val)
	}

	if err := q.SetPageMeta(ctx, page.ID, model.MetaKeyAnchorText, "Atlanta Injury Lawyers"); err != nil {
		t.Fatalf("SetPageMeta: %v", err)
	}
	val, err = q.GetPageMeta(ctx, page.ID, model.MetaKeyAnchorText)
	if err != nil {
		t.Fatalf("GetPageMeta: %v", err)
	}
	if val != "Atlanta Injury Lawyers" {
		t.Errorf("GetPageMeta = %q, want %q", val, "Atlanta Injury Lawyers")
	}

	// Upsert replaces the value
	if err := q.SetPageMeta(ctx, page.ID, model.MetaKeyAnchorText, "Atlanta Accident Attorneys"); err != nil {
		t.Fatalf("SetPageMeta upsert: %v", err)
	}
	val, _ = q.GetPageMeta(ctx, page.ID, model.MetaKeyAnchorText)
	if val != "Atlanta Accident Attorneys" {
		t.Errorf("GetPageMeta after upsert = %q, want %q", val, "Atlanta Accident Attorneys")
	}
}

func TestMenus(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	q := New(db)
	ctx := context.Background()

	menu, err := q.CreateMenu(ctx, model.Menu{Name: "Primary", Slug: model.MenuPrimary})
	if err != nil {
		t.Fatalf("CreateMenu: %v", err)
	}

	areasID, err := q.CreateMenuItem(ctx, model.MenuItem{
		MenuID: menu.ID, Title: "Areas We Serve", URL: "#", Position: 1, IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateMenuItem: %v", err)
	}
	_, err = q.CreateMenuItem(ctx, model.MenuItem{
		MenuID:   menu.ID,
		ParentID: sql.NullInt64{Int64: areasID, Valid: true},
		Title:    "Atlanta", URL: "/ga/atlanta", Position: 1, IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateMenuItem child: %v", err)
	}
	// Inactive items are filtered out of listings
	_, err = q.CreateMenuItem(ctx, model.MenuItem{
		MenuID: menu.ID, Title: "Hidden", URL: "/hidden", Position: 2, IsActive: false,
	})
	if err != nil {
		t.Fatalf("CreateMenuItem inactive: %v", err)
	}

	items, err := q.ListMenuItems(ctx, menu.ID)
	if err != nil {
		t.Fatalf("ListMenuItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Title != "Areas We Serve" || items[1].Title != "Atlanta" {
		t.Errorf("unexpected item order: %q, %q", items[0].Title, items[1].Title)
	}
	if items[1].ParentID.Int64 != areasID {
		t.Errorf("child ParentID = %d, want %d", items[1].ParentID.Int64, areasID)
	}

	_, err = q.GetMenuBySlug(ctx, "footer")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing menu, got %v", err)
	}
}

func TestUpdatePageStatus(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	q := New(db)
	ctx := context.Background()

	page := createPage(t, q, nil, "Atlanta", "atlanta", model.PageStatusDraft, 0)

	if err := q.UpdatePageStatus(ctx, page.ID, model.PageStatusPublished); err != nil {
		t.Fatalf("UpdatePageStatus: %v", err)
	}
	got, err := q.GetPageByID(ctx, page.ID)
	if err != nil {
		t.Fatalf("GetPageByID: %v", err)
	}
	if !got.IsPublished() {
		t.Error("page should be published after status update")
	}

	if err := q.UpdatePageStatus(ctx, 99999, model.PageStatusPublished); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing page, got %v", err)
	}
}

func TestSeed(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()
	q := New(db)
	ctx := context.Background()

	if err := Seed(ctx, db); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	// Seeding twice must not duplicate anything
	if err := Seed(ctx, db); err != nil {
		t.Fatalf("Seed (second run): %v", err)
	}

	city, err := q.GetPageByPath(ctx, "georgia/atlanta")
	if err != nil {
		t.Fatalf("seeded city missing: %v", err)
	}
	children, err := q.ListPublishedChildren(ctx, city.ID)
	if err != nil {
		t.Fatalf("ListPublishedChildren: %v", err)
	}
	if len(children) != 3 {
		t.Errorf("Atlanta has %d practice areas, want 3", len(children))
	}

	// Template kinds are stored per tree depth.
	if kind, err := q.GetPageMeta(ctx, city.ID, model.MetaKeyTemplate); err != nil || kind != model.TemplateCity {
		t.Errorf("city template = %q (%v), want %q", kind, err, model.TemplateCity)
	}
	if kind, err := q.GetPageMeta(ctx, children[0].ID, model.MetaKeyTemplate); err != nil || kind != model.TemplatePracticeArea {
		t.Errorf("practice area template = %q (%v), want %q", kind, err, model.TemplatePracticeArea)
	}

	menu, err := q.GetMenuBySlug(ctx, model.MenuPrimary)
	if err != nil {
		t.Fatalf("seeded menu missing: %v", err)
	}
	items, err := q.ListMenuItems(ctx, menu.ID)
	if err != nil {
		t.Fatalf("ListMenuItems: %v", err)
	}
	var cityCount int
	for _, it := range items {
		if it.ParentID.Valid {
			cityCount++
		}
	}
	if cityCount != 3 {
		t.Errorf("menu has %d city items, want 3", cityCount)
	}
}
