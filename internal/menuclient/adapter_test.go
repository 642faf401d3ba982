// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menuclient

import "testing"

const legacyMenuHTML = `<html><body>
<nav><ul id="menu">
<li class="menu-item menu-item-practice-areas"><a href="#">Practice Areas</a></li>
<li class="menu-item menu-item-areas-we-serve"><a href="#">Areas We Serve</a>
  <ul class="sub-menu">
    <li><a href="/ga/atlanta/">Atlanta</a></li>
    <li><a href="/ga/savannah/">Savannah</a></li>
  </ul>
</li>
</ul></nav>
<aside class="dynamic-practice-areas-widget"></aside>
<aside class="dynamic-related-locations-widget"></aside>
</body></html>`

const megaMenuHTML = `<html><body>
<div class="e-n-menu">
  <div class="menu-item menu-item-practice-areas">
    <span class="e-n-menu-title-text">Practice Areas</span>
    <div class="e-n-menu-content"></div>
  </div>
  <div class="menu-item menu-item-areas-we-serve">
    <span class="e-n-menu-title-text">Areas We Serve</span>
    <div class="e-n-menu-content">
      <a href="/ga/atlanta/">Atlanta</a>
      <a href="/ga/atlanta/car-accidents/">Atlanta Car Accidents</a>
      <a href="#">More Areas</a>
      <a href="mailto:info@example.com">Email</a>
    </div>
  </div>
</div>
<aside class="dynamic-practice-areas-widget"></aside>
<aside class="dynamic-related-locations-widget"></aside>
</body></html>`

var testAreas = []PracticeArea{
	{ID: 1, Title: "Car Accidents", Slug: "car-accidents", URL: "/ga/atlanta/car-accidents", DisplayText: "Atlanta Car Accident Lawyers"},
	{ID: 2, Title: "Truck Accidents", Slug: "truck-accidents", URL: "/ga/atlanta/truck-accidents", DisplayText: "Truck Accidents"},
	{ID: 3, Title: "Medical Malpractice", Slug: "medical-malpractice", URL: "/ga/atlanta/medical-malpractice", DisplayText: "Medical Malpractice"},
}

func TestDetectAdapter(t *testing.T) {
	legacy := mustParse(t, legacyMenuHTML)
	a := DetectAdapter(legacy.doc, DefaultSelectors())
	if a == nil || a.Kind() != "legacy" {
		t.Fatalf("legacy fixture detected as %v", a)
	}

	mega := mustParse(t, megaMenuHTML)
	a = DetectAdapter(mega.doc, DefaultSelectors())
	if a == nil || a.Kind() != "mega" {
		t.Fatalf("mega fixture detected as %v", a)
	}

	none := mustParse(t, `<html><body><p>no menu here</p></body></html>`)
	if a = DetectAdapter(none.doc, DefaultSelectors()); a != nil {
		t.Fatalf("empty fixture detected as %s", a.Kind())
	}
}

func TestLegacyAdapter_RenderPracticeAreas(t *testing.T) {
	f := mustParse(t, legacyMenuHTML)
	a := DetectAdapter(f.doc, DefaultSelectors())

	a.SetLabel("Atlanta Practice Areas")
	a.RenderPracticeAreas(testAreas)

	item := findByClass(f.doc, "menu-item-practice-areas")
	sub := findByClass(item, "sub-menu")
	if sub == nil {
		t.Fatal("no submenu synthesized")
	}
	links := findAllByTag(sub, "a")
	if len(links) != 3 {
		t.Fatalf("submenu has %d links, want 3", len(links))
	}
	if nodeText(links[0]) != "Atlanta Car Accident Lawyers" {
		t.Errorf("first entry text = %q", nodeText(links[0]))
	}
	if getAttr(links[1], "href") != "/ga/atlanta/truck-accidents" {
		t.Errorf("second entry href = %q", getAttr(links[1], "href"))
	}

	toggle := findByTag(item, "a")
	if nodeText(toggle) != "Atlanta Practice Areas" {
		t.Errorf("label = %q", nodeText(toggle))
	}
	if getAttr(toggle, "aria-haspopup") != "true" {
		t.Error("aria-haspopup not set on toggle")
	}
	if getAttr(toggle, "aria-expanded") != "false" {
		t.Error("aria-expanded not set on toggle")
	}
	if getAttr(toggle, "aria-controls") != getAttr(sub, "id") {
		t.Errorf("aria-controls %q does not reference submenu id %q",
			getAttr(toggle, "aria-controls"), getAttr(sub, "id"))
	}
}

func TestLegacyAdapter_RenderReplacesPreviousSubmenu(t *testing.T) {
	f := mustParse(t, legacyMenuHTML)
	a := DetectAdapter(f.doc, DefaultSelectors())

	a.RenderPracticeAreas(testAreas)
	a.RenderPracticeAreas(testAreas[:1])

	item := findByClass(f.doc, "menu-item-practice-areas")
	subs := findAllByClass(item, "sub-menu")
	if len(subs) != 1 {
		t.Fatalf("item has %d submenus after re-render, want 1", len(subs))
	}
	if got := len(findAllByTag(subs[0], "a")); got != 1 {
		t.Errorf("re-rendered submenu has %d links, want 1", got)
	}
}

func TestLegacyAdapter_Restore(t *testing.T) {
	f := mustParse(t, legacyMenuHTML)
	a := DetectAdapter(f.doc, DefaultSelectors())

	a.SetLabel("Atlanta Practice Areas")
	a.RenderPracticeAreas(testAreas)
	a.Restore()

	item := findByClass(f.doc, "menu-item-practice-areas")
	if sub := findByClass(item, "sub-menu"); sub != nil {
		t.Error("submenu survived Restore")
	}
	if got := nodeText(findByTag(item, "a")); got != "Practice Areas" {
		t.Errorf("label after Restore = %q, want original", got)
	}
}

func TestMegaAdapter_RenderPracticeAreas(t *testing.T) {
	f := mustParse(t, megaMenuHTML)
	a := DetectAdapter(f.doc, DefaultSelectors())

	a.SetLabel("Atlanta Practice Areas")
	a.RenderPracticeAreas(testAreas)

	scope := findByClass(f.doc, "menu-item-practice-areas")
	if got := nodeText(findByClass(scope, "e-n-menu-title-text")); got != "Atlanta Practice Areas" {
		t.Errorf("title = %q", got)
	}

	grid := findByClass(scope, "practice-areas-grid")
	if grid == nil {
		t.Fatal("no grid rendered in content panel")
	}
	columns := findAllByClass(grid, "practice-areas-column")
	if len(columns) != 2 {
		t.Fatalf("grid has %d columns, want 2", len(columns))
	}
	// Three areas split 2/1 down the middle.
	if got := len(findAllByTag(columns[0], "a")); got != 2 {
		t.Errorf("first column has %d links, want 2", got)
	}
	if got := len(findAllByTag(columns[1], "a")); got != 1 {
		t.Errorf("second column has %d links, want 1", got)
	}

	// The areas-we-serve title must be untouched.
	areas := findByClass(f.doc, "menu-item-areas-we-serve")
	if got := nodeText(findByClass(areas, "e-n-menu-title-text")); got != "Areas We Serve" {
		t.Errorf("areas-we-serve title changed to %q", got)
	}
}

func TestMegaAdapter_RewriteCityLinks(t *testing.T) {
	f := mustParse(t, megaMenuHTML)
	a := DetectAdapter(f.doc, DefaultSelectors())

	rewritten := a.RewriteCityLinks("savannah", true)
	if rewritten != 2 {
		t.Fatalf("rewrote %d links, want 2", rewritten)
	}

	areas := findByClass(f.doc, "menu-item-areas-we-serve")
	links := findAllByTag(areas, "a")
	if got := getAttr(links[0], "href"); got != "/ga/savannah/" {
		t.Errorf("city link = %q, want /ga/savannah/", got)
	}
	if got := getAttr(links[1], "href"); got != "/ga/savannah/car-accidents/" {
		t.Errorf("practice link = %q, want /ga/savannah/car-accidents/", got)
	}
	if got := getAttr(links[2], "href"); got != "#" {
		t.Errorf("anchor link changed to %q", got)
	}
	if got := getAttr(links[3], "href"); got != "mailto:info@example.com" {
		t.Errorf("mail link changed to %q", got)
	}
}

func TestMegaAdapter_Restore(t *testing.T) {
	f := mustParse(t, megaMenuHTML)
	a := DetectAdapter(f.doc, DefaultSelectors())

	a.SetLabel("Savannah Practice Areas")
	a.RenderPracticeAreas(testAreas)
	a.RewriteCityLinks("savannah", true)
	a.Restore()

	scope := findByClass(f.doc, "menu-item-practice-areas")
	if got := nodeText(findByClass(scope, "e-n-menu-title-text")); got != "Practice Areas" {
		t.Errorf("title after Restore = %q", got)
	}
	areas := findByClass(f.doc, "menu-item-areas-we-serve")
	if got := getAttr(findByTag(findByClass(areas, "e-n-menu-content"), "a"), "href"); got != "/ga/atlanta/" {
		t.Errorf("city link after Restore = %q", got)
	}
}

func TestRewriteCityHref(t *testing.T) {
	tests := []struct {
		href       string
		city       string
		stateLayer bool
		want       string
		changed    bool
	}{
		{"/ga/atlanta/", "savannah", true, "/ga/savannah/", true},
		{"/ga/atlanta/car-accidents", "savannah", true, "/ga/savannah/car-accidents", true},
		{"/atlanta/", "savannah", false, "/savannah/", true},
		{"/ga/savannah/", "savannah", true, "/ga/savannah/", false},
		{"https://example.com/ga/atlanta/", "savannah", true, "https://example.com/ga/savannah/", true},
		{"#", "savannah", true, "#", false},
		{"mailto:a@b.c", "savannah", true, "mailto:a@b.c", false},
		{"tel:+1404", "savannah", true, "tel:+1404", false},
		{"", "savannah", true, "", false},
	}

	for _, tt := range tests {
		got, changed := rewriteCityHref(tt.href, tt.city, tt.stateLayer)
		if got != tt.want || changed != tt.changed {
			t.Errorf("rewriteCityHref(%q) = %q/%v, want %q/%v",
				tt.href, got, changed, tt.want, tt.changed)
		}
	}
}
