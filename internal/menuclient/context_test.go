// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menuclient

import "testing"

func knownCities(slugs ...string) func(string) bool {
	set := make(map[string]bool, len(slugs))
	for _, s := range slugs {
		set[s] = true
	}
	return func(slug string) bool { return set[slug] }
}

func TestParsePath(t *testing.T) {
	isCity := knownCities("atlanta", "savannah", "miami")

	tests := []struct {
		name string
		path string
		opt  ParseOptions
		want Context
	}{
		{
			name: "state layer three segments",
			path: "/ga/atlanta/car-accidents",
			opt:  ParseOptions{StateLayerEnabled: true, IsCity: isCity},
			want: Context{StateSlug: "ga", CitySlug: "atlanta", PracticeAreaSlug: "car-accidents", Kind: PagePracticeArea},
		},
		{
			name: "no state layer three segments",
			path: "/atlanta/car-accidents/back-injury",
			opt:  ParseOptions{StateLayerEnabled: false, IsCity: isCity},
			want: Context{CitySlug: "atlanta", PracticeAreaSlug: "car-accidents", SubPracticeAreaSlug: "back-injury", Kind: PageSubPracticeArea},
		},
		{
			name: "state layer four segments",
			path: "/ga/atlanta/car-accidents/drunk-driving/",
			opt:  ParseOptions{StateLayerEnabled: true, IsCity: isCity},
			want: Context{StateSlug: "ga", CitySlug: "atlanta", PracticeAreaSlug: "car-accidents", SubPracticeAreaSlug: "drunk-driving", Kind: PageSubPracticeArea},
		},
		{
			name: "state layer state city pair",
			path: "/ga/atlanta/",
			opt:  ParseOptions{StateLayerEnabled: true, IsCity: isCity},
			want: Context{StateSlug: "ga", CitySlug: "atlanta", Kind: PageCity},
		},
		{
			name: "state layer legacy two segment falls back to default state",
			path: "/atlanta/car-accidents",
			opt:  ParseOptions{StateLayerEnabled: true, DefaultState: "ga", IsCity: isCity},
			want: Context{StateSlug: "ga", CitySlug: "atlanta", PracticeAreaSlug: "car-accidents", Kind: PagePracticeArea},
		},
		{
			name: "single segment city",
			path: "/savannah",
			opt:  ParseOptions{StateLayerEnabled: true, IsCity: isCity},
			want: Context{CitySlug: "savannah", Kind: PageCity},
		},
		{
			name: "unknown city classifies as neither",
			path: "/about-us",
			opt:  ParseOptions{StateLayerEnabled: true, IsCity: isCity},
			want: Context{CitySlug: "about-us", Kind: PageNeither},
		},
		{
			name: "root path",
			path: "/",
			opt:  ParseOptions{StateLayerEnabled: true, IsCity: isCity},
			want: Context{Kind: PageNeither},
		},
		{
			name: "query string ignored",
			path: "/atlanta?utm_source=x",
			opt:  ParseOptions{StateLayerEnabled: false, IsCity: isCity},
			want: Context{CitySlug: "atlanta", Kind: PageCity},
		},
		{
			name: "nil classifier yields neither",
			path: "/ga/atlanta",
			opt:  ParseOptions{StateLayerEnabled: true, DefaultState: "ga"},
			want: Context{StateSlug: "ga", CitySlug: "ga", PracticeAreaSlug: "atlanta", Kind: PageNeither},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePath(tt.path, tt.opt)
			if got != tt.want {
				t.Errorf("ParsePath(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}
}

func TestContextKey_DistinguishesContexts(t *testing.T) {
	a := Context{CitySlug: "atlanta", Kind: PageCity}
	b := Context{CitySlug: "atlanta", PracticeAreaSlug: "car-accidents", Kind: PagePracticeArea}
	if a.Key() == b.Key() {
		t.Error("distinct contexts produced the same key")
	}
	if a.Key() != (Context{CitySlug: "atlanta", Kind: PageCity}).Key() {
		t.Error("equal contexts produced different keys")
	}
}

func TestSlugsEqual(t *testing.T) {
	if !SlugsEqual("Atlanta", "atlanta") {
		t.Error("case-insensitive comparison failed")
	}
	if !SlugsEqual("san-josé", "san-jose") {
		t.Error("diacritic-insensitive comparison failed")
	}
	if SlugsEqual("atlanta", "savannah") {
		t.Error("distinct slugs compared equal")
	}
}
