// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"
	ghtml "github.com/yuin/goldmark/renderer/html"

	"github.com/lexsites/locmenu/internal/model"
	"github.com/lexsites/locmenu/internal/store"
)

// pageTemplate renders a location page. The anchor text is exposed both
// as a meta tag and as a data attribute so downstream scrapers have two
// stable places to read it from.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{- if .AnchorText}}
<meta name="anchor-text" content="{{.AnchorText}}">
{{- end}}
</head>
<body>
<main class="location-page" data-page-id="{{.ID}}" data-template="{{.Template}}"{{if .AnchorText}} data-anchor-text="{{.AnchorText}}"{{end}}>
<h1>{{.Title}}</h1>
{{.Body}}
</main>
</body>
</html>
`))

type pageView struct {
	ID         int64
	Title      string
	AnchorText string
	Template   string
	Body       template.HTML
}

// FrontendHandler serves the public location pages.
type FrontendHandler struct {
	queries *store.Queries
	md      goldmark.Markdown
	logger  *slog.Logger
}

// NewFrontendHandler creates the frontend handler.
func NewFrontendHandler(queries *store.Queries, logger *slog.Logger) *FrontendHandler {
	return &FrontendHandler{
		queries: queries,
		// Page bodies are markdown authored by site editors.
		md:     goldmark.New(goldmark.WithRendererOptions(ghtml.WithHardWraps())),
		logger: logger,
	}
}

// ServePage handles GET /{path...}: it renders the published page at
// the request path or returns 404.
func (h *FrontendHandler) ServePage(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(r.URL.Path, "/")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	page, err := h.queries.GetPageByPath(r.Context(), path)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("loading page", "path", path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !page.IsPublished() {
		http.NotFound(w, r)
		return
	}

	anchorText, err := h.queries.GetPageMeta(r.Context(), page.ID, model.MetaKeyAnchorText)
	if err != nil {
		h.logger.Error("loading page meta", "path", path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	templateKind, err := h.queries.GetPageMeta(r.Context(), page.ID, model.MetaKeyTemplate)
	if err != nil {
		h.logger.Error("loading page meta", "path", path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if templateKind == "" {
		templateKind = model.TemplateGeneric
	}

	var body bytes.Buffer
	if err := h.md.Convert([]byte(page.Body), &body); err != nil {
		h.logger.Error("rendering page body", "path", path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = pageTemplate.Execute(w, pageView{
		ID:         page.ID,
		Title:      page.Title,
		AnchorText: anchorText,
		Template:   templateKind,
		Body:       template.HTML(body.String()),
	})
	if err != nil {
		h.logger.Error("rendering page template", "path", path, "error", err)
	}
}
