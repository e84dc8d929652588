package web

import "embed"

// TemplatesFS holds the page and the HTMX partials.
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds static assets (css).
//go:embed static/*
var StaticFS embed.FS
