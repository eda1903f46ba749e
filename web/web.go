// Package web holds the dashboard's HTML templates and static assets.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Static serves files under static/, such as the fallback avatar
//
//go:embed static
var Static embed.FS

// Templates parses every embedded template
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}
