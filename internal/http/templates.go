package http

import (
	"embed"
	"html/template"
	"path/filepath"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// loadTemplates parses the page templates from dir, or the embedded copies when dir is empty.
func loadTemplates(dir string) (*template.Template, error) {
	tmpl := template.New("")
	if dir == "" {
		return tmpl.ParseFS(embeddedTemplates, "templates/*.html")
	}
	return tmpl.ParseGlob(filepath.Join(dir, "*.html"))
}
