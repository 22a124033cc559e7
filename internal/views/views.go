// Package views embeds the storefront's HTML templates.
package views

import (
	"embed"
	"html/template"
)

//go:embed *.tmpl
var FS embed.FS

// Parse loads every template; each is addressed by its file name,
// e.g. "product_list.tmpl".
func Parse() (*template.Template, error) {
	return template.ParseFS(FS, "*.tmpl")
}
