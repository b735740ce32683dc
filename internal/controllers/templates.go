package controllers

import (
	"html/template"

	"github.com/program-ledger/console/internal/format"
	"github.com/program-ledger/console/web"
)

var funcs = template.FuncMap{
	"text": format.Text,
}

// Templates parses all page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(web.TemplatesFS, "templates/*.html")
}
