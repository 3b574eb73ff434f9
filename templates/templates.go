package templates

import (
	"embed"
	"html/template"

	"kings-admin/models"
)

//go:embed *.html
var files embed.FS

var funcs = template.FuncMap{
	"statusClass": func(s models.Status) string {
		if s == models.StatusApproved {
			return "bg-green-100 text-green-700"
		}
		return "bg-red-100 text-red-700"
	},
}

// Parse разбирает встроенные шаблоны страниц
func Parse() (*template.Template, error) {
	return template.New("pages").Funcs(funcs).ParseFS(files, "*.html")
}
