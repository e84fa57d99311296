package server

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type pageTemplates struct {
	index *template.Template
}

func parseTemplates() (*pageTemplates, error) {
	index, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &pageTemplates{index: index}, nil
}
