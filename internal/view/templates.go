package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/odyssey-erp/serviceorder/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates  *template.Template
	stylesheet template.CSS
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title string
	// Stylesheet is inlined into the document head. The engine fills it
	// with the bundled stylesheet when empty.
	Stylesheet template.CSS
	Data       any
}

// NewEngine parses the embedded templates with funcs available to them.
func NewEngine(funcs template.FuncMap) (*Engine, error) {
	tpl, err := template.New("root").Funcs(funcs).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	css, err := fs.ReadFile(web.Static, web.StylesheetPath)
	if err != nil {
		return nil, fmt.Errorf("read stylesheet: %w", err)
	}
	// The stylesheet ships with the binary, so it is trusted CSS.
	return &Engine{templates: tpl, stylesheet: template.CSS(css)}, nil
}

// RenderString executes a named template into a string.
func (e *Engine) RenderString(name string, data TemplateData) (string, error) {
	if e == nil {
		return "", fmt.Errorf("template engine not initialised")
	}
	if data.Stylesheet == "" {
		data.Stylesheet = e.stylesheet
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Render executes a named template and writes it as an HTML response. Nothing
// is written when execution fails.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	html, err := e.RenderString(name, data)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = w.Write([]byte(html))
	return err
}
