package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("template.ParseFS: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Render executes the whole template before writing anything to w.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("ExecuteTemplate, name-%s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
