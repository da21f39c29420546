// Package web holds the embedded HTML templates of the admin screens.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/shopspring/decimal"

	"github.com/njpv/shop-admin/internal/models"
	"github.com/njpv/shop-admin/internal/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"login.html", "productos.html"}

// Renderer executes the page templates, each wrapped in layout.html
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses every page template
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"money":      Money,
		"severity":   func(s models.InventoryStatus) string { return s.Severity() },
		"fieldError": fieldError,
		"statuses": func() []models.InventoryStatus {
			return []models.InventoryStatus{models.InStock, models.LowStock, models.OutOfStock}
		},
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		t, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		r.templates[page] = t
	}
	return r, nil
}

// Render writes page to w. The page is executed into a buffer first so a
// template error never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	t, ok := r.templates[page]
	if !ok {
		return fmt.Errorf("unknown template %s", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Money formats a price with two decimals
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func fieldError(errs validation.Errors, field string) string {
	return errs[field]
}
