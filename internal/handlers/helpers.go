package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/njpv/shop-admin/internal/notify"
)

// Renderer executes a named page template
type Renderer interface {
	Render(w io.Writer, page string, data any) error
}

// pageData is shared by every rendered page
type pageData struct {
	Title  string
	User   string
	Toasts []notify.Toast
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// writeError writes an error response in JSON format
func writeError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	writeJSON(w, status, map[string]string{"error": message}, logger)
}

// renderPage writes an HTML page, falling back to a plain 500 if the template fails
func renderPage(w http.ResponseWriter, r Renderer, status int, page string, data any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	var buf bytes.Buffer
	if err := r.Render(&buf, page, data); err != nil {
		logger.Error("failed to render page", "page", page, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Debug("failed to write page", "page", page, "error", err)
	}
}
