package ui

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
)

// Render writes c as a 200 page.
func Render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	RenderStatus(w, r, http.StatusOK, c)
}

// RenderStatus buffers the component so a failed render still yields a clean 500.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	err := c.Render(r.Context(), &buf)
	if err != nil {
		slog.Error("render failed", "error", err, "path", r.URL.Path)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	if err != nil {
		slog.Warn("render write failed", "error", err, "path", r.URL.Path)
	}
}
