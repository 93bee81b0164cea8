// Package dashboard serves the embedded single-page monitoring UI.
// The page logs in against /auth/token, stores the JWT in localStorage,
// and calls the quote, screener, and news endpoints from the browser.
package dashboard

import (
	"embed"
	"log"
	"net/http"
)

//go:embed index.html
var content embed.FS

// Handler serves GET /dashboard.
type Handler struct{}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page, err := content.ReadFile("index.html")
	if err != nil {
		http.Error(w, "dashboard unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write(page); err != nil {
		log.Printf("dashboard: failed to write response: %v", err)
	}
}

// Register registers the dashboard handler with the given mux.
func Register(mux *http.ServeMux) {
	mux.Handle("GET /dashboard", Handler{})
}
