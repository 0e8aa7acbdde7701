package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Every mutation is a form POST answered with a redirect back to /.
// Static assets are served from the embedded filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Page routes.
	mux.HandleFunc("GET /{$}", h.Index)

	// Form actions.
	mux.Handle("POST /login", h.action(h.login))
	mux.Handle("POST /topics/select", h.action(h.selectTopic))
	mux.Handle("POST /topics/delete", h.action(h.deleteTopic))
	mux.Handle("POST /topics/generate", h.limit(h.action(h.submitTopic)))
	mux.Handle("POST /ideas/select", h.action(h.selectIdea))
	mux.Handle("POST /images", h.limit(h.action(h.generateImages)))
}
