package http

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/lorrc/service-desk-realtime/internal/config"
)

// NewCORS returns the CORS middleware for the ingress and health routes.
// Development allows any origin; otherwise the websocket origin allow-list
// is reused, with "*.domain" entries kept as wildcards.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

func corsOrigins(cfg *config.Config) []string {
	if cfg.IsDevelopment() {
		return []string{"*"}
	}

	origins := make([]string, 0, len(cfg.WebSocket.AllowedOrigins)*2)
	for _, host := range cfg.WebSocket.AllowedOrigins {
		origins = append(origins, "https://"+host, "http://"+host)
	}
	return origins
}
