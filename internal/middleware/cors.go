package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/zhouzirui/session-desk/backend/internal/config"
)

// CORS returns the cross-origin policy. With the default "*" origin every
// method and header is allowed, which is only meant for development.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	headers := []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"}
	if cfg.AllowsAll() {
		headers = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodOptions, http.MethodHead,
		},
		AllowedHeaders: headers,
		MaxAge:         300,
	})
}
