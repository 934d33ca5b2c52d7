package middleware

import (
	"net/http"
	"strings"
)

// MaintenanceMode answers every route except the health check with a 503
// while enabled. API routes get apiHandler, everything else gets pageHandler;
// both are expected to write the 503 themselves.
func MaintenanceMode(enabled bool, pageHandler, apiHandler http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.URL.Path == "/api/health", strings.HasPrefix(r.URL.Path, "/static/"):
				next.ServeHTTP(w, r)
			case strings.HasPrefix(r.URL.Path, "/api/"):
				w.Header().Set("Retry-After", "300")
				apiHandler.ServeHTTP(w, r)
			default:
				w.Header().Set("Retry-After", "300")
				pageHandler.ServeHTTP(w, r)
			}
		})
	}
}
