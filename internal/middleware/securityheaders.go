package middleware

import "net/http"

// SecurityHeaders sets recommended security headers on every page response.
// Hero and section images are served from images.pexels.com.
func SecurityHeaders(hsts bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if hsts {
				h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
			}
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "geolocation=(), camera=(), microphone=()")
			h.Set("Content-Security-Policy",
				"default-src 'self'; "+
					"script-src 'self'; "+
					"style-src 'self'; "+
					"img-src 'self' data: https://images.pexels.com; "+
					"connect-src 'self'; "+
					"frame-ancestors 'none'; "+
					"form-action 'self'; "+
					"base-uri 'self'")
			next.ServeHTTP(w, r)
		})
	}
}
