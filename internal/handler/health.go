package handler

import (
	"encoding/json"
	"net/http"
)

type configuredChecker interface {
	Configured() bool
}

// Health returns a health check handler that reports whether the email
// provider is configured. The site keeps serving pages either way.
func Health(mail configuredChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK

		if !mail.Configured() {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(envelope{"status": status})
	}
}
