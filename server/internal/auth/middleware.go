package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// Middleware returns an http.Handler that enforces API key authentication
// on write requests.
//
// Behaviour:
//   - If mode != "apikey" or key == "", all requests pass through.
//   - GET and HEAD requests always pass through — read endpoints are public.
//   - Any other request must carry the expected key in header; a missing or
//     incorrect key gets a 401 JSON response.
func Middleware(mode, header, key string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Non-apikey modes or unconfigured key → allow everything.
		if mode != "apikey" || key == "" {
			next.ServeHTTP(w, r)
			return
		}

		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		got := r.Header.Get(header)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid api key"}) //nolint:errcheck
			return
		}

		next.ServeHTTP(w, r)
	})
}
