// Package middleware provides HTTP middleware for request integrity,
// rate limiting and CSRF protection.
package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// tokenHeader is the header clients use to present the shared menu token.
const tokenHeader = "X-Menu-Token"

// writeTokenError writes the JSON failure envelope used by the menu API.
func writeTokenError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}

// MenuTokenAuth creates middleware that validates the shared menu token.
// Clients may present the token via the X-Menu-Token header or a "token"
// query parameter. Validation happens before any resolver logic runs so
// unauthorized callers learn nothing about the location tree.
func MenuTokenAuth(token string) func(http.Handler) http.Handler {
	expected := []byte(token)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(tokenHeader)
			if got == "" {
				got = r.URL.Query().Get("token")
			}

			if got == "" {
				writeTokenError(w, http.StatusUnauthorized, "Missing menu token")
				return
			}

			if subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
				writeTokenError(w, http.StatusUnauthorized, "Invalid menu token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
