package middleware

import (
	"net/http"
	"strings"
)

// Vary appends each field to the response's Vary header unless already listed.
// The app passes "Accept" since the weather snapshot is negotiated as JSON or
// CBOR; CORS adds Origin itself.
func Vary(fields ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			listed := strings.ToLower(strings.Join(h.Values("Vary"), ","))
			for _, f := range fields {
				if !strings.Contains(listed, strings.ToLower(f)) {
					h.Add("Vary", f)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
