package middleware

import (
	"net/http"
	"strings"
)

// apiHeaders are set on every API response. Cache-Control is only a default:
// handlers that allow shared caching (the weather snapshot) replace it.
var apiHeaders = [][2]string{
	{"Cache-Control", "no-store"},
	{"Content-Security-Policy", "frame-ancestors 'none'"},
	{"Cross-Origin-Opener-Policy", "same-origin"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
}

// Security applies apiHeaders to all responses outside the docsPrefixes; the
// docs UI must be framable and cacheable.
func Security(docsPrefixes ...string) func(http.Handler) http.Handler {
	isDocs := func(path string) bool {
		for _, p := range docsPrefixes {
			if strings.HasPrefix(path, p) {
				return true
			}
		}
		return false
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isDocs(r.URL.Path) {
				h := w.Header()
				for _, kv := range apiHeaders {
					h.Set(kv[0], kv[1])
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
