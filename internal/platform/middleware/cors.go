package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/cors"
)

// Methods and headers the contact form may use cross-origin.
const (
	corsAllowMethods = "POST, OPTIONS"
	corsAllowHeaders = "Content-Type"
)

// CORS returns the cross-origin policy for the contact form endpoint.
// allowOrigin is a comma-separated origin list; "*" or empty allows any origin.
//
// go-chi/cors answers preflights. Every other request gets the allow headers
// before it reaches the handler, whatever its method or Origin, so browsers
// can read the 405 or 400 the handler returns.
func CORS(allowOrigin string) func(http.Handler) http.Handler {
	origins := parseOrigins(allowOrigin)
	preflight := cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{corsAllowHeaders},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})
	return func(next http.Handler) http.Handler {
		return preflight(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if origin := allowedOrigin(origins, r.Header.Get("Origin")); origin != "" {
				h.Set("Access-Control-Allow-Origin", origin)
			}
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			if !headerListed(h.Values("Vary"), "Origin") {
				h.Add("Vary", "Origin")
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// allowedOrigin picks the Access-Control-Allow-Origin value: "*" for a
// wildcard policy, the request origin when listed, or the only configured
// origin when the request has none.
func allowedOrigin(origins []string, requestOrigin string) string {
	if slices.Contains(origins, "*") {
		return "*"
	}
	if requestOrigin == "" {
		if len(origins) == 1 {
			return origins[0]
		}
		return ""
	}
	for _, o := range origins {
		if strings.EqualFold(o, requestOrigin) {
			return requestOrigin
		}
	}
	return ""
}

func headerListed(values []string, field string) bool {
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			if strings.EqualFold(strings.TrimSpace(part), field) {
				return true
			}
		}
	}
	return false
}

func parseOrigins(raw string) []string {
	var origins []string
	for part := range strings.SplitSeq(raw, ",") {
		if o := strings.TrimSpace(part); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
