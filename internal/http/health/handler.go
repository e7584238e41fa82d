// Package health serves the liveness probe.
package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	applog "github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/logging"
	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/respond"
)

const checkTimeout = 2 * time.Second

// Response is the payload for the health endpoint.
type Response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Check probes one optional dependency, such as the weather cache.
type Check func(ctx context.Context) error

// Handler reports {"status":"healthy"} when every check passes, else 503 with
// the failing check names. Check errors are logged, never returned.
func Handler(checks map[string]Check) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()

		resp := Response{Status: "healthy"}
		status := http.StatusOK
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				applog.LogError(ctx, "health check failed", err)
				if resp.Checks == nil {
					resp.Checks = make(map[string]string)
				}
				resp.Checks[name] = "unavailable"
				resp.Status = "unhealthy"
				status = http.StatusServiceUnavailable
			}
		}
		if err := respond.WriteJSON(w, status, resp); err != nil {
			applog.LogError(ctx, "failed to write health response", err)
		}
	}
}
