package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const traceparentHeader = "traceparent"

// Checked in order; the first non-empty one names the Cloud project.
var projectEnvKeys = []string{"GOOGLE_CLOUD_PROJECT", "GCP_PROJECT", "GCLOUD_PROJECT", "PROJECT_ID"}

var projectID = sync.OnceValue(func() string {
	for _, key := range projectEnvKeys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
})

type traceContext struct {
	resource string
	spanID   string
	sampled  bool
}

// parseTraceparent reads a W3C traceparent ("00-<trace>-<span>-<flags>") into
// a Cloud Trace resource under project. All-zero IDs are invalid per W3C.
func parseTraceparent(header, project string) (traceContext, bool) {
	if project == "" {
		return traceContext{}, false
	}
	parts := strings.Split(strings.TrimSpace(header), "-")
	if len(parts) != 4 {
		return traceContext{}, false
	}
	version, traceID, spanID, flags := parts[0], parts[1], parts[2], parts[3]
	if !isHex(version, 2) || version == "ff" || !isHex(flags, 2) {
		return traceContext{}, false
	}
	if !isHex(traceID, 32) || isZeros(traceID) || !isHex(spanID, 16) || isZeros(spanID) {
		return traceContext{}, false
	}
	return traceContext{
		resource: "projects/" + project + "/traces/" + strings.ToLower(traceID),
		spanID:   strings.ToLower(spanID),
		sampled:  flags == "01",
	}, true
}

func isHex(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func isZeros(s string) bool {
	return strings.Trim(s, "0") == ""
}

// fields returns the Cloud Logging correlation fields for tc.
func (tc traceContext) fields() []zap.Field {
	return []zap.Field{
		zap.String("logging.googleapis.com/trace", tc.resource),
		zap.String("logging.googleapis.com/spanId", tc.spanID),
		zap.Bool("logging.googleapis.com/trace_sampled", tc.sampled),
	}
}
