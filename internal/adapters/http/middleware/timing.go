package middleware

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"gymdesk/internal/adapters/http/perf"
)

// DefaultSlowRequestMs is the default threshold for slow request warnings.
const DefaultSlowRequestMs = 200

// slowRequestThreshold reads the warning threshold in milliseconds
// from GYMDESK_SLOW_REQUEST_MS.
func slowRequestThreshold() float64 {
	if v := os.Getenv("GYMDESK_SLOW_REQUEST_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return float64(n)
		}
	}
	return DefaultSlowRequestMs
}

// responseRecorder captures the status code and body size of a response.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

// WriteHeader captures the status code and delegates.
// PRE: code is a valid HTTP status code
// POST: status stored, header written to the underlying ResponseWriter
func (rr *responseRecorder) WriteHeader(code int) {
	rr.status = code
	rr.ResponseWriter.WriteHeader(code)
}

func (rr *responseRecorder) Write(p []byte) (int, error) {
	n, err := rr.ResponseWriter.Write(p)
	rr.bytes += n
	return n, err
}

// recorderPool reduces allocations on the hot path.
var recorderPool = sync.Pool{
	New: func() any {
		return &responseRecorder{}
	},
}

// Timing returns middleware that logs request duration.
// Requests to /static/ are excluded.
// Normal requests log at DEBUG; slow requests (above threshold) log at WARN.
// If collector is non-nil, entries are recorded for the perf snapshot.
func Timing(collector *perf.Collector) func(http.Handler) http.Handler {
	threshold := slowRequestThreshold()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			rr := recorderPool.Get().(*responseRecorder)
			rr.ResponseWriter = w
			rr.status = http.StatusOK
			rr.bytes = 0
			start := time.Now()

			next.ServeHTTP(rr, r)

			durationMs := float64(time.Since(start).Microseconds()) / 1000.0
			level, msg := slog.LevelDebug, "request"
			if durationMs >= threshold {
				level, msg = slog.LevelWarn, "slow_request"
			}
			slog.Log(r.Context(), level, msg,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rr.status,
				"bytes", rr.bytes,
				"duration_ms", durationMs,
			)

			if collector != nil {
				collector.Record(perf.Entry{
					Kind:       perf.KindRequest,
					Path:       r.Method + " " + r.URL.Path,
					StatusCode: rr.status,
					DurationMs: durationMs,
					Timestamp:  start,
				})
			}

			rr.ResponseWriter = nil
			recorderPool.Put(rr)
		})
	}
}
