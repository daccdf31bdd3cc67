package route

import (
	"log/slog"
	"net/http"
	"time"

	"huddle/src-server/utils"
)

// WithMetrics logs the request and feeds its latency to the HTTP
// request gauge.
func WithMetrics(as *utils.AppState, next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		startTimer := time.Now()
		next(w, r)
		latency := time.Since(startTimer)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"latency", latency,
		)
		as.MetricChans.HttpRequest <- float64(latency.Microseconds())
	}
}
