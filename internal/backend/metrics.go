package backend

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const requestIDHeader = "X-Request-ID"

type contextKey string

const requestIDKey contextKey = "request-id"

// WithRequestID stores the ID of the incoming request so that it is
// forwarded to the backend.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request ID stored in ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

var requestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "backend_request_duration_seconds",
		Help: "Latency of requests to the ledger backend in seconds, partitioned by status code, HTTP method and route.",
	},
	[]string{"code", "method", "route"},
)

// Collectors returns the metrics of the client for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{requestDuration}
}

func observe(r request, code string, start time.Time) {
	requestDuration.WithLabelValues(code, r.method, r.route).Observe(time.Since(start).Seconds())
}
