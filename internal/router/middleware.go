package router

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/program-ledger/console/internal/backend"
	"github.com/prometheus/client_golang/prometheus"
)

var metrics = append([]prometheus.Collector{
	requestCount,
	requestDuration,
}, backend.Collectors()...)

// registerPrometheusMetrics registers all Prometheus metrics
// with the default registry. The returned function unregisters them.
//
// Collectors that are already registered are kept, so that more than one
// router can exist at the same time, e.g. in tests.
func registerPrometheusMetrics() (func(), error) {
	registered := make([]prometheus.Collector, 0, len(metrics))

	for _, c := range metrics {
		err := prometheus.Register(c)

		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			continue
		}

		if err != nil {
			unregister(registered)
			return nil, fmt.Errorf("could not register %s with Prometheus: %w", c, err)
		}
		registered = append(registered, c)
	}

	return func() { unregister(registered) }, nil
}

func unregister(collectors []prometheus.Collector) {
	for _, c := range collectors {
		prometheus.Unregister(c)
	}
}

var requestCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "requests_total",
		Help: "How many HTTP requests processed, partitioned by status code and HTTP method.",
	},
	[]string{"code", "method", "url"},
)

var requestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "request_duration_seconds",
		Help: "The HTTP request latencies in seconds.",
	},
	[]string{"code", "method", "url"},
)

// MetricsMiddleware updates Prometheus metrics.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		elapsed := float64(time.Since(start)) / float64(time.Second)

		// Replace all URL parameters with their name to reduce cardinality
		// https://prometheus.io/docs/practices/naming/#labels
		url := c.Request.URL.Path
		for _, p := range c.Params {
			url = strings.Replace(url, p.Value, fmt.Sprintf(":%s", p.Key), 1)
		}

		// Unknown paths would add a label set for every path that is tried
		if c.FullPath() == "" {
			url = "unmatched"
		}

		requestDuration.WithLabelValues(status, c.Request.Method, url).Observe(elapsed)
		requestCount.WithLabelValues(status, c.Request.Method, url).Inc()
	}
}
