package proxy

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the proxy's Prometheus collectors
type Metrics struct {
	Requests  *prometheus.CounterVec
	Duration  *prometheus.HistogramVec
	Upstream  *prometheus.CounterVec
	Refreshes *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "watchparty",
			Subsystem: "proxy",
			Name:      "requests_total",
			Help:      "Requests served by the proxy.",
		}, []string{"method", "route", "status"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "watchparty",
			Subsystem: "proxy",
			Name:      "request_duration_seconds",
			Help:      "Time to serve a proxy request, upstream included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Upstream: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "watchparty",
			Subsystem: "proxy",
			Name:      "upstream_responses_total",
			Help:      "Backend responses by endpoint and status.",
		}, []string{"endpoint", "status"}),
		Refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "watchparty",
			Subsystem: "proxy",
			Name:      "token_refreshes_total",
			Help:      "Access token refresh attempts by result.",
		}, []string{"result"}),
	}
}

// Middleware records count and latency per matched route
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		m.Requests.WithLabelValues(method, route, status).Inc()
		m.Duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) upstream(endpoint string, status int) {
	m.Upstream.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}
