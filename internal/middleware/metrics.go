package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests served",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// SMSCommandsTotal counts interpreted text commands by outcome.
	SMSCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sms_commands_total",
			Help: "Text commands handled by the gateway",
		},
		[]string{"outcome"},
	)

	// StaleDriversExpired counts drivers forced offline by the reaper.
	StaleDriversExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stale_drivers_expired_total",
			Help: "Online statuses expired by the listing read path",
		},
	)
)

// Metrics records per-request counters and latency.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}
		requestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		requestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}
