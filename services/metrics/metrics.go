// Package metrics holds the prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/trezcool/college/core/notification"
)

const namespace = "college"

var (
	// NotificationsTotal counts delivery attempts by channel (sms, email) and result (sent, failed).
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Total number of notification delivery attempts.",
		},
		[]string{"channel", "result"},
	)

	EnrollmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrollments_total",
			Help:      "Total number of enrollment attempts.",
		},
		[]string{"result"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

func result(ok bool) string {
	if ok {
		return "sent"
	}
	return "failed"
}

// NotificationRecorder feeds NotificationsTotal.
type NotificationRecorder struct{}

var _ notification.Recorder = NotificationRecorder{}

func (NotificationRecorder) Record(channel string, success bool) {
	NotificationsTotal.WithLabelValues(channel, result(success)).Inc()
}

// RecordEnrollment counts one enrollment attempt; duplicates are labelled apart from other failures.
func RecordEnrollment(err error, duplicate bool) {
	switch {
	case err == nil:
		EnrollmentsTotal.WithLabelValues("created").Inc()
	case duplicate:
		EnrollmentsTotal.WithLabelValues("duplicate").Inc()
	default:
		EnrollmentsTotal.WithLabelValues("error").Inc()
	}
}

// Middleware records request count and latency per route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			HTTPRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			HTTPRequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
