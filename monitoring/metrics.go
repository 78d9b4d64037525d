package monitoring

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ticketsSold = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_sold_total",
			Help: "Tickets created, by origin (direct or webhook)",
		},
		[]string{"origin"},
	)

	webhookOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_webhooks_total",
			Help: "Payment webhook deliveries by outcome",
		},
		[]string{"outcome"},
	)

	imageUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_uploads_total",
			Help: "Image upload attempts by result",
		},
		[]string{"result"},
	)
)

// RequestMetrics is a router middleware recording counters and latency per
// request.
func RequestMetrics() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		start := time.Now()
		err := e.Next()

		status := e.Status()
		if status == 0 {
			status = http.StatusOK
		}

		path := e.Request.URL.Path
		httpRequests.WithLabelValues(e.Request.Method, path, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(e.Request.Method, path).Observe(time.Since(start).Seconds())

		return err
	}
}

// TrackTicketSold records one sold ticket.
func TrackTicketSold(origin string) {
	ticketsSold.WithLabelValues(origin).Inc()
}

// TrackWebhook records one webhook delivery outcome.
func TrackWebhook(outcome string) {
	webhookOutcomes.WithLabelValues(outcome).Inc()
}

// TrackImageUpload records one image upload attempt.
func TrackImageUpload(result string) {
	imageUploads.WithLabelValues(result).Inc()
}

// Serve exposes the Prometheus endpoint on its own listener.
func Serve(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(":"+port, mux); err != nil {
			slog.Error("metrics listener stopped", "error", err)
		}
	}()
}
