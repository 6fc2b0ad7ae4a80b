package identity

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK        = "ok"
	outcomeRecovered = "recovered"
)

var (
	// requestsTotal — количество операций клиента по исходу.
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ac_identity_requests_total",
			Help: "Total number of identity backend operations",
		},
		[]string{"operation", "outcome"},
	)

	// requestDuration — длительность операций клиента.
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ac_identity_request_duration_seconds",
			Help:    "Identity backend operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func (c *Client) observe(op, outcome string, start time.Time) {
	requestsTotal.WithLabelValues(op, outcome).Inc()
	requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
