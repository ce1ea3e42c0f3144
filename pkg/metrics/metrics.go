package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Chat metrics
	ChatConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gamestore_chat_connections",
			Help: "Currently open chat websocket connections",
		},
	)

	MessagesPosted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gamestore_chat_messages_posted_total",
			Help: "Chat messages persisted and broadcast",
		},
	)

	BroadcastDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamestore_chat_broadcast_deliveries_total",
			Help: "Per-peer broadcast delivery attempts",
		},
		[]string{"outcome"}, // "ok" or "failed"
	)

	// Store metrics
	PurchasesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gamestore_purchases_total",
			Help: "Completed game purchases",
		},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gamestore_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		},
	)
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
