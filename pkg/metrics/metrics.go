// Package metrics declares the Prometheus collectors exported by the message
// board on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission kinds.
const (
	KindBroadcast = "broadcast"
	KindRecipient = "recipient"
)

//nolint:gochecknoglobals // collectors are registered once with the default registry
var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fomtree_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fomtree_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	// Business metrics
	MessagesSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fomtree_messages_submitted_total",
			Help: "Message form submissions by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// Wallet metrics
	WalletChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fomtree_wallet_auth_checks_total",
			Help: "Wallet authentication checks by result",
		},
		[]string{"result"},
	)

	WalletCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fomtree_wallet_call_duration_seconds",
			Help:    "Wallet call latency",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)
)
