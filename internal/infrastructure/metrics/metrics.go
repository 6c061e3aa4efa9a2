package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	TransactionsPosted   *prometheus.CounterVec
	TransactionsRejected *prometheus.CounterVec
	PostDuration         prometheus.Histogram
	TransactionAmount    *prometheus.HistogramVec

	// Reconciliation metrics
	ReconciliationRuns          prometheus.Counter
	ReconciliationDiscrepancies prometheus.Gauge

	// Outbox metrics
	OutboxPublished prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Ledger metrics
		TransactionsPosted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_transactions_posted_total",
				Help: "Total number of accepted ledger updates by type",
			},
			[]string{"txn_type"},
		),
		TransactionsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_transactions_rejected_total",
				Help: "Total number of rejected ledger updates by error kind",
			},
			[]string{"kind"},
		),
		PostDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gobank_transaction_duration_seconds",
			Help:    "Duration of accepted ledger updates",
			Buckets: prometheus.DefBuckets,
		}),
		TransactionAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobank_transaction_amount",
				Help:    "Accepted transaction amounts",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"txn_type"},
		),

		// Reconciliation metrics
		ReconciliationRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_reconciliation_runs_total",
			Help: "Total number of full reconciliation runs",
		}),
		ReconciliationDiscrepancies: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gobank_reconciliation_discrepancies",
			Help: "Accounts out of balance in the last full reconciliation",
		}),

		// Outbox metrics
		OutboxPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_outbox_events_published_total",
			Help: "Total number of outbox events published",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobank_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gobank_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),
	}
}

// ObservePosted implements usecase.LedgerRecorder.
func (m *Metrics) ObservePosted(txnType domain.TransactionType, amount decimal.Decimal, elapsed time.Duration) {
	m.TransactionsPosted.WithLabelValues(string(txnType)).Inc()
	m.PostDuration.Observe(elapsed.Seconds())
	m.TransactionAmount.WithLabelValues(string(txnType)).Observe(amount.InexactFloat64())
}

// ObserveRejected implements usecase.LedgerRecorder.
func (m *Metrics) ObserveRejected(kind domain.ErrorKind) {
	m.TransactionsRejected.WithLabelValues(string(kind)).Inc()
}

// ObserveReconciliation records the outcome of a full reconciliation run.
func (m *Metrics) ObserveReconciliation(discrepancies int) {
	m.ReconciliationRuns.Inc()
	m.ReconciliationDiscrepancies.Set(float64(discrepancies))
}

// ObservePublished counts outbox events handed to the event stream.
func (m *Metrics) ObservePublished(n int) {
	m.OutboxPublished.Add(float64(n))
}
