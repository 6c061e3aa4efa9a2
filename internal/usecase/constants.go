package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a ledger update,
	// lock wait included.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// ReconciliationReportKey is the cache key of the last scheduled report.
	ReconciliationReportKey = "reconciliation:last"
	ReconciliationReportTTL = 7 * 24 * time.Hour

	reconciliationPageSize = 500
)
