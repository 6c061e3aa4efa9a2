package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// ErrReportNotFound is returned when no scheduled reconciliation has run yet.
var ErrReportNotFound = errors.New("reconciliation report not found")

// ReconciliationUseCase handles balance reconciliation operations
type ReconciliationUseCase struct {
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	cache       Cache
}

// NewReconciliationUseCase creates a new reconciliation use case. cache may be
// nil, in which case reports are not stored.
func NewReconciliationUseCase(accountRepo AccountRepository, txnRepo TransactionRepository, cache Cache) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		cache:       cache,
	}
}

// ReconciliationResult compares the stored balance with the one derived from
// the opening balance and the account's transactions.
type ReconciliationResult struct {
	AccountID         string          `json:"account_id"`
	RecordedBalance   decimal.Decimal `json:"recorded_balance"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance"`
	Difference        decimal.Decimal `json:"difference"`
	IsReconciled      bool            `json:"is_reconciled"`
	LastChecked       time.Time       `json:"last_checked"`
}

// ReconcileAccount recomputes one account's balance from its transactions.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	totals, err := uc.txnRepo.AccountTotals(ctx, accountID)
	if err != nil {
		return nil, err
	}

	calculated := totals.OpeningBalance.Add(totals.Deposits).Sub(totals.Withdrawals)
	difference := totals.Balance.Sub(calculated)

	return &ReconciliationResult{
		AccountID:         accountID,
		RecordedBalance:   totals.Balance,
		CalculatedBalance: calculated,
		Difference:        difference,
		IsReconciled:      difference.IsZero(),
		LastChecked:       time.Now().UTC(),
	}, nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	GeneratedAt        time.Time               `json:"generated_at"`
	TotalAccounts      int                     `json:"total_accounts"`
	ReconciledAccounts int                     `json:"reconciled_accounts"`
	Discrepancies      []*ReconciliationResult `json:"discrepancies"`
}

// ReconcileAllAccounts reconciles every account and stores the report in
// the cache when one is configured.
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) (*ReconciliationReport, error) {
	report := &ReconciliationReport{
		GeneratedAt:   time.Now().UTC(),
		Discrepancies: []*ReconciliationResult{},
	}

	for offset := 0; ; offset += reconciliationPageSize {
		ids, err := uc.accountRepo.ListIDs(ctx, reconciliationPageSize, offset)
		if err != nil {
			return nil, err
		}

		for _, id := range ids {
			result, err := uc.ReconcileAccount(ctx, id)
			if errors.Is(err, domain.ErrAccountNotFound) {
				// deleted while the report was running
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("failed to reconcile account %s: %w", id, err)
			}

			report.TotalAccounts++
			if result.IsReconciled {
				report.ReconciledAccounts++
			} else {
				report.Discrepancies = append(report.Discrepancies, result)
			}
		}

		if len(ids) < reconciliationPageSize {
			break
		}
	}

	if uc.cache != nil {
		data, err := json.Marshal(report)
		if err != nil {
			return nil, err
		}
		if err := uc.cache.Set(ctx, ReconciliationReportKey, data, ReconciliationReportTTL); err != nil {
			return nil, fmt.Errorf("failed to cache reconciliation report: %w", err)
		}
	}

	return report, nil
}

// LastReport returns the most recently cached report.
func (uc *ReconciliationUseCase) LastReport(ctx context.Context) (*ReconciliationReport, error) {
	if uc.cache == nil {
		return nil, ErrReportNotFound
	}

	data, err := uc.cache.Get(ctx, ReconciliationReportKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrReportNotFound
	}

	var report ReconciliationReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}

	return &report, nil
}
