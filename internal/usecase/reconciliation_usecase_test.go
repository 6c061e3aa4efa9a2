package usecase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
	"github.com/iho/gobank/internal/usecase/mocks"
)

func TestReconciliationUseCase_ReconcileAccount(t *testing.T) {
	tests := []struct {
		name       string
		balance    int64
		reconciled bool
		difference int64
	}{
		{name: "balanced", balance: 5500, reconciled: true},
		{name: "drifted", balance: 5600, reconciled: false, difference: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			txnRepo := mocks.NewMockTransactionRepository(ctrl)

			txnRepo.EXPECT().AccountTotals(gomock.Any(), "acc-1").Return(&domain.AccountTotals{
				AccountID:      "acc-1",
				Balance:        decimal.NewFromInt(tt.balance),
				OpeningBalance: decimal.NewFromInt(5000),
				Deposits:       decimal.NewFromInt(1000),
				Withdrawals:    decimal.NewFromInt(500),
			}, nil)

			uc := usecase.NewReconciliationUseCase(mocks.NewMockAccountRepository(ctrl), txnRepo, nil)

			result, err := uc.ReconcileAccount(context.Background(), "acc-1")
			require.NoError(t, err)
			assert.Equal(t, tt.reconciled, result.IsReconciled)
			assert.True(t, result.CalculatedBalance.Equal(decimal.NewFromInt(5500)))
			assert.True(t, result.Difference.Equal(decimal.NewFromInt(tt.difference)))
		})
	}
}

func TestReconciliationUseCase_ReconcileAllAccounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	accountRepo := mocks.NewMockAccountRepository(ctrl)
	txnRepo := mocks.NewMockTransactionRepository(ctrl)
	cache := mocks.NewMockCache(ctrl)

	accountRepo.EXPECT().ListIDs(gomock.Any(), gomock.Any(), 0).Return([]string{"acc-1", "acc-2", "gone"}, nil)
	txnRepo.EXPECT().AccountTotals(gomock.Any(), "acc-1").Return(&domain.AccountTotals{
		AccountID: "acc-1", Balance: decimal.NewFromInt(100), OpeningBalance: decimal.NewFromInt(100),
	}, nil)
	txnRepo.EXPECT().AccountTotals(gomock.Any(), "acc-2").Return(&domain.AccountTotals{
		AccountID: "acc-2", Balance: decimal.NewFromInt(90), OpeningBalance: decimal.NewFromInt(100),
	}, nil)
	txnRepo.EXPECT().AccountTotals(gomock.Any(), "gone").Return(nil, domain.ErrAccountNotFound)

	var cached []byte
	cache.EXPECT().Set(gomock.Any(), usecase.ReconciliationReportKey, gomock.Any(), usecase.ReconciliationReportTTL).
		DoAndReturn(func(_ context.Context, _ string, value []byte, _ time.Duration) error {
			cached = value
			return nil
		})

	uc := usecase.NewReconciliationUseCase(accountRepo, txnRepo, cache)

	report, err := uc.ReconcileAllAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalAccounts)
	assert.Equal(t, 1, report.ReconciledAccounts)
	require.Len(t, report.Discrepancies, 1)
	assert.Equal(t, "acc-2", report.Discrepancies[0].AccountID)

	var stored usecase.ReconciliationReport
	require.NoError(t, json.Unmarshal(cached, &stored))
	assert.Equal(t, 2, stored.TotalAccounts)
}

func TestReconciliationUseCase_LastReport(t *testing.T) {
	t.Run("no cache configured", func(t *testing.T) {
		uc := usecase.NewReconciliationUseCase(nil, nil, nil)
		_, err := uc.LastReport(context.Background())
		require.ErrorIs(t, err, usecase.ErrReportNotFound)
	})

	t.Run("cache miss", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cache := mocks.NewMockCache(ctrl)
		cache.EXPECT().Get(gomock.Any(), usecase.ReconciliationReportKey).Return(nil, nil)

		uc := usecase.NewReconciliationUseCase(nil, nil, cache)
		_, err := uc.LastReport(context.Background())
		require.ErrorIs(t, err, usecase.ErrReportNotFound)
	})

	t.Run("cache hit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cache := mocks.NewMockCache(ctrl)
		cache.EXPECT().Get(gomock.Any(), usecase.ReconciliationReportKey).
			Return([]byte(`{"total_accounts":3,"reconciled_accounts":3,"discrepancies":[]}`), nil)

		uc := usecase.NewReconciliationUseCase(nil, nil, cache)
		report, err := uc.LastReport(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, report.TotalAccounts)
	})
}
