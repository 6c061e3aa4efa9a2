package usecase_test

import (
	"context"
	"errors"
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

func TestAccountUseCase_OpenAccount(t *testing.T) {
	ctrl := gomock.NewController(t)

	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	accountRepo := mocks.NewMockAccountRepository(ctrl)
	outboxRepo := mocks.NewMockOutboxRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)

	idGen.EXPECT().Generate().Return("acc-1")
	idGen.EXPECT().Generate().Return("evt-1")
	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)
	accountRepo.EXPECT().CreateTx(gomock.Any(), tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, a *domain.Account) error {
			assert.Equal(t, "ACC001", a.Number)
			assert.True(t, a.OpeningBalance.Equal(a.Balance))
			return nil
		})
	outboxRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, e *domain.OutboxEvent) error {
			assert.Equal(t, domain.EventTypeAccountOpened, e.EventType)
			assert.Equal(t, "ACC001", e.Payload["account_number"])
			return nil
		})
	tx.EXPECT().Commit(gomock.Any()).Return(nil)

	uc := usecase.NewAccountUseCase(txManager, accountRepo, outboxRepo, idGen)

	account, err := uc.OpenAccount(context.Background(), usecase.OpenAccountInput{
		CustomerID: "cust-1",
		BranchID:   "br-1",
		Number:     "ACC001",
		Type:       "CUR",
		Balance:    decimal.NewFromInt(5000),
	})

	require.NoError(t, err)
	assert.Equal(t, "acc-1", account.ID)
	assert.Equal(t, domain.AccountTypeCurrent, account.Type)
	assert.True(t, account.Active)
}

func TestAccountUseCase_OpenAccount_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		input usecase.OpenAccountInput
		want  error
	}{
		{
			name:  "negative opening balance",
			input: usecase.OpenAccountInput{Number: "ACC001", Balance: decimal.NewFromInt(-1)},
			want:  domain.ErrNegativeBalance,
		},
		{
			name:  "sub-cent opening balance",
			input: usecase.OpenAccountInput{Number: "ACC001", Balance: decimal.RequireFromString("10.005")},
			want:  domain.ErrInvalidInput,
		},
		{
			name:  "unknown account type",
			input: usecase.OpenAccountInput{Number: "ACC001", Type: "XYZ"},
			want:  domain.ErrInvalidAccountType,
		},
		{
			name:  "missing number",
			input: usecase.OpenAccountInput{Balance: decimal.NewFromInt(10)},
			want:  domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			idGen := mocks.NewMockIDGenerator(ctrl)
			idGen.EXPECT().Generate().Return("acc-1").AnyTimes()

			uc := usecase.NewAccountUseCase(
				mocks.NewMockTransactionManager(ctrl),
				mocks.NewMockAccountRepository(ctrl),
				mocks.NewMockOutboxRepository(ctrl),
				idGen,
			)

			_, err := uc.OpenAccount(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAccountUseCase_OpenAccount_DuplicateNumber(t *testing.T) {
	ctrl := gomock.NewController(t)

	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	accountRepo := mocks.NewMockAccountRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)

	idGen.EXPECT().Generate().Return("acc-1")
	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)
	accountRepo.EXPECT().CreateTx(gomock.Any(), tx, gomock.Any()).Return(domain.ErrAlreadyExists)

	uc := usecase.NewAccountUseCase(txManager, accountRepo, mocks.NewMockOutboxRepository(ctrl), idGen)

	_, err := uc.OpenAccount(context.Background(), usecase.OpenAccountInput{Number: "ACC001"})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestAccountUseCase_SetActive(t *testing.T) {
	ctrl := gomock.NewController(t)
	accountRepo := mocks.NewMockAccountRepository(ctrl)

	accountRepo.EXPECT().SetActive(gomock.Any(), "acc-1", false, gomock.Any()).
		DoAndReturn(func(_ context.Context, id string, active bool, _ time.Time) (*domain.Account, error) {
			return &domain.Account{ID: id, Active: active}, nil
		})

	uc := usecase.NewAccountUseCase(nil, accountRepo, nil, nil)

	account, err := uc.SetActive(context.Background(), "acc-1", false)
	require.NoError(t, err)
	assert.False(t, account.Active)
}

func TestAccountUseCase_GetAndDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	accountRepo := mocks.NewMockAccountRepository(ctrl)

	accountRepo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, domain.ErrAccountNotFound)
	accountRepo.EXPECT().Delete(gomock.Any(), "acc-1").Return(nil)

	uc := usecase.NewAccountUseCase(nil, accountRepo, nil, nil)

	_, err := uc.GetAccount(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrAccountNotFound))

	require.NoError(t, uc.DeleteAccount(context.Background(), "acc-1"))
}
