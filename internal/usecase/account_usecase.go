package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(txManager TransactionManager, accountRepo AccountRepository, outboxRepo OutboxRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
	}
}

// OpenAccountInput represents input for opening an account.
type OpenAccountInput struct {
	CustomerID string
	BranchID   string
	Number     string
	Type       string
	Balance    decimal.Decimal
	Active     *bool
}

// OpenAccount creates a new account with its opening balance.
func (uc *AccountUseCase) OpenAccount(ctx context.Context, input OpenAccountInput) (*domain.Account, error) {
	accountType, err := domain.ParseAccountType(input.Type)
	if err != nil {
		return nil, err
	}

	if input.Number == "" {
		return nil, fmt.Errorf("%w: account number is required", domain.ErrInvalidInput)
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		CustomerID:     input.CustomerID,
		BranchID:       input.BranchID,
		Number:         input.Number,
		Type:           accountType,
		Balance:        input.Balance,
		OpeningBalance: input.Balance,
		Active:         active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.accountRepo.CreateTx(ctx, tx, account); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   account.ID,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeAccountOpened,
		Payload: domain.AccountOpenedEvent{
			AccountID:      account.ID,
			Number:         account.Number,
			CustomerID:     account.CustomerID,
			OpeningBalance: account.OpeningBalance.String(),
		}.Map(),
		CreatedAt: now,
	}

	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// SetActive activates or deactivates an account. Inactive accounts reject
// every ledger update.
func (uc *AccountUseCase) SetActive(ctx context.Context, id string, active bool) (*domain.Account, error) {
	return uc.accountRepo.SetActive(ctx, id, active, time.Now().UTC())
}

// DeleteAccount removes an account together with its transactions.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, id string) error {
	return uc.accountRepo.Delete(ctx, id)
}
