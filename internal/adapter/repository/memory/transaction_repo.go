package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

// Create stages txn in tx. The reference is checked again at commit.
func (r *TransactionRepository) Create(_ context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	staged := *txn
	return t.stage(func() { t.txns = append(t.txns, &staged) })
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(_ context.Context, id string) (*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	txn, ok := r.store.transactions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, id)
	}

	out := *txn
	return &out, nil
}

// ReferenceExists reports whether a committed transaction uses reference.
func (r *TransactionRepository) ReferenceExists(_ context.Context, reference string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.references[reference]
	return ok, nil
}

// AccountTotals reads the balance and the transaction sums under one read
// lock. Commits apply under the write lock, so the two always agree.
func (r *TransactionRepository) AccountTotals(_ context.Context, accountID string) (*domain.AccountTotals, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	account, err := r.store.account(accountID)
	if err != nil {
		return nil, err
	}

	totals := &domain.AccountTotals{
		AccountID:      account.ID,
		Balance:        account.Balance,
		OpeningBalance: account.OpeningBalance,
		Deposits:       decimal.Zero,
		Withdrawals:    decimal.Zero,
	}
	for _, txn := range r.store.transactions {
		if txn.AccountID != accountID {
			continue
		}

		switch txn.Type {
		case domain.TransactionTypeDeposit:
			totals.Deposits = totals.Deposits.Add(txn.Amount)
		case domain.TransactionTypeWithdraw:
			totals.Withdrawals = totals.Withdrawals.Add(txn.Amount)
		}
	}

	return totals, nil
}
