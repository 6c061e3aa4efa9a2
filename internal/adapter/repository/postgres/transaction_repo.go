package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/postgres/generated"
	"github.com/iho/gobank/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{
		queries: generated.New(db),
	}
}

// Create inserts a transaction record. The unique constraint on reference
// surfaces as domain.ErrDuplicateReference.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	err := queries.CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:           txn.ID,
		AccountID:    txn.AccountID,
		Type:         string(txn.Type),
		Amount:       decimalToNumeric(txn.Amount),
		Reference:    txn.Reference,
		BalanceAfter: decimalToNumeric(txn.BalanceAfter),
		PerformedAt:  timeToPgTimestamptz(txn.PerformedAt),
		CreatedAt:    timeToPgTimestamptz(txn.CreatedAt),
	})

	return translateError(err)
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row, err := r.queries.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, id)
		}

		return nil, err
	}

	return &domain.Transaction{
		ID:           row.ID,
		AccountID:    row.AccountID,
		Type:         domain.TransactionType(row.Type),
		Amount:       numericToDecimal(row.Amount),
		Reference:    row.Reference,
		BalanceAfter: numericToDecimal(row.BalanceAfter),
		PerformedAt:  row.PerformedAt.Time,
		CreatedAt:    row.CreatedAt.Time,
	}, nil
}

// ReferenceExists reports whether a committed transaction uses reference.
func (r *TransactionRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	return r.queries.ReferenceExists(ctx, reference)
}

// AccountTotals reads the balance and the transaction sums in one statement,
// so both come from the same snapshot.
func (r *TransactionRepository) AccountTotals(ctx context.Context, accountID string) (*domain.AccountTotals, error) {
	row, err := r.queries.GetAccountTotals(ctx, accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, accountID)
		}

		return nil, err
	}

	return &domain.AccountTotals{
		AccountID:      row.ID,
		Balance:        numericToDecimal(row.Balance),
		OpeningBalance: numericToDecimal(row.OpeningBalance),
		Deposits:       numericToDecimal(row.Deposits),
		Withdrawals:    numericToDecimal(row.Withdrawals),
	}, nil
}
