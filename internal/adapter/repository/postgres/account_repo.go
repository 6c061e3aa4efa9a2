package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/postgres/generated"
	"github.com/iho/gobank/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{
		queries: generated.New(db),
	}
}

// CreateTx inserts a new account within a transaction.
func (r *AccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	err := queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:             account.ID,
		CustomerID:     account.CustomerID,
		BranchID:       account.BranchID,
		Number:         account.Number,
		Type:           string(account.Type),
		Balance:        decimalToNumeric(account.Balance),
		OpeningBalance: decimalToNumeric(account.OpeningBalance),
		Active:         account.Active,
		Version:        account.Version,
		CreatedAt:      timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(account.UpdatedAt),
	})

	return translateError(err)
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		return nil, accountError(id, err)
	}

	return rowToAccount(row), nil
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock held
// until tx ends.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	queries := generated.New(tx.(*Tx).PgxTx())

	row, err := queries.GetAccountByIDForUpdate(ctx, id)
	if err != nil {
		return nil, accountError(id, err)
	}

	return rowToAccount(row), nil
}

// UpdateBalance updates the balance of an account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	queries := generated.New(tx.(*Tx).PgxTx())

	n, err := queries.UpdateAccountBalance(ctx, generated.UpdateAccountBalanceParams{
		ID:        id,
		Balance:   decimalToNumeric(balance),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return translateError(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
	}

	return nil
}

// SetActive flips the active flag. The row lock taken by the update waits
// for any in-flight ledger update on the account.
func (r *AccountRepository) SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) (*domain.Account, error) {
	row, err := r.queries.SetAccountActive(ctx, generated.SetAccountActiveParams{
		ID:        id,
		Active:    active,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return nil, accountError(id, err)
	}

	return rowToAccount(row), nil
}

// Delete removes an account; transactions and card go by cascade.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	n, err := r.queries.DeleteAccount(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
	}

	return nil
}

// ListIDs lists account IDs in ascending order.
func (r *AccountRepository) ListIDs(ctx context.Context, limit, offset int) ([]string, error) {
	return r.queries.ListAccountIDs(ctx, generated.ListAccountIDsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
}

func accountError(id string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
	}

	return err
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:             row.ID,
		CustomerID:     row.CustomerID,
		BranchID:       row.BranchID,
		Number:         row.Number,
		Type:           domain.AccountType(row.Type),
		Balance:        numericToDecimal(row.Balance),
		OpeningBalance: numericToDecimal(row.OpeningBalance),
		Active:         row.Active,
		Version:        row.Version,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
