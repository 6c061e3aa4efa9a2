package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/gobank/internal/domain"
)

// PostgreSQL error codes translated at the repository boundary.
const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
	pgErrCheckViolation      = "23514"
)

// Constraint names from the migrations.
const (
	constraintTransactionReference = "transactions_reference_key"
	constraintAccountCustomer      = "accounts_customer_id_fkey"
	constraintAccountBranch        = "accounts_branch_id_fkey"
	constraintCardAccount          = "cards_account_id_fkey"
	constraintLoanCustomer         = "loans_customer_id_fkey"
	constraintTransactionAccount   = "transactions_account_id_fkey"
)

// translateError maps constraint violations to domain errors. Other errors
// are returned unchanged.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgErrUniqueViolation:
		if pgErr.ConstraintName == constraintTransactionReference {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateReference, pgErr.Detail)
		}
		return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, pgErr.ConstraintName)

	case pgErrForeignKeyViolation:
		switch pgErr.ConstraintName {
		case constraintAccountCustomer, constraintLoanCustomer:
			return fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, pgErr.Detail)
		case constraintAccountBranch:
			return fmt.Errorf("%w: %s", domain.ErrBranchNotFound, pgErr.Detail)
		case constraintCardAccount, constraintTransactionAccount:
			return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, pgErr.Detail)
		}

	case pgErrCheckViolation:
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, pgErr.ConstraintName)
	}

	return err
}

// translateDeleteError maps a restricted delete to domain.ErrInUse.
func translateDeleteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKeyViolation {
		return fmt.Errorf("%w: %s", domain.ErrInUse, pgErr.Detail)
	}

	return err
}
