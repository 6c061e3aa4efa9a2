package domain

import (
	"context"
	"errors"
)

var (
	// Ledger errors
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrAccountInactive    = errors.New("account is not active")
	ErrInsufficientFunds  = errors.New("insufficient balance for withdrawal")
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateReference = errors.New("transaction reference already used")
	ErrPersist            = errors.New("failed to persist ledger update")

	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidInput           = errors.New("invalid input")
	ErrTransactionNotFound    = errors.New("transaction not found")

	// Account errors
	ErrNegativeBalance    = errors.New("balance cannot be negative")
	ErrInvalidAccountType = errors.New("invalid account type")

	// Collaborator entity errors
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrBranchNotFound    = errors.New("branch not found")
	ErrCardNotFound      = errors.New("card not found")
	ErrLoanNotFound      = errors.New("loan not found")
	ErrInvalidCardType   = errors.New("invalid card type")
	ErrInvalidLoanStatus = errors.New("invalid loan status")

	// Storage constraint errors
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInUse         = errors.New("resource is referenced by other records")
)

// FieldError ties an input error to the request field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *FieldError) Unwrap() error { return e.Err }

// ErrorKind names the taxonomy entry an error belongs to.
type ErrorKind string

const (
	KindInvalidAmount      ErrorKind = "invalid_amount"
	KindAccountInactive    ErrorKind = "account_inactive"
	KindInsufficientFunds  ErrorKind = "insufficient_funds"
	KindAccountNotFound    ErrorKind = "account_not_found"
	KindDuplicateReference ErrorKind = "duplicate_reference"
	KindPersist            ErrorKind = "persist_error"
	KindInvalidInput       ErrorKind = "invalid_input"
	KindNotFound           ErrorKind = "not_found"
	KindConflict           ErrorKind = "conflict"
	KindCanceled           ErrorKind = "canceled"
	KindInternal           ErrorKind = "internal"
)

// KindOf maps err to exactly one ErrorKind. Ledger kinds take precedence over
// the generic ones so a wrapped ErrPersist caused by a unique violation is
// still reported as a duplicate reference.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDuplicateReference):
		return KindDuplicateReference
	case errors.Is(err, ErrInvalidAmount):
		return KindInvalidAmount
	case errors.Is(err, ErrAccountInactive):
		return KindAccountInactive
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrAccountNotFound):
		return KindAccountNotFound
	case errors.Is(err, ErrPersist):
		return KindPersist
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidTransactionType),
		errors.Is(err, ErrNegativeBalance),
		errors.Is(err, ErrInvalidAccountType),
		errors.Is(err, ErrInvalidCardType),
		errors.Is(err, ErrInvalidLoanStatus):
		return KindInvalidInput
	case errors.Is(err, ErrTransactionNotFound),
		errors.Is(err, ErrCustomerNotFound),
		errors.Is(err, ErrBranchNotFound),
		errors.Is(err, ErrCardNotFound),
		errors.Is(err, ErrLoanNotFound):
		return KindNotFound
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrInUse):
		return KindConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindInternal
	}
}
