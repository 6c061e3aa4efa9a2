package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a ledger posting.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
)

// ParseTransactionType accepts the type case-insensitively.
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(strings.ToUpper(strings.TrimSpace(s))); t {
	case TransactionTypeDeposit, TransactionTypeWithdraw:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTransactionType, s)
	}
}

// MaxReferenceLength bounds the caller-supplied reference.
const MaxReferenceLength = 64

// AmountScale is the number of decimal places stored for money.
const AmountScale = 2

// MaxAmountDigits is the total number of digits a stored amount or balance
// may have, decimal places included.
const MaxAmountDigits = 14

var maxAmount = decimal.New(1, MaxAmountDigits-AmountScale)

// checkMoney reports an amount that has more than AmountScale decimal places
// or does not fit in MaxAmountDigits.
func checkMoney(what string, d decimal.Decimal) error {
	if !d.Equal(d.Truncate(AmountScale)) {
		return fmt.Errorf("%s %s has more than %d decimal places", what, d, AmountScale)
	}
	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("%s %s exceeds %d digits", what, d, MaxAmountDigits)
	}
	return nil
}

// Transaction is an immutable record of a single deposit or withdrawal.
type Transaction struct {
	ID           string
	AccountID    string
	Type         TransactionType
	Amount       decimal.Decimal
	Reference    string
	BalanceAfter decimal.Decimal
	PerformedAt  time.Time
	CreatedAt    time.Time
}
