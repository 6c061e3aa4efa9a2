package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType distinguishes savings from current accounts.
type AccountType string

const (
	AccountTypeSavings AccountType = "SAV"
	AccountTypeCurrent AccountType = "CUR"
)

// ParseAccountType returns the account type for s. Empty input selects savings.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case "":
		return AccountTypeSavings, nil
	case AccountTypeSavings, AccountTypeCurrent:
		return AccountType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAccountType, s)
	}
}

// Account holds a monetary balance identified by its account number.
type Account struct {
	ID             string
	CustomerID     string
	BranchID       string
	Number         string
	Type           AccountType
	Balance        decimal.Decimal
	OpeningBalance decimal.Decimal
	Active         bool
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks the invariants of a newly opened account.
func (a *Account) Validate() error {
	if a.Balance.IsNegative() {
		return fmt.Errorf("%w: balance %s", ErrNegativeBalance, a.Balance)
	}
	if err := checkMoney("balance", a.Balance); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if _, err := ParseAccountType(string(a.Type)); err != nil {
		return err
	}
	return nil
}

// Apply returns the balance after posting amount as txnType.
func (a *Account) Apply(txnType TransactionType, amount decimal.Decimal) decimal.Decimal {
	if txnType == TransactionTypeWithdraw {
		return a.Balance.Sub(amount)
	}
	return a.Balance.Add(amount)
}

// AccountTotals is an account's stored balance next to the sums of its
// transactions, all read at one point in time.
type AccountTotals struct {
	AccountID      string
	Balance        decimal.Decimal
	OpeningBalance decimal.Decimal
	Deposits       decimal.Decimal
	Withdrawals    decimal.Decimal
}
