package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type CardType string

const (
	CardTypeDebit  CardType = "DEBIT"
	CardTypeCredit CardType = "CREDIT"
)

// ParseCardType returns the card type for s. Empty input selects debit.
func ParseCardType(s string) (CardType, error) {
	switch CardType(s) {
	case "":
		return CardTypeDebit, nil
	case CardTypeDebit, CardTypeCredit:
		return CardType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCardType, s)
	}
}

// Card is issued against exactly one account.
type Card struct {
	ID         string
	AccountID  string
	Number     string
	Type       CardType
	ExpiryDate time.Time
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type LoanStatus string

const (
	LoanStatusPending  LoanStatus = "PENDING"
	LoanStatusApproved LoanStatus = "APPROVED"
	LoanStatusRepaid   LoanStatus = "REPAID"
)

// ParseLoanStatus returns the loan status for s. Empty input selects pending.
func ParseLoanStatus(s string) (LoanStatus, error) {
	switch LoanStatus(s) {
	case "":
		return LoanStatusPending, nil
	case LoanStatusPending, LoanStatusApproved, LoanStatusRepaid:
		return LoanStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLoanStatus, s)
	}
}

// Loan is a customer's borrowing. InterestRate is a yearly percentage.
type Loan struct {
	ID              string
	CustomerID      string
	PrincipalAmount decimal.Decimal
	InterestRate    decimal.Decimal
	Status          LoanStatus
	StartDate       time.Time
	EndDate         *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MaxInterestRate bounds InterestRate, a percentage with two decimal places.
var MaxInterestRate = decimal.NewFromInt(1000)

// Validate checks the loan's amounts: a positive principal and a
// non-negative rate.
func (l *Loan) Validate() error {
	if !l.PrincipalAmount.IsPositive() {
		return &FieldError{Field: "principal_amount", Err: fmt.Errorf("%w: principal amount must be positive", ErrInvalidInput)}
	}
	if err := checkMoney("principal amount", l.PrincipalAmount); err != nil {
		return &FieldError{Field: "principal_amount", Err: fmt.Errorf("%w: %w", ErrInvalidInput, err)}
	}
	if l.InterestRate.IsNegative() {
		return &FieldError{Field: "interest_rate", Err: fmt.Errorf("%w: interest rate cannot be negative", ErrInvalidInput)}
	}
	if !l.InterestRate.Equal(l.InterestRate.Truncate(2)) || l.InterestRate.GreaterThanOrEqual(MaxInterestRate) {
		return &FieldError{Field: "interest_rate", Err: fmt.Errorf("%w: interest rate %s does not fit NUMERIC(5,2)", ErrInvalidInput, l.InterestRate)}
	}
	return nil
}
