package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidateTransaction checks whether amount can be posted to account as txnType.
// It has no side effects; the ledger calls it again on the balance read under
// the account lock.
func ValidateTransaction(account *Account, txnType TransactionType, amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}

	if txnType != TransactionTypeDeposit && txnType != TransactionTypeWithdraw {
		return fmt.Errorf("%w: %q", ErrInvalidTransactionType, txnType)
	}

	if !account.Active {
		return fmt.Errorf("%w: account %s", ErrAccountInactive, account.Number)
	}

	if txnType == TransactionTypeWithdraw && amount.GreaterThan(account.Balance) {
		return fmt.Errorf("%w: amount %s exceeds balance %s", ErrInsufficientFunds, amount, account.Balance)
	}

	if err := checkMoney("resulting balance", account.Apply(txnType, amount)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}

	return nil
}

// ValidateAmount runs the checks of ValidateTransaction that need no account.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount %s", ErrInvalidAmount, amount)
	}
	if err := checkMoney("amount", amount); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	return nil
}

// ValidateReference checks the shape of a transaction reference.
func ValidateReference(reference string) error {
	if reference == "" {
		return fmt.Errorf("%w: reference is required", ErrInvalidInput)
	}
	if len(reference) > MaxReferenceLength {
		return fmt.Errorf("%w: reference exceeds %d characters", ErrInvalidInput, MaxReferenceLength)
	}
	return nil
}
