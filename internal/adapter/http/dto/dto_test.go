package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

func TestSubmitTransactionRequest_DecodesExactAmount(t *testing.T) {
	for _, body := range []string{
		`{"account_id":"acc-1","txn_type":"deposit","amount":"200.10","reference":"TXN001"}`,
		`{"account_id":"acc-1","txn_type":"DEPOSIT","amount":200.10,"reference":"TXN001"}`,
	} {
		var req SubmitTransactionRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req))
		require.NoError(t, Validate(&req))

		input, err := req.ToUseCaseInput()
		require.NoError(t, err)
		assert.Equal(t, domain.TransactionTypeDeposit, input.Type)
		assert.True(t, input.Amount.Equal(decimal.RequireFromString("200.1")), input.Amount.String())
	}
}

func TestSubmitTransactionRequest_UnknownType(t *testing.T) {
	req := SubmitTransactionRequest{AccountID: "a", Type: "TRANSFER", Reference: "r"}

	_, err := req.ToUseCaseInput()
	require.ErrorIs(t, err, domain.ErrInvalidTransactionType)
}

func TestValidate_ReportsJSONFieldName(t *testing.T) {
	tests := []struct {
		name  string
		req   any
		field string
	}{
		{"missing reference", &SubmitTransactionRequest{AccountID: "a", Type: "DEPOSIT"}, "reference"},
		{"missing account", &SubmitTransactionRequest{Type: "DEPOSIT", Reference: "r"}, "account_id"},
		{"reference too long", &SubmitTransactionRequest{AccountID: "a", Type: "DEPOSIT", Reference: strings.Repeat("r", domain.MaxReferenceLength+1)}, "reference"},
		{"short card number", &CardRequest{AccountID: "a", Number: "123", ExpiryDate: time.Now()}, "card_number"},
		{"unknown account type", &OpenAccountRequest{CustomerID: "c", BranchID: "b", Number: "n", Type: "XYZ"}, "account_type"},
		{"missing active flag", &SetAccountActiveRequest{}, "active"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestSubmitTransactionFromResult(t *testing.T) {
	res := &usecase.PostTransactionResult{
		Transaction: &domain.Transaction{
			ID:           "txn-1",
			AccountID:    "acc-1",
			Type:         domain.TransactionTypeWithdraw,
			Amount:       decimal.RequireFromString("500.00"),
			Reference:    "TXN003",
			BalanceAfter: decimal.RequireFromString("700.00"),
		},
		NewBalance: decimal.RequireFromString("700.00"),
	}

	data, err := json.Marshal(SubmitTransactionFromResult(res))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "txn-1", body["transaction_id"])
	assert.Equal(t, "700", body["new_balance"])
}

func TestLoanFromDomain_Dates(t *testing.T) {
	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	resp := LoanFromDomain(&domain.Loan{
		ID:        "loan-1",
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   &end,
		Status:    domain.LoanStatusApproved,
	})

	assert.Equal(t, "2025-01-01", resp.StartDate)
	require.NotNil(t, resp.EndDate)
	assert.Equal(t, "2026-06-30", *resp.EndDate)
}
