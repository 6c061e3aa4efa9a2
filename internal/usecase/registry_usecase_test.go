package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
	"github.com/iho/gobank/internal/usecase/mocks"
)

type registryMocks struct {
	customers *mocks.MockCustomerRepository
	branches  *mocks.MockBranchRepository
	cards     *mocks.MockCardRepository
	loans     *mocks.MockLoanRepository
}

func newRegistryUseCase(t *testing.T) (*usecase.RegistryUseCase, *registryMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := &registryMocks{
		customers: mocks.NewMockCustomerRepository(ctrl),
		branches:  mocks.NewMockBranchRepository(ctrl),
		cards:     mocks.NewMockCardRepository(ctrl),
		loans:     mocks.NewMockLoanRepository(ctrl),
	}
	idGen := mocks.NewMockIDGenerator(ctrl)
	idGen.EXPECT().Generate().Return("id-1").AnyTimes()

	return usecase.NewRegistryUseCase(m.customers, m.branches, m.cards, m.loans, idGen), m
}

func TestRegistryUseCase_Customers(t *testing.T) {
	uc, m := newRegistryUseCase(t)
	ctx := context.Background()

	m.customers.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	customer, err := uc.CreateCustomer(ctx, usecase.CustomerInput{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", customer.ID)
	assert.Equal(t, "Ada Lovelace", customer.FullName())

	m.customers.EXPECT().GetByID(gomock.Any(), "id-1").Return(customer, nil)
	m.customers.EXPECT().Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *domain.Customer) error {
			assert.Equal(t, "ada@bank.test", c.Email)
			return nil
		})

	updated, err := uc.UpdateCustomer(ctx, "id-1", usecase.CustomerInput{FirstName: "Ada", LastName: "Lovelace", Email: "ada@bank.test"})
	require.NoError(t, err)
	assert.Equal(t, "ada@bank.test", updated.Email)

	m.customers.EXPECT().Delete(gomock.Any(), "id-1").Return(nil)
	require.NoError(t, uc.DeleteCustomer(ctx, "id-1"))
}

func TestRegistryUseCase_UpdateMissingCustomer(t *testing.T) {
	uc, m := newRegistryUseCase(t)

	m.customers.EXPECT().GetByID(gomock.Any(), "nope").Return(nil, domain.ErrCustomerNotFound)

	_, err := uc.UpdateCustomer(context.Background(), "nope", usecase.CustomerInput{})
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestRegistryUseCase_DeleteBranchInUse(t *testing.T) {
	uc, m := newRegistryUseCase(t)

	m.branches.EXPECT().Delete(gomock.Any(), "br-1").Return(domain.ErrInUse)

	err := uc.DeleteBranch(context.Background(), "br-1")
	require.ErrorIs(t, err, domain.ErrInUse)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestRegistryUseCase_Branches(t *testing.T) {
	uc, m := newRegistryUseCase(t)
	ctx := context.Background()

	m.branches.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	branch, err := uc.CreateBranch(ctx, usecase.BranchInput{Name: "Main", Code: "BR001", City: "Pune"})
	require.NoError(t, err)
	assert.Equal(t, "BR001", branch.Code)

	m.branches.EXPECT().GetByID(gomock.Any(), "id-1").Return(branch, nil)
	m.branches.EXPECT().Update(gomock.Any(), branch).Return(nil)

	updated, err := uc.UpdateBranch(ctx, "id-1", usecase.BranchInput{Name: "Central", Code: "BR001", City: "Pune"})
	require.NoError(t, err)
	assert.Equal(t, "Central", updated.Name)
}

func TestRegistryUseCase_IssueCard(t *testing.T) {
	expiry := time.Date(2029, 12, 31, 0, 0, 0, 0, time.UTC)

	t.Run("defaults to active debit", func(t *testing.T) {
		uc, m := newRegistryUseCase(t)
		m.cards.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		card, err := uc.IssueCard(context.Background(), usecase.CardInput{AccountID: "acc-1", Number: "4111", ExpiryDate: expiry})
		require.NoError(t, err)
		assert.Equal(t, domain.CardTypeDebit, card.Type)
		assert.True(t, card.Active)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		uc, _ := newRegistryUseCase(t)

		_, err := uc.IssueCard(context.Background(), usecase.CardInput{AccountID: "acc-1", Type: "GOLD"})
		require.ErrorIs(t, err, domain.ErrInvalidCardType)
	})

	t.Run("unknown account", func(t *testing.T) {
		uc, m := newRegistryUseCase(t)
		m.cards.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.ErrAccountNotFound)

		_, err := uc.IssueCard(context.Background(), usecase.CardInput{AccountID: "missing", Type: "CREDIT"})
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
	})

	t.Run("deactivate on update", func(t *testing.T) {
		uc, m := newRegistryUseCase(t)
		existing := &domain.Card{ID: "card-1", AccountID: "acc-1", Type: domain.CardTypeDebit, Active: true}
		inactive := false

		m.cards.EXPECT().GetByID(gomock.Any(), "card-1").Return(existing, nil)
		m.cards.EXPECT().Update(gomock.Any(), existing).Return(nil)

		card, err := uc.UpdateCard(context.Background(), "card-1", usecase.CardInput{AccountID: "acc-1", Type: "DEBIT", Active: &inactive})
		require.NoError(t, err)
		assert.False(t, card.Active)
	})
}

func TestRegistryUseCase_Loans(t *testing.T) {
	uc, m := newRegistryUseCase(t)
	ctx := context.Background()

	m.loans.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	loan, err := uc.CreateLoan(ctx, usecase.LoanInput{
		CustomerID:      "cust-1",
		PrincipalAmount: decimal.RequireFromString("250000.00"),
		InterestRate:    decimal.RequireFromString("7.25"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusPending, loan.Status)
	assert.False(t, loan.StartDate.IsZero())
	assert.Nil(t, loan.EndDate)

	end := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	m.loans.EXPECT().GetByID(gomock.Any(), "id-1").Return(loan, nil)
	m.loans.EXPECT().Update(gomock.Any(), loan).Return(nil)

	updated, err := uc.UpdateLoan(ctx, "id-1", usecase.LoanInput{
		CustomerID:      "cust-1",
		PrincipalAmount: loan.PrincipalAmount,
		InterestRate:    loan.InterestRate,
		Status:          "APPROVED",
		EndDate:         &end,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusApproved, updated.Status)
	require.NotNil(t, updated.EndDate)

	m.loans.EXPECT().GetByID(gomock.Any(), "id-1").Return(loan, nil)
	_, err = uc.UpdateLoan(ctx, "id-1", usecase.LoanInput{Status: "DEFAULTED"})
	require.ErrorIs(t, err, domain.ErrInvalidLoanStatus)
}

func TestRegistryUseCase_LoanAmountRules(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		field     string
	}{
		{"negative principal", "-500", "3", "principal_amount"},
		{"zero principal", "0", "3", "principal_amount"},
		{"sub-cent principal", "100.001", "3", "principal_amount"},
		{"negative rate", "500", "-3", "interest_rate"},
		{"rate beyond two digits before the point", "500", "1000", "interest_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newRegistryUseCase(t)

			_, err := uc.CreateLoan(context.Background(), usecase.LoanInput{
				CustomerID:      "cust-1",
				PrincipalAmount: decimal.RequireFromString(tt.principal),
				InterestRate:    decimal.RequireFromString(tt.rate),
			})

			require.ErrorIs(t, err, domain.ErrInvalidInput)
			var ferr *domain.FieldError
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, tt.field, ferr.Field)
		})
	}
}

func TestRegistryUseCase_LoanZeroRateAllowed(t *testing.T) {
	uc, m := newRegistryUseCase(t)
	m.loans.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	loan, err := uc.CreateLoan(context.Background(), usecase.LoanInput{
		CustomerID:      "cust-1",
		PrincipalAmount: decimal.RequireFromString("0.01"),
		InterestRate:    decimal.Zero,
	})

	require.NoError(t, err)
	assert.True(t, loan.InterestRate.IsZero())
}
