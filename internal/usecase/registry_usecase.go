package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// RegistryUseCase manages the records around the ledger: customers,
// branches, cards and loans. It performs no field-format validation; the
// storage constraints decide uniqueness and references.
type RegistryUseCase struct {
	customerRepo CustomerRepository
	branchRepo   BranchRepository
	cardRepo     CardRepository
	loanRepo     LoanRepository
	idGen        IDGenerator
}

// NewRegistryUseCase creates a new RegistryUseCase.
func NewRegistryUseCase(
	customerRepo CustomerRepository,
	branchRepo BranchRepository,
	cardRepo CardRepository,
	loanRepo LoanRepository,
	idGen IDGenerator,
) *RegistryUseCase {
	return &RegistryUseCase{
		customerRepo: customerRepo,
		branchRepo:   branchRepo,
		cardRepo:     cardRepo,
		loanRepo:     loanRepo,
		idGen:        idGen,
	}
}

// CustomerInput represents input for creating or replacing a customer.
type CustomerInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
}

// CreateCustomer creates a new customer.
func (uc *RegistryUseCase) CreateCustomer(ctx context.Context, input CustomerInput) (*domain.Customer, error) {
	now := time.Now().UTC()
	customer := &domain.Customer{
		ID:        uc.idGen.Generate(),
		CreatedAt: now,
	}
	applyCustomerInput(customer, input, now)

	if err := uc.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID.
func (uc *RegistryUseCase) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return uc.customerRepo.GetByID(ctx, id)
}

// UpdateCustomer replaces the customer's fields.
func (uc *RegistryUseCase) UpdateCustomer(ctx context.Context, id string, input CustomerInput) (*domain.Customer, error) {
	customer, err := uc.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyCustomerInput(customer, input, time.Now().UTC())

	if err := uc.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// DeleteCustomer deletes a customer and, by cascade, its accounts and loans.
func (uc *RegistryUseCase) DeleteCustomer(ctx context.Context, id string) error {
	return uc.customerRepo.Delete(ctx, id)
}

func applyCustomerInput(c *domain.Customer, input CustomerInput, now time.Time) {
	c.FirstName = input.FirstName
	c.LastName = input.LastName
	c.Email = input.Email
	c.Phone = input.Phone
	c.Address = input.Address
	c.UpdatedAt = now
}

// BranchInput represents input for creating or replacing a branch.
type BranchInput struct {
	Name string
	Code string
	City string
}

// CreateBranch creates a new branch.
func (uc *RegistryUseCase) CreateBranch(ctx context.Context, input BranchInput) (*domain.Branch, error) {
	now := time.Now().UTC()
	branch := &domain.Branch{
		ID:        uc.idGen.Generate(),
		Name:      input.Name,
		Code:      input.Code,
		City:      input.City,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.branchRepo.Create(ctx, branch); err != nil {
		return nil, err
	}

	return branch, nil
}

// GetBranch retrieves a branch by ID.
func (uc *RegistryUseCase) GetBranch(ctx context.Context, id string) (*domain.Branch, error) {
	return uc.branchRepo.GetByID(ctx, id)
}

// UpdateBranch replaces the branch's fields.
func (uc *RegistryUseCase) UpdateBranch(ctx context.Context, id string, input BranchInput) (*domain.Branch, error) {
	branch, err := uc.branchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	branch.Name = input.Name
	branch.Code = input.Code
	branch.City = input.City
	branch.UpdatedAt = time.Now().UTC()

	if err := uc.branchRepo.Update(ctx, branch); err != nil {
		return nil, err
	}

	return branch, nil
}

// DeleteBranch deletes a branch. Branches with accounts fail with domain.ErrInUse.
func (uc *RegistryUseCase) DeleteBranch(ctx context.Context, id string) error {
	return uc.branchRepo.Delete(ctx, id)
}

// CardInput represents input for issuing or replacing a card.
type CardInput struct {
	AccountID  string
	Number     string
	Type       string
	ExpiryDate time.Time
	Active     *bool
}

// IssueCard creates a card for an account.
func (uc *RegistryUseCase) IssueCard(ctx context.Context, input CardInput) (*domain.Card, error) {
	now := time.Now().UTC()
	card := &domain.Card{
		ID:        uc.idGen.Generate(),
		Active:    true,
		CreatedAt: now,
	}

	if err := applyCardInput(card, input, now); err != nil {
		return nil, err
	}

	if err := uc.cardRepo.Create(ctx, card); err != nil {
		return nil, err
	}

	return card, nil
}

// GetCard retrieves a card by ID.
func (uc *RegistryUseCase) GetCard(ctx context.Context, id string) (*domain.Card, error) {
	return uc.cardRepo.GetByID(ctx, id)
}

// UpdateCard replaces the card's fields.
func (uc *RegistryUseCase) UpdateCard(ctx context.Context, id string, input CardInput) (*domain.Card, error) {
	card, err := uc.cardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applyCardInput(card, input, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := uc.cardRepo.Update(ctx, card); err != nil {
		return nil, err
	}

	return card, nil
}

// DeleteCard deletes a card.
func (uc *RegistryUseCase) DeleteCard(ctx context.Context, id string) error {
	return uc.cardRepo.Delete(ctx, id)
}

func applyCardInput(card *domain.Card, input CardInput, now time.Time) error {
	cardType, err := domain.ParseCardType(input.Type)
	if err != nil {
		return err
	}

	card.AccountID = input.AccountID
	card.Number = input.Number
	card.Type = cardType
	card.ExpiryDate = input.ExpiryDate
	if input.Active != nil {
		card.Active = *input.Active
	}
	card.UpdatedAt = now

	return nil
}

// LoanInput represents input for creating or replacing a loan.
type LoanInput struct {
	CustomerID      string
	PrincipalAmount decimal.Decimal
	InterestRate    decimal.Decimal
	Status          string
	StartDate       *time.Time
	EndDate         *time.Time
}

// CreateLoan creates a loan for a customer.
func (uc *RegistryUseCase) CreateLoan(ctx context.Context, input LoanInput) (*domain.Loan, error) {
	now := time.Now().UTC()
	loan := &domain.Loan{
		ID:        uc.idGen.Generate(),
		StartDate: now.Truncate(24 * time.Hour),
		CreatedAt: now,
	}

	if err := applyLoanInput(loan, input, now); err != nil {
		return nil, err
	}

	if err := uc.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	return loan, nil
}

// GetLoan retrieves a loan by ID.
func (uc *RegistryUseCase) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	return uc.loanRepo.GetByID(ctx, id)
}

// UpdateLoan replaces the loan's fields.
func (uc *RegistryUseCase) UpdateLoan(ctx context.Context, id string, input LoanInput) (*domain.Loan, error) {
	loan, err := uc.loanRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applyLoanInput(loan, input, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := uc.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}

	return loan, nil
}

// DeleteLoan deletes a loan.
func (uc *RegistryUseCase) DeleteLoan(ctx context.Context, id string) error {
	return uc.loanRepo.Delete(ctx, id)
}

func applyLoanInput(loan *domain.Loan, input LoanInput, now time.Time) error {
	status, err := domain.ParseLoanStatus(input.Status)
	if err != nil {
		return err
	}

	loan.CustomerID = input.CustomerID
	loan.PrincipalAmount = input.PrincipalAmount
	loan.InterestRate = input.InterestRate
	loan.Status = status
	if input.StartDate != nil {
		loan.StartDate = input.StartDate.UTC()
	}
	loan.EndDate = input.EndDate
	loan.UpdatedAt = now

	return loan.Validate()
}
