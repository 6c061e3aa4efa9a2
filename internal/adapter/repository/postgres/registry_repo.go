package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/postgres/generated"
)

// notFound maps pgx.ErrNoRows to sentinel.
func notFound(sentinel error, id string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", sentinel, id)
	}

	return err
}

func affected(sentinel error, id string, n int64, err error) error {
	if err != nil {
		return translateError(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", sentinel, id)
	}

	return nil
}

// CustomerRepository implements usecase.CustomerRepository.
type CustomerRepository struct {
	queries *generated.Queries
	retrier *Retrier
}

// NewCustomerRepository creates a new CustomerRepository. Deletes cascade
// through account rows that ledger updates may hold, so they are retried on
// deadlock.
func NewCustomerRepository(db generated.DBTX, retrier *Retrier) *CustomerRepository {
	return &CustomerRepository{
		queries: generated.New(db),
		retrier: retrier,
	}
}

// Create inserts a new customer.
func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	return translateError(r.queries.CreateCustomer(ctx, generated.CreateCustomerParams{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: timeToPgTimestamptz(c.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(c.UpdatedAt),
	}))
}

// GetByID retrieves a customer by ID.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	row, err := r.queries.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, notFound(domain.ErrCustomerNotFound, id, err)
	}

	return &domain.Customer{
		ID:        row.ID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Email:     row.Email,
		Phone:     row.Phone,
		Address:   row.Address,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}, nil
}

// Update replaces a customer's fields.
func (r *CustomerRepository) Update(ctx context.Context, c *domain.Customer) error {
	n, err := r.queries.UpdateCustomer(ctx, generated.UpdateCustomerParams{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		UpdatedAt: timeToPgTimestamptz(c.UpdatedAt),
	})

	return affected(domain.ErrCustomerNotFound, c.ID, n, err)
}

// Delete removes a customer with its accounts, transactions, cards and loans.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	var n int64

	err := r.retrier.Retry(ctx, func() error {
		var err error
		n, err = r.queries.DeleteCustomer(ctx, id)
		return err
	})

	return affected(domain.ErrCustomerNotFound, id, n, err)
}

// BranchRepository implements usecase.BranchRepository.
type BranchRepository struct {
	queries *generated.Queries
}

// NewBranchRepository creates a new BranchRepository.
func NewBranchRepository(db generated.DBTX) *BranchRepository {
	return &BranchRepository{queries: generated.New(db)}
}

// Create inserts a new branch.
func (r *BranchRepository) Create(ctx context.Context, b *domain.Branch) error {
	return translateError(r.queries.CreateBranch(ctx, generated.CreateBranchParams{
		ID:        b.ID,
		Name:      b.Name,
		Code:      b.Code,
		City:      b.City,
		CreatedAt: timeToPgTimestamptz(b.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(b.UpdatedAt),
	}))
}

// GetByID retrieves a branch by ID.
func (r *BranchRepository) GetByID(ctx context.Context, id string) (*domain.Branch, error) {
	row, err := r.queries.GetBranchByID(ctx, id)
	if err != nil {
		return nil, notFound(domain.ErrBranchNotFound, id, err)
	}

	return &domain.Branch{
		ID:        row.ID,
		Name:      row.Name,
		Code:      row.Code,
		City:      row.City,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}, nil
}

// Update replaces a branch's fields.
func (r *BranchRepository) Update(ctx context.Context, b *domain.Branch) error {
	n, err := r.queries.UpdateBranch(ctx, generated.UpdateBranchParams{
		ID:        b.ID,
		Name:      b.Name,
		Code:      b.Code,
		City:      b.City,
		UpdatedAt: timeToPgTimestamptz(b.UpdatedAt),
	})

	return affected(domain.ErrBranchNotFound, b.ID, n, err)
}

// Delete removes a branch. Branches with accounts fail with domain.ErrInUse.
func (r *BranchRepository) Delete(ctx context.Context, id string) error {
	n, err := r.queries.DeleteBranch(ctx, id)
	if err != nil {
		return translateDeleteError(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrBranchNotFound, id)
	}

	return nil
}

// CardRepository implements usecase.CardRepository.
type CardRepository struct {
	queries *generated.Queries
}

// NewCardRepository creates a new CardRepository.
func NewCardRepository(db generated.DBTX) *CardRepository {
	return &CardRepository{queries: generated.New(db)}
}

// Create inserts a new card.
func (r *CardRepository) Create(ctx context.Context, c *domain.Card) error {
	return translateError(r.queries.CreateCard(ctx, generated.CreateCardParams{
		ID:         c.ID,
		AccountID:  c.AccountID,
		Number:     c.Number,
		Type:       string(c.Type),
		ExpiryDate: timeToPgDate(c.ExpiryDate),
		Active:     c.Active,
		CreatedAt:  timeToPgTimestamptz(c.CreatedAt),
		UpdatedAt:  timeToPgTimestamptz(c.UpdatedAt),
	}))
}

// GetByID retrieves a card by ID.
func (r *CardRepository) GetByID(ctx context.Context, id string) (*domain.Card, error) {
	row, err := r.queries.GetCardByID(ctx, id)
	if err != nil {
		return nil, notFound(domain.ErrCardNotFound, id, err)
	}

	return &domain.Card{
		ID:         row.ID,
		AccountID:  row.AccountID,
		Number:     row.Number,
		Type:       domain.CardType(row.Type),
		ExpiryDate: row.ExpiryDate.Time,
		Active:     row.Active,
		CreatedAt:  row.CreatedAt.Time,
		UpdatedAt:  row.UpdatedAt.Time,
	}, nil
}

// Update replaces a card's fields.
func (r *CardRepository) Update(ctx context.Context, c *domain.Card) error {
	n, err := r.queries.UpdateCard(ctx, generated.UpdateCardParams{
		ID:         c.ID,
		AccountID:  c.AccountID,
		Number:     c.Number,
		Type:       string(c.Type),
		ExpiryDate: timeToPgDate(c.ExpiryDate),
		Active:     c.Active,
		UpdatedAt:  timeToPgTimestamptz(c.UpdatedAt),
	})

	return affected(domain.ErrCardNotFound, c.ID, n, err)
}

// Delete removes a card.
func (r *CardRepository) Delete(ctx context.Context, id string) error {
	n, err := r.queries.DeleteCard(ctx, id)
	return affected(domain.ErrCardNotFound, id, n, err)
}

// LoanRepository implements usecase.LoanRepository.
type LoanRepository struct {
	queries *generated.Queries
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(db generated.DBTX) *LoanRepository {
	return &LoanRepository{queries: generated.New(db)}
}

// Create inserts a new loan.
func (r *LoanRepository) Create(ctx context.Context, l *domain.Loan) error {
	return translateError(r.queries.CreateLoan(ctx, generated.CreateLoanParams{
		ID:              l.ID,
		CustomerID:      l.CustomerID,
		PrincipalAmount: decimalToNumeric(l.PrincipalAmount),
		InterestRate:    decimalToNumeric(l.InterestRate),
		Status:          string(l.Status),
		StartDate:       timeToPgDate(l.StartDate),
		EndDate:         optionalTimeToPgDate(l.EndDate),
		CreatedAt:       timeToPgTimestamptz(l.CreatedAt),
		UpdatedAt:       timeToPgTimestamptz(l.UpdatedAt),
	}))
}

// GetByID retrieves a loan by ID.
func (r *LoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	row, err := r.queries.GetLoanByID(ctx, id)
	if err != nil {
		return nil, notFound(domain.ErrLoanNotFound, id, err)
	}

	return &domain.Loan{
		ID:              row.ID,
		CustomerID:      row.CustomerID,
		PrincipalAmount: numericToDecimal(row.PrincipalAmount),
		InterestRate:    numericToDecimal(row.InterestRate),
		Status:          domain.LoanStatus(row.Status),
		StartDate:       row.StartDate.Time,
		EndDate:         pgDateToOptionalTime(row.EndDate),
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}, nil
}

// Update replaces a loan's fields.
func (r *LoanRepository) Update(ctx context.Context, l *domain.Loan) error {
	n, err := r.queries.UpdateLoan(ctx, generated.UpdateLoanParams{
		ID:              l.ID,
		CustomerID:      l.CustomerID,
		PrincipalAmount: decimalToNumeric(l.PrincipalAmount),
		InterestRate:    decimalToNumeric(l.InterestRate),
		Status:          string(l.Status),
		StartDate:       timeToPgDate(l.StartDate),
		EndDate:         optionalTimeToPgDate(l.EndDate),
		UpdatedAt:       timeToPgTimestamptz(l.UpdatedAt),
	})

	return affected(domain.ErrLoanNotFound, l.ID, n, err)
}

// Delete removes a loan.
func (r *LoanRepository) Delete(ctx context.Context, id string) error {
	n, err := r.queries.DeleteLoan(ctx, id)
	return affected(domain.ErrLoanNotFound, id, n, err)
}
