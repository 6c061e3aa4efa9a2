package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/iho/gobank/internal/domain"
)

// CustomerRepository implements usecase.CustomerRepository.
type CustomerRepository struct {
	store *Store
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(store *Store) *CustomerRepository {
	return &CustomerRepository{store: store}
}

// Create stores a new customer. Email and phone are unique.
func (r *CustomerRepository) Create(_ context.Context, customer *domain.Customer) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[customer.ID]; ok {
		return fmt.Errorf("%w: customer %s", domain.ErrAlreadyExists, customer.ID)
	}
	if err := s.checkCustomerUnique(customer); err != nil {
		return err
	}

	stored := *customer
	s.customers[customer.ID] = &stored

	return nil
}

// checkCustomerUnique runs with s.mu held.
func (s *Store) checkCustomerUnique(customer *domain.Customer) error {
	for id, other := range s.customers {
		if id == customer.ID {
			continue
		}
		if other.Email == customer.Email {
			return fmt.Errorf("%w: email %q", domain.ErrAlreadyExists, customer.Email)
		}
		if other.Phone == customer.Phone {
			return fmt.Errorf("%w: phone %q", domain.ErrAlreadyExists, customer.Phone)
		}
	}

	return nil
}

// GetByID retrieves a customer by ID.
func (r *CustomerRepository) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.customers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, id)
	}

	out := *c
	return &out, nil
}

// Update replaces a stored customer.
func (r *CustomerRepository) Update(_ context.Context, customer *domain.Customer) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[customer.ID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, customer.ID)
	}
	if err := s.checkCustomerUnique(customer); err != nil {
		return err
	}

	stored := *customer
	s.customers[customer.ID] = &stored

	return nil
}

// Delete removes the customer with its accounts and loans.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	s := r.store

	s.mu.RLock()
	var owned []string
	for accountID, a := range s.accounts {
		if a.CustomerID == id {
			owned = append(owned, accountID)
		}
	}
	s.mu.RUnlock()

	sort.Strings(owned)
	held := make([]chan struct{}, 0, len(owned))
	defer func() {
		for _, lock := range held {
			unlock(lock)
		}
	}()
	for _, accountID := range owned {
		lock, err := s.lockAccount(ctx, accountID)
		if err != nil {
			return err
		}
		held = append(held, lock)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, id)
	}

	for accountID, a := range s.accounts {
		if a.CustomerID == id {
			s.deleteAccount(accountID)
		}
	}
	for loanID, loan := range s.loans {
		if loan.CustomerID == id {
			delete(s.loans, loanID)
		}
	}
	delete(s.customers, id)

	return nil
}

// BranchRepository implements usecase.BranchRepository.
type BranchRepository struct {
	store *Store
}

// NewBranchRepository creates a new BranchRepository.
func NewBranchRepository(store *Store) *BranchRepository {
	return &BranchRepository{store: store}
}

// Create stores a new branch. Codes are unique.
func (r *BranchRepository) Create(_ context.Context, branch *domain.Branch) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.branches[branch.ID]; ok {
		return fmt.Errorf("%w: branch %s", domain.ErrAlreadyExists, branch.ID)
	}
	if err := s.checkBranchUnique(branch); err != nil {
		return err
	}

	stored := *branch
	s.branches[branch.ID] = &stored

	return nil
}

func (s *Store) checkBranchUnique(branch *domain.Branch) error {
	for id, other := range s.branches {
		if id != branch.ID && other.Code == branch.Code {
			return fmt.Errorf("%w: branch code %q", domain.ErrAlreadyExists, branch.Code)
		}
	}

	return nil
}

// GetByID retrieves a branch by ID.
func (r *BranchRepository) GetByID(_ context.Context, id string) (*domain.Branch, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	b, ok := r.store.branches[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrBranchNotFound, id)
	}

	out := *b
	return &out, nil
}

// Update replaces a stored branch.
func (r *BranchRepository) Update(_ context.Context, branch *domain.Branch) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.branches[branch.ID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrBranchNotFound, branch.ID)
	}
	if err := s.checkBranchUnique(branch); err != nil {
		return err
	}

	stored := *branch
	s.branches[branch.ID] = &stored

	return nil
}

// Delete removes a branch that has no accounts.
func (r *BranchRepository) Delete(_ context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.branches[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrBranchNotFound, id)
	}

	for _, a := range s.accounts {
		if a.BranchID == id {
			return fmt.Errorf("%w: branch %s has accounts", domain.ErrInUse, id)
		}
	}
	delete(s.branches, id)

	return nil
}

// CardRepository implements usecase.CardRepository.
type CardRepository struct {
	store *Store
}

// NewCardRepository creates a new CardRepository.
func NewCardRepository(store *Store) *CardRepository {
	return &CardRepository{store: store}
}

// Create stores a new card. An account has at most one card.
func (r *CardRepository) Create(_ context.Context, card *domain.Card) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[card.ID]; ok {
		return fmt.Errorf("%w: card %s", domain.ErrAlreadyExists, card.ID)
	}
	if err := s.checkCard(card); err != nil {
		return err
	}

	stored := *card
	s.cards[card.ID] = &stored

	return nil
}

func (s *Store) checkCard(card *domain.Card) error {
	if _, ok := s.accounts[card.AccountID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, card.AccountID)
	}

	for id, other := range s.cards {
		if id == card.ID {
			continue
		}
		if other.Number == card.Number {
			return fmt.Errorf("%w: card number", domain.ErrAlreadyExists)
		}
		if other.AccountID == card.AccountID {
			return fmt.Errorf("%w: account %s already has a card", domain.ErrAlreadyExists, card.AccountID)
		}
	}

	return nil
}

// GetByID retrieves a card by ID.
func (r *CardRepository) GetByID(_ context.Context, id string) (*domain.Card, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.cards[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCardNotFound, id)
	}

	out := *c
	return &out, nil
}

// Update replaces a stored card.
func (r *CardRepository) Update(_ context.Context, card *domain.Card) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[card.ID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrCardNotFound, card.ID)
	}
	if err := s.checkCard(card); err != nil {
		return err
	}

	stored := *card
	s.cards[card.ID] = &stored

	return nil
}

// Delete removes a card.
func (r *CardRepository) Delete(_ context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrCardNotFound, id)
	}
	delete(s.cards, id)

	return nil
}

// LoanRepository implements usecase.LoanRepository.
type LoanRepository struct {
	store *Store
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(store *Store) *LoanRepository {
	return &LoanRepository{store: store}
}

// Create stores a new loan.
func (r *LoanRepository) Create(_ context.Context, loan *domain.Loan) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.loans[loan.ID]; ok {
		return fmt.Errorf("%w: loan %s", domain.ErrAlreadyExists, loan.ID)
	}
	if _, ok := s.customers[loan.CustomerID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, loan.CustomerID)
	}

	stored := *loan
	s.loans[loan.ID] = &stored

	return nil
}

// GetByID retrieves a loan by ID.
func (r *LoanRepository) GetByID(_ context.Context, id string) (*domain.Loan, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	l, ok := r.store.loans[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrLoanNotFound, id)
	}

	out := *l
	return &out, nil
}

// Update replaces a stored loan.
func (r *LoanRepository) Update(_ context.Context, loan *domain.Loan) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.loans[loan.ID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrLoanNotFound, loan.ID)
	}
	if _, ok := s.customers[loan.CustomerID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, loan.CustomerID)
	}

	stored := *loan
	s.loans[loan.ID] = &stored

	return nil
}

// Delete removes a loan.
func (r *LoanRepository) Delete(_ context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.loans[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrLoanNotFound, id)
	}
	delete(s.loans, id)

	return nil
}
