package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// CreateTx stages a new account in tx.
func (r *AccountRepository) CreateTx(_ context.Context, tx usecase.Transaction, account *domain.Account) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	staged := *account
	return t.stage(func() { t.accounts = append(t.accounts, &staged) })
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.account(id)
}

// account runs with s.mu held.
func (s *Store) account(id string) (*domain.Account, error) {
	a, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
	}

	out := *a
	return &out, nil
}

// GetByIDForUpdate takes the account lock for the lifetime of tx and
// returns the account as stored once the lock is held.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := t.hold(ctx, id); err != nil {
		return nil, err
	}

	account, err := r.GetByID(ctx, id)
	if err != nil {
		// deleted while waiting for the lock
		t.release(id)
		r.store.dropAccountLock(id)
		return nil, err
	}

	return account, nil
}

// UpdateBalance stages a balance change. The caller must hold the account
// lock through GetByIDForUpdate.
func (r *AccountRepository) UpdateBalance(_ context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	if !t.holds(id) {
		return fmt.Errorf("memory: account %s is not locked by this transaction", id)
	}

	return t.stage(func() {
		t.balances[id] = stagedBalance{balance: balance, updatedAt: updatedAt}
	})
}

// SetActive flips the active flag, waiting for any in-flight ledger update
// on the account to finish first.
func (r *AccountRepository) SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) (*domain.Account, error) {
	s := r.store
	lock, err := s.lockAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock(lock)

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		s.dropAccountLock(id)
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
	}

	a.Active = active
	a.UpdatedAt = updatedAt
	a.Version++

	out := *a
	return &out, nil
}

// Delete removes the account with its transactions and card.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	s := r.store
	lock, err := s.lockAccount(ctx, id)
	if err != nil {
		return err
	}
	defer unlock(lock)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		s.dropAccountLock(id)
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
	}
	s.deleteAccount(id)

	return nil
}

// deleteAccount runs with s.mu held.
func (s *Store) deleteAccount(id string) {
	a := s.accounts[id]
	delete(s.accountNumbers, a.Number)
	delete(s.accounts, id)
	s.dropAccountLock(id)

	for txnID, txn := range s.transactions {
		if txn.AccountID == id {
			delete(s.references, txn.Reference)
			delete(s.transactions, txnID)
		}
	}

	for cardID, card := range s.cards {
		if card.AccountID == id {
			delete(s.cards, cardID)
		}
	}
}

// ListIDs returns account IDs in ascending order.
func (r *AccountRepository) ListIDs(_ context.Context, limit, offset int) ([]string, error) {
	r.store.mu.RLock()
	ids := make([]string, 0, len(r.store.accounts))
	for id := range r.store.accounts {
		ids = append(ids, id)
	}
	r.store.mu.RUnlock()

	sort.Strings(ids)

	if offset >= len(ids) {
		return []string{}, nil
	}
	ids = ids[offset:]
	if limit < len(ids) {
		ids = ids[:limit]
	}

	return ids, nil
}
