// Package memory keeps every record in process memory. It backs the
// "memory" storage driver and the concurrency tests of the ledger.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// Store holds all tables. mu guards the maps; the per-account locks
// serialize ledger updates and are never held while waiting on mu.
type Store struct {
	mu sync.RWMutex

	accounts       map[string]*domain.Account
	accountNumbers map[string]string
	transactions   map[string]*domain.Transaction
	references     map[string]string
	customers      map[string]*domain.Customer
	branches       map[string]*domain.Branch
	cards          map[string]*domain.Card
	loans          map[string]*domain.Loan
	outbox         map[string]*domain.OutboxEvent

	locksMu sync.Mutex
	locks   map[string]chan struct{}
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts:       make(map[string]*domain.Account),
		accountNumbers: make(map[string]string),
		transactions:   make(map[string]*domain.Transaction),
		references:     make(map[string]string),
		customers:      make(map[string]*domain.Customer),
		branches:       make(map[string]*domain.Branch),
		cards:          make(map[string]*domain.Card),
		loans:          make(map[string]*domain.Loan),
		outbox:         make(map[string]*domain.OutboxEvent),
		locks:          make(map[string]chan struct{}),
	}
}

func (s *Store) accountLock(id string) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	ch, ok := s.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[id] = ch
	}

	return ch
}

// lockAccount blocks until the account lock is free or ctx is done. The
// returned channel must be passed to unlock.
func (s *Store) lockAccount(ctx context.Context, id string) (chan struct{}, error) {
	ch := s.accountLock(id)
	select {
	case ch <- struct{}{}:
		return ch, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func unlock(ch chan struct{}) {
	<-ch
}

// dropAccountLock forgets the lock of a deleted account. Holders and waiters
// keep their channel, so it is safe while the lock is held.
func (s *Store) dropAccountLock(id string) {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	delete(s.locks, id)
}

var errTxDone = errors.New("memory: transaction already finished")

// TxManager implements usecase.TransactionManager over a Store.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Tx{
		store:    m.store,
		held:     make(map[string]chan struct{}),
		balances: make(map[string]stagedBalance),
	}, nil
}

type stagedBalance struct {
	balance   decimal.Decimal
	updatedAt time.Time
}

// Tx buffers writes until Commit. Account locks taken through
// GetByIDForUpdate are released by Commit or Rollback.
type Tx struct {
	mu       sync.Mutex
	store    *Store
	done     bool
	held     map[string]chan struct{}
	accounts []*domain.Account
	balances map[string]stagedBalance
	txns     []*domain.Transaction
	events   []*domain.OutboxEvent
}

func asTx(tx usecase.Transaction) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok {
		return nil, fmt.Errorf("memory: unexpected transaction type %T", tx)
	}

	return t, nil
}

// stage runs fn with t.mu held unless t is already finished.
func (t *Tx) stage(fn func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return errTxDone
	}
	fn()

	return nil
}

func (t *Tx) holds(accountID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.held[accountID]
	return ok
}

func (t *Tx) hold(ctx context.Context, accountID string) error {
	if t.holds(accountID) {
		return nil
	}

	ch, err := t.store.lockAccount(ctx, accountID)
	if err != nil {
		return err
	}

	if err := t.stage(func() { t.held[accountID] = ch }); err != nil {
		unlock(ch)
		return err
	}

	return nil
}

func (t *Tx) release(accountID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ch, ok := t.held[accountID]; ok {
		delete(t.held, accountID)
		unlock(ch)
	}
}

// Commit applies the staged writes in one step. Uniqueness and references
// are checked first; on any violation nothing is applied.
func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return errTxDone
	}
	defer t.finish()

	if err := ctx.Err(); err != nil {
		return err
	}

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := t.check(); err != nil {
		return err
	}

	for _, a := range t.accounts {
		stored := *a
		s.accounts[a.ID] = &stored
		s.accountNumbers[a.Number] = a.ID
	}

	for id, staged := range t.balances {
		current := s.accounts[id]
		current.Balance = staged.balance
		current.UpdatedAt = staged.updatedAt
		current.Version++
	}

	for _, txn := range t.txns {
		stored := *txn
		s.transactions[txn.ID] = &stored
		s.references[txn.Reference] = txn.ID
	}

	for _, e := range t.events {
		stored := *e
		s.outbox[e.ID] = &stored
	}

	return nil
}

// check runs with s.mu held.
func (t *Tx) check() error {
	s := t.store

	numbers := make(map[string]bool)
	staged := make(map[string]bool)
	for _, a := range t.accounts {
		staged[a.ID] = true
		if _, ok := s.accountNumbers[a.Number]; ok || numbers[a.Number] {
			return fmt.Errorf("%w: account number %q", domain.ErrAlreadyExists, a.Number)
		}
		numbers[a.Number] = true

		if _, ok := s.customers[a.CustomerID]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, a.CustomerID)
		}
		if _, ok := s.branches[a.BranchID]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrBranchNotFound, a.BranchID)
		}
	}

	for id := range t.balances {
		if _, ok := s.accounts[id]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
		}
	}

	refs := make(map[string]bool)
	for _, txn := range t.txns {
		if _, ok := s.references[txn.Reference]; ok || refs[txn.Reference] {
			return fmt.Errorf("%w: %q", domain.ErrDuplicateReference, txn.Reference)
		}
		refs[txn.Reference] = true

		if _, ok := s.accounts[txn.AccountID]; !ok && !staged[txn.AccountID] {
			return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, txn.AccountID)
		}
	}

	return nil
}

// Rollback discards the staged writes. It is a no-op after Commit.
func (t *Tx) Rollback(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return nil
	}
	t.finish()

	return nil
}

// finish runs with t.mu held.
func (t *Tx) finish() {
	t.done = true

	ids := make([]string, 0, len(t.held))
	for id := range t.held {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		unlock(t.held[id])
	}

	t.held = nil
	t.accounts = nil
	t.balances = nil
	t.txns = nil
	t.events = nil
}
