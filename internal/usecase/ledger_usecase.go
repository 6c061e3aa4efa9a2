package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// LedgerUseCase applies deposits and withdrawals to account balances.
type LedgerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	recorder    LedgerRecorder
	logger      zerolog.Logger
	timeout     time.Duration
	now         func() time.Time
}

// NewLedgerUseCase creates a new LedgerUseCase. A nil recorder disables
// metrics.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	recorder LedgerRecorder,
	logger zerolog.Logger,
) *LedgerUseCase {
	if recorder == nil {
		recorder = noopRecorder{}
	}

	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		recorder:    recorder,
		logger:      logger.With().Str("component", "ledger").Logger(),
		timeout:     DefaultTransactionTimeout,
		now:         time.Now,
	}
}

// PostTransactionInput represents a deposit or withdrawal request.
type PostTransactionInput struct {
	PerformedAt *time.Time
	AccountID   string
	Type        domain.TransactionType
	Amount      decimal.Decimal
	Reference   string
}

// PostTransactionResult is the created record and the balance it produced.
type PostTransactionResult struct {
	Transaction *domain.Transaction
	NewBalance  decimal.Decimal
}

// PostTransaction validates and applies a transaction to its account as one
// atomic unit. The reference acts as an idempotency key: resubmitting it fails
// with domain.ErrDuplicateReference instead of posting twice.
func (uc *LedgerUseCase) PostTransaction(ctx context.Context, input PostTransactionInput) (*PostTransactionResult, error) {
	start := time.Now()

	result, err := uc.post(ctx, input)
	if err != nil {
		kind := domain.KindOf(err)
		uc.recorder.ObserveRejected(kind)

		event := uc.logger.Debug()
		if kind == domain.KindPersist || kind == domain.KindInternal {
			event = uc.logger.Error()
		}
		event.Err(err).
			Str("account_id", input.AccountID).
			Str("reference", input.Reference).
			Str("txn_type", string(input.Type)).
			Str("error_kind", string(kind)).
			Msg("transaction rejected")

		return nil, err
	}

	uc.recorder.ObservePosted(result.Transaction.Type, input.Amount, time.Since(start))
	uc.logger.Info().
		Str("account_id", input.AccountID).
		Str("transaction_id", result.Transaction.ID).
		Str("reference", input.Reference).
		Str("txn_type", string(result.Transaction.Type)).
		Str("amount", input.Amount.String()).
		Str("new_balance", result.NewBalance.String()).
		Msg("transaction posted")

	return result, nil
}

func (uc *LedgerUseCase) post(ctx context.Context, input PostTransactionInput) (*PostTransactionResult, error) {
	// 0. Static checks, no storage access
	if err := domain.ValidateReference(input.Reference); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	txnType, err := domain.ParseTransactionType(string(input.Type))
	if err != nil {
		return nil, err
	}
	input.Type = txnType

	// 1. Fail fast on a used reference; the unique constraint decides at commit
	exists, err := uc.txnRepo.ReferenceExists(ctx, input.Reference)
	if err != nil {
		return nil, persistError("check reference", err)
	}

	if exists {
		return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateReference, input.Reference)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	// 2. Begin and lock the account
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, persistError("begin", err)
	}
	// Rollback after a successful commit is a no-op; it must also run when
	// ctx is already cancelled so the lock is always released.
	defer tx.Rollback(context.WithoutCancel(ctx)) //nolint:errcheck

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
	if err != nil {
		return nil, persistError("lock account", err)
	}

	// 3. Re-validate against the balance read under the lock
	if err := domain.ValidateTransaction(account, input.Type, input.Amount); err != nil {
		return nil, err
	}

	// 4. Compute the new balance
	newBalance := account.Apply(input.Type, input.Amount)
	now := uc.now().UTC()

	performedAt := now
	if input.PerformedAt != nil {
		performedAt = input.PerformedAt.UTC()
	}

	txn := &domain.Transaction{
		ID:           uc.idGen.Generate(),
		AccountID:    account.ID,
		Type:         input.Type,
		Amount:       input.Amount,
		Reference:    input.Reference,
		BalanceAfter: newBalance,
		PerformedAt:  performedAt,
		CreatedAt:    now,
	}

	// 5. Stage balance, record and event, then commit them together
	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
		return nil, persistError("update balance", err)
	}

	if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
		return nil, persistError("create transaction", err)
	}

	if err := uc.outboxRepo.Create(ctx, tx, uc.postedEvent(txn)); err != nil {
		return nil, persistError("create outbox event", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, persistError("commit", err)
	}

	// 6. Lock released by commit
	return &PostTransactionResult{Transaction: txn, NewBalance: newBalance}, nil
}

func (uc *LedgerUseCase) postedEvent(txn *domain.Transaction) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   txn.AccountID,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeTransactionPosted,
		Payload: domain.TransactionPostedEvent{
			TransactionID: txn.ID,
			AccountID:     txn.AccountID,
			Type:          string(txn.Type),
			Amount:        txn.Amount.String(),
			Reference:     txn.Reference,
			BalanceAfter:  txn.BalanceAfter.String(),
			PerformedAt:   txn.PerformedAt.Format(time.RFC3339Nano),
		}.Map(),
		CreatedAt: txn.CreatedAt,
	}
}

// GetTransaction retrieves a transaction by ID.
func (uc *LedgerUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txnRepo.GetByID(ctx, id)
}

// persistError classifies a storage failure of the ledger update. Duplicate
// references, missing accounts and cancellation keep their own kind.
func persistError(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrDuplicateReference), errors.Is(err, domain.ErrAccountNotFound):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%w: %s: %w", domain.ErrPersist, op, err)
	}
}

type noopRecorder struct{}

func (noopRecorder) ObservePosted(domain.TransactionType, decimal.Decimal, time.Duration) {}
func (noopRecorder) ObserveRejected(domain.ErrorKind)                                   {}
