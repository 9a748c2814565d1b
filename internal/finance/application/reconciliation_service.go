package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/BudgetTracker/internal/finance/errors"
	"github.com/sebuszqo/BudgetTracker/internal/finance/money"
	"go.uber.org/zap"
)

// CategoryCacheInvalidator drops a user's cached category candidates.
type CategoryCacheInvalidator interface {
	Invalidate(userID string)
}

// SaveIntent describes a new transaction (OriginalID empty) or an edit of an existing one.
type SaveIntent struct {
	OriginalID     string
	Input          domain.TransactionInput
	CustomCategory string
}

func (i SaveIntent) IsEdit() bool {
	return i.OriginalID != ""
}

// ReconciliationService keeps wallet balances and budget figures in step with the
// transaction history. Every mutation runs inside one unit of work.
type ReconciliationService struct {
	uow        domain.UnitOfWork
	notifier   domain.ChangeNotifier
	categories CategoryCacheInvalidator
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

func NewReconciliationService(uow domain.UnitOfWork, notifier domain.ChangeNotifier, categories CategoryCacheInvalidator, logger *zap.Logger) *ReconciliationService {
	return &ReconciliationService{
		uow:        uow,
		notifier:   notifier,
		categories: categories,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

// Apply commits tx's monetary effect onto wallets and matching budgets.
func (s *ReconciliationService) Apply(ctx context.Context, stores domain.Stores, tx *domain.Transaction) error {
	return s.applyEffect(ctx, stores, tx, false)
}

// Revert is the exact inverse of Apply. Budgets get the full amount back on Spent;
// Left is re-derived, so a clamped expense never overcredits past Amount.
func (s *ReconciliationService) Revert(ctx context.Context, stores domain.Stores, tx *domain.Transaction) error {
	return s.applyEffect(ctx, stores, tx, true)
}

func (s *ReconciliationService) applyEffect(ctx context.Context, stores domain.Stores, tx *domain.Transaction, reverse bool) error {
	now := s.now()
	for _, walletID := range tx.Wallets() {
		delta := tx.SignedAmountFor(walletID)
		if reverse {
			delta = delta.Neg()
		}
		wallet, err := stores.Wallets.Get(ctx, walletID)
		if err != nil {
			return err
		}
		wallet.Balance = money.Round(wallet.Balance.Add(delta))
		wallet.UpdatedAt = now
		if err := stores.Wallets.Update(ctx, wallet); err != nil {
			return err
		}
	}

	if tx.Type != domain.TransactionExpense {
		return nil
	}

	candidates, err := candidateBudgets(ctx, stores, tx)
	if err != nil {
		return err
	}
	for _, budget := range MatchingBudgets(candidates, *tx) {
		budget := budget
		if reverse {
			budget.SetSpent(budget.Spent.Sub(tx.Amount))
		} else {
			budget.SetSpent(budget.Spent.Add(tx.Amount))
		}
		budget.UpdatedAt = now
		if err := stores.Budgets.Update(ctx, &budget); err != nil {
			return err
		}
	}
	return nil
}

// Save validates the intent, then in one unit of work reverts and removes the
// original (on edit), persists any custom category, stores the new record and
// applies it. Observers are notified only after a successful commit.
func (s *ReconciliationService) Save(ctx context.Context, actor string, intent SaveIntent) (*domain.Transaction, error) {
	input := intent.Input
	input.Amount = money.Round(input.Amount)
	if err := input.Validate(intent.CustomCategory); err != nil {
		return nil, err
	}

	category := strings.TrimSpace(input.Category)
	custom := strings.TrimSpace(intent.CustomCategory)
	if custom != "" {
		category = custom
	}

	now := s.now()
	tx := &domain.Transaction{
		ID:          s.newID(),
		Type:        input.Type,
		Amount:      input.Amount,
		DateTime:    input.DateTime,
		Category:    category,
		WalletFrom:  strings.TrimSpace(input.WalletFrom),
		Description: strings.TrimSpace(input.Description),
		CreatedBy:   actor,
		CreatedAt:   now,
		UpdatedBy:   actor,
		UpdatedAt:   now,
	}
	if tx.Type == domain.TransactionTransfer {
		tx.WalletTo = strings.TrimSpace(input.WalletTo)
	}
	if tx.DateTime.IsZero() {
		tx.DateTime = now
	}

	touched := tx.Wallets()
	err := s.uow.Do(ctx, func(ctx context.Context, stores domain.Stores) error {
		if intent.IsEdit() {
			original, err := stores.Transactions.Get(ctx, intent.OriginalID)
			if err != nil {
				return err
			}
			if err := s.authorize(ctx, stores, actor, original); err != nil {
				return err
			}
			if err := s.Revert(ctx, stores, original); err != nil {
				return err
			}
			if err := stores.Transactions.Delete(ctx, original.ID); err != nil {
				return err
			}
			tx.ID = original.ID
			tx.CreatedBy = original.CreatedBy
			tx.CreatedAt = original.CreatedAt
			touched = append(touched, original.Wallets()...)
		}

		if err := s.authorize(ctx, stores, actor, tx); err != nil {
			return err
		}
		if custom != "" {
			if err := stores.Categories.Create(ctx, actor, custom); err != nil {
				return err
			}
		}
		if err := stores.Transactions.Create(ctx, tx); err != nil {
			return err
		}
		return s.Apply(ctx, stores, tx)
	})
	if err != nil {
		logOutcome(s.logger, "save transaction", err,
			zap.String("transaction_id", tx.ID),
			zap.String("original_id", intent.OriginalID),
			zap.String("actor", actor))
		return nil, err
	}

	if custom != "" && s.categories != nil {
		s.categories.Invalidate(actor)
	}
	s.notifier.DataChanged(ctx, domain.ChangeEvent{
		Kind:       domain.ChangeTransactionSaved,
		UserID:     actor,
		EntityID:   tx.ID,
		WalletIDs:  uniqueStrings(touched),
		OccurredAt: now,
	})
	s.logger.Info("transaction saved",
		zap.String("transaction_id", tx.ID),
		zap.String("type", string(tx.Type)),
		zap.String("amount", money.Format(tx.Amount)),
		zap.Bool("edit", intent.IsEdit()))
	return tx, nil
}

// Delete reverts the transaction's effect and removes the record.
func (s *ReconciliationService) Delete(ctx context.Context, actor, transactionID string) error {
	var touched []string
	err := s.uow.Do(ctx, func(ctx context.Context, stores domain.Stores) error {
		tx, err := stores.Transactions.Get(ctx, transactionID)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, stores, actor, tx); err != nil {
			return err
		}
		if err := s.Revert(ctx, stores, tx); err != nil {
			return err
		}
		touched = tx.Wallets()
		return stores.Transactions.Delete(ctx, tx.ID)
	})
	if err != nil {
		logOutcome(s.logger, "delete transaction", err,
			zap.String("transaction_id", transactionID),
			zap.String("actor", actor))
		return err
	}

	s.notifier.DataChanged(ctx, domain.ChangeEvent{
		Kind:       domain.ChangeTransactionDeleted,
		UserID:     actor,
		EntityID:   transactionID,
		WalletIDs:  touched,
		OccurredAt: s.now(),
	})
	return nil
}

func (s *ReconciliationService) ListTransactions(ctx context.Context, actor, walletID string) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	err := s.uow.Do(ctx, func(ctx context.Context, stores domain.Stores) error {
		wallet, err := stores.Wallets.Get(ctx, walletID)
		if err != nil {
			return err
		}
		if !wallet.CanRead(actor) {
			return financeErrors.ErrForbidden
		}
		transactions, err = stores.Transactions.ListByWallet(ctx, walletID)
		return err
	})
	if err != nil {
		logOutcome(s.logger, "list transactions", err, zap.String("wallet_id", walletID))
		return nil, err
	}
	return transactions, nil
}

func (s *ReconciliationService) authorize(ctx context.Context, stores domain.Stores, actor string, tx *domain.Transaction) error {
	for _, walletID := range tx.Wallets() {
		wallet, err := stores.Wallets.Get(ctx, walletID)
		if err != nil {
			return err
		}
		if !wallet.CanWrite(actor) {
			return financeErrors.ErrForbidden
		}
	}
	return nil
}

// logOutcome logs caller mistakes at info and everything else as a store failure.
func logOutcome(logger *zap.Logger, op string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	switch {
	case financeErrors.IsValidationError(err), financeErrors.IsValidationErrors(err),
		financeErrors.IsNotFound(err), errors.Is(err, financeErrors.ErrForbidden):
		logger.Info(op+" rejected", fields...)
	case errors.Is(err, financeErrors.ErrVersionConflict):
		logger.Warn(op+" hit a concurrent update", fields...)
	default:
		logger.Error(op+" failed", fields...)
	}
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
