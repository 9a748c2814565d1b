package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/BudgetTracker/internal/finance/errors"
	"github.com/sebuszqo/BudgetTracker/internal/finance/money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type NewWallet struct {
	Name           string
	Plan           domain.Plan
	OpeningBalance decimal.Decimal
}

func (w *NewWallet) Validate() error {
	validationErrors := &financeErrors.ValidationErrors{}
	name := strings.TrimSpace(w.Name)
	if name == "" {
		validationErrors.Add(financeErrors.NewFieldValidationError("name", "Wallet name is required"))
	} else if len(name) > 50 {
		validationErrors.Add(financeErrors.NewFieldValidationError("name", "Wallet name must be of length less than 50"))
	}
	if !domain.IsValidPlan(string(w.Plan)) {
		validationErrors.Add(financeErrors.NewFieldValidationError("plan", "Plan must be 'personal' or 'shared'"))
	}
	return validationErrors.ErrOrNil()
}

type WalletService struct {
	uow      domain.UnitOfWork
	notifier domain.ChangeNotifier
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

func NewWalletService(uow domain.UnitOfWork, notifier domain.ChangeNotifier, logger *zap.Logger) *WalletService {
	return &WalletService{
		uow:      uow,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

func (s *WalletService) CreateWallet(ctx context.Context, actor string, input NewWallet) (*domain.Wallet, error) {
	if input.Plan == "" {
		input.Plan = domain.PlanPersonal
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	opening := money.Round(input.OpeningBalance)
	wallet := &domain.Wallet{
		ID:             s.newID(),
		OwnerID:        actor,
		Name:           strings.TrimSpace(input.Name),
		Plan:           input.Plan,
		Balance:        opening,
		OpeningBalance: opening,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := s.uow.Do(ctx, func(ctx context.Context, stores domain.Stores) error {
		return stores.Wallets.Create(ctx, wallet)
	})
	if err != nil {
		logOutcome(s.logger, "create wallet", err, zap.String("actor", actor))
		return nil, err
	}
	return wallet, nil
}

func (s *WalletService) ListWallets(ctx context.Context, actor string) ([]domain.Wallet, error) {
	var wallets []domain.Wallet
	err := s.uow.Do(ctx, func(ctx context.Context, stores domain.Stores) error {
		var err error
		wallets, err = stores.Wallets.ListByUser(ctx, actor)
		return err
	})
	if err != nil {
		logOutcome(s.logger, "list wallets", err, zap.String("actor", actor))
		return nil, err
	}
	return wallets, nil
}

// DeleteWallet removes a wallet its owner no longer needs. Deletion is not a
// transaction, so a wallet that transactions or budgets still point at is refused.
func (s *WalletService) DeleteWallet(ctx context.Context, actor, walletID string) error {
	err := s.uow.Do(ctx, func(ctx context.Context, stores domain.Stores) error {
		wallet, err := stores.Wallets.Get(ctx, walletID)
		if err != nil {
			return err
		}
		if wallet.OwnerID != actor {
			return financeErrors.ErrForbidden
		}
		transactions, err := stores.Transactions.ListByWallet(ctx, walletID)
		if err != nil {
			return err
		}
		if len(transactions) > 0 {
			return financeErrors.NewFieldValidationError("wallet", "Wallet still has transactions, delete them first")
		}
		budgets, err := stores.Budgets.ListByWallet(ctx, walletID)
		if err != nil {
			return err
		}
		if len(budgets) > 0 {
			return financeErrors.NewFieldValidationError("wallet", "Wallet still has budgets bound to it, delete them first")
		}
		return stores.Wallets.Delete(ctx, walletID)
	})
	if err != nil {
		logOutcome(s.logger, "delete wallet", err, zap.String("wallet_id", walletID), zap.String("actor", actor))
		return err
	}

	s.notifier.DataChanged(ctx, domain.ChangeEvent{
		Kind:       domain.ChangeWalletDeleted,
		UserID:     actor,
		EntityID:   walletID,
		WalletIDs:  []string{walletID},
		OccurredAt: s.now(),
	})
	return nil
}
