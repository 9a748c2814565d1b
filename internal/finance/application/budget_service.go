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

type NewBudget struct {
	Category string
	Amount   decimal.Decimal
	Period   domain.Period
	Plan     domain.Plan
	WalletID string
}

func (b *NewBudget) Validate() error {
	validationErrors := &financeErrors.ValidationErrors{}
	category := strings.TrimSpace(b.Category)
	if category == "" || domain.IsCustomCategorySentinel(category) {
		validationErrors.Add(financeErrors.NewFieldValidationError("category", "Category is required"))
	}
	if !b.Amount.IsPositive() {
		validationErrors.Add(financeErrors.ErrInvalidAmount)
	}
	if !domain.IsValidPeriod(string(b.Period)) {
		validationErrors.Add(financeErrors.NewFieldValidationError("period", "Period must be 'weekly', 'monthly' or 'one-time'"))
	}
	if !domain.IsValidPlan(string(b.Plan)) {
		validationErrors.Add(financeErrors.NewFieldValidationError("plan", "Plan must be 'personal' or 'shared'"))
	}
	if b.Plan == domain.PlanShared && strings.TrimSpace(b.WalletID) == "" {
		validationErrors.Add(financeErrors.NewFieldValidationError("wallet_id", "Shared budgets must be bound to a wallet"))
	}
	return validationErrors.ErrOrNil()
}

type BudgetService struct {
	uow        domain.UnitOfWork
	notifier   domain.ChangeNotifier
	categories CategoryCacheInvalidator
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

func NewBudgetService(uow domain.UnitOfWork, notifier domain.ChangeNotifier, categories CategoryCacheInvalidator, logger *zap.Logger) *BudgetService {
	return &BudgetService{
		uow:        uow,
		notifier:   notifier,
		categories: categories,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

// CreateBudget stores a new budget with Spent seeded from the expenses already on
// record, so Left reflects the history from the start. Shared budgets take the
// wallet's name and member list.
func (s *BudgetService) CreateBudget(ctx context.Context, actor string, input NewBudget) (*domain.Budget, error) {
	if input.Plan == "" {
		input.Plan = domain.PlanPersonal
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	budget := &domain.Budget{
		ID:        s.newID(),
		OwnerID:   actor,
		Category:  strings.TrimSpace(input.Category),
		Period:    input.Period,
		Plan:      input.Plan,
		CreatedAt: now,
		UpdatedAt: now,
	}
	budget.SetAmount(input.Amount)

	err := s.uow.Do(ctx, func(ctx context.Context, stores domain.Stores) error {
		history, err := s.seedHistory(ctx, stores, actor, budget, strings.TrimSpace(input.WalletID))
		if err != nil {
			return err
		}
		budget.SetSpent(sumTracked(*budget, history))
		return stores.Budgets.Create(ctx, budget)
	})
	if err != nil {
		logOutcome(s.logger, "create budget", err, zap.String("actor", actor))
		return nil, err
	}

	s.afterBudgetChange(ctx, actor, budget, now)
	return budget, nil
}

// seedHistory binds the budget to its wallet (when given) and returns the
// transactions that may count against it.
func (s *BudgetService) seedHistory(ctx context.Context, stores domain.Stores, actor string, budget *domain.Budget, walletID string) ([]domain.Transaction, error) {
	if walletID != "" {
		wallet, err := stores.Wallets.Get(ctx, walletID)
		if err != nil {
			return nil, err
		}
		if !wallet.CanWrite(actor) {
			return nil, financeErrors.ErrForbidden
		}
		if budget.Plan == domain.PlanShared && wallet.Plan != domain.PlanShared {
			return nil, financeErrors.NewFieldValidationError("wallet_id", "Shared budgets must be bound to a shared wallet")
		}
		budget.WalletID = wallet.ID
		budget.WalletName = wallet.Name
		if budget.Plan == domain.PlanShared {
			budget.Collaborators = domain.CloneCollaborators(wallet.Collaborators)
			return stores.Transactions.ListByWallet(ctx, wallet.ID)
		}
	}

	return stores.Transactions.ListByCreator(ctx, actor)
}

// ListBudgets returns the actor's own budgets plus the Shared budgets of every wallet they belong to.
func (s *BudgetService) ListBudgets(ctx context.Context, actor string) ([]domain.Budget, error) {
	var budgets []domain.Budget
	err := s.uow.Do(ctx, func(ctx context.Context, stores domain.Stores) error {
		owned, err := stores.Budgets.ListByOwner(ctx, actor)
		if err != nil {
			return err
		}
		seen := make(map[string]struct{}, len(owned))
		for _, b := range owned {
			seen[b.ID] = struct{}{}
		}
		budgets = owned

		wallets, err := stores.Wallets.ListByUser(ctx, actor)
		if err != nil {
			return err
		}
		for _, w := range wallets {
			if w.Plan != domain.PlanShared {
				continue
			}
			bound, err := stores.Budgets.ListByWallet(ctx, w.ID)
			if err != nil {
				return err
			}
			for _, b := range bound {
				if _, dup := seen[b.ID]; dup || b.Plan != domain.PlanShared {
					continue
				}
				seen[b.ID] = struct{}{}
				budgets = append(budgets, b)
			}
		}
		return nil
	})
	if err != nil {
		logOutcome(s.logger, "list budgets", err, zap.String("actor", actor))
		return nil, err
	}
	return budgets, nil
}

// UpdateBudgetAmount changes the allocation while keeping what was already spent:
// Left becomes max(newAmount - Spent, 0).
func (s *BudgetService) UpdateBudgetAmount(ctx context.Context, actor, budgetID string, amount decimal.Decimal) (*domain.Budget, error) {
	amount = money.Round(amount)
	if !amount.IsPositive() {
		return nil, financeErrors.ErrInvalidAmount
	}

	now := s.now()
	var budget *domain.Budget
	err := s.uow.Do(ctx, func(ctx context.Context, stores domain.Stores) error {
		var err error
		budget, err = stores.Budgets.Get(ctx, budgetID)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, stores, actor, budget); err != nil {
			return err
		}
		budget.SetAmount(amount)
		budget.UpdatedAt = now
		return stores.Budgets.Update(ctx, budget)
	})
	if err != nil {
		logOutcome(s.logger, "update budget amount", err, zap.String("budget_id", budgetID), zap.String("actor", actor))
		return nil, err
	}

	s.afterBudgetChange(ctx, actor, budget, now)
	return budget, nil
}

func (s *BudgetService) DeleteBudget(ctx context.Context, actor, budgetID string) error {
	var budget *domain.Budget
	err := s.uow.Do(ctx, func(ctx context.Context, stores domain.Stores) error {
		var err error
		budget, err = stores.Budgets.Get(ctx, budgetID)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, stores, actor, budget); err != nil {
			return err
		}
		return stores.Budgets.Delete(ctx, budgetID)
	})
	if err != nil {
		logOutcome(s.logger, "delete budget", err, zap.String("budget_id", budgetID), zap.String("actor", actor))
		return err
	}

	s.afterBudgetChange(ctx, actor, budget, s.now())
	return nil
}

// authorize lets the owner through, and editors of the bound wallet for Shared budgets.
func (s *BudgetService) authorize(ctx context.Context, stores domain.Stores, actor string, budget *domain.Budget) error {
	if budget.OwnerID == actor {
		return nil
	}
	if !budget.IsShared() || budget.WalletID == "" {
		return financeErrors.ErrForbidden
	}
	wallet, err := stores.Wallets.Get(ctx, budget.WalletID)
	if err != nil {
		return err
	}
	if !wallet.CanWrite(actor) {
		return financeErrors.ErrForbidden
	}
	return nil
}

func (s *BudgetService) afterBudgetChange(ctx context.Context, actor string, budget *domain.Budget, now time.Time) {
	if s.categories != nil {
		s.categories.Invalidate(budget.OwnerID)
	}
	event := domain.ChangeEvent{
		Kind:       domain.ChangeBudgetUpdated,
		UserID:     actor,
		EntityID:   budget.ID,
		OccurredAt: now,
	}
	if budget.WalletID != "" {
		event.WalletIDs = []string{budget.WalletID}
	}
	s.notifier.DataChanged(ctx, event)
}
