package application

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/BudgetTracker/internal/finance/errors"
	"go.uber.org/zap"
)

// ResolveCategories merges built-in names, names used by budgets and saved custom
// categories into one list. Duplicates are dropped case-sensitively, first
// occurrence wins, and the Custom sentinel never appears.
func ResolveCategories(base []string, budgets []domain.Budget, custom []string) []string {
	seen := make(map[string]struct{}, len(base)+len(budgets)+len(custom))
	resolved := make([]string, 0, len(base)+len(budgets)+len(custom))
	add := func(name string) {
		if name == "" || domain.IsCustomCategorySentinel(name) {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		resolved = append(resolved, name)
	}

	for _, name := range base {
		add(name)
	}
	for _, b := range budgets {
		add(strings.TrimSpace(b.Category))
	}
	for _, name := range custom {
		add(strings.TrimSpace(name))
	}
	return resolved
}

type CategoryService struct {
	uow    domain.UnitOfWork
	cache  *cache.Cache
	logger *zap.Logger
}

func NewCategoryService(uow domain.UnitOfWork, ttl time.Duration, logger *zap.Logger) *CategoryService {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &CategoryService{
		uow:    uow,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger,
	}
}

// ListCategories returns the picker candidates for a user.
func (s *CategoryService) ListCategories(ctx context.Context, userID string) ([]string, error) {
	if cached, found := s.cache.Get(userID); found {
		return append([]string(nil), cached.([]string)...), nil
	}

	var budgets []domain.Budget
	var custom []string
	err := s.uow.Do(ctx, func(ctx context.Context, stores domain.Stores) error {
		var err error
		if budgets, err = stores.Budgets.ListByOwner(ctx, userID); err != nil {
			return err
		}
		custom, err = stores.Categories.List(ctx, userID)
		return err
	})
	if err != nil {
		logOutcome(s.logger, "list categories", err, zap.String("user_id", userID))
		return nil, err
	}

	resolved := ResolveCategories(domain.BuiltinCategories, budgets, custom)
	s.cache.Set(userID, resolved, cache.DefaultExpiration)
	return append([]string(nil), resolved...), nil
}

// AddCustomCategory saves a free-text category. Saving an existing name is a no-op.
func (s *CategoryService) AddCustomCategory(ctx context.Context, userID, name string) (string, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return "", financeErrors.NewFieldValidationError("name", "Category name is required")
	case domain.IsCustomCategorySentinel(name):
		return "", financeErrors.NewFieldValidationError("name", "Category name is reserved")
	case len(name) > 50:
		return "", financeErrors.NewFieldValidationError("name", "Category name must be of length less than 50")
	}

	err := s.uow.Do(ctx, func(ctx context.Context, stores domain.Stores) error {
		return stores.Categories.Create(ctx, userID, name)
	})
	if err != nil {
		logOutcome(s.logger, "add custom category", err, zap.String("user_id", userID))
		return "", err
	}
	s.Invalidate(userID)
	return name, nil
}

func (s *CategoryService) Invalidate(userID string) {
	s.cache.Delete(userID)
}
