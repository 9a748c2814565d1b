package application

import (
	"context"
	"strings"

	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	"github.com/sebuszqo/BudgetTracker/internal/finance/money"
	"github.com/shopspring/decimal"
)

// MatchingBudgets returns the budgets an expense counts against: same category
// (case-insensitive) and either a Personal budget or a Shared budget bound to the
// expense's source wallet. Non-expenses match nothing.
func MatchingBudgets(budgets []domain.Budget, tx domain.Transaction) []domain.Budget {
	var matched []domain.Budget
	for _, b := range budgets {
		if budgetMatches(b, tx) {
			matched = append(matched, b)
		}
	}
	return matched
}

func budgetMatches(b domain.Budget, tx domain.Transaction) bool {
	if tx.Type != domain.TransactionExpense {
		return false
	}
	if !strings.EqualFold(strings.TrimSpace(b.Category), strings.TrimSpace(tx.Category)) {
		return false
	}
	switch b.Plan {
	case domain.PlanPersonal:
		return true
	case domain.PlanShared:
		return b.WalletID != "" && b.WalletID == tx.WalletFrom
	}
	return false
}

// budgetTracks narrows budgetMatches to the budgets that actually absorb tx:
// a Personal budget only counts its owner's own spending.
func budgetTracks(b domain.Budget, tx domain.Transaction) bool {
	if !budgetMatches(b, tx) {
		return false
	}
	return b.Plan == domain.PlanShared || b.OwnerID == tx.CreatedBy
}

// candidateBudgets loads the creator's Personal budgets and every Shared budget
// bound to the source wallet. Apply and Revert both go through here so an edit
// touches the same set on both sides.
func candidateBudgets(ctx context.Context, stores domain.Stores, tx *domain.Transaction) ([]domain.Budget, error) {
	owned, err := stores.Budgets.ListByOwner(ctx, tx.CreatedBy)
	if err != nil {
		return nil, err
	}
	bound, err := stores.Budgets.ListByWallet(ctx, tx.WalletFrom)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(owned)+len(bound))
	var candidates []domain.Budget
	for _, b := range owned {
		if b.Plan != domain.PlanPersonal {
			continue
		}
		seen[b.ID] = struct{}{}
		candidates = append(candidates, b)
	}
	for _, b := range bound {
		if b.Plan != domain.PlanShared {
			continue
		}
		if _, dup := seen[b.ID]; dup {
			continue
		}
		seen[b.ID] = struct{}{}
		candidates = append(candidates, b)
	}
	return candidates, nil
}

// sumTracked is the unclamped spend a budget should carry for the given history.
func sumTracked(budget domain.Budget, transactions []domain.Transaction) decimal.Decimal {
	spent := decimal.Zero
	for _, tx := range transactions {
		if budgetTracks(budget, tx) {
			spent = spent.Add(tx.Amount)
		}
	}
	return money.Round(spent)
}
