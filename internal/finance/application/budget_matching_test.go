package application

import (
	"testing"

	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	"github.com/sebuszqo/BudgetTracker/internal/finance/money"
	"github.com/stretchr/testify/assert"
)

func budgetIDs(budgets []domain.Budget) []string {
	ids := make([]string, 0, len(budgets))
	for _, b := range budgets {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestMatchingBudgets(t *testing.T) {
	budgets := []domain.Budget{
		{ID: "personal", Category: "Food", Plan: domain.PlanPersonal},
		{ID: "personal-bound", Category: "food", Plan: domain.PlanPersonal, WalletID: "elsewhere"},
		{ID: "shared-w", Category: "FOOD ", Plan: domain.PlanShared, WalletID: "w"},
		{ID: "shared-x", Category: "Food", Plan: domain.PlanShared, WalletID: "x"},
		{ID: "shared-unbound", Category: "Food", Plan: domain.PlanShared},
		{ID: "transport", Category: "Transport", Plan: domain.PlanPersonal},
		{ID: "no-plan", Category: "Food"},
	}

	tests := []struct {
		name string
		tx   domain.Transaction
		want []string
	}{
		{
			name: "expense on bound wallet",
			tx:   domain.Transaction{Type: domain.TransactionExpense, Category: "Food", WalletFrom: "w"},
			want: []string{"personal", "personal-bound", "shared-w"},
		},
		{
			name: "expense on unrelated wallet hits personal only",
			tx:   domain.Transaction{Type: domain.TransactionExpense, Category: "fOOd", WalletFrom: "z"},
			want: []string{"personal", "personal-bound"},
		},
		{
			name: "other category",
			tx:   domain.Transaction{Type: domain.TransactionExpense, Category: "Transport", WalletFrom: "w"},
			want: []string{"transport"},
		},
		{
			name: "income never matches",
			tx:   domain.Transaction{Type: domain.TransactionIncome, Category: "Food", WalletFrom: "w"},
			want: []string{},
		},
		{
			name: "transfer never matches",
			tx:   domain.Transaction{Type: domain.TransactionTransfer, Category: "Food", WalletFrom: "w", WalletTo: "x"},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, budgetIDs(MatchingBudgets(budgets, tt.tx)))
		})
	}
}

func TestBudgetTracks_PersonalBudgetsOnlyCountOwnSpend(t *testing.T) {
	personal := domain.Budget{ID: "p", OwnerID: "alice", Category: "Food", Plan: domain.PlanPersonal}
	shared := domain.Budget{ID: "s", OwnerID: "alice", Category: "Food", Plan: domain.PlanShared, WalletID: "w"}
	bobsLunch := domain.Transaction{Type: domain.TransactionExpense, Category: "Food", WalletFrom: "w", CreatedBy: "bob"}

	assert.False(t, budgetTracks(personal, bobsLunch))
	assert.True(t, budgetTracks(shared, bobsLunch))
}

func TestSumTracked(t *testing.T) {
	budget := domain.Budget{OwnerID: "u1", Category: "Food", Plan: domain.PlanPersonal}
	history := []domain.Transaction{
		{Type: domain.TransactionExpense, Category: "Food", Amount: money.MustParse("10.10"), CreatedBy: "u1"},
		{Type: domain.TransactionExpense, Category: "food", Amount: money.MustParse("0.05"), CreatedBy: "u1"},
		{Type: domain.TransactionExpense, Category: "Bills", Amount: money.MustParse("99"), CreatedBy: "u1"},
		{Type: domain.TransactionIncome, Category: "Food", Amount: money.MustParse("99"), CreatedBy: "u1"},
		{Type: domain.TransactionExpense, Category: "Food", Amount: money.MustParse("99"), CreatedBy: "u2"},
	}

	assert.Equal(t, "10.15", money.Format(sumTracked(budget, history)))
}
