package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	"github.com/sebuszqo/BudgetTracker/internal/finance/infrastructure"
	"github.com/sebuszqo/BudgetTracker/internal/finance/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

type RecordingNotifier struct {
	mu     sync.Mutex
	Events []domain.ChangeEvent
}

func (n *RecordingNotifier) DataChanged(_ context.Context, event domain.ChangeEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Events = append(n.Events, event)
}

type RecordingInvalidator struct {
	Users []string
}

func (i *RecordingInvalidator) Invalidate(userID string) {
	i.Users = append(i.Users, userID)
}

type engineFixture struct {
	store       *infrastructure.MemoryStore
	notifier    *RecordingNotifier
	invalidator *RecordingInvalidator
	service     *ReconciliationService
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	store := infrastructure.NewMemoryStore()
	notifier := &RecordingNotifier{}
	invalidator := &RecordingInvalidator{}
	service := NewReconciliationService(store, notifier, invalidator, zap.NewNop())
	service.now = func() time.Time { return fixedNow }
	return &engineFixture{store: store, notifier: notifier, invalidator: invalidator, service: service}
}

func seedWallet(store *infrastructure.MemoryStore, id, owner, balance string, plan domain.Plan, collaborators ...domain.Collaborator) {
	amount := money.MustParse(balance)
	store.SeedWallet(domain.Wallet{
		ID:             id,
		OwnerID:        owner,
		Name:           id,
		Plan:           plan,
		Balance:        amount,
		OpeningBalance: amount,
		Collaborators:  collaborators,
		Version:        1,
		CreatedAt:      fixedNow,
		UpdatedAt:      fixedNow,
	})
}

func seedBudget(store *infrastructure.MemoryStore, id, owner, category, amount string, plan domain.Plan, walletID string) {
	b := domain.Budget{
		ID:        id,
		OwnerID:   owner,
		Category:  category,
		Period:    domain.PeriodMonthly,
		Plan:      plan,
		WalletID:  walletID,
		Version:   1,
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}
	b.SetAmount(money.MustParse(amount))
	store.SeedBudget(b)
}

func expense(amount, category, wallet string) SaveIntent {
	return SaveIntent{Input: domain.TransactionInput{
		Type:       domain.TransactionExpense,
		Amount:     money.MustParse(amount),
		DateTime:   fixedNow,
		Category:   category,
		WalletFrom: wallet,
	}}
}

func income(amount, wallet string) SaveIntent {
	return SaveIntent{Input: domain.TransactionInput{
		Type:       domain.TransactionIncome,
		Amount:     money.MustParse(amount),
		DateTime:   fixedNow,
		Category:   "Salary",
		WalletFrom: wallet,
	}}
}

func transfer(amount, from, to string) SaveIntent {
	return SaveIntent{Input: domain.TransactionInput{
		Type:       domain.TransactionTransfer,
		Amount:     money.MustParse(amount),
		DateTime:   fixedNow,
		WalletFrom: from,
		WalletTo:   to,
	}}
}

func assertBalance(t *testing.T, store *infrastructure.MemoryStore, walletID, want string) {
	t.Helper()
	w, ok := store.Wallet(walletID)
	require.True(t, ok, "wallet %s missing", walletID)
	assert.Equal(t, want, money.Format(w.Balance), "balance of %s", walletID)
}

func assertLeft(t *testing.T, store *infrastructure.MemoryStore, budgetID, want string) {
	t.Helper()
	b, ok := store.Budget(budgetID)
	require.True(t, ok, "budget %s missing", budgetID)
	assert.Equal(t, want, money.Format(b.Left), "left of %s", budgetID)
}
