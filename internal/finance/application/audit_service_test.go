package application

import (
	"context"
	"testing"

	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	"github.com/sebuszqo/BudgetTracker/internal/finance/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func corruptState(t *testing.T, f *engineFixture) {
	t.Helper()
	ctx := context.Background()
	seedWallet(f.store, "cash", "u1", "1000.00", domain.PlanPersonal)
	seedBudget(f.store, "food", "u1", "Food", "500.00", domain.PlanPersonal, "")
	_, err := f.service.Save(ctx, "u1", expense("150.00", "Food", "cash"))
	require.NoError(t, err)

	w, _ := f.store.Wallet("cash")
	w.Balance = money.MustParse("999.99")
	f.store.SeedWallet(w)
	b, _ := f.store.Budget("food")
	b.Left = money.MustParse("500.00")
	f.store.SeedBudget(b)
}

func TestDriftAuditor_ReportsWithoutRepair(t *testing.T) {
	f := newEngineFixture(t)
	corruptState(t, f)

	report, err := NewDriftAuditor(f.store, false, zap.NewNop()).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Wallets, 1)
	assert.Equal(t, "999.99", money.Format(report.Wallets[0].Stored))
	assert.Equal(t, "850.00", money.Format(report.Wallets[0].Expected))
	require.Len(t, report.Budgets, 1)
	assert.Equal(t, "350.00", money.Format(report.Budgets[0].ExpectedLeft))
	assert.False(t, report.Repaired)

	assertBalance(t, f.store, "cash", "999.99")
}

func TestDriftAuditor_Repairs(t *testing.T) {
	f := newEngineFixture(t)
	corruptState(t, f)
	auditor := NewDriftAuditor(f.store, true, zap.NewNop())

	report, err := auditor.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Repaired)
	assertBalance(t, f.store, "cash", "850.00")
	assertLeft(t, f.store, "food", "350.00")

	again, err := auditor.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, again.Clean())
	assert.False(t, again.Repaired)
}

func TestDriftAuditor_SharedWalletHistory(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	seedWallet(f.store, "house", "alice", "0", domain.PlanShared, bob)
	seedBudget(f.store, "groceries", "alice", "Food", "200", domain.PlanShared, "house")
	groceries, _ := f.store.Budget("groceries")
	groceries.Collaborators = []domain.Collaborator{bob}
	f.store.SeedBudget(groceries)
	seedBudget(f.store, "alice-food", "alice", "Food", "200", domain.PlanPersonal, "")
	seedBudget(f.store, "bob-food", "bob", "Food", "200", domain.PlanPersonal, "")

	_, err := f.service.Save(ctx, "alice", expense("20", "Food", "house"))
	require.NoError(t, err)
	_, err = f.service.Save(ctx, "bob", expense("30", "Food", "house"))
	require.NoError(t, err)

	assertLeft(t, f.store, "groceries", "150.00")
	assertLeft(t, f.store, "alice-food", "180.00")
	assertLeft(t, f.store, "bob-food", "170.00")

	report, err := NewDriftAuditor(f.store, false, zap.NewNop()).Run(ctx)
	require.NoError(t, err)
	assert.True(t, report.Clean(), "incremental updates must agree with recomputation: %+v", report)
}

func TestDriftAuditor_MirrorDrift(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	seedWallet(f.store, "house", "alice", "0", domain.PlanShared, bob, carol)
	seedBudget(f.store, "groceries", "alice", "Food", "200", domain.PlanShared, "house")
	seedBudget(f.store, "personal", "alice", "Food", "200", domain.PlanPersonal, "house")
	stale, _ := f.store.Budget("groceries")
	stale.Collaborators = []domain.Collaborator{bob}
	f.store.SeedBudget(stale)

	report, err := NewDriftAuditor(f.store, false, zap.NewNop()).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []MirrorDrift{{BudgetID: "groceries", WalletID: "house"}}, report.Mirrors)
	assert.Empty(t, report.Budgets)
	assert.False(t, report.Clean())

	report, err = NewDriftAuditor(f.store, true, zap.NewNop()).Run(ctx)
	require.NoError(t, err)
	assert.True(t, report.Repaired)
	repaired, _ := f.store.Budget("groceries")
	assert.True(t, domain.SameCollaborators([]domain.Collaborator{bob, carol}, repaired.Collaborators))
	assertLeft(t, f.store, "groceries", "200.00")

	again, err := NewDriftAuditor(f.store, false, zap.NewNop()).Run(ctx)
	require.NoError(t, err)
	assert.True(t, again.Clean())
}

func TestDriftAuditor_SpendAndMirrorRepairedInOneWrite(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	seedWallet(f.store, "house", "alice", "0", domain.PlanShared, bob)
	seedBudget(f.store, "groceries", "alice", "Food", "200", domain.PlanShared, "house")
	_, err := f.service.Save(ctx, "alice", expense("50", "Food", "house"))
	require.NoError(t, err)
	b, _ := f.store.Budget("groceries")
	b.Left = money.MustParse("200.00")
	f.store.SeedBudget(b)

	report, err := NewDriftAuditor(f.store, true, zap.NewNop()).Run(ctx)
	require.NoError(t, err)
	assert.Len(t, report.Budgets, 1)
	assert.Len(t, report.Mirrors, 1)

	repaired, _ := f.store.Budget("groceries")
	assert.Equal(t, b.Version+1, repaired.Version)
	assert.Equal(t, "150.00", money.Format(repaired.Left))
	assert.True(t, domain.SameCollaborators([]domain.Collaborator{bob}, repaired.Collaborators))
}
