//go:build integration

package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	database "github.com/sebuszqo/BudgetTracker/db"
	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/BudgetTracker/internal/finance/errors"
	"github.com/sebuszqo/BudgetTracker/internal/finance/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("budget_tracker"),
		postgres.WithUsername("budget"),
		postgres.WithPassword("budget"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(ctx, db))
	return db
}

func TestPostgresUnitOfWork_CommitAndRollback(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	uow := NewPostgresUnitOfWork(db, zap.NewNop())
	now := time.Now().UTC().Truncate(time.Microsecond)

	err := uow.Do(ctx, func(ctx context.Context, s domain.Stores) error {
		return s.Wallets.Create(ctx, &domain.Wallet{
			ID: "w1", OwnerID: "u1", Name: "Cash", Plan: domain.PlanShared,
			Balance: money.MustParse("100.50"), OpeningBalance: money.MustParse("100.50"),
			Collaborators: []domain.Collaborator{{UserID: "u2", Name: "Bob", Email: "bob@example.com", Role: domain.RoleEditor}},
			CreatedAt:     now, UpdatedAt: now,
		})
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = uow.Do(ctx, func(ctx context.Context, s domain.Stores) error {
		w, err := s.Wallets.Get(ctx, "w1")
		if err != nil {
			return err
		}
		w.Balance = money.MustParse("0")
		if err := s.Wallets.Update(ctx, w); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	wallet, err := NewWalletRepository(db).Get(ctx, "w1")
	require.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(money.MustParse("100.50")))
	assert.Equal(t, int64(1), wallet.Version)
	require.Len(t, wallet.Collaborators, 1)
	assert.Equal(t, domain.RoleEditor, wallet.Collaborators[0].Role)

	shared, err := NewWalletRepository(db).ListByUser(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, "w1", shared[0].ID)
}

func TestPostgresWalletRepository_OptimisticUpdate(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	repo := NewWalletRepository(db)

	require.NoError(t, repo.Create(ctx, &domain.Wallet{ID: "w1", OwnerID: "u1", Name: "Cash", Plan: domain.PlanPersonal,
		CreatedAt: time.Now(), UpdatedAt: time.Now()}))

	first, err := repo.Get(ctx, "w1")
	require.NoError(t, err)
	second, err := repo.Get(ctx, "w1")
	require.NoError(t, err)

	first.Name = "Wallet"
	require.NoError(t, repo.Update(ctx, first))
	assert.Equal(t, int64(2), first.Version)

	second.Name = "Stale"
	assert.ErrorIs(t, repo.Update(ctx, second), financeErrors.ErrVersionConflict)

	missing := &domain.Wallet{ID: "nope", Version: 1}
	assert.True(t, financeErrors.IsNotFound(repo.Update(ctx, missing)))

	require.NoError(t, repo.Delete(ctx, "w1"))
	assert.True(t, financeErrors.IsNotFound(repo.Delete(ctx, "w1")))
}

func TestPostgresBudgetAndTransactionRepositories(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	stores := NewStores(db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	budget := &domain.Budget{ID: "b1", OwnerID: "u1", Category: "Food", Period: domain.PeriodMonthly,
		Plan: domain.PlanPersonal, CreatedAt: now, UpdatedAt: now}
	budget.SetAmount(money.MustParse("500"))
	require.NoError(t, stores.Budgets.Create(ctx, budget))

	budget.SetSpent(money.MustParse("120.25"))
	require.NoError(t, stores.Budgets.Update(ctx, budget))

	got, err := stores.Budgets.Get(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, got.Left.Equal(money.MustParse("379.75")))
	assert.Equal(t, int64(2), got.Version)

	tx := &domain.Transaction{ID: "t1", Type: domain.TransactionTransfer, Amount: money.MustParse("10"),
		DateTime: now, WalletFrom: "w1", WalletTo: "w2", CreatedBy: "u1", CreatedAt: now}
	require.NoError(t, stores.Transactions.Create(ctx, tx))

	listed, err := stores.Transactions.ListByWallet(ctx, "w2")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "w1", listed[0].WalletFrom)
	assert.True(t, listed[0].UpdatedAt.IsZero())

	require.NoError(t, stores.Transactions.Delete(ctx, "t1"))
	assert.True(t, financeErrors.IsNotFound(stores.Transactions.Delete(ctx, "t1")))
}

func TestPostgresCategoryRepository_Dedupes(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	repo := NewCategoryRepository(db)

	require.NoError(t, repo.Create(ctx, "u1", "Pets"))
	require.NoError(t, repo.Create(ctx, "u1", "Pets"))

	names, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pets"}, names)
}

func TestPostgresActivityRepository(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	require.NoError(t, repo.Append(ctx, domain.ActivityEntry{ID: "a1", WalletID: "w1", Actor: "u1",
		Action: domain.ActionMemberAdded, EntityType: "wallet", EntityID: "w1", Message: "Bob joined", CreatedAt: time.Now()}))

	var action, message string
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT action, message FROM wallet_activity WHERE wallet_id = $1`, "w1").Scan(&action, &message))
	assert.Equal(t, string(domain.ActionMemberAdded), action)
	assert.Equal(t, "Bob joined", message)
}
