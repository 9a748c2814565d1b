package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/BudgetTracker/internal/finance/errors"
	"go.uber.org/zap"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so repositories can run inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type PostgresUnitOfWork struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresUnitOfWork(db *sql.DB, logger *zap.Logger) *PostgresUnitOfWork {
	return &PostgresUnitOfWork{db: db, logger: logger}
}

// NewStores binds every repository to the given connection or transaction.
func NewStores(db DBTX) domain.Stores {
	return domain.Stores{
		Wallets:      NewWalletRepository(db),
		Budgets:      NewBudgetRepository(db),
		Transactions: NewTransactionRepository(db),
		Categories:   NewCategoryRepository(db),
	}
}

func (u *PostgresUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, stores domain.Stores) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			u.safeRollback(tx)
			panic(p)
		}
	}()

	if err := fn(ctx, NewStores(tx)); err != nil {
		u.safeRollback(tx)
		return err
	}
	if err := tx.Commit(); err != nil {
		if isSerializationFailure(err) {
			u.logger.Warn("transaction commit lost a race", zap.Error(err))
			return fmt.Errorf("%w: %v", financeErrors.ErrVersionConflict, err)
		}
		return err
	}
	return nil
}

func (u *PostgresUnitOfWork) safeRollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		u.logger.Error("error during rollback", zap.Error(err))
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}
