package infrastructure

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/BudgetTracker/internal/finance/errors"
)

type transactionRepository struct {
	db DBTX
}

func NewTransactionRepository(db DBTX) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `id, type, amount, date_time, category, wallet_from, wallet_to, description,
	created_by, created_at, updated_by, updated_at`

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var transaction domain.Transaction
	var walletTo, updatedBy sql.NullString
	var updatedAt sql.NullTime
	if err := row.Scan(&transaction.ID, &transaction.Type, &transaction.Amount, &transaction.DateTime,
		&transaction.Category, &transaction.WalletFrom, &walletTo, &transaction.Description,
		&transaction.CreatedBy, &transaction.CreatedAt, &updatedBy, &updatedAt); err != nil {
		return nil, err
	}
	transaction.WalletTo = walletTo.String
	transaction.UpdatedBy = updatedBy.String
	transaction.UpdatedAt = updatedAt.Time
	return &transaction, nil
}

func (r *transactionRepository) Get(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, transactionID)
	transaction, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, financeErrors.NewNotFoundError("transaction", transactionID)
	}
	return transaction, err
}

func (r *transactionRepository) ListByWallet(ctx context.Context, walletID string) ([]domain.Transaction, error) {
	return r.list(ctx, `SELECT `+transactionColumns+` FROM transactions
		WHERE wallet_from = $1 OR wallet_to = $1
		ORDER BY date_time DESC, id`, walletID)
}

func (r *transactionRepository) ListByCreator(ctx context.Context, userID string) ([]domain.Transaction, error) {
	return r.list(ctx, `SELECT `+transactionColumns+` FROM transactions
		WHERE created_by = $1
		ORDER BY date_time DESC, id`, userID)
}

func (r *transactionRepository) ListAll(ctx context.Context) ([]domain.Transaction, error) {
	return r.list(ctx, `SELECT `+transactionColumns+` FROM transactions ORDER BY date_time DESC, id`)
}

func (r *transactionRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *transaction)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *transactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, type, amount, date_time, category, wallet_from, wallet_to, description,
			created_by, created_at, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		transaction.ID, transaction.Type, transaction.Amount, transaction.DateTime, transaction.Category,
		transaction.WalletFrom, nullString(transaction.WalletTo), transaction.Description,
		transaction.CreatedBy, transaction.CreatedAt, nullString(transaction.UpdatedBy), nullTime(transaction),
	)
	if isUniqueViolation(err) {
		return financeErrors.ErrVersionConflict
	}
	return err
}

func (r *transactionRepository) Delete(ctx context.Context, transactionID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, transactionID)
	if err != nil {
		return err
	}
	return expectOneRow(result, "transaction", transactionID)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *domain.Transaction) sql.NullTime {
	return sql.NullTime{Time: t.UpdatedAt, Valid: !t.UpdatedAt.IsZero()}
}
