package infrastructure

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/BudgetTracker/internal/finance/errors"
)

type walletRepository struct {
	db DBTX
}

func NewWalletRepository(db DBTX) domain.WalletRepository {
	return &walletRepository{db: db}
}

const walletColumns = `id, owner_id, name, plan, balance, opening_balance, collaborators, version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWallet(row rowScanner) (*domain.Wallet, error) {
	var wallet domain.Wallet
	var collaborators []byte
	if err := row.Scan(&wallet.ID, &wallet.OwnerID, &wallet.Name, &wallet.Plan, &wallet.Balance, &wallet.OpeningBalance,
		&collaborators, &wallet.Version, &wallet.CreatedAt, &wallet.UpdatedAt); err != nil {
		return nil, err
	}
	if err := unmarshalCollaborators(collaborators, &wallet.Collaborators); err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepository) Get(ctx context.Context, walletID string) (*domain.Wallet, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+walletColumns+` FROM wallets WHERE id = $1`, walletID)
	wallet, err := scanWallet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, financeErrors.NewNotFoundError("wallet", walletID)
	}
	return wallet, err
}

func (r *walletRepository) ListByUser(ctx context.Context, userID string) ([]domain.Wallet, error) {
	// collaborators @> matches any element carrying this user_id.
	filter, err := json.Marshal([]map[string]string{{"user_id": userID}})
	if err != nil {
		return nil, err
	}
	return r.list(ctx, `SELECT `+walletColumns+` FROM wallets
		WHERE owner_id = $1 OR collaborators @> $2::jsonb
		ORDER BY created_at, id`, userID, string(filter))
}

func (r *walletRepository) ListAll(ctx context.Context) ([]domain.Wallet, error) {
	return r.list(ctx, `SELECT `+walletColumns+` FROM wallets ORDER BY created_at, id`)
}

func (r *walletRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Wallet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []domain.Wallet
	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, *wallet)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return wallets, nil
}

func (r *walletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	collaborators, err := marshalCollaborators(wallet.Collaborators)
	if err != nil {
		return err
	}
	wallet.Version = 1
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO wallets (id, owner_id, name, plan, balance, opening_balance, collaborators, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9, $10)`,
		wallet.ID, wallet.OwnerID, wallet.Name, wallet.Plan, wallet.Balance, wallet.OpeningBalance,
		collaborators, wallet.Version, wallet.CreatedAt, wallet.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return financeErrors.NewFieldValidationError("id", fmt.Sprintf("wallet %s already exists", wallet.ID))
	}
	return err
}

func (r *walletRepository) Update(ctx context.Context, wallet *domain.Wallet) error {
	collaborators, err := marshalCollaborators(wallet.Collaborators)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE wallets
		SET name = $1, plan = $2, balance = $3, opening_balance = $4, collaborators = $5::jsonb,
			updated_at = $6, version = version + 1
		WHERE id = $7 AND version = $8`,
		wallet.Name, wallet.Plan, wallet.Balance, wallet.OpeningBalance, collaborators,
		wallet.UpdatedAt, wallet.ID, wallet.Version,
	)
	if err != nil {
		return err
	}
	if err := versionedResult(ctx, r.db, result, "wallets", "wallet", wallet.ID); err != nil {
		return err
	}
	wallet.Version++
	return nil
}

func (r *walletRepository) Delete(ctx context.Context, walletID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM wallets WHERE id = $1`, walletID)
	if err != nil {
		return err
	}
	return expectOneRow(result, "wallet", walletID)
}

// versionedResult tells a stale version apart from a missing row when an optimistic update touched nothing.
func versionedResult(ctx context.Context, db DBTX, result sql.Result, table, entity, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 1 {
		return nil
	}
	var exists bool
	if err := db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM `+table+` WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return financeErrors.NewNotFoundError(entity, id)
	}
	return financeErrors.ErrVersionConflict
}

func expectOneRow(result sql.Result, entity, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return financeErrors.NewNotFoundError(entity, id)
	}
	return nil
}

func marshalCollaborators(collaborators []domain.Collaborator) (string, error) {
	if collaborators == nil {
		collaborators = []domain.Collaborator{}
	}
	b, err := json.Marshal(collaborators)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalCollaborators(raw []byte, dst *[]domain.Collaborator) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode collaborators: %w", err)
	}
	return nil
}
