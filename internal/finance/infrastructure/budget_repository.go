package infrastructure

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/BudgetTracker/internal/finance/errors"
)

type budgetRepository struct {
	db DBTX
}

func NewBudgetRepository(db DBTX) domain.BudgetRepository {
	return &budgetRepository{db: db}
}

const budgetColumns = `id, owner_id, category, amount, amount_left, spent, period, plan, wallet_id, wallet_name,
	collaborators, version, created_at, updated_at`

func scanBudget(row rowScanner) (*domain.Budget, error) {
	var budget domain.Budget
	var collaborators []byte
	if err := row.Scan(&budget.ID, &budget.OwnerID, &budget.Category, &budget.Amount, &budget.Left, &budget.Spent,
		&budget.Period, &budget.Plan, &budget.WalletID, &budget.WalletName,
		&collaborators, &budget.Version, &budget.CreatedAt, &budget.UpdatedAt); err != nil {
		return nil, err
	}
	if err := unmarshalCollaborators(collaborators, &budget.Collaborators); err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *budgetRepository) Get(ctx context.Context, budgetID string) (*domain.Budget, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = $1`, budgetID)
	budget, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, financeErrors.NewNotFoundError("budget", budgetID)
	}
	return budget, err
}

func (r *budgetRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Budget, error) {
	return r.list(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE owner_id = $1 ORDER BY created_at, id`, ownerID)
}

func (r *budgetRepository) ListByWallet(ctx context.Context, walletID string) ([]domain.Budget, error) {
	return r.list(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE wallet_id = $1 ORDER BY created_at, id`, walletID)
}

func (r *budgetRepository) ListAll(ctx context.Context) ([]domain.Budget, error) {
	return r.list(ctx, `SELECT `+budgetColumns+` FROM budgets ORDER BY created_at, id`)
}

func (r *budgetRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Budget, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []domain.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *budget)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return budgets, nil
}

func (r *budgetRepository) Create(ctx context.Context, budget *domain.Budget) error {
	collaborators, err := marshalCollaborators(budget.Collaborators)
	if err != nil {
		return err
	}
	budget.Version = 1
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO budgets (id, owner_id, category, amount, amount_left, spent, period, plan, wallet_id, wallet_name,
			collaborators, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, $12, $13, $14)`,
		budget.ID, budget.OwnerID, budget.Category, budget.Amount, budget.Left, budget.Spent, budget.Period, budget.Plan,
		budget.WalletID, budget.WalletName, collaborators, budget.Version, budget.CreatedAt, budget.UpdatedAt,
	)
	return err
}

func (r *budgetRepository) Update(ctx context.Context, budget *domain.Budget) error {
	collaborators, err := marshalCollaborators(budget.Collaborators)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE budgets
		SET category = $1, amount = $2, amount_left = $3, spent = $4, period = $5, plan = $6,
			wallet_id = $7, wallet_name = $8, collaborators = $9::jsonb, updated_at = $10, version = version + 1
		WHERE id = $11 AND version = $12`,
		budget.Category, budget.Amount, budget.Left, budget.Spent, budget.Period, budget.Plan,
		budget.WalletID, budget.WalletName, collaborators, budget.UpdatedAt, budget.ID, budget.Version,
	)
	if err != nil {
		return err
	}
	if err := versionedResult(ctx, r.db, result, "budgets", "budget", budget.ID); err != nil {
		return err
	}
	budget.Version++
	return nil
}

func (r *budgetRepository) Delete(ctx context.Context, budgetID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, budgetID)
	if err != nil {
		return err
	}
	return expectOneRow(result, "budget", budgetID)
}
