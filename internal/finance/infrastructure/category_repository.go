package infrastructure

import (
	"context"

	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
)

type categoryRepository struct {
	db DBTX
}

func NewCategoryRepository(db DBTX) domain.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT name FROM user_categories WHERE user_id = $1 ORDER BY created_at, name", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		categories = append(categories, name)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) Create(ctx context.Context, userID, name string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO user_categories (user_id, name) VALUES ($1, $2) ON CONFLICT (user_id, name) DO NOTHING",
		userID, name,
	)
	return err
}
