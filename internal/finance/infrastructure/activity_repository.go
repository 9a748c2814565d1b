package infrastructure

import (
	"context"
	"database/sql"

	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
)

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Append(ctx context.Context, entry domain.ActivityEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO wallet_activity (id, wallet_id, actor, action, entity_type, entity_id, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.WalletID, entry.Actor, entry.Action, entry.EntityType, entry.EntityID, entry.Message, entry.CreatedAt,
	)
	return err
}
