package domain

import (
	"context"
	"time"
)

type ActivityAction string

const (
	ActionMemberAdded   ActivityAction = "member_added"
	ActionMemberRemoved ActivityAction = "member_removed"
	ActionSystem        ActivityAction = "system"
)

type ActivityEntry struct {
	ID         string         `json:"id"`
	WalletID   string         `json:"wallet_id"`
	Actor      string         `json:"actor"`
	Action     ActivityAction `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Message    string         `json:"message"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ActivityLog is write-only from the finance core's point of view.
type ActivityLog interface {
	Append(ctx context.Context, entry ActivityEntry) error
}

type ChangeKind string

const (
	ChangeTransactionSaved    ChangeKind = "transaction.saved"
	ChangeTransactionDeleted  ChangeKind = "transaction.deleted"
	ChangeCollaboratorsSynced ChangeKind = "collaborators.synced"
	ChangeWalletUpdated       ChangeKind = "wallet.updated"
	ChangeWalletDeleted       ChangeKind = "wallet.deleted"
	ChangeBudgetUpdated       ChangeKind = "budget.updated"
)

type ChangeEvent struct {
	Kind       ChangeKind `json:"kind"`
	UserID     string     `json:"user_id"`
	EntityID   string     `json:"entity_id"`
	WalletIDs  []string   `json:"wallet_ids,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// ChangeNotifier broadcasts "data changed" to observers. Delivery is best effort
// and never fails the mutation that triggered it.
type ChangeNotifier interface {
	DataChanged(ctx context.Context, event ChangeEvent)
}
