package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Plan string

const (
	PlanPersonal Plan = "personal"
	PlanShared   Plan = "shared"
)

func IsValidPlan(p string) bool {
	return Plan(p) == PlanPersonal || Plan(p) == PlanShared
}

type WalletRepository interface {
	Get(ctx context.Context, walletID string) (*Wallet, error)
	ListByUser(ctx context.Context, userID string) ([]Wallet, error)
	ListAll(ctx context.Context) ([]Wallet, error)
	Create(ctx context.Context, wallet *Wallet) error
	// Update writes the wallet only if its Version still matches the stored one,
	// then bumps Version in place.
	Update(ctx context.Context, wallet *Wallet) error
	Delete(ctx context.Context, walletID string) error
}

// Wallet.Balance always equals OpeningBalance plus the signed sum of the
// transactions touching the wallet.
type Wallet struct {
	ID             string
	OwnerID        string
	Name           string
	Plan           Plan
	Balance        decimal.Decimal
	OpeningBalance decimal.Decimal
	Collaborators  []Collaborator
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CanWrite reports whether the user may post transactions against the wallet.
func (w *Wallet) CanWrite(userID string) bool {
	if w.OwnerID == userID {
		return true
	}
	for _, c := range w.Collaborators {
		if c.UserID == userID {
			return c.Role == RoleOwner || c.Role == RoleEditor
		}
	}
	return false
}

// CanManageMembers reports whether the user may change the collaborator list.
func (w *Wallet) CanManageMembers(userID string) bool {
	if w.OwnerID == userID {
		return true
	}
	for _, c := range w.Collaborators {
		if c.UserID == userID {
			return c.Role == RoleOwner
		}
	}
	return false
}

func (w *Wallet) CanRead(userID string) bool {
	if w.OwnerID == userID {
		return true
	}
	for _, c := range w.Collaborators {
		if c.UserID == userID {
			return true
		}
	}
	return false
}
