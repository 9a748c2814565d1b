package domain

import (
	"context"
	"time"

	"github.com/sebuszqo/BudgetTracker/internal/finance/money"
	"github.com/shopspring/decimal"
)

type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodOneTime Period = "one-time"
)

func IsValidPeriod(p string) bool {
	switch Period(p) {
	case PeriodWeekly, PeriodMonthly, PeriodOneTime:
		return true
	}
	return false
}

type BudgetRepository interface {
	Get(ctx context.Context, budgetID string) (*Budget, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Budget, error)
	ListByWallet(ctx context.Context, walletID string) ([]Budget, error)
	ListAll(ctx context.Context) ([]Budget, error)
	Create(ctx context.Context, budget *Budget) error
	// Update has the same optimistic version semantics as WalletRepository.Update.
	Update(ctx context.Context, budget *Budget) error
	Delete(ctx context.Context, budgetID string) error
}

// Budget tracks Spent as the unclamped sum of matching expenses; Left is
// derived from it and never drops below zero.
type Budget struct {
	ID            string
	OwnerID       string
	Category      string
	Amount        decimal.Decimal
	Left          decimal.Decimal
	Spent         decimal.Decimal
	Period        Period
	Plan          Plan
	WalletID      string
	WalletName    string
	Collaborators []Collaborator
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SetSpent stores the new spend (floored at zero) and recomputes Left.
func (b *Budget) SetSpent(spent decimal.Decimal) {
	b.Spent = money.Round(money.FloorZero(spent))
	b.Left = money.Round(money.FloorZero(b.Amount.Sub(b.Spent)))
}

// SetAmount changes the allocation while keeping the spend history.
func (b *Budget) SetAmount(amount decimal.Decimal) {
	b.Amount = money.Round(amount)
	b.SetSpent(b.Spent)
}

func (b *Budget) IsShared() bool {
	return b.Plan == PlanShared
}
