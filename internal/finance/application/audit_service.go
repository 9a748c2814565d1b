package application

import (
	"context"
	"time"

	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	"github.com/sebuszqo/BudgetTracker/internal/finance/money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type WalletDrift struct {
	WalletID string
	Stored   decimal.Decimal
	Expected decimal.Decimal
}

type BudgetDrift struct {
	BudgetID      string
	StoredSpent   decimal.Decimal
	ExpectedSpent decimal.Decimal
	StoredLeft    decimal.Decimal
	ExpectedLeft  decimal.Decimal
}

// MirrorDrift is a Shared budget whose member list no longer matches its wallet's.
type MirrorDrift struct {
	BudgetID string
	WalletID string
}

type DriftReport struct {
	Wallets  []WalletDrift
	Budgets  []BudgetDrift
	Mirrors  []MirrorDrift
	Repaired bool
}

func (r DriftReport) Clean() bool {
	return len(r.Wallets) == 0 && len(r.Budgets) == 0 && len(r.Mirrors) == 0
}

// DriftAuditor recomputes every cached aggregate from the transaction history and
// reports (optionally repairs) the ones that disagree.
type DriftAuditor struct {
	uow    domain.UnitOfWork
	repair bool
	logger *zap.Logger
	now    func() time.Time
}

func NewDriftAuditor(uow domain.UnitOfWork, repair bool, logger *zap.Logger) *DriftAuditor {
	return &DriftAuditor{
		uow:    uow,
		repair: repair,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (a *DriftAuditor) Run(ctx context.Context) (DriftReport, error) {
	var report DriftReport
	err := a.uow.Do(ctx, func(ctx context.Context, stores domain.Stores) error {
		report = DriftReport{}
		wallets, err := stores.Wallets.ListAll(ctx)
		if err != nil {
			return err
		}
		budgets, err := stores.Budgets.ListAll(ctx)
		if err != nil {
			return err
		}
		transactions, err := stores.Transactions.ListAll(ctx)
		if err != nil {
			return err
		}

		now := a.now()
		for _, wallet := range wallets {
			wallet := wallet
			expected := wallet.OpeningBalance
			for _, tx := range transactions {
				expected = expected.Add(tx.SignedAmountFor(wallet.ID))
			}
			expected = money.Round(expected)
			if wallet.Balance.Equal(expected) {
				continue
			}
			report.Wallets = append(report.Wallets, WalletDrift{WalletID: wallet.ID, Stored: wallet.Balance, Expected: expected})
			if a.repair {
				wallet.Balance = expected
				wallet.UpdatedAt = now
				if err := stores.Wallets.Update(ctx, &wallet); err != nil {
					return err
				}
			}
		}

		walletsByID := make(map[string]domain.Wallet, len(wallets))
		for _, wallet := range wallets {
			walletsByID[wallet.ID] = wallet
		}
		for _, budget := range budgets {
			budget := budget
			storedSpent, storedLeft := budget.Spent, budget.Left
			budget.SetSpent(sumTracked(budget, transactions))
			drifted := !storedSpent.Equal(budget.Spent) || !storedLeft.Equal(budget.Left)
			if drifted {
				report.Budgets = append(report.Budgets, BudgetDrift{
					BudgetID:      budget.ID,
					StoredSpent:   storedSpent,
					ExpectedSpent: budget.Spent,
					StoredLeft:    storedLeft,
					ExpectedLeft:  budget.Left,
				})
			}

			unmirrored := false
			if wallet, ok := walletsByID[budget.WalletID]; ok && budget.Plan == domain.PlanShared &&
				!domain.SameCollaborators(wallet.Collaborators, budget.Collaborators) {
				unmirrored = true
				report.Mirrors = append(report.Mirrors, MirrorDrift{BudgetID: budget.ID, WalletID: wallet.ID})
				budget.Collaborators = domain.CloneCollaborators(wallet.Collaborators)
			}

			if a.repair && (drifted || unmirrored) {
				budget.UpdatedAt = now
				if err := stores.Budgets.Update(ctx, &budget); err != nil {
					return err
				}
			}
		}
		report.Repaired = a.repair && !report.Clean()
		return nil
	})
	if err != nil {
		logOutcome(a.logger, "drift audit", err)
		return DriftReport{}, err
	}

	for _, d := range report.Wallets {
		a.logger.Warn("wallet balance drift",
			zap.String("wallet_id", d.WalletID),
			zap.String("stored", money.Format(d.Stored)),
			zap.String("expected", money.Format(d.Expected)),
			zap.Bool("repaired", report.Repaired))
	}
	for _, d := range report.Budgets {
		a.logger.Warn("budget drift",
			zap.String("budget_id", d.BudgetID),
			zap.String("stored_left", money.Format(d.StoredLeft)),
			zap.String("expected_left", money.Format(d.ExpectedLeft)),
			zap.Bool("repaired", report.Repaired))
	}
	for _, d := range report.Mirrors {
		a.logger.Warn("budget collaborators out of step with wallet",
			zap.String("budget_id", d.BudgetID),
			zap.String("wallet_id", d.WalletID),
			zap.Bool("repaired", report.Repaired))
	}
	a.logger.Info("drift audit finished",
		zap.Int("wallet_drift", len(report.Wallets)),
		zap.Int("budget_drift", len(report.Budgets)),
		zap.Int("mirror_drift", len(report.Mirrors)))
	return report, nil
}
