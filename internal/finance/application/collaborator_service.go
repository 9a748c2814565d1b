package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/oklog/ulid/v2"
	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/BudgetTracker/internal/finance/errors"
	"github.com/sebuszqo/BudgetTracker/internal/finance/money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CollaboratorService keeps a Shared wallet's member list mirrored onto every
// Shared budget bound to it and records membership changes in the activity log.
type CollaboratorService struct {
	uow      domain.UnitOfWork
	activity domain.ActivityLog
	notifier domain.ChangeNotifier
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

func NewCollaboratorService(uow domain.UnitOfWork, activity domain.ActivityLog, notifier domain.ChangeNotifier, logger *zap.Logger) *CollaboratorService {
	return &CollaboratorService{
		uow:      uow,
		activity: activity,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return ulid.Make().String() },
	}
}

// MirrorCollaborators returns copies of the Shared budgets bound to wallet with
// the wallet's name and collaborator list written onto them.
func MirrorCollaborators(wallet *domain.Wallet, budgets []domain.Budget) []domain.Budget {
	var mirrored []domain.Budget
	for _, b := range budgets {
		if b.Plan != domain.PlanShared || b.WalletID != wallet.ID {
			continue
		}
		b.WalletName = wallet.Name
		b.Collaborators = domain.CloneCollaborators(wallet.Collaborators)
		mirrored = append(mirrored, b)
	}
	return mirrored
}

func validateCollaborators(next []domain.Collaborator) error {
	validationErrors := &financeErrors.ValidationErrors{}
	seen := make(map[string]struct{}, len(next))
	for i, c := range next {
		field := fmt.Sprintf("collaborators[%d]", i)
		userID := strings.TrimSpace(c.UserID)
		if userID == "" {
			validationErrors.Add(financeErrors.NewFieldValidationError(field+".user_id", "User id is required"))
		} else if _, dup := seen[userID]; dup {
			validationErrors.Add(financeErrors.NewFieldValidationError(field+".user_id", "User is listed more than once"))
		}
		seen[userID] = struct{}{}
		if !domain.IsValidRole(string(c.Role)) {
			validationErrors.Add(financeErrors.NewFieldValidationError(field+".role", "Role must be 'owner', 'editor' or 'viewer'"))
		}
		if c.Email != "" {
			if err := checkmail.ValidateFormat(c.Email); err != nil {
				validationErrors.Add(financeErrors.NewFieldValidationError(field+".email", "Invalid email format"))
			}
		}
	}
	return validationErrors.ErrOrNil()
}

// SyncCollaborators replaces the wallet's member list and mirrors it onto the
// wallet's Shared budgets in one unit of work. Activity entries are appended after
// the commit, one per added, removed or re-roled member.
func (s *CollaboratorService) SyncCollaborators(ctx context.Context, actor, walletID string, next []domain.Collaborator) (*domain.Wallet, error) {
	if err := validateCollaborators(next); err != nil {
		return nil, err
	}
	next = domain.CloneCollaborators(next)
	for i := range next {
		next[i].UserID = strings.TrimSpace(next[i].UserID)
		next[i].Email = strings.TrimSpace(next[i].Email)
	}

	now := s.now()
	var wallet *domain.Wallet
	var changes []memberChange
	err := s.uow.Do(ctx, func(ctx context.Context, stores domain.Stores) error {
		var err error
		wallet, err = stores.Wallets.Get(ctx, walletID)
		if err != nil {
			return err
		}
		if !wallet.CanManageMembers(actor) {
			return financeErrors.ErrForbidden
		}
		if len(next) > 0 && wallet.Plan != domain.PlanShared {
			return financeErrors.NewFieldValidationError("collaborators", "Only shared wallets can have collaborators")
		}
		for _, c := range next {
			if c.UserID == wallet.OwnerID {
				return financeErrors.NewFieldValidationError("collaborators", "Wallet owner cannot be listed as a collaborator")
			}
		}

		changes = diffCollaborators(wallet.Collaborators, next)
		wallet.Collaborators = next
		wallet.UpdatedAt = now
		if err := stores.Wallets.Update(ctx, wallet); err != nil {
			return err
		}
		return s.mirror(ctx, stores, wallet, now)
	})
	if err != nil {
		logOutcome(s.logger, "sync collaborators", err, zap.String("wallet_id", walletID), zap.String("actor", actor))
		return nil, err
	}

	for _, change := range changes {
		s.appendActivity(ctx, domain.ActivityEntry{
			WalletID:   walletID,
			Actor:      actor,
			Action:     change.action,
			EntityType: "collaborator",
			EntityID:   change.userID,
			Message:    change.message,
			CreatedAt:  now,
		})
	}
	s.notifier.DataChanged(ctx, domain.ChangeEvent{
		Kind:       domain.ChangeCollaboratorsSynced,
		UserID:     actor,
		EntityID:   walletID,
		WalletIDs:  []string{walletID},
		OccurredAt: now,
	})
	return wallet, nil
}

// WalletUpdate carries the optional edits of one PATCH. Nil fields are left alone.
type WalletUpdate struct {
	Name    *string
	Balance *decimal.Decimal
}

func (u *WalletUpdate) Validate() error {
	if u.Name == nil && u.Balance == nil {
		return financeErrors.NewValidationError("Provide a name or a balance")
	}
	if u.Name == nil {
		return nil
	}
	name := strings.TrimSpace(*u.Name)
	if name == "" {
		return financeErrors.NewFieldValidationError("name", "Wallet name is required")
	}
	if len(name) > 50 {
		return financeErrors.NewFieldValidationError("name", "Wallet name must be of length less than 50")
	}
	return nil
}

// UpdateWallet renames the wallet and/or records a stated balance in one unit of
// work. A rename carries the name and member list forward onto every Shared
// budget bound to the wallet. A stated balance moves OpeningBalance by the same
// delta so the balance stays explainable by the history.
func (s *CollaboratorService) UpdateWallet(ctx context.Context, actor, walletID string, update WalletUpdate) (*domain.Wallet, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	var wallet *domain.Wallet
	var previous string
	err := s.uow.Do(ctx, func(ctx context.Context, stores domain.Stores) error {
		var err error
		wallet, err = stores.Wallets.Get(ctx, walletID)
		if err != nil {
			return err
		}
		if update.Name != nil && !wallet.CanManageMembers(actor) {
			return financeErrors.ErrForbidden
		}
		if update.Balance != nil && !wallet.CanWrite(actor) {
			return financeErrors.ErrForbidden
		}

		previous = wallet.Name
		if update.Name != nil {
			wallet.Name = strings.TrimSpace(*update.Name)
		}
		if update.Balance != nil {
			balance := money.Round(*update.Balance)
			wallet.OpeningBalance = money.Round(wallet.OpeningBalance.Add(balance.Sub(wallet.Balance)))
			wallet.Balance = balance
		}
		wallet.UpdatedAt = now
		if err := stores.Wallets.Update(ctx, wallet); err != nil {
			return err
		}
		if update.Name == nil {
			return nil
		}
		return s.mirror(ctx, stores, wallet, now)
	})
	if err != nil {
		logOutcome(s.logger, "update wallet", err, zap.String("wallet_id", walletID), zap.String("actor", actor))
		return nil, err
	}

	if previous != wallet.Name {
		s.appendActivity(ctx, domain.ActivityEntry{
			WalletID:   walletID,
			Actor:      actor,
			Action:     domain.ActionSystem,
			EntityType: "wallet",
			EntityID:   walletID,
			Message:    fmt.Sprintf("Wallet renamed from %q to %q", previous, wallet.Name),
			CreatedAt:  now,
		})
	}
	s.notifier.DataChanged(ctx, domain.ChangeEvent{
		Kind:       domain.ChangeWalletUpdated,
		UserID:     actor,
		EntityID:   walletID,
		WalletIDs:  []string{walletID},
		OccurredAt: now,
	})
	return wallet, nil
}

func (s *CollaboratorService) mirror(ctx context.Context, stores domain.Stores, wallet *domain.Wallet, now time.Time) error {
	bound, err := stores.Budgets.ListByWallet(ctx, wallet.ID)
	if err != nil {
		return err
	}
	for _, budget := range MirrorCollaborators(wallet, bound) {
		budget := budget
		budget.UpdatedAt = now
		if err := stores.Budgets.Update(ctx, &budget); err != nil {
			return err
		}
	}
	return nil
}

// appendActivity never fails the caller: the change it describes is already committed.
func (s *CollaboratorService) appendActivity(ctx context.Context, entry domain.ActivityEntry) {
	entry.ID = s.newID()
	if err := s.activity.Append(ctx, entry); err != nil {
		s.logger.Warn("failed to append activity entry",
			zap.String("wallet_id", entry.WalletID),
			zap.String("action", string(entry.Action)),
			zap.Error(err))
	}
}

type memberChange struct {
	action  domain.ActivityAction
	userID  string
	message string
}

func diffCollaborators(prev, next []domain.Collaborator) []memberChange {
	before := make(map[string]domain.Collaborator, len(prev))
	for _, c := range prev {
		before[c.UserID] = c
	}
	after := make(map[string]struct{}, len(next))

	var changes []memberChange
	for _, c := range next {
		after[c.UserID] = struct{}{}
		old, existed := before[c.UserID]
		switch {
		case !existed:
			changes = append(changes, memberChange{
				action:  domain.ActionMemberAdded,
				userID:  c.UserID,
				message: fmt.Sprintf("%s was added as %s", displayName(c), c.Role),
			})
		case old.Role != c.Role:
			changes = append(changes, memberChange{
				action:  domain.ActionSystem,
				userID:  c.UserID,
				message: fmt.Sprintf("%s's role changed from %s to %s", displayName(c), old.Role, c.Role),
			})
		}
	}
	for _, c := range prev {
		if _, kept := after[c.UserID]; !kept {
			changes = append(changes, memberChange{
				action:  domain.ActionMemberRemoved,
				userID:  c.UserID,
				message: fmt.Sprintf("%s was removed", displayName(c)),
			})
		}
	}
	return changes
}

func displayName(c domain.Collaborator) string {
	if c.Name != "" {
		return c.Name
	}
	if c.Email != "" {
		return c.Email
	}
	return c.UserID
}
