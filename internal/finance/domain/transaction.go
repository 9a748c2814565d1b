package domain

import (
	"context"
	"strings"
	"time"

	"github.com/sebuszqo/BudgetTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionIncome   TransactionType = "income"
	TransactionExpense  TransactionType = "expense"
	TransactionTransfer TransactionType = "transfer"
)

func IsValidTransactionType(t string) bool {
	switch TransactionType(t) {
	case TransactionIncome, TransactionExpense, TransactionTransfer:
		return true
	}
	return false
}

type TransactionRepository interface {
	Get(ctx context.Context, transactionID string) (*Transaction, error)
	ListByWallet(ctx context.Context, walletID string) ([]Transaction, error)
	ListByCreator(ctx context.Context, userID string) ([]Transaction, error)
	ListAll(ctx context.Context) ([]Transaction, error)
	Create(ctx context.Context, transaction *Transaction) error
	Delete(ctx context.Context, transactionID string) error
}

// Transaction is the unit of truth; wallet balances and budget figures are derived from it.
type Transaction struct {
	ID          string
	Type        TransactionType
	Amount      decimal.Decimal
	DateTime    time.Time
	Category    string
	WalletFrom  string
	WalletTo    string
	Description string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedBy   string
	UpdatedAt   time.Time
}

// TransactionInput is what a caller submits for a new or edited transaction.
type TransactionInput struct {
	Type        TransactionType
	Amount      decimal.Decimal
	DateTime    time.Time
	Category    string
	WalletFrom  string
	WalletTo    string
	Description string
}

// Validate collects every field problem before any store is touched.
func (t *TransactionInput) Validate(customCategory string) error {
	validationErrors := &errors.ValidationErrors{}
	if !IsValidTransactionType(string(t.Type)) {
		validationErrors.Add(errors.NewFieldValidationError("type", "Type must be 'income', 'expense' or 'transfer'"))
	}
	if !t.Amount.IsPositive() {
		validationErrors.Add(errors.ErrInvalidAmount)
	}
	if strings.TrimSpace(t.WalletFrom) == "" {
		validationErrors.Add(errors.NewFieldValidationError("wallet_from", "Wallet is required"))
	}
	if t.Type == TransactionTransfer {
		if strings.TrimSpace(t.WalletTo) == "" {
			validationErrors.Add(errors.NewFieldValidationError("wallet_to", "Destination wallet is required for transfers"))
		} else if t.WalletTo == t.WalletFrom {
			validationErrors.Add(errors.NewFieldValidationError("wallet_to", "Destination wallet must differ from source wallet"))
		}
	}
	if strings.TrimSpace(customCategory) == "" {
		category := strings.TrimSpace(t.Category)
		if t.Type == TransactionExpense && category == "" {
			validationErrors.Add(errors.ErrInvalidCategory)
		} else if IsCustomCategorySentinel(category) {
			validationErrors.Add(errors.NewFieldValidationError("custom_category", "Enter a name for the custom category"))
		}
	} else if IsCustomCategorySentinel(customCategory) {
		validationErrors.Add(errors.NewFieldValidationError("custom_category", "Category name is reserved"))
	} else if len(strings.TrimSpace(customCategory)) > 50 {
		validationErrors.Add(errors.NewFieldValidationError("custom_category", "Custom category must be of length less than 50"))
	}
	if len(t.Description) > 200 {
		validationErrors.Add(errors.NewFieldValidationError("description", "Description must be of length less than 200"))
	}
	return validationErrors.ErrOrNil()
}

// Wallets returns every wallet id the transaction moves money on.
func (t *Transaction) Wallets() []string {
	if t.Type == TransactionTransfer && t.WalletTo != "" {
		return []string{t.WalletFrom, t.WalletTo}
	}
	return []string{t.WalletFrom}
}

// SignedAmountFor is the transaction's effect on the given wallet's balance.
func (t *Transaction) SignedAmountFor(walletID string) decimal.Decimal {
	switch t.Type {
	case TransactionIncome:
		if t.WalletFrom == walletID {
			return t.Amount
		}
	case TransactionExpense:
		if t.WalletFrom == walletID {
			return t.Amount.Neg()
		}
	case TransactionTransfer:
		effect := decimal.Zero
		if t.WalletFrom == walletID {
			effect = effect.Sub(t.Amount)
		}
		if t.WalletTo == walletID {
			effect = effect.Add(t.Amount)
		}
		return effect
	}
	return decimal.Zero
}
