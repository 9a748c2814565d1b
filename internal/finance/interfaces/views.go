package interfaces

import (
	"errors"
	"time"

	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/BudgetTracker/internal/finance/errors"
	"github.com/sebuszqo/BudgetTracker/internal/finance/money"
	"github.com/shopspring/decimal"
)

// Amounts travel as strings so clients never round-trip money through floats.

type transactionRequest struct {
	Type           string    `json:"type"`
	Amount         string    `json:"amount"`
	DateTime       time.Time `json:"date_time"`
	Category       string    `json:"category"`
	CustomCategory string    `json:"custom_category"`
	WalletFrom     string    `json:"wallet_from"`
	WalletTo       string    `json:"wallet_to"`
	Description    string    `json:"description"`
}

// toInput reports an unparsable amount together with every other field problem
// so the client sees the full list at once.
func (r transactionRequest) toInput() (domain.TransactionInput, error) {
	input := domain.TransactionInput{
		Type:        domain.TransactionType(r.Type),
		DateTime:    r.DateTime,
		Category:    r.Category,
		WalletFrom:  r.WalletFrom,
		WalletTo:    r.WalletTo,
		Description: r.Description,
	}
	amount, err := parseAmount("amount", r.Amount)
	if err == nil {
		input.Amount = amount
		return input, nil
	}

	validationErrors := &financeErrors.ValidationErrors{}
	validationErrors.Add(err)
	var rest *financeErrors.ValidationErrors
	if errors.As(input.Validate(r.CustomCategory), &rest) {
		for _, fieldErr := range rest.Errors {
			if !errors.Is(fieldErr, financeErrors.ErrInvalidAmount) {
				validationErrors.Add(fieldErr)
			}
		}
	}
	return input, validationErrors
}

type transactionView struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Amount      string     `json:"amount"`
	DateTime    time.Time  `json:"date_time"`
	Category    string     `json:"category,omitempty"`
	WalletFrom  string     `json:"wallet_from"`
	WalletTo    string     `json:"wallet_to,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedBy   string     `json:"updated_by,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func newTransactionView(t domain.Transaction) transactionView {
	view := transactionView{
		ID:          t.ID,
		Type:        string(t.Type),
		Amount:      money.Format(t.Amount),
		DateTime:    t.DateTime,
		Category:    t.Category,
		WalletFrom:  t.WalletFrom,
		WalletTo:    t.WalletTo,
		Description: t.Description,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedBy:   t.UpdatedBy,
	}
	if !t.UpdatedAt.IsZero() {
		updatedAt := t.UpdatedAt
		view.UpdatedAt = &updatedAt
	}
	return view
}

type walletView struct {
	ID             string                `json:"id"`
	OwnerID        string                `json:"owner_id"`
	Name           string                `json:"name"`
	Plan           string                `json:"plan"`
	Balance        string                `json:"balance"`
	OpeningBalance string                `json:"opening_balance"`
	Collaborators  []domain.Collaborator `json:"collaborators"`
	Version        int64                 `json:"version"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

func newWalletView(w domain.Wallet) walletView {
	collaborators := w.Collaborators
	if collaborators == nil {
		collaborators = []domain.Collaborator{}
	}
	return walletView{
		ID:             w.ID,
		OwnerID:        w.OwnerID,
		Name:           w.Name,
		Plan:           string(w.Plan),
		Balance:        money.Format(w.Balance),
		OpeningBalance: money.Format(w.OpeningBalance),
		Collaborators:  collaborators,
		Version:        w.Version,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}
}

type budgetView struct {
	ID            string                `json:"id"`
	OwnerID       string                `json:"owner_id"`
	Category      string                `json:"category"`
	Amount        string                `json:"amount"`
	Left          string                `json:"left"`
	Spent         string                `json:"spent"`
	Period        string                `json:"period"`
	Plan          string                `json:"plan"`
	WalletID      string                `json:"wallet_id,omitempty"`
	WalletName    string                `json:"wallet_name,omitempty"`
	Collaborators []domain.Collaborator `json:"collaborators"`
	Version       int64                 `json:"version"`
}

func newBudgetView(b domain.Budget) budgetView {
	collaborators := b.Collaborators
	if collaborators == nil {
		collaborators = []domain.Collaborator{}
	}
	return budgetView{
		ID:            b.ID,
		OwnerID:       b.OwnerID,
		Category:      b.Category,
		Amount:        money.Format(b.Amount),
		Left:          money.Format(b.Left),
		Spent:         money.Format(b.Spent),
		Period:        string(b.Period),
		Plan:          string(b.Plan),
		WalletID:      b.WalletID,
		WalletName:    b.WalletName,
		Collaborators: collaborators,
		Version:       b.Version,
	}
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	amount, err := money.Parse(raw)
	if err != nil {
		return decimal.Zero, financeErrors.NewFieldValidationError(field, "Amount must be a decimal with at most two fractional digits")
	}
	return amount, nil
}
