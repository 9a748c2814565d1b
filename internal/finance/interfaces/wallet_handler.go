package interfaces

import (
	"context"
	"net/http"

	"github.com/sebuszqo/BudgetTracker/internal/finance/application"
	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	"github.com/shopspring/decimal"
)

type WalletServiceInterface interface {
	CreateWallet(ctx context.Context, actor string, input application.NewWallet) (*domain.Wallet, error)
	ListWallets(ctx context.Context, actor string) ([]domain.Wallet, error)
	DeleteWallet(ctx context.Context, actor, walletID string) error
}

type CollaboratorServiceInterface interface {
	SyncCollaborators(ctx context.Context, actor, walletID string, next []domain.Collaborator) (*domain.Wallet, error)
	UpdateWallet(ctx context.Context, actor, walletID string, update application.WalletUpdate) (*domain.Wallet, error)
}

type WalletHandler struct {
	wallets       WalletServiceInterface
	collaborators CollaboratorServiceInterface
	respondJSON   JSONResponder
	respondError  ErrorResponder
}

func NewWalletHandler(
	wallets WalletServiceInterface,
	collaborators CollaboratorServiceInterface,
	respondJSON JSONResponder,
	respondError ErrorResponder,
) *WalletHandler {
	if wallets == nil || collaborators == nil || respondJSON == nil || respondError == nil {
		panic("Services and response functions must not be nil")
	}
	return &WalletHandler{
		wallets:       wallets,
		collaborators: collaborators,
		respondJSON:   respondJSON,
		respondError:  respondError,
	}
}

func (h *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.respondError)
	if !ok {
		return
	}
	var req struct {
		Name           string `json:"name"`
		Plan           string `json:"plan"`
		OpeningBalance string `json:"opening_balance"`
	}
	if !decodeBody(w, r, h.respondError, &req) {
		return
	}
	opening := decimal.Zero
	if req.OpeningBalance != "" {
		var err error
		if opening, err = parseAmount("opening_balance", req.OpeningBalance); err != nil {
			respondServiceError(w, h.respondError, err)
			return
		}
	}

	wallet, err := h.wallets.CreateWallet(r.Context(), actor, application.NewWallet{
		Name:           req.Name,
		Plan:           domain.Plan(req.Plan),
		OpeningBalance: opening,
	})
	if err != nil {
		respondServiceError(w, h.respondError, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, success("Wallet successfully created.", newWalletView(*wallet)))
}

func (h *WalletHandler) ListWallets(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.respondError)
	if !ok {
		return
	}

	wallets, err := h.wallets.ListWallets(r.Context(), actor)
	if err != nil {
		respondServiceError(w, h.respondError, err)
		return
	}

	views := make([]walletView, 0, len(wallets))
	for _, wallet := range wallets {
		views = append(views, newWalletView(wallet))
	}
	h.respondJSON(w, http.StatusOK, success("Wallets retrieved successfully.", views))
}

// UpdateWallet applies a rename and/or a stated balance as one change. Both are
// optional but at least one must be present.
func (h *WalletHandler) UpdateWallet(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.respondError)
	if !ok {
		return
	}
	walletID := r.PathValue("walletID")
	var req struct {
		Name    *string `json:"name"`
		Balance *string `json:"balance"`
	}
	if !decodeBody(w, r, h.respondError, &req) {
		return
	}

	update := application.WalletUpdate{Name: req.Name}
	if req.Balance != nil {
		balance, err := parseAmount("balance", *req.Balance)
		if err != nil {
			respondServiceError(w, h.respondError, err)
			return
		}
		update.Balance = &balance
	}

	wallet, err := h.collaborators.UpdateWallet(r.Context(), actor, walletID, update)
	if err != nil {
		respondServiceError(w, h.respondError, err)
		return
	}

	h.respondJSON(w, http.StatusOK, success("Wallet successfully updated.", newWalletView(*wallet)))
}

func (h *WalletHandler) DeleteWallet(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.respondError)
	if !ok {
		return
	}

	if err := h.wallets.DeleteWallet(r.Context(), actor, r.PathValue("walletID")); err != nil {
		respondServiceError(w, h.respondError, err)
		return
	}

	h.respondJSON(w, http.StatusOK, success("Wallet successfully deleted.", nil))
}

func (h *WalletHandler) SyncCollaborators(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.respondError)
	if !ok {
		return
	}
	walletID := r.PathValue("walletID")
	var req struct {
		Collaborators []domain.Collaborator `json:"collaborators"`
	}
	if !decodeBody(w, r, h.respondError, &req) {
		return
	}

	wallet, err := h.collaborators.SyncCollaborators(r.Context(), actor, walletID, req.Collaborators)
	if err != nil {
		respondServiceError(w, h.respondError, err)
		return
	}

	h.respondJSON(w, http.StatusOK, success("Collaborators successfully updated.", newWalletView(*wallet)))
}
