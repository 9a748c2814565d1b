package interfaces

import (
	"context"
	"net/http"
	"strings"

	"github.com/sebuszqo/BudgetTracker/internal/finance/application"
	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
)

type ReconciliationServiceInterface interface {
	Save(ctx context.Context, actor string, intent application.SaveIntent) (*domain.Transaction, error)
	Delete(ctx context.Context, actor, transactionID string) error
	ListTransactions(ctx context.Context, actor, walletID string) ([]domain.Transaction, error)
}

type TransactionHandler struct {
	service      ReconciliationServiceInterface
	respondJSON  JSONResponder
	respondError ErrorResponder
}

func NewTransactionHandler(
	service ReconciliationServiceInterface,
	respondJSON JSONResponder,
	respondError ErrorResponder,
) *TransactionHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &TransactionHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, "", http.StatusCreated, "Transaction successfully created.")
}

func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := r.PathValue("transactionID")
	if transactionID == "" {
		h.respondError(w, http.StatusBadRequest, "Transaction ID is required")
		return
	}
	h.save(w, r, transactionID, http.StatusOK, "Transaction successfully updated.")
}

func (h *TransactionHandler) save(w http.ResponseWriter, r *http.Request, originalID string, status int, message string) {
	actor, ok := actorFrom(w, r, h.respondError)
	if !ok {
		return
	}
	var req transactionRequest
	if !decodeBody(w, r, h.respondError, &req) {
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondServiceError(w, h.respondError, err)
		return
	}

	saved, err := h.service.Save(r.Context(), actor, application.SaveIntent{
		OriginalID:     originalID,
		Input:          input,
		CustomCategory: req.CustomCategory,
	})
	if err != nil {
		respondServiceError(w, h.respondError, err)
		return
	}

	h.respondJSON(w, status, success(message, newTransactionView(*saved)))
}

func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.respondError)
	if !ok {
		return
	}
	transactionID := r.PathValue("transactionID")
	if transactionID == "" {
		h.respondError(w, http.StatusBadRequest, "Transaction ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), actor, transactionID); err != nil {
		respondServiceError(w, h.respondError, err)
		return
	}

	h.respondJSON(w, http.StatusOK, success("Transaction successfully deleted.", nil))
}

func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.respondError)
	if !ok {
		return
	}
	walletID := strings.TrimSpace(r.URL.Query().Get("wallet_id"))
	if walletID == "" {
		h.respondError(w, http.StatusBadRequest, "wallet_id query parameter is required")
		return
	}

	transactions, err := h.service.ListTransactions(r.Context(), actor, walletID)
	if err != nil {
		respondServiceError(w, h.respondError, err)
		return
	}

	views := make([]transactionView, 0, len(transactions))
	for _, t := range transactions {
		views = append(views, newTransactionView(t))
	}
	h.respondJSON(w, http.StatusOK, success("Transactions retrieved successfully.", views))
}
