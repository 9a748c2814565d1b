package interfaces

import (
	"context"
	"net/http"

	"github.com/sebuszqo/BudgetTracker/internal/finance/application"
	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	"github.com/shopspring/decimal"
)

type BudgetServiceInterface interface {
	CreateBudget(ctx context.Context, actor string, input application.NewBudget) (*domain.Budget, error)
	ListBudgets(ctx context.Context, actor string) ([]domain.Budget, error)
	UpdateBudgetAmount(ctx context.Context, actor, budgetID string, amount decimal.Decimal) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, actor, budgetID string) error
}

type BudgetHandler struct {
	service      BudgetServiceInterface
	respondJSON  JSONResponder
	respondError ErrorResponder
}

func NewBudgetHandler(
	service BudgetServiceInterface,
	respondJSON JSONResponder,
	respondError ErrorResponder,
) *BudgetHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &BudgetHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *BudgetHandler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.respondError)
	if !ok {
		return
	}
	var req struct {
		Category string `json:"category"`
		Amount   string `json:"amount"`
		Period   string `json:"period"`
		Plan     string `json:"plan"`
		WalletID string `json:"wallet_id"`
	}
	if !decodeBody(w, r, h.respondError, &req) {
		return
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		respondServiceError(w, h.respondError, err)
		return
	}

	budget, err := h.service.CreateBudget(r.Context(), actor, application.NewBudget{
		Category: req.Category,
		Amount:   amount,
		Period:   domain.Period(req.Period),
		Plan:     domain.Plan(req.Plan),
		WalletID: req.WalletID,
	})
	if err != nil {
		respondServiceError(w, h.respondError, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, success("Budget successfully created.", newBudgetView(*budget)))
}

func (h *BudgetHandler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.respondError)
	if !ok {
		return
	}

	budgets, err := h.service.ListBudgets(r.Context(), actor)
	if err != nil {
		respondServiceError(w, h.respondError, err)
		return
	}

	views := make([]budgetView, 0, len(budgets))
	for _, b := range budgets {
		views = append(views, newBudgetView(b))
	}
	h.respondJSON(w, http.StatusOK, success("Budgets retrieved successfully.", views))
}

func (h *BudgetHandler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.respondError)
	if !ok {
		return
	}
	var req struct {
		Amount string `json:"amount"`
	}
	if !decodeBody(w, r, h.respondError, &req) {
		return
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		respondServiceError(w, h.respondError, err)
		return
	}

	budget, err := h.service.UpdateBudgetAmount(r.Context(), actor, r.PathValue("budgetID"), amount)
	if err != nil {
		respondServiceError(w, h.respondError, err)
		return
	}

	h.respondJSON(w, http.StatusOK, success("Budget successfully updated.", newBudgetView(*budget)))
}

func (h *BudgetHandler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.respondError)
	if !ok {
		return
	}

	if err := h.service.DeleteBudget(r.Context(), actor, r.PathValue("budgetID")); err != nil {
		respondServiceError(w, h.respondError, err)
		return
	}

	h.respondJSON(w, http.StatusOK, success("Budget successfully deleted.", nil))
}
