package interfaces

import (
	"context"
	"net/http"
)

type CategoryServiceInterface interface {
	ListCategories(ctx context.Context, userID string) ([]string, error)
	AddCustomCategory(ctx context.Context, userID, name string) (string, error)
}

type CategoryHandler struct {
	service      CategoryServiceInterface
	respondJSON  JSONResponder
	respondError ErrorResponder
}

func NewCategoryHandler(
	service CategoryServiceInterface,
	respondJSON JSONResponder,
	respondError ErrorResponder,
) *CategoryHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &CategoryHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.respondError)
	if !ok {
		return
	}

	categories, err := h.service.ListCategories(r.Context(), actor)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}
	if categories == nil {
		categories = []string{}
	}

	h.respondJSON(w, http.StatusOK, success("Categories retrieved successfully.", categories))
}

func (h *CategoryHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r, h.respondError)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, h.respondError, &req) {
		return
	}

	name, err := h.service.AddCustomCategory(r.Context(), actor, req.Name)
	if err != nil {
		respondServiceError(w, h.respondError, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, success("Category successfully created.", name))
}
