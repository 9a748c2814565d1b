package interfaces

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	financeErrors "github.com/sebuszqo/BudgetTracker/internal/finance/errors"
	"github.com/stretchr/testify/assert"
)

func TestGetCategories(t *testing.T) {
	service := &MockCategoryService{
		ListCategoriesFunc: func(_ context.Context, userID string) ([]string, error) {
			assert.Equal(t, "u1", userID)
			return []string{"Food", "Pets"}, nil
		},
	}
	handler := NewCategoryHandler(service, RespondJSON, RespondError)

	w := httptest.NewRecorder()
	handler.GetCategories(w, authedRequest(t, http.MethodGet, "/categories", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	assert.Equal(t, "Categories retrieved successfully.", response["message"])
	assert.Equal(t, []interface{}{"Food", "Pets"}, response["data"])
}

func TestGetCategories_Failure(t *testing.T) {
	service := &MockCategoryService{
		ListCategoriesFunc: func(context.Context, string) ([]string, error) {
			return nil, errors.New("db down")
		},
	}
	handler := NewCategoryHandler(service, RespondJSON, RespondError)

	w := httptest.NewRecorder()
	handler.GetCategories(w, authedRequest(t, http.MethodGet, "/categories", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to retrieve categories", decodeResponse(t, w)["message"])
}

func TestAddCategory(t *testing.T) {
	service := &MockCategoryService{
		AddCustomCategoryFunc: func(_ context.Context, _ string, name string) (string, error) {
			if name == "Custom" {
				return "", financeErrors.NewFieldValidationError("name", "Category name is reserved")
			}
			return name, nil
		},
	}
	handler := NewCategoryHandler(service, RespondJSON, RespondError)

	w := httptest.NewRecorder()
	handler.AddCategory(w, authedRequest(t, http.MethodPost, "/categories", map[string]string{"name": "Pets"}))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Pets", decodeResponse(t, w)["data"])

	w = httptest.NewRecorder()
	handler.AddCategory(w, authedRequest(t, http.MethodPost, "/categories", map[string]string{"name": "Custom"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNewCategoryHandler_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewCategoryHandler(nil, RespondJSON, RespondError) })
}
