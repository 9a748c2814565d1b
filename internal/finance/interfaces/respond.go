package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sebuszqo/BudgetTracker/internal/auth"
	financeErrors "github.com/sebuszqo/BudgetTracker/internal/finance/errors"
)

type JSONResponder func(w http.ResponseWriter, status int, payload interface{})

type ErrorResponder func(w http.ResponseWriter, status int, message string, errors ...[]string)

func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func RespondError(w http.ResponseWriter, status int, message string, errors ...[]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}

	if len(errors) > 0 && len(errors[0]) > 0 {
		payload["errors"] = errors[0]
	}

	RespondJSON(w, status, payload)
}

func success(message string, data interface{}) map[string]interface{} {
	return map[string]interface{}{
		"status":  "success",
		"message": message,
		"data":    data,
	}
}

// respondServiceError maps the finance error kinds onto HTTP statuses. Anything
// unrecognised was already logged by the service and is reported generically.
func respondServiceError(w http.ResponseWriter, respondError ErrorResponder, err error) {
	var validationErrors *financeErrors.ValidationErrors
	var validationError *financeErrors.ValidationError
	switch {
	case errors.As(err, &validationErrors):
		respondError(w, http.StatusBadRequest, "Validation errors occurred", validationErrors.Messages())
	case errors.As(err, &validationError):
		respondError(w, http.StatusBadRequest, "Validation errors occurred", []string{validationError.Error()})
	case financeErrors.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, financeErrors.ErrForbidden):
		respondError(w, http.StatusForbidden, "You are not allowed to change this wallet")
	case errors.Is(err, financeErrors.ErrVersionConflict):
		respondError(w, http.StatusConflict, "Data changed in the meantime, refresh and retry")
	default:
		respondError(w, http.StatusInternalServerError, "Failed, please try again")
	}
}

func actorFrom(w http.ResponseWriter, r *http.Request, respondError ErrorResponder) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return userID, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, respondError ErrorResponder, into interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(into); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
