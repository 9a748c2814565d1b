package errors

import (
	"errors"
	"fmt"
	"strings"
)

type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func NewFieldValidationError(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	ok := errors.As(err, &validationError)
	return ok
}

var ErrInvalidAmount = NewFieldValidationError("amount", "Amount must be greater than zero")
var ErrInvalidCategory = NewFieldValidationError("category", "Category is required for expenses")

type ValidationErrors struct {
	Errors []error
}

func (ve *ValidationErrors) Error() string {
	errorMessages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		errorMessages[i] = err.Error()
	}
	return fmt.Sprintf("multiple validation errors: %s", strings.Join(errorMessages, "; "))
}

func (ve *ValidationErrors) Add(err error) {
	ve.Errors = append(ve.Errors, err)
}

// ErrOrNil returns nil when nothing was collected so callers can return it directly.
func (ve *ValidationErrors) ErrOrNil() error {
	if len(ve.Errors) == 0 {
		return nil
	}
	return ve
}

// Messages flattens the collected errors into "field: message" strings.
func (ve *ValidationErrors) Messages() []string {
	errorMessages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		errorMessages[i] = err.Error()
	}
	return errorMessages
}

func IsValidationErrors(err error) bool {
	var validationErrors *ValidationErrors
	ok := errors.As(err, &validationErrors)
	return ok
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

var (
	// ErrVersionConflict is returned when a wallet or budget changed between read and write.
	ErrVersionConflict = errors.New("record was modified concurrently, refresh and retry")
	ErrForbidden       = errors.New("actor is not allowed to modify this wallet")
)
