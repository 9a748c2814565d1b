package domain

import (
	"context"
	"strings"
)

// CustomCategorySentinel is the picker entry that opens free-text input; it is never a real category.
const CustomCategorySentinel = "Custom"

// IsCustomCategorySentinel matches the sentinel in any letter case, so "custom" can't be saved as a category either.
func IsCustomCategorySentinel(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), CustomCategorySentinel)
}

var BuiltinCategories = []string{
	"Food",
	"Transport",
	"Shopping",
	"Bills",
	"Entertainment",
	"Health",
	"Education",
	"Travel",
	"Salary",
	"Gift",
	"Other",
	CustomCategorySentinel,
}

type CategoryRepository interface {
	List(ctx context.Context, userID string) ([]string, error)
	// Create is idempotent: saving an existing name is a no-op.
	Create(ctx context.Context, userID, name string) error
}
