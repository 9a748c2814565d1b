package domain

import "context"

// Stores groups the repositories bound to a single unit of work.
type Stores struct {
	Wallets      WalletRepository
	Budgets      BudgetRepository
	Transactions TransactionRepository
	Categories   CategoryRepository
}

// UnitOfWork runs fn atomically: either every write made through the given
// Stores is committed, or none is.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}
