package interfaces

import (
	"context"

	"github.com/sebuszqo/BudgetTracker/internal/finance/application"
	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	"github.com/shopspring/decimal"
)

type MockReconciliationService struct {
	SaveFunc             func(ctx context.Context, actor string, intent application.SaveIntent) (*domain.Transaction, error)
	DeleteFunc           func(ctx context.Context, actor, transactionID string) error
	ListTransactionsFunc func(ctx context.Context, actor, walletID string) ([]domain.Transaction, error)
}

func (m *MockReconciliationService) Save(ctx context.Context, actor string, intent application.SaveIntent) (*domain.Transaction, error) {
	return m.SaveFunc(ctx, actor, intent)
}

func (m *MockReconciliationService) Delete(ctx context.Context, actor, transactionID string) error {
	return m.DeleteFunc(ctx, actor, transactionID)
}

func (m *MockReconciliationService) ListTransactions(ctx context.Context, actor, walletID string) ([]domain.Transaction, error) {
	return m.ListTransactionsFunc(ctx, actor, walletID)
}

type MockCategoryService struct {
	ListCategoriesFunc    func(ctx context.Context, userID string) ([]string, error)
	AddCustomCategoryFunc func(ctx context.Context, userID, name string) (string, error)
}

func (m *MockCategoryService) ListCategories(ctx context.Context, userID string) ([]string, error) {
	return m.ListCategoriesFunc(ctx, userID)
}

func (m *MockCategoryService) AddCustomCategory(ctx context.Context, userID, name string) (string, error) {
	return m.AddCustomCategoryFunc(ctx, userID, name)
}

type MockWalletService struct {
	CreateWalletFunc func(ctx context.Context, actor string, input application.NewWallet) (*domain.Wallet, error)
	ListWalletsFunc  func(ctx context.Context, actor string) ([]domain.Wallet, error)
	DeleteWalletFunc func(ctx context.Context, actor, walletID string) error
}

func (m *MockWalletService) CreateWallet(ctx context.Context, actor string, input application.NewWallet) (*domain.Wallet, error) {
	return m.CreateWalletFunc(ctx, actor, input)
}

func (m *MockWalletService) ListWallets(ctx context.Context, actor string) ([]domain.Wallet, error) {
	return m.ListWalletsFunc(ctx, actor)
}

func (m *MockWalletService) DeleteWallet(ctx context.Context, actor, walletID string) error {
	return m.DeleteWalletFunc(ctx, actor, walletID)
}

type MockCollaboratorService struct {
	SyncCollaboratorsFunc func(ctx context.Context, actor, walletID string, next []domain.Collaborator) (*domain.Wallet, error)
	UpdateWalletFunc      func(ctx context.Context, actor, walletID string, update application.WalletUpdate) (*domain.Wallet, error)
}

func (m *MockCollaboratorService) SyncCollaborators(ctx context.Context, actor, walletID string, next []domain.Collaborator) (*domain.Wallet, error) {
	return m.SyncCollaboratorsFunc(ctx, actor, walletID, next)
}

func (m *MockCollaboratorService) UpdateWallet(ctx context.Context, actor, walletID string, update application.WalletUpdate) (*domain.Wallet, error) {
	return m.UpdateWalletFunc(ctx, actor, walletID, update)
}

type MockBudgetService struct {
	CreateBudgetFunc       func(ctx context.Context, actor string, input application.NewBudget) (*domain.Budget, error)
	ListBudgetsFunc        func(ctx context.Context, actor string) ([]domain.Budget, error)
	UpdateBudgetAmountFunc func(ctx context.Context, actor, budgetID string, amount decimal.Decimal) (*domain.Budget, error)
	DeleteBudgetFunc       func(ctx context.Context, actor, budgetID string) error
}

func (m *MockBudgetService) CreateBudget(ctx context.Context, actor string, input application.NewBudget) (*domain.Budget, error) {
	return m.CreateBudgetFunc(ctx, actor, input)
}

func (m *MockBudgetService) ListBudgets(ctx context.Context, actor string) ([]domain.Budget, error) {
	return m.ListBudgetsFunc(ctx, actor)
}

func (m *MockBudgetService) UpdateBudgetAmount(ctx context.Context, actor, budgetID string, amount decimal.Decimal) (*domain.Budget, error) {
	return m.UpdateBudgetAmountFunc(ctx, actor, budgetID, amount)
}

func (m *MockBudgetService) DeleteBudget(ctx context.Context, actor, budgetID string) error {
	return m.DeleteBudgetFunc(ctx, actor, budgetID)
}
