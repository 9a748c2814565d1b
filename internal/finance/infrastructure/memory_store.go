package infrastructure

import (
	"context"
	"sort"
	"sync"

	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/BudgetTracker/internal/finance/errors"
)

// MemoryStore keeps every entity in maps guarded by one mutex. Units of work are
// serialized and rolled back by restoring a snapshot, which makes it a faithful
// stand-in for the Postgres store in tests and local runs.
type MemoryStore struct {
	mu sync.Mutex

	wallets      map[string]domain.Wallet
	budgets      map[string]domain.Budget
	transactions map[string]domain.Transaction
	categories   map[string][]string
	activity     []domain.ActivityEntry

	failures map[string]error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		wallets:      make(map[string]domain.Wallet),
		budgets:      make(map[string]domain.Budget),
		transactions: make(map[string]domain.Transaction),
		categories:   make(map[string][]string),
		failures:     make(map[string]error),
	}
}

type memorySnapshot struct {
	wallets      map[string]domain.Wallet
	budgets      map[string]domain.Budget
	transactions map[string]domain.Transaction
	categories   map[string][]string
}

func (m *MemoryStore) snapshot() memorySnapshot {
	s := memorySnapshot{
		wallets:      make(map[string]domain.Wallet, len(m.wallets)),
		budgets:      make(map[string]domain.Budget, len(m.budgets)),
		transactions: make(map[string]domain.Transaction, len(m.transactions)),
		categories:   make(map[string][]string, len(m.categories)),
	}
	for id, w := range m.wallets {
		s.wallets[id] = copyWallet(w)
	}
	for id, b := range m.budgets {
		s.budgets[id] = copyBudget(b)
	}
	for id, t := range m.transactions {
		s.transactions[id] = t
	}
	for user, names := range m.categories {
		s.categories[user] = append([]string(nil), names...)
	}
	return s
}

func (m *MemoryStore) restore(s memorySnapshot) {
	m.wallets = s.wallets
	m.budgets = s.budgets
	m.transactions = s.transactions
	m.categories = s.categories
}

// Do implements domain.UnitOfWork.
func (m *MemoryStore) Do(ctx context.Context, fn func(ctx context.Context, stores domain.Stores) error) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.snapshot()
	defer func() {
		if p := recover(); p != nil {
			m.restore(snap)
			panic(p)
		}
	}()

	stores := domain.Stores{
		Wallets:      memoryWallets{m},
		Budgets:      memoryBudgets{m},
		Transactions: memoryTransactions{m},
		Categories:   memoryCategories{m},
	}
	if err = fn(ctx, stores); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

// Append implements domain.ActivityLog.
func (m *MemoryStore) Append(_ context.Context, entry domain.ActivityEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures["activity.append"]; err != nil {
		return err
	}
	m.activity = append(m.activity, entry)
	return nil
}

// FailOn makes the named operation (e.g. "wallets.update") return err until cleared with a nil err.
func (m *MemoryStore) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

func (m *MemoryStore) fail(op string) error {
	return m.failures[op]
}

func (m *MemoryStore) SeedWallet(w domain.Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[w.ID] = copyWallet(w)
}

func (m *MemoryStore) SeedBudget(b domain.Budget) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.budgets[b.ID] = copyBudget(b)
}

func (m *MemoryStore) SeedTransaction(t domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[t.ID] = t
}

func (m *MemoryStore) Wallet(id string) (domain.Wallet, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[id]
	return copyWallet(w), ok
}

func (m *MemoryStore) Budget(id string) (domain.Budget, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.budgets[id]
	return copyBudget(b), ok
}

func (m *MemoryStore) Transaction(id string) (domain.Transaction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[id]
	return t, ok
}

func (m *MemoryStore) TransactionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.transactions)
}

func (m *MemoryStore) Activity() []domain.ActivityEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ActivityEntry(nil), m.activity...)
}

func copyWallet(w domain.Wallet) domain.Wallet {
	w.Collaborators = domain.CloneCollaborators(w.Collaborators)
	return w
}

func copyBudget(b domain.Budget) domain.Budget {
	b.Collaborators = domain.CloneCollaborators(b.Collaborators)
	return b
}

type memoryWallets struct{ m *MemoryStore }

func (r memoryWallets) Get(_ context.Context, walletID string) (*domain.Wallet, error) {
	if err := r.m.fail("wallets.get"); err != nil {
		return nil, err
	}
	w, ok := r.m.wallets[walletID]
	if !ok {
		return nil, financeErrors.NewNotFoundError("wallet", walletID)
	}
	w = copyWallet(w)
	return &w, nil
}

func (r memoryWallets) ListByUser(_ context.Context, userID string) ([]domain.Wallet, error) {
	var wallets []domain.Wallet
	for _, w := range r.m.wallets {
		if w.CanRead(userID) {
			wallets = append(wallets, copyWallet(w))
		}
	}
	sortWallets(wallets)
	return wallets, nil
}

func (r memoryWallets) ListAll(_ context.Context) ([]domain.Wallet, error) {
	wallets := make([]domain.Wallet, 0, len(r.m.wallets))
	for _, w := range r.m.wallets {
		wallets = append(wallets, copyWallet(w))
	}
	sortWallets(wallets)
	return wallets, nil
}

func (r memoryWallets) Create(_ context.Context, wallet *domain.Wallet) error {
	if err := r.m.fail("wallets.create"); err != nil {
		return err
	}
	wallet.Version = 1
	r.m.wallets[wallet.ID] = copyWallet(*wallet)
	return nil
}

func (r memoryWallets) Update(_ context.Context, wallet *domain.Wallet) error {
	if err := r.m.fail("wallets.update"); err != nil {
		return err
	}
	stored, ok := r.m.wallets[wallet.ID]
	if !ok {
		return financeErrors.NewNotFoundError("wallet", wallet.ID)
	}
	if stored.Version != wallet.Version {
		return financeErrors.ErrVersionConflict
	}
	wallet.Version++
	r.m.wallets[wallet.ID] = copyWallet(*wallet)
	return nil
}

func (r memoryWallets) Delete(_ context.Context, walletID string) error {
	if _, ok := r.m.wallets[walletID]; !ok {
		return financeErrors.NewNotFoundError("wallet", walletID)
	}
	delete(r.m.wallets, walletID)
	return nil
}

type memoryBudgets struct{ m *MemoryStore }

func (r memoryBudgets) Get(_ context.Context, budgetID string) (*domain.Budget, error) {
	b, ok := r.m.budgets[budgetID]
	if !ok {
		return nil, financeErrors.NewNotFoundError("budget", budgetID)
	}
	b = copyBudget(b)
	return &b, nil
}

func (r memoryBudgets) ListByOwner(_ context.Context, ownerID string) ([]domain.Budget, error) {
	if err := r.m.fail("budgets.list"); err != nil {
		return nil, err
	}
	var budgets []domain.Budget
	for _, b := range r.m.budgets {
		if b.OwnerID == ownerID {
			budgets = append(budgets, copyBudget(b))
		}
	}
	sortBudgets(budgets)
	return budgets, nil
}

func (r memoryBudgets) ListByWallet(_ context.Context, walletID string) ([]domain.Budget, error) {
	if err := r.m.fail("budgets.list"); err != nil {
		return nil, err
	}
	var budgets []domain.Budget
	for _, b := range r.m.budgets {
		if b.WalletID == walletID {
			budgets = append(budgets, copyBudget(b))
		}
	}
	sortBudgets(budgets)
	return budgets, nil
}

func (r memoryBudgets) ListAll(_ context.Context) ([]domain.Budget, error) {
	budgets := make([]domain.Budget, 0, len(r.m.budgets))
	for _, b := range r.m.budgets {
		budgets = append(budgets, copyBudget(b))
	}
	sortBudgets(budgets)
	return budgets, nil
}

func (r memoryBudgets) Create(_ context.Context, budget *domain.Budget) error {
	budget.Version = 1
	r.m.budgets[budget.ID] = copyBudget(*budget)
	return nil
}

func (r memoryBudgets) Update(_ context.Context, budget *domain.Budget) error {
	if err := r.m.fail("budgets.update"); err != nil {
		return err
	}
	stored, ok := r.m.budgets[budget.ID]
	if !ok {
		return financeErrors.NewNotFoundError("budget", budget.ID)
	}
	if stored.Version != budget.Version {
		return financeErrors.ErrVersionConflict
	}
	budget.Version++
	r.m.budgets[budget.ID] = copyBudget(*budget)
	return nil
}

func (r memoryBudgets) Delete(_ context.Context, budgetID string) error {
	if _, ok := r.m.budgets[budgetID]; !ok {
		return financeErrors.NewNotFoundError("budget", budgetID)
	}
	delete(r.m.budgets, budgetID)
	return nil
}

type memoryTransactions struct{ m *MemoryStore }

func (r memoryTransactions) Get(_ context.Context, transactionID string) (*domain.Transaction, error) {
	t, ok := r.m.transactions[transactionID]
	if !ok {
		return nil, financeErrors.NewNotFoundError("transaction", transactionID)
	}
	return &t, nil
}

func (r memoryTransactions) ListByWallet(_ context.Context, walletID string) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	for _, t := range r.m.transactions {
		if t.WalletFrom == walletID || t.WalletTo == walletID {
			transactions = append(transactions, t)
		}
	}
	sortTransactions(transactions)
	return transactions, nil
}

func (r memoryTransactions) ListByCreator(_ context.Context, userID string) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	for _, t := range r.m.transactions {
		if t.CreatedBy == userID {
			transactions = append(transactions, t)
		}
	}
	sortTransactions(transactions)
	return transactions, nil
}

func (r memoryTransactions) ListAll(_ context.Context) ([]domain.Transaction, error) {
	transactions := make([]domain.Transaction, 0, len(r.m.transactions))
	for _, t := range r.m.transactions {
		transactions = append(transactions, t)
	}
	sortTransactions(transactions)
	return transactions, nil
}

func (r memoryTransactions) Create(_ context.Context, transaction *domain.Transaction) error {
	if err := r.m.fail("transactions.create"); err != nil {
		return err
	}
	r.m.transactions[transaction.ID] = *transaction
	return nil
}

func (r memoryTransactions) Delete(_ context.Context, transactionID string) error {
	if err := r.m.fail("transactions.delete"); err != nil {
		return err
	}
	if _, ok := r.m.transactions[transactionID]; !ok {
		return financeErrors.NewNotFoundError("transaction", transactionID)
	}
	delete(r.m.transactions, transactionID)
	return nil
}

type memoryCategories struct{ m *MemoryStore }

func (r memoryCategories) List(_ context.Context, userID string) ([]string, error) {
	return append([]string(nil), r.m.categories[userID]...), nil
}

func (r memoryCategories) Create(_ context.Context, userID, name string) error {
	if err := r.m.fail("categories.create"); err != nil {
		return err
	}
	for _, existing := range r.m.categories[userID] {
		if existing == name {
			return nil
		}
	}
	r.m.categories[userID] = append(r.m.categories[userID], name)
	return nil
}

func sortWallets(wallets []domain.Wallet) {
	sort.Slice(wallets, func(i, j int) bool {
		if !wallets[i].CreatedAt.Equal(wallets[j].CreatedAt) {
			return wallets[i].CreatedAt.Before(wallets[j].CreatedAt)
		}
		return wallets[i].ID < wallets[j].ID
	})
}

func sortBudgets(budgets []domain.Budget) {
	sort.Slice(budgets, func(i, j int) bool {
		if !budgets[i].CreatedAt.Equal(budgets[j].CreatedAt) {
			return budgets[i].CreatedAt.Before(budgets[j].CreatedAt)
		}
		return budgets[i].ID < budgets[j].ID
	})
}

func sortTransactions(transactions []domain.Transaction) {
	sort.Slice(transactions, func(i, j int) bool {
		if !transactions[i].DateTime.Equal(transactions[j].DateTime) {
			return transactions[i].DateTime.After(transactions[j].DateTime)
		}
		return transactions[i].ID < transactions[j].ID
	})
}
