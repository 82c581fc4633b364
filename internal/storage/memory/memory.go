// Package memory provides an in-memory storage.Store for tests and
// throwaway local runs. Records are copied on the way in and out so callers
// never share state with the store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"studentfin/internal/core"
	"studentfin/internal/storage"
)

type Store struct {
	mu sync.RWMutex

	users      map[string]core.User
	categories map[string]core.Category
	expenses   map[string]core.Expense
	incomes    map[string]core.Income
	budgets    map[string]core.Budget
	goals      map[string]core.Goal
	recurring  map[string]core.RecurringExpense
}

var _ storage.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		users:      make(map[string]core.User),
		categories: make(map[string]core.Category),
		expenses:   make(map[string]core.Expense),
		incomes:    make(map[string]core.Income),
		budgets:    make(map[string]core.Budget),
		goals:      make(map[string]core.Goal),
		recurring:  make(map[string]core.RecurringExpense),
	}
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

func notFound(op, id string) error {
	return fmt.Errorf("%s %s: %w", op, id, core.ErrNotFound)
}

// categoryName resolves a category id; callers hold the lock.
func (s *Store) categoryName(id string) string {
	return s.categories[id].Name
}

// Users

func (s *Store) CreateUser(_ context.Context, u *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return fmt.Errorf("create user: %w", core.ErrConflict)
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUser(_ context.Context, id string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, notFound("get user", id)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, notFound("get user by email", email)
}

// Categories

func (s *Store) categoryTaken(c *core.Category) bool {
	for id, existing := range s.categories {
		if id != c.ID && existing.OwnerID == c.OwnerID && existing.Name == c.Name && existing.Kind == c.Kind {
			return true
		}
	}
	return false
}

func (s *Store) CreateCategory(_ context.Context, c *core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.categoryTaken(c) {
		return fmt.Errorf("create category: %w", core.ErrConflict)
	}
	s.categories[c.ID] = *c
	return nil
}

func (s *Store) GetCategory(_ context.Context, id string) (*core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, notFound("get category", id)
	}
	return &c, nil
}

func (s *Store) FindCategory(_ context.Context, ownerID, name string, kind core.CategoryKind) (*core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.OwnerID == ownerID && c.Name == name && c.Kind == kind {
			return &c, nil
		}
	}
	return nil, notFound("find category", name)
}

func (s *Store) ListCategories(_ context.Context, ownerID string, kind core.CategoryKind) ([]*core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*core.Category, 0)
	for _, c := range s.categories {
		if c.OwnerID != ownerID || (kind != "" && c.Kind != kind) {
			continue
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) UpdateCategory(_ context.Context, c *core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[c.ID]; !ok {
		return notFound("update category", c.ID)
	}
	if s.categoryTaken(c) {
		return fmt.Errorf("update category: %w", core.ErrConflict)
	}
	s.categories[c.ID] = *c
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return notFound("delete category", id)
	}
	for bid, b := range s.budgets {
		if b.CategoryID == id {
			delete(s.budgets, bid)
		}
	}
	for rid, r := range s.recurring {
		if r.CategoryID == id {
			delete(s.recurring, rid)
		}
	}
	delete(s.categories, id)
	return nil
}

// Expenses

func expenseKey(e *core.Expense) storage.TransactionKey {
	return storage.TransactionKey{Date: e.Date, CreatedAt: e.CreatedAt, ID: e.ID}
}

func (s *Store) CreateExpense(_ context.Context, e *core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses[e.ID] = *e
	return nil
}

func (s *Store) GetExpense(_ context.Context, id string) (*core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.expenses[id]
	if !ok {
		return nil, notFound("get expense", id)
	}
	e.CategoryName = s.categoryName(e.CategoryID)
	return &e, nil
}

func (s *Store) ListExpenses(_ context.Context, ownerID string, f storage.TransactionFilter) ([]*core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*core.Expense, 0)
	for _, e := range s.expenses {
		if e.OwnerID != ownerID || !f.Matches(e.CategoryID, e.Date) {
			continue
		}
		e.CategoryName = s.categoryName(e.CategoryID)
		out = append(out, &e)
	}
	storage.SortNewestFirst(out, expenseKey)
	return storage.ApplyLimit(out, f.Limit), nil
}

func (s *Store) CountExpensesByCategory(_ context.Context, ownerID, categoryID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.expenses {
		if e.OwnerID == ownerID && e.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (s *Store) UpdateExpense(_ context.Context, e *core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[e.ID]; !ok {
		return notFound("update expense", e.ID)
	}
	s.expenses[e.ID] = *e
	return nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[id]; !ok {
		return notFound("delete expense", id)
	}
	delete(s.expenses, id)
	return nil
}

// Incomes

func incomeKey(i *core.Income) storage.TransactionKey {
	return storage.TransactionKey{Date: i.Date, CreatedAt: i.CreatedAt, ID: i.ID}
}

func (s *Store) CreateIncome(_ context.Context, i *core.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incomes[i.ID] = *i
	return nil
}

func (s *Store) GetIncome(_ context.Context, id string) (*core.Income, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.incomes[id]
	if !ok {
		return nil, notFound("get income", id)
	}
	i.CategoryName = s.categoryName(i.CategoryID)
	return &i, nil
}

func (s *Store) ListIncomes(_ context.Context, ownerID string, f storage.TransactionFilter) ([]*core.Income, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*core.Income, 0)
	for _, i := range s.incomes {
		if i.OwnerID != ownerID || !f.Matches(i.CategoryID, i.Date) {
			continue
		}
		i.CategoryName = s.categoryName(i.CategoryID)
		out = append(out, &i)
	}
	storage.SortNewestFirst(out, incomeKey)
	return storage.ApplyLimit(out, f.Limit), nil
}

func (s *Store) CountIncomesByCategory(_ context.Context, ownerID, categoryID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, i := range s.incomes {
		if i.OwnerID == ownerID && i.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (s *Store) UpdateIncome(_ context.Context, i *core.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.incomes[i.ID]; !ok {
		return notFound("update income", i.ID)
	}
	s.incomes[i.ID] = *i
	return nil
}

func (s *Store) DeleteIncome(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.incomes[id]; !ok {
		return notFound("delete income", id)
	}
	delete(s.incomes, id)
	return nil
}

// Budgets

func (s *Store) budgetTaken(b *core.Budget) bool {
	for id, existing := range s.budgets {
		if id != b.ID && existing.OwnerID == b.OwnerID && existing.CategoryID == b.CategoryID && existing.Period == b.Period {
			return true
		}
	}
	return false
}

func (s *Store) CreateBudget(_ context.Context, b *core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.budgetTaken(b) {
		return fmt.Errorf("create budget: %w", core.ErrConflict)
	}
	s.budgets[b.ID] = *b
	return nil
}

func (s *Store) GetBudget(_ context.Context, id string) (*core.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.budgets[id]
	if !ok {
		return nil, notFound("get budget", id)
	}
	b.CategoryName = s.categoryName(b.CategoryID)
	return &b, nil
}

func (s *Store) FindBudget(_ context.Context, ownerID, categoryID string, period core.Frequency) (*core.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.budgets {
		if b.OwnerID == ownerID && b.CategoryID == categoryID && b.Period == period {
			b.CategoryName = s.categoryName(b.CategoryID)
			return &b, nil
		}
	}
	return nil, notFound("find budget", categoryID)
}

func (s *Store) ListBudgets(_ context.Context, ownerID string, period core.Frequency) ([]*core.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*core.Budget, 0)
	for _, b := range s.budgets {
		if b.OwnerID != ownerID || (period != "" && b.Period != period) {
			continue
		}
		b.CategoryName = s.categoryName(b.CategoryID)
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) UpdateBudget(_ context.Context, b *core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.budgets[b.ID]; !ok {
		return notFound("update budget", b.ID)
	}
	if s.budgetTaken(b) {
		return fmt.Errorf("update budget: %w", core.ErrConflict)
	}
	s.budgets[b.ID] = *b
	return nil
}

func (s *Store) DeleteBudget(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.budgets[id]; !ok {
		return notFound("delete budget", id)
	}
	delete(s.budgets, id)
	return nil
}

// Goals

func (s *Store) CreateGoal(_ context.Context, g *core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.ID] = *g
	return nil
}

func (s *Store) GetGoal(_ context.Context, id string) (*core.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.goals[id]
	if !ok {
		return nil, notFound("get goal", id)
	}
	return &g, nil
}

func (s *Store) ListGoals(_ context.Context, ownerID string, f storage.GoalFilter) ([]*core.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*core.Goal, 0)
	for _, g := range s.goals {
		if g.OwnerID != ownerID || (f.Completed != nil && g.IsCompleted != *f.Completed) {
			continue
		}
		out = append(out, &g)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TargetDate.Equal(out[j].TargetDate) {
			return out[i].TargetDate.Before(out[j].TargetDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) UpdateGoal(_ context.Context, g *core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[g.ID]; !ok {
		return notFound("update goal", g.ID)
	}
	s.goals[g.ID] = *g
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[id]; !ok {
		return notFound("delete goal", id)
	}
	delete(s.goals, id)
	return nil
}

// Recurring expenses

func (s *Store) CreateRecurringExpense(_ context.Context, r *core.RecurringExpense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recurring[r.ID] = *r
	return nil
}

func (s *Store) ListRecurringExpenses(_ context.Context, ownerID string) ([]*core.RecurringExpense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*core.RecurringExpense, 0)
	for _, r := range s.recurring {
		if r.OwnerID == ownerID {
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (s *Store) DeleteOwnerData(_ context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleteOwned(s.categories, ownerID)
	deleteOwned(s.expenses, ownerID)
	deleteOwned(s.incomes, ownerID)
	deleteOwned(s.budgets, ownerID)
	deleteOwned(s.goals, ownerID)
	deleteOwned(s.recurring, ownerID)
	return nil
}

func deleteOwned[T any, PT interface {
	*T
	core.Owned
}](m map[string]T, ownerID string) {
	for id, v := range m {
		if PT(&v).Owner() == ownerID {
			delete(m, id)
		}
	}
}
