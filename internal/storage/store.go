package storage

import (
	"context"
	"time"

	"studentfin/internal/core"
)

// TransactionFilter narrows expense and income listings. Zero values mean
// "no filter". Results are ordered by date then creation time, newest first.
type TransactionFilter struct {
	CategoryID string
	From       *time.Time
	To         *time.Time
	Limit      int
}

// Matches reports whether a transaction with the given fields passes the filter.
func (f TransactionFilter) Matches(categoryID string, date time.Time) bool {
	if f.CategoryID != "" && f.CategoryID != categoryID {
		return false
	}
	if f.From != nil && date.Before(*f.From) {
		return false
	}
	if f.To != nil && date.After(*f.To) {
		return false
	}
	return true
}

// GoalFilter narrows goal listings. Results are ordered by target date.
type GoalFilter struct {
	Completed *bool
}

type UserStore interface {
	CreateUser(ctx context.Context, u *core.User) error
	GetUser(ctx context.Context, id string) (*core.User, error)
	GetUserByEmail(ctx context.Context, email string) (*core.User, error)
}

type CategoryStore interface {
	CreateCategory(ctx context.Context, c *core.Category) error
	GetCategory(ctx context.Context, id string) (*core.Category, error)
	// FindCategory looks up a category by its unique (owner, name, kind) key.
	FindCategory(ctx context.Context, ownerID, name string, kind core.CategoryKind) (*core.Category, error)
	// ListCategories returns the owner's categories, newest first. An empty
	// kind lists both kinds.
	ListCategories(ctx context.Context, ownerID string, kind core.CategoryKind) ([]*core.Category, error)
	UpdateCategory(ctx context.Context, c *core.Category) error
	// DeleteCategory also removes the category's budgets and recurring expenses.
	DeleteCategory(ctx context.Context, id string) error
}

type ExpenseStore interface {
	CreateExpense(ctx context.Context, e *core.Expense) error
	GetExpense(ctx context.Context, id string) (*core.Expense, error)
	ListExpenses(ctx context.Context, ownerID string, f TransactionFilter) ([]*core.Expense, error)
	CountExpensesByCategory(ctx context.Context, ownerID, categoryID string) (int, error)
	UpdateExpense(ctx context.Context, e *core.Expense) error
	DeleteExpense(ctx context.Context, id string) error
}

type IncomeStore interface {
	CreateIncome(ctx context.Context, i *core.Income) error
	GetIncome(ctx context.Context, id string) (*core.Income, error)
	ListIncomes(ctx context.Context, ownerID string, f TransactionFilter) ([]*core.Income, error)
	CountIncomesByCategory(ctx context.Context, ownerID, categoryID string) (int, error)
	UpdateIncome(ctx context.Context, i *core.Income) error
	DeleteIncome(ctx context.Context, id string) error
}

type BudgetStore interface {
	CreateBudget(ctx context.Context, b *core.Budget) error
	GetBudget(ctx context.Context, id string) (*core.Budget, error)
	// FindBudget looks up a budget by its unique (owner, category, period) key.
	FindBudget(ctx context.Context, ownerID, categoryID string, period core.Frequency) (*core.Budget, error)
	// ListBudgets returns the owner's budgets, newest first. An empty period
	// lists every cadence.
	ListBudgets(ctx context.Context, ownerID string, period core.Frequency) ([]*core.Budget, error)
	UpdateBudget(ctx context.Context, b *core.Budget) error
	DeleteBudget(ctx context.Context, id string) error
}

type GoalStore interface {
	CreateGoal(ctx context.Context, g *core.Goal) error
	GetGoal(ctx context.Context, id string) (*core.Goal, error)
	ListGoals(ctx context.Context, ownerID string, f GoalFilter) ([]*core.Goal, error)
	UpdateGoal(ctx context.Context, g *core.Goal) error
	DeleteGoal(ctx context.Context, id string) error
}

type RecurringExpenseStore interface {
	CreateRecurringExpense(ctx context.Context, r *core.RecurringExpense) error
	ListRecurringExpenses(ctx context.Context, ownerID string) ([]*core.RecurringExpense, error)
}

// Store is the data access layer. Lookups by id return core.ErrNotFound
// (wrapped) when the record does not exist and never filter by owner; the
// ownership check belongs to the caller.
type Store interface {
	UserStore
	CategoryStore
	ExpenseStore
	IncomeStore
	BudgetStore
	GoalStore
	RecurringExpenseStore

	// DeleteOwnerData removes every record owned by ownerID except the user.
	DeleteOwnerData(ctx context.Context, ownerID string) error
	Ping(ctx context.Context) error
	Close() error
}
