package services

import (
	"context"
	"errors"
	"strings"

	"studentfin/internal/core"
	"studentfin/internal/storage"
)

// Ownership actions used in "Not authorized to <action> this <entity>".
const (
	actionAccess = "access"
	actionUpdate = "update"
	actionDelete = "delete"
	actionUse    = "use"
)

// OwnerScope binds a store to one user. Every read by id goes through guard
// and every list is filtered by the owner, so no caller can reach another
// user's records.
type OwnerScope struct {
	store storage.Store
	owner string
}

func NewOwnerScope(store storage.Store, ownerID string) OwnerScope {
	return OwnerScope{store: store, owner: ownerID}
}

func (s OwnerScope) Owner() string { return s.owner }

// guard checks existence first, then ownership: a missing record is
// NotFound, someone else's record is Forbidden.
func guard[T core.Owned](s OwnerScope, v T, err error, entity, action string) (T, error) {
	var zero T
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return zero, core.NotFound(entity + " not found")
		}
		return zero, err
	}
	if v.Owner() != s.owner {
		return zero, core.Forbidden("Not authorized to " + action + " this " + strings.ToLower(entity))
	}
	return v, nil
}

func (s OwnerScope) Category(ctx context.Context, id, action string) (*core.Category, error) {
	c, err := s.store.GetCategory(ctx, id)
	return guard(s, c, err, "Category", action)
}

func (s OwnerScope) Expense(ctx context.Context, id, action string) (*core.Expense, error) {
	e, err := s.store.GetExpense(ctx, id)
	return guard(s, e, err, "Expense", action)
}

func (s OwnerScope) Income(ctx context.Context, id, action string) (*core.Income, error) {
	i, err := s.store.GetIncome(ctx, id)
	return guard(s, i, err, "Income", action)
}

func (s OwnerScope) Budget(ctx context.Context, id, action string) (*core.Budget, error) {
	b, err := s.store.GetBudget(ctx, id)
	return guard(s, b, err, "Budget", action)
}

func (s OwnerScope) Goal(ctx context.Context, id, action string) (*core.Goal, error) {
	g, err := s.store.GetGoal(ctx, id)
	return guard(s, g, err, "Goal", action)
}

func (s OwnerScope) Categories(ctx context.Context, kind core.CategoryKind) ([]*core.Category, error) {
	return s.store.ListCategories(ctx, s.owner, kind)
}

func (s OwnerScope) Expenses(ctx context.Context, f storage.TransactionFilter) ([]*core.Expense, error) {
	return s.store.ListExpenses(ctx, s.owner, f)
}

func (s OwnerScope) Incomes(ctx context.Context, f storage.TransactionFilter) ([]*core.Income, error) {
	return s.store.ListIncomes(ctx, s.owner, f)
}

func (s OwnerScope) Budgets(ctx context.Context, period core.Frequency) ([]*core.Budget, error) {
	return s.store.ListBudgets(ctx, s.owner, period)
}

func (s OwnerScope) Goals(ctx context.Context, f storage.GoalFilter) ([]*core.Goal, error) {
	return s.store.ListGoals(ctx, s.owner, f)
}

// resolveCategory loads a category the caller wants to attach a record to
// and checks that its kind matches.
func (s OwnerScope) resolveCategory(ctx context.Context, id string, kind core.CategoryKind) (*core.Category, error) {
	c, err := s.Category(ctx, id, actionUse)
	if err != nil {
		return nil, err
	}
	if c.Kind != kind {
		return nil, core.Validation("Category must be an " + string(kind) + " category")
	}
	return c, nil
}
