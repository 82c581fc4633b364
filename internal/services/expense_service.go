package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"studentfin/internal/amqp"
	"studentfin/internal/core"
	"studentfin/internal/storage"
)

type ExpenseInput struct {
	CategoryID string      `json:"categoryId"`
	Amount     *core.Money `json:"amount"`
	Date       *time.Time  `json:"date"`
	Note       string      `json:"note"`
}

type ExpensePatch struct {
	CategoryID *string     `json:"categoryId"`
	Amount     *core.Money `json:"amount"`
	Date       *time.Time  `json:"date"`
	Note       *string     `json:"note"`
}

// ExpenseList is a filtered listing with its count and sum.
type ExpenseList struct {
	Items []*core.Expense
	Count int
	Total core.Money
}

// ExpenseService manages expenses. Every write also re-evaluates the budgets
// of the affected category and raises an alert when one runs hot.
type ExpenseService struct {
	base
}

func NewExpenseService(store storage.Store, publisher EventPublisher, clock Clock) *ExpenseService {
	return &ExpenseService{base: newBase(store, publisher, clock)}
}

func (s *ExpenseService) List(ctx context.Context, ownerID string, f storage.TransactionFilter) (ExpenseList, error) {
	items, err := s.scope(ownerID).Expenses(ctx, f)
	if err != nil {
		return ExpenseList{}, fmt.Errorf("list expenses: %w", err)
	}
	var total core.Money
	for _, e := range items {
		total = total.Add(e.Amount)
	}
	return ExpenseList{Items: items, Count: len(items), Total: total}, nil
}

func (s *ExpenseService) Get(ctx context.Context, ownerID, id string) (*core.Expense, error) {
	return s.scope(ownerID).Expense(ctx, id, actionAccess)
}

func (s *ExpenseService) Create(ctx context.Context, ownerID string, in ExpenseInput) (*core.Expense, error) {
	if strings.TrimSpace(in.CategoryID) == "" || in.Amount == nil {
		return nil, core.ErrEmptyCategory
	}
	scope := s.scope(ownerID)
	cat, err := scope.resolveCategory(ctx, in.CategoryID, core.KindExpense)
	if err != nil {
		return nil, err
	}

	now := s.now()
	e := &core.Expense{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
		Amount:       *in.Amount,
		Date:         now,
		Note:         strings.TrimSpace(in.Note),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.Date != nil {
		e.Date = *in.Date
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.CreateExpense(ctx, e); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	notify(ctx, s.publisher, entityExpense, amqp.ActionCreated, e.ID, ownerID)
	s.checkBudgets(ctx, scope, e.CategoryID)
	return e, nil
}

func (s *ExpenseService) Update(ctx context.Context, ownerID, id string, patch ExpensePatch) (*core.Expense, error) {
	scope := s.scope(ownerID)
	e, err := scope.Expense(ctx, id, actionUpdate)
	if err != nil {
		return nil, err
	}
	previousCategory := e.CategoryID

	if patch.CategoryID != nil && *patch.CategoryID != e.CategoryID {
		cat, err := scope.resolveCategory(ctx, *patch.CategoryID, core.KindExpense)
		if err != nil {
			return nil, err
		}
		e.CategoryID, e.CategoryName = cat.ID, cat.Name
	}
	if patch.Amount != nil {
		e.Amount = *patch.Amount
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	if patch.Note != nil {
		e.Note = strings.TrimSpace(*patch.Note)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	e.UpdatedAt = s.now()
	if err := s.store.UpdateExpense(ctx, e); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	notify(ctx, s.publisher, entityExpense, amqp.ActionUpdated, e.ID, ownerID)
	s.checkBudgets(ctx, scope, e.CategoryID)
	if previousCategory != e.CategoryID {
		s.checkBudgets(ctx, scope, previousCategory)
	}
	return e, nil
}

func (s *ExpenseService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.scope(ownerID).Expense(ctx, id, actionDelete); err != nil {
		return err
	}
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	notify(ctx, s.publisher, entityExpense, amqp.ActionDeleted, id, ownerID)
	return nil
}

// MonthSummary totals the current calendar month's expenses per category.
func (s *ExpenseService) MonthSummary(ctx context.Context, ownerID string) (core.MonthSummary, error) {
	window := core.MonthWindow(s.now())
	items, err := s.scope(ownerID).Expenses(ctx, storage.TransactionFilter{From: &window.Start, To: &window.End})
	if err != nil {
		return core.MonthSummary{}, fmt.Errorf("expense summary: %w", err)
	}
	var totals core.CategoryTotals
	summary := core.MonthSummary{Period: window}
	for _, e := range items {
		totals.Add(e.CategoryID, e.CategoryName, e.Amount)
		summary.Total = summary.Total.Add(e.Amount)
		summary.Count++
	}
	summary.ByCategory = totals.Sorted()
	return summary, nil
}
