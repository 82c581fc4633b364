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

type IncomeInput struct {
	CategoryID  string      `json:"categoryId"`
	Amount      *core.Money `json:"amount"`
	Date        *time.Time  `json:"date"`
	Description string      `json:"description"`
}

type IncomePatch struct {
	CategoryID  *string     `json:"categoryId"`
	Amount      *core.Money `json:"amount"`
	Date        *time.Time  `json:"date"`
	Description *string     `json:"description"`
}

type IncomeList struct {
	Items []*core.Income
	Count int
	Total core.Money
}

type IncomeService struct {
	base
}

func NewIncomeService(store storage.Store, publisher EventPublisher, clock Clock) *IncomeService {
	return &IncomeService{base: newBase(store, publisher, clock)}
}

func (s *IncomeService) List(ctx context.Context, ownerID string, f storage.TransactionFilter) (IncomeList, error) {
	items, err := s.scope(ownerID).Incomes(ctx, f)
	if err != nil {
		return IncomeList{}, fmt.Errorf("list incomes: %w", err)
	}
	var total core.Money
	for _, i := range items {
		total = total.Add(i.Amount)
	}
	return IncomeList{Items: items, Count: len(items), Total: total}, nil
}

func (s *IncomeService) Get(ctx context.Context, ownerID, id string) (*core.Income, error) {
	return s.scope(ownerID).Income(ctx, id, actionAccess)
}

func (s *IncomeService) Create(ctx context.Context, ownerID string, in IncomeInput) (*core.Income, error) {
	if strings.TrimSpace(in.CategoryID) == "" || in.Amount == nil {
		return nil, core.ErrEmptyCategory
	}
	cat, err := s.scope(ownerID).resolveCategory(ctx, in.CategoryID, core.KindIncome)
	if err != nil {
		return nil, err
	}

	now := s.now()
	inc := &core.Income{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
		Amount:       *in.Amount,
		Date:         now,
		Description:  strings.TrimSpace(in.Description),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.Date != nil {
		inc.Date = *in.Date
	}
	if err := inc.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.CreateIncome(ctx, inc); err != nil {
		return nil, fmt.Errorf("create income: %w", err)
	}
	notify(ctx, s.publisher, entityIncome, amqp.ActionCreated, inc.ID, ownerID)
	return inc, nil
}

func (s *IncomeService) Update(ctx context.Context, ownerID, id string, patch IncomePatch) (*core.Income, error) {
	scope := s.scope(ownerID)
	inc, err := scope.Income(ctx, id, actionUpdate)
	if err != nil {
		return nil, err
	}

	if patch.CategoryID != nil && *patch.CategoryID != inc.CategoryID {
		cat, err := scope.resolveCategory(ctx, *patch.CategoryID, core.KindIncome)
		if err != nil {
			return nil, err
		}
		inc.CategoryID, inc.CategoryName = cat.ID, cat.Name
	}
	if patch.Amount != nil {
		inc.Amount = *patch.Amount
	}
	if patch.Date != nil {
		inc.Date = *patch.Date
	}
	if patch.Description != nil {
		inc.Description = strings.TrimSpace(*patch.Description)
	}
	if err := inc.Validate(); err != nil {
		return nil, err
	}

	inc.UpdatedAt = s.now()
	if err := s.store.UpdateIncome(ctx, inc); err != nil {
		return nil, fmt.Errorf("update income: %w", err)
	}
	notify(ctx, s.publisher, entityIncome, amqp.ActionUpdated, inc.ID, ownerID)
	return inc, nil
}

func (s *IncomeService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.scope(ownerID).Income(ctx, id, actionDelete); err != nil {
		return err
	}
	if err := s.store.DeleteIncome(ctx, id); err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	notify(ctx, s.publisher, entityIncome, amqp.ActionDeleted, id, ownerID)
	return nil
}

// MonthSummary totals the current calendar month's income per category.
func (s *IncomeService) MonthSummary(ctx context.Context, ownerID string) (core.MonthSummary, error) {
	window := core.MonthWindow(s.now())
	items, err := s.scope(ownerID).Incomes(ctx, storage.TransactionFilter{From: &window.Start, To: &window.End})
	if err != nil {
		return core.MonthSummary{}, fmt.Errorf("income summary: %w", err)
	}
	var totals core.CategoryTotals
	summary := core.MonthSummary{Period: window}
	for _, i := range items {
		totals.Add(i.CategoryID, i.CategoryName, i.Amount)
		summary.Total = summary.Total.Add(i.Amount)
		summary.Count++
	}
	summary.ByCategory = totals.Sorted()
	return summary, nil
}
