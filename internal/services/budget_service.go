package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"studentfin/internal/amqp"
	"studentfin/internal/core"
	applog "studentfin/internal/log"
	"studentfin/internal/storage"
)

type BudgetInput struct {
	CategoryID string         `json:"categoryId"`
	Limit      *core.Money    `json:"limit"`
	Period     core.Frequency `json:"period"`
}

type BudgetPatch struct {
	CategoryID *string         `json:"categoryId"`
	Limit      *core.Money     `json:"limit"`
	Period     *core.Frequency `json:"period"`
}

// BudgetView is a budget with the spend of its current window.
type BudgetView struct {
	*core.Budget
	core.BudgetStatus
}

// BudgetStatusEntry is one row of the current status report.
type BudgetStatusEntry struct {
	Budget     *core.Budget    `json:"budget"`
	Spent      core.Money      `json:"spent"`
	Remaining  core.Money      `json:"remaining"`
	Percentage float64         `json:"percentage"`
	AlertLevel core.AlertLevel `json:"alertLevel"`
	Period     core.Window     `json:"period"`
}

type BudgetService struct {
	base
}

func NewBudgetService(store storage.Store, publisher EventPublisher, clock Clock) *BudgetService {
	return &BudgetService{base: newBase(store, publisher, clock)}
}

// List evaluates every budget of the owner, optionally narrowed to one period.
func (s *BudgetService) List(ctx context.Context, ownerID string, period core.Frequency) ([]BudgetView, error) {
	if period != "" && !period.IsBudgetPeriod() {
		return nil, core.ErrInvalidPeriod
	}
	scope := s.scope(ownerID)
	budgets, err := scope.Budgets(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	now := s.now()
	views := make([]BudgetView, 0, len(budgets))
	for _, b := range budgets {
		st, err := EvaluateBudget(ctx, scope, b, now)
		if err != nil {
			return nil, err
		}
		views = append(views, BudgetView{Budget: b, BudgetStatus: st})
	}
	return views, nil
}

func (s *BudgetService) Get(ctx context.Context, ownerID, id string) (BudgetView, error) {
	scope := s.scope(ownerID)
	b, err := scope.Budget(ctx, id, actionAccess)
	if err != nil {
		return BudgetView{}, err
	}
	st, err := EvaluateBudget(ctx, scope, b, s.now())
	if err != nil {
		return BudgetView{}, err
	}
	return BudgetView{Budget: b, BudgetStatus: st}, nil
}

// CurrentStatus reports every budget against its current window.
func (s *BudgetService) CurrentStatus(ctx context.Context, ownerID string) ([]BudgetStatusEntry, error) {
	views, err := s.List(ctx, ownerID, "")
	if err != nil {
		return nil, err
	}
	out := make([]BudgetStatusEntry, len(views))
	for i, v := range views {
		out[i] = BudgetStatusEntry{
			Budget:     v.Budget,
			Spent:      v.Spent,
			Remaining:  v.Remaining,
			Percentage: v.Percentage,
			AlertLevel: v.AlertLevel,
			Period:     v.Window,
		}
	}
	return out, nil
}

func (s *BudgetService) Create(ctx context.Context, ownerID string, in BudgetInput) (BudgetView, error) {
	if strings.TrimSpace(in.CategoryID) == "" || in.Limit == nil {
		return BudgetView{}, core.Validation("Please provide category, limit and period")
	}
	if in.Period == "" {
		in.Period = core.Monthly
	}
	scope := s.scope(ownerID)
	cat, err := scope.resolveCategory(ctx, in.CategoryID, core.KindExpense)
	if err != nil {
		return BudgetView{}, err
	}

	now := s.now()
	b := &core.Budget{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
		Limit:        *in.Limit,
		Period:       in.Period,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := b.Validate(); err != nil {
		return BudgetView{}, err
	}
	if err := s.ensureUnique(ctx, b); err != nil {
		return BudgetView{}, err
	}

	if err := s.store.CreateBudget(ctx, b); err != nil {
		return BudgetView{}, conflictAs(err, budgetExists)
	}
	notify(ctx, s.publisher, entityBudget, amqp.ActionCreated, b.ID, ownerID)

	st, err := EvaluateBudget(ctx, scope, b, now)
	if err != nil {
		return BudgetView{}, err
	}
	return BudgetView{Budget: b, BudgetStatus: st}, nil
}

func (s *BudgetService) Update(ctx context.Context, ownerID, id string, patch BudgetPatch) (BudgetView, error) {
	scope := s.scope(ownerID)
	b, err := scope.Budget(ctx, id, actionUpdate)
	if err != nil {
		return BudgetView{}, err
	}

	if patch.CategoryID != nil && *patch.CategoryID != b.CategoryID {
		cat, err := scope.resolveCategory(ctx, *patch.CategoryID, core.KindExpense)
		if err != nil {
			return BudgetView{}, err
		}
		b.CategoryID, b.CategoryName = cat.ID, cat.Name
	}
	if patch.Limit != nil {
		b.Limit = *patch.Limit
	}
	if patch.Period != nil {
		b.Period = *patch.Period
	}
	if err := b.Validate(); err != nil {
		return BudgetView{}, err
	}
	if err := s.ensureUnique(ctx, b); err != nil {
		return BudgetView{}, err
	}

	b.UpdatedAt = s.now()
	if err := s.store.UpdateBudget(ctx, b); err != nil {
		return BudgetView{}, conflictAs(err, budgetExists)
	}
	notify(ctx, s.publisher, entityBudget, amqp.ActionUpdated, b.ID, ownerID)

	st, err := EvaluateBudget(ctx, scope, b, b.UpdatedAt)
	if err != nil {
		return BudgetView{}, err
	}
	return BudgetView{Budget: b, BudgetStatus: st}, nil
}

func (s *BudgetService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.scope(ownerID).Budget(ctx, id, actionDelete); err != nil {
		return err
	}
	if err := s.store.DeleteBudget(ctx, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	notify(ctx, s.publisher, entityBudget, amqp.ActionDeleted, id, ownerID)
	return nil
}

const budgetExists = "Budget already exists for this category and period"

func (s *BudgetService) ensureUnique(ctx context.Context, b *core.Budget) error {
	existing, err := s.store.FindBudget(ctx, b.OwnerID, b.CategoryID, b.Period)
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find budget: %w", err)
	}
	if existing.ID != b.ID {
		return core.Conflict(budgetExists)
	}
	return nil
}

// EvaluateBudget sums the category's expenses inside the budget's current
// window and classifies the result.
func EvaluateBudget(ctx context.Context, scope OwnerScope, b *core.Budget, now time.Time) (core.BudgetStatus, error) {
	window, err := core.ResolveWindow(b.Period, now)
	if err != nil {
		return core.BudgetStatus{}, err
	}
	expenses, err := scope.Expenses(ctx, storage.TransactionFilter{
		CategoryID: b.CategoryID,
		From:       &window.Start,
		To:         &window.End,
	})
	if err != nil {
		return core.BudgetStatus{}, fmt.Errorf("budget spend: %w", err)
	}
	var spent core.Money
	for _, e := range expenses {
		spent = spent.Add(e.Amount)
	}
	return core.EvaluateBudget(b.Limit, spent, window), nil
}

// checkBudgets publishes an alert for every budget of the category that is
// in the danger or exceeded bucket. Failures are logged only; the expense
// write has already succeeded.
func (b base) checkBudgets(ctx context.Context, scope OwnerScope, categoryID string) {
	budgets, err := scope.Budgets(ctx, "")
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load budgets for alerting",
			applog.FieldCategoryID, categoryID,
			applog.FieldError, err)
		return
	}
	now := b.now()
	for _, budget := range budgets {
		if budget.CategoryID != categoryID {
			continue
		}
		st, err := EvaluateBudget(ctx, scope, budget, now)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to evaluate budget", "budget_id", budget.ID, applog.FieldError, err)
			continue
		}
		if st.AlertLevel != core.AlertDanger && st.AlertLevel != core.AlertExceeded {
			continue
		}
		alert := amqp.BudgetAlert{
			BudgetID:     budget.ID,
			OwnerID:      budget.OwnerID,
			CategoryID:   budget.CategoryID,
			CategoryName: budget.CategoryName,
			Period:       budget.Period,
			Limit:        budget.Limit,
			Spent:        st.Spent,
			Percentage:   st.Percentage,
			AlertLevel:   st.AlertLevel,
			Timestamp:    now.UTC(),
		}
		if err := b.publisher.PublishBudgetAlert(ctx, alert); err != nil {
			slog.ErrorContext(ctx, "Failed to publish budget alert",
				"routing_key", alert.RoutingKey(),
				"budget_id", budget.ID,
				applog.FieldCategoryID, budget.CategoryID,
				applog.FieldAmountCents, st.Spent.Cents,
				applog.FieldError, err)
		}
	}
}
