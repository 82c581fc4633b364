// Package analytics computes the dashboard views: month summary, burn rate,
// spending trends, the recent transaction feed and the health score.
//
// Every computation reads through a Source bound to one owner. Reads for a
// single view are issued concurrently and are not atomic across queries.
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"studentfin/internal/core"
	"studentfin/internal/storage"
)

// Source is the owner-scoped data the engine reads.
type Source interface {
	Expenses(ctx context.Context, f storage.TransactionFilter) ([]*core.Expense, error)
	Incomes(ctx context.Context, f storage.TransactionFilter) ([]*core.Income, error)
	Budgets(ctx context.Context, period core.Frequency) ([]*core.Budget, error)
	Goals(ctx context.Context, f storage.GoalFilter) ([]*core.Goal, error)
}

type Engine struct {
	now func() time.Time
}

// NewEngine returns an engine reading the time from clock, time.Now if nil.
func NewEngine(clock func() time.Time) *Engine {
	if clock == nil {
		clock = time.Now
	}
	return &Engine{now: clock}
}

func inWindow(w core.Window) storage.TransactionFilter {
	return storage.TransactionFilter{From: &w.Start, To: &w.End}
}

func sumExpenses(items []*core.Expense) core.Money {
	var total core.Money
	for _, e := range items {
		total = total.Add(e.Amount)
	}
	return total
}

func sumIncomes(items []*core.Income) core.Money {
	var total core.Money
	for _, i := range items {
		total = total.Add(i.Amount)
	}
	return total
}

func activeGoals() storage.GoalFilter {
	open := false
	return storage.GoalFilter{Completed: &open}
}

type budgetState struct {
	budget *core.Budget
	status core.BudgetStatus
}

// budgetStates evaluates every budget of the owner against its own current
// window, one query per budget.
func budgetStates(ctx context.Context, src Source, now time.Time) ([]budgetState, error) {
	budgets, err := src.Budgets(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("load budgets: %w", err)
	}

	states := make([]budgetState, len(budgets))
	g, gctx := errgroup.WithContext(ctx)
	for i, b := range budgets {
		g.Go(func() error {
			window, err := core.ResolveWindow(b.Period, now)
			if err != nil {
				return err
			}
			f := inWindow(window)
			f.CategoryID = b.CategoryID
			expenses, err := src.Expenses(gctx, f)
			if err != nil {
				return fmt.Errorf("budget %s spend: %w", b.ID, err)
			}
			states[i] = budgetState{budget: b, status: core.EvaluateBudget(b.Limit, sumExpenses(expenses), window)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return states, nil
}

// monthTotals loads the current month's expenses and income side by side.
func monthTotals(ctx context.Context, src Source, month core.Window) ([]*core.Expense, []*core.Income, error) {
	var (
		expenses []*core.Expense
		incomes  []*core.Income
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		expenses, err = src.Expenses(gctx, inWindow(month))
		return err
	})
	g.Go(func() (err error) {
		incomes, err = src.Incomes(gctx, inWindow(month))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("load month: %w", err)
	}
	return expenses, incomes, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ratio returns part/whole*100, 0 when whole is zero.
func ratio(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
