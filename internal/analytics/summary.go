package analytics

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"studentfin/internal/core"
)

const topCategoryCount = 3

type Overview struct {
	TotalIncome      core.Money `json:"totalIncome"`
	TotalExpenses    core.Money `json:"totalExpenses"`
	Savings          core.Money `json:"savings"`
	SavingsRate      float64    `json:"savingsRate"`
	TransactionCount int        `json:"transactionCount"`
}

type Aggregate struct {
	Total   core.Money `json:"total"`
	Count   int        `json:"count"`
	Average core.Money `json:"average"`
}

// CategoryShare is a category's spend and its share of the month's spend.
type CategoryShare struct {
	CategoryID   string     `json:"categoryId"`
	CategoryName string     `json:"categoryName"`
	Total        core.Money `json:"total"`
	Count        int        `json:"count"`
	Percentage   float64    `json:"percentage"`
}

type GoalRollup struct {
	Total              int        `json:"total"`
	TotalTargetAmount  core.Money `json:"totalTargetAmount"`
	TotalCurrentAmount core.Money `json:"totalCurrentAmount"`
	AverageProgress    float64    `json:"averageProgress"`
}

type Summary struct {
	Period        core.Window            `json:"period"`
	Overview      Overview               `json:"overview"`
	Expenses      Aggregate              `json:"expenses"`
	Income        Aggregate              `json:"income"`
	TopCategories []CategoryShare        `json:"topCategories"`
	Goals         GoalRollup             `json:"goals"`
	BudgetAlerts  core.BudgetAlertCounts `json:"budgetAlerts"`
}

// Summary reports the current calendar month.
func (e *Engine) Summary(ctx context.Context, src Source) (Summary, error) {
	now := e.now()
	month := core.MonthWindow(now)

	var (
		expenses []*core.Expense
		incomes  []*core.Income
		goals    []*core.Goal
		budgets  []budgetState
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		expenses, incomes, err = monthTotals(gctx, src, month)
		return err
	})
	g.Go(func() (err error) {
		goals, err = src.Goals(gctx, activeGoals())
		return err
	})
	g.Go(func() (err error) {
		budgets, err = budgetStates(gctx, src, now)
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, fmt.Errorf("dashboard summary: %w", err)
	}

	totalExpenses := sumExpenses(expenses)
	totalIncome := sumIncomes(incomes)
	savings := totalIncome.Sub(totalExpenses)

	s := Summary{
		Period: month,
		Overview: Overview{
			TotalIncome:      totalIncome,
			TotalExpenses:    totalExpenses,
			Savings:          savings,
			SavingsRate:      core.Percent(savings.Cents, totalIncome.Cents),
			TransactionCount: len(expenses) + len(incomes),
		},
		Expenses:      aggregate(totalExpenses, len(expenses)),
		Income:        aggregate(totalIncome, len(incomes)),
		TopCategories: topCategories(expenses, totalExpenses),
		Goals:         rollupGoals(goals),
	}
	for _, b := range budgets {
		s.BudgetAlerts.Add(b.status.AlertLevel)
	}
	return s, nil
}

func aggregate(total core.Money, count int) Aggregate {
	return Aggregate{Total: total, Count: count, Average: total.DivRound(int64(count))}
}

func topCategories(expenses []*core.Expense, total core.Money) []CategoryShare {
	var totals core.CategoryTotals
	for _, e := range expenses {
		totals.Add(e.CategoryID, e.CategoryName, e.Amount)
	}
	sorted := totals.Sorted()
	if len(sorted) > topCategoryCount {
		sorted = sorted[:topCategoryCount]
	}
	out := make([]CategoryShare, len(sorted))
	for i, ct := range sorted {
		out[i] = CategoryShare{
			CategoryID:   ct.CategoryID,
			CategoryName: ct.CategoryName,
			Total:        ct.Total,
			Count:        ct.Count,
			Percentage:   core.Percent(ct.Total.Cents, total.Cents),
		}
	}
	return out
}

func rollupGoals(goals []*core.Goal) GoalRollup {
	r := GoalRollup{Total: len(goals)}
	if len(goals) == 0 {
		return r
	}
	var progress float64
	for _, g := range goals {
		r.TotalTargetAmount = r.TotalTargetAmount.Add(g.TargetAmount)
		r.TotalCurrentAmount = r.TotalCurrentAmount.Add(g.CurrentAmount)
		progress += g.ProgressRatio()
	}
	r.AverageProgress = core.Round2(progress / float64(len(goals)))
	return r
}
