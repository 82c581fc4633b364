package analytics

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"studentfin/internal/core"
)

// Factor weights. They add up to the maximum score.
const (
	savingsMax   = 30
	budgetMax    = 25
	goalMax      = 20
	trackingMax  = 15
	emergencyMax = 10
	maxScore     = 100

	emergencyPointsPerMonth = 3.33
)

// Factor and overall status labels.
const (
	StatusExcellent        = "excellent"
	StatusGood             = "good"
	StatusNeedsImprovement = "needs improvement"
)

type Factor struct {
	Factor    string  `json:"factor"`
	Value     string  `json:"value"`
	Points    float64 `json:"points"`
	MaxPoints int     `json:"maxPoints"`
	Status    string  `json:"status"`
}

type HealthScore struct {
	Score          float64  `json:"score"`
	MaxScore       int      `json:"maxScore"`
	Percentage     float64  `json:"percentage"`
	Status         string   `json:"status"`
	Recommendation string   `json:"recommendation"`
	Factors        []Factor `json:"factors"`
}

// healthInput is everything the score is derived from.
type healthInput struct {
	income, expenses core.Money
	expenseDays      int
	daysElapsed      int
	budgetsTotal     int
	budgetsWithin    int
	goalProgress     []float64
}

// HealthScore rates the current month from 0 to 100 across five factors.
func (e *Engine) HealthScore(ctx context.Context, src Source) (HealthScore, error) {
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
		return HealthScore{}, fmt.Errorf("health score: %w", err)
	}

	in := healthInput{
		income:       sumIncomes(incomes),
		expenses:     sumExpenses(expenses),
		daysElapsed:  now.Day(),
		budgetsTotal: len(budgets),
	}
	days := make(map[int]struct{})
	for _, x := range expenses {
		days[x.Date.In(now.Location()).Day()] = struct{}{}
	}
	in.expenseDays = len(days)
	for _, b := range budgets {
		if b.status.Spent.Cents <= b.budget.Limit.Cents {
			in.budgetsWithin++
		}
	}
	for _, goal := range goals {
		in.goalProgress = append(in.goalProgress, goal.ProgressRatio())
	}
	return scoreHealth(in), nil
}

func scoreHealth(in healthInput) HealthScore {
	factors := []Factor{
		savingsFactor(in),
		budgetFactor(in),
		goalFactor(in),
		trackingFactor(in),
		emergencyFactor(in),
	}
	var total float64
	for _, f := range factors {
		total += f.Points
	}
	total = core.Round2(clamp(total, 0, maxScore))

	status, advice := overall(total)
	return HealthScore{
		Score:          total,
		MaxScore:       maxScore,
		Percentage:     total,
		Status:         status,
		Recommendation: advice,
		Factors:        factors,
	}
}

func grade(v, excellent, good float64) string {
	switch {
	case v >= excellent:
		return StatusExcellent
	case v >= good:
		return StatusGood
	}
	return StatusNeedsImprovement
}

func points(v, limit float64) float64 {
	return core.Round2(clamp(v, 0, limit))
}

func savingsFactor(in healthInput) Factor {
	rate := 0.0
	if in.income.Cents > 0 {
		rate = ratio(in.income.Sub(in.expenses).Cents, in.income.Cents)
	}
	return Factor{
		Factor:    "Savings Rate",
		Value:     fmt.Sprintf("%.2f%%", rate),
		Points:    points(rate, savingsMax),
		MaxPoints: savingsMax,
		Status:    grade(rate, 20, 10),
	}
}

func budgetFactor(in healthInput) Factor {
	if in.budgetsTotal == 0 {
		return Factor{Factor: "Budget Adherence", Value: "No budgets set", MaxPoints: budgetMax, Status: StatusNeedsImprovement}
	}
	adherence := ratio(int64(in.budgetsWithin), int64(in.budgetsTotal))
	return Factor{
		Factor:    "Budget Adherence",
		Value:     fmt.Sprintf("%.2f%%", adherence),
		Points:    points(adherence/100*budgetMax, budgetMax),
		MaxPoints: budgetMax,
		Status:    grade(adherence, 80, 60),
	}
}

func goalFactor(in healthInput) Factor {
	if len(in.goalProgress) == 0 {
		return Factor{Factor: "Goal Progress", Value: "No active goals", MaxPoints: goalMax, Status: StatusNeedsImprovement}
	}
	var sum float64
	for _, p := range in.goalProgress {
		sum += p
	}
	progress := sum / float64(len(in.goalProgress))
	return Factor{
		Factor:    "Goal Progress",
		Value:     fmt.Sprintf("%.2f%%", progress),
		Points:    points(progress/100*goalMax, goalMax),
		MaxPoints: goalMax,
		Status:    grade(progress, 50, 25),
	}
}

func trackingFactor(in healthInput) Factor {
	consistency := ratio(int64(in.expenseDays), int64(in.daysElapsed))
	return Factor{
		Factor:    "Tracking Consistency",
		Value:     fmt.Sprintf("%.2f%%", consistency),
		Points:    points(consistency/100*trackingMax, trackingMax),
		MaxPoints: trackingMax,
		Status:    grade(consistency, 70, 50),
	}
}

func emergencyFactor(in healthInput) Factor {
	months := 0.0
	if in.expenses.Cents > 0 {
		months = float64(in.income.Sub(in.expenses).Cents) / float64(in.expenses.Cents)
	}
	return Factor{
		Factor:    "Emergency Fund",
		Value:     fmt.Sprintf("%.2f months", months),
		Points:    points(months*emergencyPointsPerMonth, emergencyMax),
		MaxPoints: emergencyMax,
		Status:    grade(months, 3, 1),
	}
}

func overall(score float64) (status, recommendation string) {
	switch {
	case score >= 80:
		return "Excellent", "Great job! Keep up the excellent financial habits."
	case score >= 60:
		return "Good", "You're doing well! Focus on improving savings rate and goal progress."
	case score >= 40:
		return "Fair", "Room for improvement. Consider setting budgets and tracking expenses more consistently."
	}
	return "Needs Improvement", "Focus on basic financial habits: track expenses daily, set budgets, and start saving."
}
