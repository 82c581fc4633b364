// Package seed loads a demo account with a month of sample data.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"studentfin/internal/core"
	"studentfin/internal/services"
	"studentfin/internal/storage"
)

const (
	DemoName     = "John Doe"
	DemoEmail    = "john@student.edu"
	DemoPassword = "password123"
	DemoCurrency = "HKD"
)

// ErrAlreadySeeded is returned when the demo user exists and Reset is off.
var ErrAlreadySeeded = errors.New("demo user already exists; rerun with --reset to recreate its data")

type Services struct {
	Auth       *services.AuthService
	Categories *services.CategoryService
	Expenses   *services.ExpenseService
	Incomes    *services.IncomeService
	Budgets    *services.BudgetService
	Goals      *services.GoalService
}

type Options struct {
	// Reset clears the demo user's records before seeding.
	Reset bool
	Now   time.Time
}

// Result counts what was created.
type Result struct {
	User       *core.User
	Categories int
	Expenses   int
	Incomes    int
	Budgets    int
	Goals      int
	Recurring  int
}

var categories = []struct {
	name string
	kind core.CategoryKind
}{
	{"Food & Snacks", core.KindExpense},
	{"Transport", core.KindExpense},
	{"Rent", core.KindExpense},
	{"Books & Stationery", core.KindExpense},
	{"Social Outings", core.KindExpense},
	{"Utilities", core.KindExpense},
	{"Part-time job", core.KindIncome},
	{"Allowance", core.KindIncome},
	{"Scholarship", core.KindIncome},
}

var expenses = []struct {
	category string
	amount   string
	daysAgo  int
	note     string
}{
	{"Food & Snacks", "45.50", 0, "Lunch at campus canteen"},
	{"Transport", "20.00", 1, "MTR top-up"},
	{"Books & Stationery", "85.00", 3, "Course reader"},
	{"Social Outings", "120.00", 5, "Dinner with classmates"},
}

var incomes = []struct {
	category string
	amount   string
	daysAgo  int
	desc     string
}{
	{"Part-time job", "5000.00", 2, "Tutoring"},
	{"Allowance", "1000.00", 4, "Monthly allowance"},
}

// Run creates the demo user, or reuses it when Reset is set, and fills in
// categories, transactions, budgets, goals and a recurring rent expense.
func Run(ctx context.Context, store storage.Store, svc Services, opts Options) (Result, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	user, err := demoUser(ctx, store, svc.Auth, opts.Reset)
	if err != nil {
		return Result{}, err
	}
	res := Result{User: user}
	owner := user.ID

	ids := make(map[string]string, len(categories))
	for _, c := range categories {
		cat, err := svc.Categories.Create(ctx, owner, services.CategoryInput{Name: c.name, Kind: c.kind})
		if err != nil {
			return res, fmt.Errorf("create category %q: %w", c.name, err)
		}
		ids[c.name] = cat.ID
		res.Categories++
	}

	for _, e := range expenses {
		date := dayInMonth(now, e.daysAgo)
		if _, err := svc.Expenses.Create(ctx, owner, services.ExpenseInput{
			CategoryID: ids[e.category],
			Amount:     money(e.amount),
			Date:       &date,
			Note:       e.note,
		}); err != nil {
			return res, fmt.Errorf("create expense %q: %w", e.note, err)
		}
		res.Expenses++
	}

	for _, i := range incomes {
		date := dayInMonth(now, i.daysAgo)
		if _, err := svc.Incomes.Create(ctx, owner, services.IncomeInput{
			CategoryID:  ids[i.category],
			Amount:      money(i.amount),
			Date:        &date,
			Description: i.desc,
		}); err != nil {
			return res, fmt.Errorf("create income %q: %w", i.desc, err)
		}
		res.Incomes++
	}

	for _, b := range []struct{ category, limit string }{
		{"Food & Snacks", "1500.00"},
		{"Transport", "500.00"},
	} {
		if _, err := svc.Budgets.Create(ctx, owner, services.BudgetInput{
			CategoryID: ids[b.category],
			Limit:      money(b.limit),
			Period:     core.Monthly,
		}); err != nil {
			return res, fmt.Errorf("create budget for %q: %w", b.category, err)
		}
		res.Budgets++
	}

	for _, g := range []struct {
		name, desc, target, current string
		months                      int
	}{
		{"New Laptop", "Replace the old laptop before final year", "10000.00", "1500.00", 6},
		{"Summer Travel", "Trip after exams", "5000.00", "500.00", 4},
	} {
		due := now.AddDate(0, g.months, 0)
		if _, err := svc.Goals.Create(ctx, owner, services.GoalInput{
			Name:          g.name,
			Description:   g.desc,
			TargetAmount:  money(g.target),
			CurrentAmount: money(g.current),
			TargetDate:    &due,
		}); err != nil {
			return res, fmt.Errorf("create goal %q: %w", g.name, err)
		}
		res.Goals++
	}

	rent := &core.RecurringExpense{
		ID:         uuid.NewString(),
		OwnerID:    owner,
		CategoryID: ids["Rent"],
		Amount:     *money("4500.00"),
		Frequency:  core.Monthly,
		StartDate:  dayInMonth(now, now.Day()-1),
		Note:       "Hall rent",
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := rent.Validate(); err != nil {
		return res, err
	}
	if err := store.CreateRecurringExpense(ctx, rent); err != nil {
		return res, fmt.Errorf("create recurring expense: %w", err)
	}
	res.Recurring++

	return res, nil
}

func demoUser(ctx context.Context, store storage.Store, auth *services.AuthService, reset bool) (*core.User, error) {
	u, err := store.GetUserByEmail(ctx, DemoEmail)
	switch {
	case err == nil:
		if !reset {
			return nil, ErrAlreadySeeded
		}
		if err := store.DeleteOwnerData(ctx, u.ID); err != nil {
			return nil, fmt.Errorf("reset demo data: %w", err)
		}
		return u, nil
	case !errors.Is(err, core.ErrNotFound):
		return nil, fmt.Errorf("lookup demo user: %w", err)
	}

	session, err := auth.Register(ctx, services.RegisterInput{
		Name:     DemoName,
		Email:    DemoEmail,
		Password: DemoPassword,
		Currency: DemoCurrency,
	})
	if err != nil {
		return nil, fmt.Errorf("register demo user: %w", err)
	}
	return session.User, nil
}

// dayInMonth steps back daysAgo days from now without leaving now's month.
func dayInMonth(now time.Time, daysAgo int) time.Time {
	d := now.AddDate(0, 0, -daysAgo)
	if d.Month() != now.Month() || d.Year() != now.Year() {
		return time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, now.Location())
	}
	return d
}

func money(s string) *core.Money {
	cents, err := core.ParseAmount(s)
	if err != nil {
		panic(fmt.Sprintf("seed amount %q: %v", s, err))
	}
	return &core.Money{Cents: cents}
}
