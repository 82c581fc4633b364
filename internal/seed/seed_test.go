package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentfin/internal/auth"
	"studentfin/internal/services"
	"studentfin/internal/storage"
	"studentfin/internal/storage/memory"
)

func newServices(store storage.Store, now time.Time) Services {
	clock := func() time.Time { return now }
	issuer := auth.NewIssuer("seed-test-secret", time.Hour)
	return Services{
		Auth:       services.NewAuthService(store, issuer, clock),
		Categories: services.NewCategoryService(store, nil, clock),
		Expenses:   services.NewExpenseService(store, nil, clock),
		Incomes:    services.NewIncomeService(store, nil, clock),
		Budgets:    services.NewBudgetService(store, nil, clock),
		Goals:      services.NewGoalService(store, nil, clock),
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 12, 3, 9, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	svc := newServices(store, now)

	res, err := Run(ctx, store, svc, Options{Now: now})
	require.NoError(t, err)

	assert.Equal(t, DemoEmail, res.User.Email)
	assert.Equal(t, DemoCurrency, res.User.Currency)
	assert.Equal(t, 9, res.Categories)
	assert.Equal(t, 4, res.Expenses)
	assert.Equal(t, 2, res.Incomes)
	assert.Equal(t, 2, res.Budgets)
	assert.Equal(t, 2, res.Goals)
	assert.Equal(t, 1, res.Recurring)

	exps, err := store.ListExpenses(ctx, res.User.ID, storage.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, exps, 4)
	for _, e := range exps {
		assert.Equal(t, time.December, e.Date.Month(), "expense %s left the current month", e.Note)
		assert.False(t, e.Date.After(now))
	}

	_, err = svc.Auth.Login(ctx, services.LoginInput{Email: DemoEmail, Password: DemoPassword})
	assert.NoError(t, err)
}

func TestRun_ExistingUser(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 12, 15, 9, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	svc := newServices(store, now)

	first, err := Run(ctx, store, svc, Options{Now: now})
	require.NoError(t, err)

	_, err = Run(ctx, store, svc, Options{Now: now})
	assert.ErrorIs(t, err, ErrAlreadySeeded)

	second, err := Run(ctx, store, svc, Options{Now: now, Reset: true})
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)

	cats, err := store.ListCategories(ctx, second.User.ID, "")
	require.NoError(t, err)
	assert.Len(t, cats, 9)

	recurring, err := store.ListRecurringExpenses(ctx, second.User.ID)
	require.NoError(t, err)
	assert.Len(t, recurring, 1)
}

func TestDayInMonth(t *testing.T) {
	now := time.Date(2024, 12, 2, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, now, dayInMonth(now, 0))
	assert.Equal(t, time.Date(2024, 12, 1, 9, 0, 0, 0, time.UTC), dayInMonth(now, 1))
	assert.Equal(t, time.Date(2024, 12, 1, 12, 0, 0, 0, time.UTC), dayInMonth(now, 5))
}
