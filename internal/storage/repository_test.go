package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentfin/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedUser(t *testing.T, repo *SQLiteRepository, email string) *core.User {
	t.Helper()
	now := time.Now().UTC()
	u := &core.User{ID: uuid.NewString(), Name: "Test", Email: email, PasswordHash: "x", Currency: "HKD", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateUser(context.Background(), u))
	return u
}

func seedCategory(t *testing.T, repo *SQLiteRepository, owner, name string, kind core.CategoryKind) *core.Category {
	t.Helper()
	now := time.Now().UTC()
	c := &core.Category{ID: uuid.NewString(), OwnerID: owner, Name: name, Kind: kind, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateCategory(context.Background(), c))
	return c
}

func TestSQLiteRepository_Users(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	u := seedUser(t, repo, "a@b.edu")

	got, err := repo.GetUserByEmail(ctx, "a@b.edu")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.CreatedAt.UnixMilli(), got.CreatedAt.UnixMilli())

	_, err = repo.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	dup := *u
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, repo.CreateUser(ctx, &dup), core.ErrConflict)
}

func TestSQLiteRepository_CategoryUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	u := seedUser(t, repo, "a@b.edu")
	seedCategory(t, repo, u.ID, "Food", core.KindExpense)

	// Same name with the other kind is allowed.
	seedCategory(t, repo, u.ID, "Food", core.KindIncome)

	c := &core.Category{ID: uuid.NewString(), OwnerID: u.ID, Name: "Food", Kind: core.KindExpense}
	assert.ErrorIs(t, repo.CreateCategory(ctx, c), core.ErrConflict)

	found, err := repo.FindCategory(ctx, u.ID, "Food", core.KindIncome)
	require.NoError(t, err)
	assert.Equal(t, core.KindIncome, found.Kind)

	all, err := repo.ListCategories(ctx, u.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	expense, err := repo.ListCategories(ctx, u.ID, core.KindExpense)
	require.NoError(t, err)
	assert.Len(t, expense, 1)
}

func TestSQLiteRepository_ExpenseFilters(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	u := seedUser(t, repo, "a@b.edu")
	food := seedCategory(t, repo, u.ID, "Food", core.KindExpense)
	bus := seedCategory(t, repo, u.ID, "Transport", core.KindExpense)

	base := time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)
	for i, tc := range []struct {
		cat   string
		cents int64
	}{{food.ID, 4550}, {bus.ID, 2000}, {food.ID, 8500}} {
		e := &core.Expense{
			ID: uuid.NewString(), OwnerID: u.ID, CategoryID: tc.cat,
			Amount: core.Money{Cents: tc.cents}, Date: base.AddDate(0, 0, i),
			CreatedAt: base, UpdatedAt: base,
		}
		require.NoError(t, repo.CreateExpense(ctx, e))
	}

	tests := []struct {
		name   string
		filter TransactionFilter
		want   []int64
	}{
		{"all newest first", TransactionFilter{}, []int64{8500, 2000, 4550}},
		{"by category", TransactionFilter{CategoryID: food.ID}, []int64{8500, 4550}},
		{"inclusive range", TransactionFilter{From: ptr(base), To: ptr(base.AddDate(0, 0, 1))}, []int64{2000, 4550}},
		{"limit", TransactionFilter{Limit: 1}, []int64{8500}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ListExpenses(ctx, u.ID, tt.filter)
			require.NoError(t, err)
			var cents []int64
			for _, e := range got {
				cents = append(cents, e.Amount.Cents)
			}
			assert.Equal(t, tt.want, cents)
		})
	}

	got, err := repo.ListExpenses(ctx, u.ID, TransactionFilter{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, "Food", got[0].CategoryName)

	n, err := repo.CountExpensesByCategory(ctx, u.ID, food.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSQLiteRepository_BudgetUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	u := seedUser(t, repo, "a@b.edu")
	food := seedCategory(t, repo, u.ID, "Food", core.KindExpense)

	b := &core.Budget{ID: uuid.NewString(), OwnerID: u.ID, CategoryID: food.ID, Limit: core.Money{Cents: 150000}, Period: core.Monthly}
	require.NoError(t, repo.CreateBudget(ctx, b))

	dup := *b
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, repo.CreateBudget(ctx, &dup), core.ErrConflict)

	weekly := dup
	weekly.Period = core.Weekly
	require.NoError(t, repo.CreateBudget(ctx, &weekly))

	found, err := repo.FindBudget(ctx, u.ID, food.ID, core.Monthly)
	require.NoError(t, err)
	assert.Equal(t, b.ID, found.ID)
	assert.Equal(t, "Food", found.CategoryName)

	monthly, err := repo.ListBudgets(ctx, u.ID, core.Monthly)
	require.NoError(t, err)
	assert.Len(t, monthly, 1)
}

func TestSQLiteRepository_GoalRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	u := seedUser(t, repo, "a@b.edu")

	target := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	g := &core.Goal{ID: uuid.NewString(), OwnerID: u.ID, Name: "Laptop", TargetAmount: core.Money{Cents: 1000000},
		CurrentAmount: core.Money{Cents: 150000}, TargetDate: target}
	require.NoError(t, repo.CreateGoal(ctx, g))

	g.CurrentAmount = core.Money{Cents: 1000000}
	g.ApplyAutoCompletion()
	require.NoError(t, repo.UpdateGoal(ctx, g))

	got, err := repo.GetGoal(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	assert.True(t, got.TargetDate.Equal(target))

	done := true
	list, err := repo.ListGoals(ctx, u.ID, GoalFilter{Completed: &done})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, repo.DeleteGoal(ctx, "missing"), core.ErrNotFound)
}

func TestSQLiteRepository_DeleteOwnerData(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	u := seedUser(t, repo, "a@b.edu")
	other := seedUser(t, repo, "c@d.edu")
	food := seedCategory(t, repo, u.ID, "Food", core.KindExpense)
	seedCategory(t, repo, other.ID, "Food", core.KindExpense)

	now := time.Now().UTC()
	require.NoError(t, repo.CreateExpense(ctx, &core.Expense{ID: uuid.NewString(), OwnerID: u.ID, CategoryID: food.ID,
		Amount: core.Money{Cents: 100}, Date: now, CreatedAt: now, UpdatedAt: now}))
	end := now.AddDate(1, 0, 0)
	require.NoError(t, repo.CreateRecurringExpense(ctx, &core.RecurringExpense{ID: uuid.NewString(), OwnerID: u.ID,
		CategoryID: food.ID, Amount: core.Money{Cents: 100}, Frequency: core.Monthly, StartDate: now, EndDate: &end, IsActive: true}))

	rec, err := repo.ListRecurringExpenses(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, rec, 1)
	require.NotNil(t, rec[0].EndDate)

	require.NoError(t, repo.DeleteOwnerData(ctx, u.ID))

	cats, err := repo.ListCategories(ctx, u.ID, "")
	require.NoError(t, err)
	assert.Empty(t, cats)

	otherCats, err := repo.ListCategories(ctx, other.ID, "")
	require.NoError(t, err)
	assert.Len(t, otherCats, 1)

	_, err = repo.GetUser(ctx, u.ID)
	assert.NoError(t, err)
}

func TestMigrationStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.db")
	repo, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	defer repo.Close()

	status, err := GetMigrationStatus(path)
	require.NoError(t, err)
	assert.False(t, status.Empty)
	assert.False(t, status.Dirty)
	assert.Equal(t, uint(1), status.Version)
}

func ptr[T any](v T) *T { return &v }

func TestSQLiteRepository_DeleteCategoryCascades(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	u := seedUser(t, repo, "a@b.edu")
	rent := seedCategory(t, repo, u.ID, "Rent", core.KindExpense)
	food := seedCategory(t, repo, u.ID, "Food", core.KindExpense)

	now := time.Now().UTC()
	onRent := &core.Budget{ID: uuid.NewString(), OwnerID: u.ID, CategoryID: rent.ID, Limit: core.Money{Cents: 350000}, Period: core.Monthly}
	onFood := &core.Budget{ID: uuid.NewString(), OwnerID: u.ID, CategoryID: food.ID, Limit: core.Money{Cents: 150000}, Period: core.Monthly}
	require.NoError(t, repo.CreateBudget(ctx, onRent))
	require.NoError(t, repo.CreateBudget(ctx, onFood))
	require.NoError(t, repo.CreateRecurringExpense(ctx, &core.RecurringExpense{ID: uuid.NewString(), OwnerID: u.ID,
		CategoryID: rent.ID, Amount: core.Money{Cents: 350000}, Frequency: core.Monthly, StartDate: now, IsActive: true}))

	require.NoError(t, repo.DeleteCategory(ctx, rent.ID))

	_, err := repo.GetBudget(ctx, onRent.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = repo.GetBudget(ctx, onFood.ID)
	assert.NoError(t, err)
	rec, err := repo.ListRecurringExpenses(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, rec)

	assert.ErrorIs(t, repo.DeleteCategory(ctx, rent.ID), core.ErrNotFound)
}

func TestSQLiteRepository_EmptyListsAreNotNil(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	u := seedUser(t, repo, "a@b.edu")

	cats, err := repo.ListCategories(ctx, u.ID, "")
	require.NoError(t, err)
	assert.NotNil(t, cats)
	exps, err := repo.ListExpenses(ctx, u.ID, TransactionFilter{})
	require.NoError(t, err)
	assert.NotNil(t, exps)
	incs, err := repo.ListIncomes(ctx, u.ID, TransactionFilter{})
	require.NoError(t, err)
	assert.NotNil(t, incs)
}
