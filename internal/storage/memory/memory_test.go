package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentfin/internal/core"
	"studentfin/internal/storage"
)

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	c := &core.Category{ID: "c1", OwnerID: "u1", Name: "Food", Kind: core.KindExpense}
	require.NoError(t, s.CreateCategory(ctx, c))
	c.Name = "Changed"

	got, err := s.GetCategory(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Food", got.Name)

	got.Name = "Mutated"
	again, _ := s.GetCategory(ctx, "c1")
	assert.Equal(t, "Food", again.Name)
}

func TestStore_Uniqueness(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.CreateUser(ctx, &core.User{ID: "u1", Email: "a@b.edu"}))
	assert.ErrorIs(t, s.CreateUser(ctx, &core.User{ID: "u2", Email: "a@b.edu"}), core.ErrConflict)

	require.NoError(t, s.CreateCategory(ctx, &core.Category{ID: "c1", OwnerID: "u1", Name: "Food", Kind: core.KindExpense}))
	assert.ErrorIs(t, s.CreateCategory(ctx, &core.Category{ID: "c2", OwnerID: "u1", Name: "Food", Kind: core.KindExpense}), core.ErrConflict)
	require.NoError(t, s.CreateCategory(ctx, &core.Category{ID: "c3", OwnerID: "u2", Name: "Food", Kind: core.KindExpense}))

	require.NoError(t, s.CreateBudget(ctx, &core.Budget{ID: "b1", OwnerID: "u1", CategoryID: "c1", Period: core.Monthly}))
	assert.ErrorIs(t, s.CreateBudget(ctx, &core.Budget{ID: "b2", OwnerID: "u1", CategoryID: "c1", Period: core.Monthly}), core.ErrConflict)
	assert.ErrorIs(t, s.UpdateBudget(ctx, &core.Budget{ID: "missing"}), core.ErrNotFound)
}

func TestStore_ListExpensesOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.CreateCategory(ctx, &core.Category{ID: "food", OwnerID: "u1", Name: "Food", Kind: core.KindExpense}))

	day := time.Date(2024, 11, 3, 0, 0, 0, 0, time.UTC)
	created := day.Add(time.Hour)
	for _, e := range []*core.Expense{
		{ID: "a", OwnerID: "u1", CategoryID: "food", Date: day, CreatedAt: created},
		{ID: "b", OwnerID: "u1", CategoryID: "food", Date: day, CreatedAt: created.Add(time.Minute)},
		{ID: "c", OwnerID: "u1", CategoryID: "food", Date: day.AddDate(0, 0, -1), CreatedAt: created},
		{ID: "d", OwnerID: "u2", CategoryID: "food", Date: day, CreatedAt: created},
	} {
		require.NoError(t, s.CreateExpense(ctx, e))
	}

	list, err := s.ListExpenses(ctx, "u1", storage.TransactionFilter{})
	require.NoError(t, err)
	var ids []string
	for _, e := range list {
		ids = append(ids, e.ID)
		assert.Equal(t, "Food", e.CategoryName)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)

	from := day
	list, err = s.ListExpenses(ctx, "u1", storage.TransactionFilter{From: &from, Limit: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)
}

func TestStore_DeleteOwnerData(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.CreateUser(ctx, &core.User{ID: "u1", Email: "a@b.edu"}))
	require.NoError(t, s.CreateGoal(ctx, &core.Goal{ID: "g1", OwnerID: "u1"}))
	require.NoError(t, s.CreateGoal(ctx, &core.Goal{ID: "g2", OwnerID: "u2"}))

	require.NoError(t, s.DeleteOwnerData(ctx, "u1"))

	goals, err := s.ListGoals(ctx, "u1", storage.GoalFilter{})
	require.NoError(t, err)
	assert.Empty(t, goals)
	goals, err = s.ListGoals(ctx, "u2", storage.GoalFilter{})
	require.NoError(t, err)
	assert.Len(t, goals, 1)

	_, err = s.GetUser(ctx, "u1")
	assert.NoError(t, err)
}
