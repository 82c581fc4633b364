package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentfin/internal/core"
	"studentfin/internal/storage/memory"
)

var testNow = time.Date(2024, 12, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func money(amount float64) *core.Money {
	m := core.NewMoney(amount)
	return &m
}

func at(day int) *time.Time {
	t := time.Date(2024, 12, day, 12, 0, 0, 0, time.UTC)
	return &t
}

func mustCategory(t *testing.T, store *memory.Store, owner, name string, kind core.CategoryKind) *core.Category {
	t.Helper()
	c, err := NewCategoryService(store, nil, fixedClock).Create(context.Background(), owner, CategoryInput{Name: name, Kind: kind})
	require.NoError(t, err)
	return c
}

func assertKind(t *testing.T, err error, kind error, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, kind)
	if msg != "" {
		assert.Equal(t, msg, core.Message(err))
	}
}

func TestOwnerScope_Guard(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	food := mustCategory(t, store, "alice", "Food & Snacks", core.KindExpense)

	_, err := NewOwnerScope(store, "alice").Category(ctx, "missing", actionAccess)
	assertKind(t, err, core.ErrNotFound, "Category not found")

	_, err = NewOwnerScope(store, "bob").Category(ctx, food.ID, actionUpdate)
	assertKind(t, err, core.ErrForbidden, "Not authorized to update this category")

	got, err := NewOwnerScope(store, "alice").Category(ctx, food.ID, actionAccess)
	require.NoError(t, err)
	assert.Equal(t, food.ID, got.ID)
}

func TestOwnerScope_ResolveCategoryKind(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	job := mustCategory(t, store, "alice", "Part-time job", core.KindIncome)

	_, err := NewOwnerScope(store, "alice").resolveCategory(ctx, job.ID, core.KindExpense)
	assertKind(t, err, core.ErrValidation, "Category must be an expense category")

	_, err = NewOwnerScope(store, "bob").resolveCategory(ctx, job.ID, core.KindIncome)
	assertKind(t, err, core.ErrForbidden, "Not authorized to use this category")
}

func TestConflictAs(t *testing.T) {
	bare := conflictAs(core.ErrConflict, "Category already exists")
	assert.Equal(t, "Category already exists", core.Message(bare))

	kept := conflictAs(core.Conflict("User already exists"), "other")
	assert.Equal(t, "User already exists", core.Message(kept))

	assert.ErrorIs(t, conflictAs(core.ErrNotFound, "x"), core.ErrNotFound)
}
