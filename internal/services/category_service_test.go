package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"studentfin/internal/amqp"
	"studentfin/internal/core"
	"studentfin/internal/storage"
	"studentfin/internal/storage/memory"
)

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(memory.NewStore(), nil, fixedClock)

	tests := []struct {
		name string
		in   CategoryInput
		kind error
		msg  string
	}{
		{"missing name", CategoryInput{Name: "  ", Kind: core.KindExpense}, core.ErrValidation, "Please provide category name and kind"},
		{"missing kind", CategoryInput{Name: "Food"}, core.ErrValidation, "Please provide category name and kind"},
		{"bad kind", CategoryInput{Name: "Food", Kind: "savings"}, core.ErrValidation, "Category kind must be income or expense"},
		{"valid", CategoryInput{Name: " Food ", Kind: core.KindExpense}, nil, ""},
		{"duplicate", CategoryInput{Name: "Food", Kind: core.KindExpense}, core.ErrConflict, "Category already exists"},
		{"same name other kind", CategoryInput{Name: "Food", Kind: core.KindIncome}, nil, ""},
		{"case differs", CategoryInput{Name: "food", Kind: core.KindExpense}, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := svc.Create(ctx, "alice", tt.in)
			if tt.kind != nil {
				assertKind(t, err, tt.kind, tt.msg)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, c.ID)
			assert.Equal(t, "alice", c.OwnerID)
			assert.Equal(t, testNow, c.CreatedAt)
		})
	}
}

func TestCategoryService_ListFiltersKind(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mustCategory(t, store, "alice", "Food", core.KindExpense)
	mustCategory(t, store, "alice", "Allowance", core.KindIncome)
	mustCategory(t, store, "bob", "Rent", core.KindExpense)

	svc := NewCategoryService(store, nil, fixedClock)
	all, err := svc.List(ctx, "alice", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	income, err := svc.List(ctx, "alice", core.KindIncome)
	require.NoError(t, err)
	require.Len(t, income, 1)
	assert.Equal(t, "Allowance", income[0].Name)

	_, err = svc.List(ctx, "alice", "other")
	assertKind(t, err, core.ErrValidation, "")
}

func TestCategoryService_UpdateDuplicateExcludesSelf(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	food := mustCategory(t, store, "alice", "Food", core.KindExpense)
	mustCategory(t, store, "alice", "Transport", core.KindExpense)
	svc := NewCategoryService(store, nil, fixedClock)

	same := "Food"
	_, err := svc.Update(ctx, "alice", food.ID, CategoryPatch{Name: &same})
	require.NoError(t, err)

	taken := "Transport"
	_, err = svc.Update(ctx, "alice", food.ID, CategoryPatch{Name: &taken})
	assertKind(t, err, core.ErrConflict, "Category name already exists")

	_, err = svc.Update(ctx, "bob", food.ID, CategoryPatch{Name: &same})
	assertKind(t, err, core.ErrForbidden, "Not authorized to update this category")
}

func TestCategoryService_DeleteBlockedWhileInUse(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	food := mustCategory(t, store, "alice", "Food", core.KindExpense)
	expenses := NewExpenseService(store, nil, fixedClock)
	_, err := expenses.Create(ctx, "alice", ExpenseInput{CategoryID: food.ID, Amount: money(45.50)})
	require.NoError(t, err)
	_, err = expenses.Create(ctx, "alice", ExpenseInput{CategoryID: food.ID, Amount: money(20)})
	require.NoError(t, err)

	svc := NewCategoryService(store, nil, fixedClock)
	err = svc.Delete(ctx, "alice", food.ID)
	assertKind(t, err, core.ErrConflict, "Cannot delete category. It is being used in 2 expense(s) and 0 income record(s)")

	kind := core.KindIncome
	_, err = svc.Update(ctx, "alice", food.ID, CategoryPatch{Kind: &kind})
	assertKind(t, err, core.ErrConflict, "")
}

func TestCategoryService_DeleteRemovesBudgetsAndRecurring(t *testing.T) {
	newSQLite := func(t *testing.T) storage.Store {
		repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "studentfin.db"))
		require.NoError(t, err)
		t.Cleanup(func() { repo.Close() })
		return repo
	}
	backends := []struct {
		name  string
		store func(t *testing.T) storage.Store
	}{
		{"memory", func(*testing.T) storage.Store { return memory.NewStore() }},
		{"sqlite", newSQLite},
	}
	for _, bk := range backends {
		t.Run(bk.name, func(t *testing.T) {
			ctx := context.Background()
			store := bk.store(t)
			require.NoError(t, store.CreateUser(ctx, &core.User{ID: "alice", Name: "Alice", Email: "alice@uni.edu",
				PasswordHash: "x", Currency: "HKD", CreatedAt: testNow, UpdatedAt: testNow}))

			svc := NewCategoryService(store, nil, fixedClock)
			rent, err := svc.Create(ctx, "alice", CategoryInput{Name: "Rent", Kind: core.KindExpense})
			require.NoError(t, err)
			budget, err := NewBudgetService(store, nil, fixedClock).Create(ctx, "alice",
				BudgetInput{CategoryID: rent.ID, Limit: money(3500), Period: core.Monthly})
			require.NoError(t, err)
			require.NoError(t, store.CreateRecurringExpense(ctx, &core.RecurringExpense{ID: "rec-1", OwnerID: "alice",
				CategoryID: rent.ID, Amount: core.Money{Cents: 350000}, Frequency: core.Monthly,
				StartDate: testNow.Add(-24 * time.Hour), IsActive: true}))

			require.NoError(t, svc.Delete(ctx, "alice", rent.ID))

			_, err = store.GetCategory(ctx, rent.ID)
			assert.ErrorIs(t, err, core.ErrNotFound)
			_, err = store.GetBudget(ctx, budget.ID)
			assert.ErrorIs(t, err, core.ErrNotFound)
			recurring, err := store.ListRecurringExpenses(ctx, "alice")
			require.NoError(t, err)
			assert.Empty(t, recurring)

			assertKind(t, svc.Delete(ctx, "alice", rent.ID), core.ErrNotFound, "")
		})
	}
}

func TestCategoryService_PublishesEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := NewMockEventPublisher(ctrl)

	var events []amqp.EntityEvent
	pub.EXPECT().PublishEntityEvent(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, e amqp.EntityEvent) { events = append(events, e) }).
		Return(nil).Times(2)

	ctx := context.Background()
	svc := NewCategoryService(memory.NewStore(), pub, fixedClock)
	c, err := svc.Create(ctx, "alice", CategoryInput{Name: "Books", Kind: core.KindExpense})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "alice", c.ID))

	require.Len(t, events, 2)
	assert.Equal(t, "category.created", events[0].RoutingKey())
	assert.Equal(t, "category.deleted", events[1].RoutingKey())
	assert.Equal(t, c.ID, events[1].ID)
	assert.Equal(t, "alice", events[1].OwnerID)
}

func TestCategoryService_PublishFailureIsNotReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := NewMockEventPublisher(ctrl)
	pub.EXPECT().PublishEntityEvent(gomock.Any(), gomock.Any()).Return(amqp.ErrCircuitOpen)

	_, err := NewCategoryService(memory.NewStore(), pub, fixedClock).
		Create(context.Background(), "alice", CategoryInput{Name: "Books", Kind: core.KindExpense})
	assert.NoError(t, err)
}
