package firestore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"studentfin/internal/core"
	"studentfin/internal/storage"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(status.Error(codes.NotFound, "missing")))
	assert.False(t, isNotFound(status.Error(codes.PermissionDenied, "denied")))
	assert.False(t, isNotFound(errors.New("plain")))
}

// Runs only against the Firestore emulator.
func TestStore_Emulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	s, err := NewStore(ctx, "studentfin-test", "")
	require.NoError(t, err)
	defer s.Close()

	owner := uuid.NewString()
	now := time.Now().UTC().Truncate(time.Millisecond)
	cat := &core.Category{ID: uuid.NewString(), OwnerID: owner, Name: "Food", Kind: core.KindExpense, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.CreateCategory(ctx, cat))
	dup := *cat
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, s.CreateCategory(ctx, &dup), core.ErrConflict)

	e := &core.Expense{ID: uuid.NewString(), OwnerID: owner, CategoryID: cat.ID, Amount: core.Money{Cents: 4550}, Date: now, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.CreateExpense(ctx, e))

	list, err := s.ListExpenses(ctx, owner, storage.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Food", list[0].CategoryName)
	assert.Equal(t, int64(4550), list[0].Amount.Cents)

	_, err = s.GetExpense(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, s.DeleteOwnerData(ctx, owner))
	cats, err := s.ListCategories(ctx, owner, "")
	require.NoError(t, err)
	assert.Empty(t, cats)
}
