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

func TestGoalService_ProgressAndCompletion(t *testing.T) {
	ctx := context.Background()
	svc := NewGoalService(memory.NewStore(), nil, fixedClock)
	target := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	g, err := svc.Create(ctx, "alice", GoalInput{
		Name:          "New Laptop",
		TargetAmount:  money(10000),
		CurrentAmount: money(1500),
		TargetDate:    &target,
	})
	require.NoError(t, err)
	assert.Equal(t, 15, g.ProgressPercentage)
	assert.False(t, g.IsCompleted)
	assert.Equal(t, 197, g.DaysRemaining)

	_, err = svc.AddProgress(ctx, "alice", g.ID, money(0))
	assertKind(t, err, core.ErrValidation, "Please provide a valid amount")

	done, err := svc.AddProgress(ctx, "alice", g.ID, money(8500))
	require.NoError(t, err)
	assert.Equal(t, "10000.00", done.CurrentAmount.String())
	assert.True(t, done.IsCompleted)
	assert.Equal(t, 100, done.ProgressPercentage)

	_, err = svc.AddProgress(ctx, "bob", g.ID, money(1))
	assertKind(t, err, core.ErrForbidden, "Not authorized to update this goal")
}

func TestGoalService_UpdateAutoCompletes(t *testing.T) {
	ctx := context.Background()
	svc := NewGoalService(memory.NewStore(), nil, fixedClock)
	target := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	g, err := svc.Create(ctx, "alice", GoalInput{Name: "Summer Travel", TargetAmount: money(5000), TargetDate: &target})
	require.NoError(t, err)
	assert.Equal(t, "0.00", g.CurrentAmount.String())

	below, err := svc.Update(ctx, "alice", g.ID, GoalPatch{CurrentAmount: money(4999.99)})
	require.NoError(t, err)
	assert.False(t, below.IsCompleted)

	reached, err := svc.Update(ctx, "alice", g.ID, GoalPatch{CurrentAmount: money(5000)})
	require.NoError(t, err)
	assert.True(t, reached.IsCompleted)

	open := false
	active, err := svc.List(ctx, "alice", &open)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestGoalService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewGoalService(memory.NewStore(), nil, fixedClock)
	target := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   GoalInput
		msg  string
	}{
		{"missing name", GoalInput{TargetAmount: money(10), TargetDate: &target}, "Please provide goal name, target amount, and target date"},
		{"missing target", GoalInput{Name: "x", TargetDate: &target}, "Please provide goal name, target amount, and target date"},
		{"missing date", GoalInput{Name: "x", TargetAmount: money(10)}, "Please provide goal name, target amount, and target date"},
		{"target below one", GoalInput{Name: "x", TargetAmount: money(0.5), TargetDate: &target}, "Target amount must be at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "alice", tt.in)
			assertKind(t, err, core.ErrValidation, tt.msg)
		})
	}
}
