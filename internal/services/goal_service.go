package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"studentfin/internal/amqp"
	"studentfin/internal/core"
	"studentfin/internal/storage"
)

type GoalInput struct {
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	TargetAmount  *core.Money `json:"targetAmount"`
	CurrentAmount *core.Money `json:"currentAmount"`
	TargetDate    *time.Time  `json:"targetDate"`
}

type GoalPatch struct {
	Name          *string     `json:"name"`
	Description   *string     `json:"description"`
	TargetAmount  *core.Money `json:"targetAmount"`
	CurrentAmount *core.Money `json:"currentAmount"`
	TargetDate    *time.Time  `json:"targetDate"`
	IsCompleted   *bool       `json:"isCompleted"`
}

// GoalService manages savings goals. Writes that bring the saved amount up
// to the target mark the goal completed.
type GoalService struct {
	base
}

func NewGoalService(store storage.Store, publisher EventPublisher, clock Clock) *GoalService {
	return &GoalService{base: newBase(store, publisher, clock)}
}

// List returns goals by target date, optionally narrowed by completion.
func (s *GoalService) List(ctx context.Context, ownerID string, completed *bool) ([]core.GoalProgress, error) {
	goals, err := s.scope(ownerID).Goals(ctx, storage.GoalFilter{Completed: completed})
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	now := s.now()
	out := make([]core.GoalProgress, len(goals))
	for i, g := range goals {
		out[i] = g.Progress(now)
	}
	return out, nil
}

func (s *GoalService) Get(ctx context.Context, ownerID, id string) (core.GoalProgress, error) {
	g, err := s.scope(ownerID).Goal(ctx, id, actionAccess)
	if err != nil {
		return core.GoalProgress{}, err
	}
	return g.Progress(s.now()), nil
}

func (s *GoalService) Create(ctx context.Context, ownerID string, in GoalInput) (core.GoalProgress, error) {
	if strings.TrimSpace(in.Name) == "" || in.TargetAmount == nil || in.TargetDate == nil {
		return core.GoalProgress{}, core.Validation("Please provide goal name, target amount, and target date")
	}
	now := s.now()
	g := &core.Goal{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		TargetAmount: *in.TargetAmount,
		TargetDate:   *in.TargetDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.CurrentAmount != nil {
		g.CurrentAmount = *in.CurrentAmount
	}
	if err := g.Validate(); err != nil {
		return core.GoalProgress{}, err
	}
	g.ApplyAutoCompletion()

	if err := s.store.CreateGoal(ctx, g); err != nil {
		return core.GoalProgress{}, fmt.Errorf("create goal: %w", err)
	}
	notify(ctx, s.publisher, entityGoal, amqp.ActionCreated, g.ID, ownerID)
	return g.Progress(now), nil
}

func (s *GoalService) Update(ctx context.Context, ownerID, id string, patch GoalPatch) (core.GoalProgress, error) {
	g, err := s.scope(ownerID).Goal(ctx, id, actionUpdate)
	if err != nil {
		return core.GoalProgress{}, err
	}

	if patch.Name != nil {
		g.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		g.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.TargetAmount != nil {
		g.TargetAmount = *patch.TargetAmount
	}
	if patch.CurrentAmount != nil {
		g.CurrentAmount = *patch.CurrentAmount
	}
	if patch.TargetDate != nil {
		g.TargetDate = *patch.TargetDate
	}
	if patch.IsCompleted != nil {
		g.IsCompleted = *patch.IsCompleted
	}
	if err := g.Validate(); err != nil {
		return core.GoalProgress{}, err
	}
	g.ApplyAutoCompletion()

	return s.save(ctx, g)
}

// AddProgress adds amount to the saved total.
func (s *GoalService) AddProgress(ctx context.Context, ownerID, id string, amount *core.Money) (core.GoalProgress, error) {
	if amount == nil || amount.Cents <= 0 {
		return core.GoalProgress{}, core.ErrInvalidAmount
	}
	g, err := s.scope(ownerID).Goal(ctx, id, actionUpdate)
	if err != nil {
		return core.GoalProgress{}, err
	}
	g.CurrentAmount = g.CurrentAmount.Add(*amount)
	g.ApplyAutoCompletion()

	return s.save(ctx, g)
}

func (s *GoalService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.scope(ownerID).Goal(ctx, id, actionDelete); err != nil {
		return err
	}
	if err := s.store.DeleteGoal(ctx, id); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	notify(ctx, s.publisher, entityGoal, amqp.ActionDeleted, id, ownerID)
	return nil
}

func (s *GoalService) save(ctx context.Context, g *core.Goal) (core.GoalProgress, error) {
	g.UpdatedAt = s.now()
	if err := s.store.UpdateGoal(ctx, g); err != nil {
		return core.GoalProgress{}, fmt.Errorf("update goal: %w", err)
	}
	notify(ctx, s.publisher, entityGoal, amqp.ActionUpdated, g.ID, g.OwnerID)
	return g.Progress(g.UpdatedAt), nil
}
