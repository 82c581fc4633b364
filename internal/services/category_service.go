package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"studentfin/internal/amqp"
	"studentfin/internal/core"
	"studentfin/internal/storage"
)

// CategoryInput creates a category.
type CategoryInput struct {
	Name string            `json:"name"`
	Kind core.CategoryKind `json:"kind"`
}

// CategoryPatch updates the fields that are set.
type CategoryPatch struct {
	Name *string            `json:"name"`
	Kind *core.CategoryKind `json:"kind"`
}

type CategoryService struct {
	base
}

func NewCategoryService(store storage.Store, publisher EventPublisher, clock Clock) *CategoryService {
	return &CategoryService{base: newBase(store, publisher, clock)}
}

// List returns the owner's categories, newest first. An empty kind lists
// both kinds.
func (s *CategoryService) List(ctx context.Context, ownerID string, kind core.CategoryKind) ([]*core.Category, error) {
	if kind != "" && !kind.IsValid() {
		return nil, core.ErrInvalidKind
	}
	cats, err := s.scope(ownerID).Categories(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *CategoryService) Get(ctx context.Context, ownerID, id string) (*core.Category, error) {
	return s.scope(ownerID).Category(ctx, id, actionAccess)
}

func (s *CategoryService) Create(ctx context.Context, ownerID string, in CategoryInput) (*core.Category, error) {
	now := s.now()
	c := &core.Category{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(in.Name),
		Kind:      in.Kind,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.nameTaken(ctx, c)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, core.Conflict("Category already exists")
	}

	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, conflictAs(err, "Category already exists")
	}
	notify(ctx, s.publisher, entityCategory, amqp.ActionCreated, c.ID, ownerID)
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, ownerID, id string, patch CategoryPatch) (*core.Category, error) {
	scope := s.scope(ownerID)
	c, err := scope.Category(ctx, id, actionUpdate)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		c.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Kind != nil && *patch.Kind != c.Kind {
		inUse, err := s.usage(ctx, ownerID, id)
		if err != nil {
			return nil, err
		}
		if inUse.total() > 0 {
			return nil, core.Conflict("Cannot change the kind of a category that is in use")
		}
		c.Kind = *patch.Kind
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.nameTaken(ctx, c)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, core.Conflict("Category name already exists")
	}

	c.UpdatedAt = s.now()
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return nil, conflictAs(err, "Category name already exists")
	}
	notify(ctx, s.publisher, entityCategory, amqp.ActionUpdated, c.ID, ownerID)
	return c, nil
}

// Delete removes a category that no expense or income references.
func (s *CategoryService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.scope(ownerID).Category(ctx, id, actionDelete); err != nil {
		return err
	}

	inUse, err := s.usage(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if inUse.total() > 0 {
		return core.Conflict(fmt.Sprintf(
			"Cannot delete category. It is being used in %d expense(s) and %d income record(s)",
			inUse.expenses, inUse.incomes))
	}

	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	notify(ctx, s.publisher, entityCategory, amqp.ActionDeleted, id, ownerID)
	return nil
}

// nameTaken reports whether another category of the owner already has the
// same name and kind.
func (s *CategoryService) nameTaken(ctx context.Context, c *core.Category) (bool, error) {
	existing, err := s.store.FindCategory(ctx, c.OwnerID, c.Name, c.Kind)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find category: %w", err)
	}
	return existing.ID != c.ID, nil
}

type categoryUsage struct {
	expenses int
	incomes  int
}

func (u categoryUsage) total() int { return u.expenses + u.incomes }

func (s *CategoryService) usage(ctx context.Context, ownerID, id string) (categoryUsage, error) {
	var u categoryUsage
	var err error
	if u.expenses, err = s.store.CountExpensesByCategory(ctx, ownerID, id); err != nil {
		return u, fmt.Errorf("count expenses: %w", err)
	}
	if u.incomes, err = s.store.CountIncomesByCategory(ctx, ownerID, id); err != nil {
		return u, fmt.Errorf("count incomes: %w", err)
	}
	return u, nil
}
