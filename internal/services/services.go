// Package services holds the entity operations behind the REST API. Every
// operation runs for one authenticated owner through an OwnerScope.
package services

import (
	"errors"
	"time"

	"studentfin/internal/core"
	"studentfin/internal/storage"
)

// Clock returns the current time in the configured location.
type Clock func() time.Time

// ClockIn returns a Clock reporting wall time in loc.
func ClockIn(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}

// Entity names used in events and log fields.
const (
	entityCategory = "category"
	entityExpense  = "expense"
	entityIncome   = "income"
	entityBudget   = "budget"
	entityGoal     = "goal"
)

type base struct {
	store     storage.Store
	publisher EventPublisher
	now       Clock
}

func newBase(store storage.Store, publisher EventPublisher, clock Clock) base {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if clock == nil {
		clock = time.Now
	}
	return base{store: store, publisher: publisher, now: clock}
}

func (b base) scope(ownerID string) OwnerScope {
	return NewOwnerScope(b.store, ownerID)
}

// conflictAs turns a store uniqueness failure into a caller-facing conflict.
func conflictAs(err error, msg string) error {
	if errors.Is(err, core.ErrConflict) && core.Message(err) == "" {
		return core.Conflict(msg)
	}
	return err
}
