package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"studentfin/internal/core"
)

// Action is what happened to an entity.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// EntityEvent announces a write to one owned record. Consumers fetch the
// record themselves if they need more than the id.
type EntityEvent struct {
	Entity    string    `json:"entity"`
	Action    Action    `json:"action"`
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntityEvent(entity string, action Action, id, ownerID string) EntityEvent {
	return EntityEvent{
		Entity:    entity,
		Action:    action,
		ID:        id,
		OwnerID:   ownerID,
		Timestamp: time.Now().UTC(),
	}
}

// RoutingKey is "<entity>.<action>", e.g. "expense.created".
func (e EntityEvent) RoutingKey() string {
	return fmt.Sprintf("%s.%s", e.Entity, e.Action)
}

// BudgetAlert is sent when an expense write pushes a budget into the danger
// or exceeded bucket.
type BudgetAlert struct {
	BudgetID     string          `json:"budgetId"`
	OwnerID      string          `json:"ownerId"`
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Period       core.Frequency  `json:"period"`
	Limit        core.Money      `json:"limit"`
	Spent        core.Money      `json:"spent"`
	Percentage   float64         `json:"percentage"`
	AlertLevel   core.AlertLevel `json:"alertLevel"`
	Timestamp    time.Time       `json:"timestamp"`
}

// RoutingKey is "budget.alert.<level>".
func (a BudgetAlert) RoutingKey() string {
	return "budget.alert." + string(a.AlertLevel)
}

// ToJSON converts the message to JSON bytes
func (e EntityEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func (a BudgetAlert) ToJSON() ([]byte, error) {
	return json.Marshal(a)
}

// EntityEventFromJSON parses an entity event.
func EntityEventFromJSON(data []byte) (*EntityEvent, error) {
	var msg EntityEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
