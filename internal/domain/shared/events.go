package shared

import (
	"time"
)

// EventType represents the type of a client-side event.
type EventType string

// Event types published by the resource stores.
const (
	// EventStoreChanged is emitted after a store committed a new snapshot.
	EventStoreChanged EventType = "store.changed"

	// EventSessionStarted and EventSessionEnded track the auth lifecycle.
	EventSessionStarted EventType = "session.started"
	EventSessionEnded   EventType = "session.ended"

	// EventAlertsRaised is emitted by the alert watch when unread alerts
	// appear that were not seen on a previous refresh.
	EventAlertsRaised EventType = "psychologist.alerts_raised"
)

// Event is the base interface for all events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the store or session that produced this event.
	AggregateID() string

	// Payload returns the event data as a map.
	Payload() map[string]interface{}
}

// EventHandler handles a published event.
type EventHandler func(Event) error

// EventPublisher is the narrow side of the bus that stores depend on.
type EventPublisher interface {
	Publish(event Event) error
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
	}
}

// StoreChangedEvent is emitted when a store commits. Action names the store
// action ("FetchNotes", "ToggleLike", ...) that produced the change.
type StoreChangedEvent struct {
	BaseEvent
	Action    string `json:"action"`
	IsLoading bool   `json:"is_loading"`
	Error     string `json:"error,omitempty"`
}

// NewStoreChangedEvent creates a StoreChangedEvent for the named store.
func NewStoreChangedEvent(storeName, action string, isLoading bool, errMsg string) *StoreChangedEvent {
	return &StoreChangedEvent{
		BaseEvent: NewBaseEvent(EventStoreChanged, storeName),
		Action:    action,
		IsLoading: isLoading,
		Error:     errMsg,
	}
}

// Payload implements Event interface.
func (e *StoreChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"store":      e.AggregateId,
		"action":     e.Action,
		"is_loading": e.IsLoading,
		"error":      e.Error,
	}
}

// SessionEvent is emitted when a user session starts or ends.
type SessionEvent struct {
	BaseEvent
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
}

// NewSessionEvent creates a SessionEvent.
func NewSessionEvent(eventType EventType, userID, role string) *SessionEvent {
	return &SessionEvent{
		BaseEvent: NewBaseEvent(eventType, "auth"),
		UserID:    userID,
		Role:      role,
	}
}

// Payload implements Event interface.
func (e *SessionEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id": e.UserID,
		"role":    e.Role,
	}
}

// AlertsRaisedEvent lists alerts first seen unread by the alert watch.
type AlertsRaisedEvent struct {
	BaseEvent
	PsychologistID string  `json:"psychologist_id"`
	AlertIDs       []int64 `json:"alert_ids"`
}

// NewAlertsRaisedEvent creates an AlertsRaisedEvent.
func NewAlertsRaisedEvent(psychologistID string, alertIDs []int64) *AlertsRaisedEvent {
	return &AlertsRaisedEvent{
		BaseEvent:      NewBaseEvent(EventAlertsRaised, "psychologist"),
		PsychologistID: psychologistID,
		AlertIDs:       alertIDs,
	}
}

// Payload implements Event interface.
func (e *AlertsRaisedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"psychologist_id": e.PsychologistID,
		"alert_ids":       e.AlertIDs,
	}
}
