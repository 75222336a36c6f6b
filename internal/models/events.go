package models

import (
	"encoding/json"
	"time"
)

// Analytics event types, matching the storefront client vocabulary
const (
	EventTypeView           = "view"
	EventTypeSearch         = "search"
	EventTypeCartAdd        = "cart:add"
	EventTypeCartRemove     = "cart:remove"
	EventTypeCartUpdate     = "cart:update"
	EventTypeFavoriteAdd    = "favorite:add"
	EventTypeFavoriteRemove = "favorite:remove"
	EventTypeLogin          = "login"
	EventTypeSignup         = "signup"
	EventTypeOrderCreated   = "order:created"
)

// KnownEventTypes lists every accepted analytics event type
var KnownEventTypes = map[string]bool{
	EventTypeView:           true,
	EventTypeSearch:         true,
	EventTypeCartAdd:        true,
	EventTypeCartRemove:     true,
	EventTypeCartUpdate:     true,
	EventTypeFavoriteAdd:    true,
	EventTypeFavoriteRemove: true,
	EventTypeLogin:          true,
	EventTypeSignup:         true,
	EventTypeOrderCreated:   true,
}

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// AnalyticsEvent is a storefront interaction event. Exactly one of UserID or
// AnonID identifies the actor.
type AnalyticsEvent struct {
	BaseEvent
	UserID    string          `json:"user_id,omitempty"`
	AnonID    string          `json:"anon_id,omitempty"`
	ProductID string          `json:"product_id,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

// ActorKey returns the identity the event is keyed by when published
func (e *AnalyticsEvent) ActorKey() string {
	if e.UserID != "" {
		return e.UserID
	}
	return e.AnonID
}
