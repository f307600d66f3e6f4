// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"cotizador_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Chat Domain Events
// =============================================================================

// QuoteUpdated is published when the model replaces the quote's item list.
type QuoteUpdated struct {
	BaseEvent
	SessionID string  `json:"sessionId"`
	ItemCount int     `json:"itemCount"`
	Total     float64 `json:"total"`
}

func (e QuoteUpdated) EventName() string { return "chat.quote.updated" }

// OrderCreated is published when the order backend accepts an order.
type OrderCreated struct {
	BaseEvent
	SessionID string  `json:"sessionId"`
	OrderID   string  `json:"orderId"`
	ItemCount int     `json:"itemCount"`
	Total     float64 `json:"total"`
}

func (e OrderCreated) EventName() string { return "chat.order.created" }
