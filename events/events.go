package events

import (
	"context"
	"sync"

	"wheelhouse/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange  EventType = "balance_change"
	EventTypeAccountCreated EventType = "account_created"
	EventTypeSpinSettled    EventType = "spin_settled"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent is emitted for every ledger entry appended
type BalanceChangeEvent struct {
	AccountID     int64            `json:"account_id"`
	OldBalance    int64            `json:"old_balance"`
	NewBalance    int64            `json:"new_balance"`
	Kind          models.EntryKind `json:"kind"`
	ChangeAmount  int64            `json:"change_amount"`
	RelatedSpinID string           `json:"related_spin_id,omitempty"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent represents a new account receiving its starting grant
type AccountCreatedEvent struct {
	AccountID      int64  `json:"account_id"`
	Username       string `json:"username"`
	InitialBalance int64  `json:"initial_balance"`
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// SpinSettledEvent represents a spin whose net result has been applied
type SpinSettledEvent struct {
	SpinID       string                `json:"spin_id"`
	AccountID    int64                 `json:"account_id"`
	Pocket       int                   `json:"pocket"`
	Color        models.Color          `json:"color"`
	Outcomes     []models.WagerOutcome `json:"outcomes"`
	TotalStaked  int64                 `json:"total_staked"`
	TotalPayout  int64                 `json:"total_payout"`
	Net          int64                 `json:"net"`
	BalanceAfter int64                 `json:"balance_after"`
}

func (e SpinSettledEvent) Type() EventType {
	return EventTypeSpinSettled
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type on main event bus")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers on main event bus")

	// Handlers run asynchronously; a slow subscriber never blocks a spin
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds events raised inside a unit of work until it commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Adding event to transactional bus pending queue")
	b.pending = append(b.pending, e)
}

// Pending returns the events queued so far
func (b *TransactionalBus) Pending() []Event {
	return b.pending
}

// Flush is called after a successful commit
func (b *TransactionalBus) Flush(ctx context.Context) {
	log.WithField("pendingEventCount", len(b.pending)).Debug("Flushing pending events to main event bus")

	// Handlers outlive the request that committed
	eventCtx := context.WithoutCancel(ctx)

	if b.real != nil {
		for _, ev := range b.pending {
			b.real.Emit(eventCtx, ev)
		}
	}
	b.pending = nil
}

// Mark returns the queue position DiscardFrom rolls back to
func (b *TransactionalBus) Mark() int {
	return len(b.pending)
}

// DiscardFrom drops events queued after mark
func (b *TransactionalBus) DiscardFrom(mark int) {
	if mark < len(b.pending) {
		b.pending = b.pending[:mark]
	}
}

// Discard is called after rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
