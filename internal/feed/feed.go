// Package feed implements an in-process change feed. Mutating services
// publish an event after each committed write; subscribers receive the
// events for their user and recompute derived views. Publishing never
// blocks: a subscriber that falls behind misses intermediate events and
// catches up on the next one.
package feed

import "sync"

// EntityKind identifies which record set changed.
type EntityKind string

const (
	KindAccount     EntityKind = "account"
	KindTransaction EntityKind = "transaction"
)

// Action identifies what happened to the record.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event describes a single committed change to a user's ledger.
type Event struct {
	UserID string
	Kind   EntityKind
	Action Action
	ID     string
}

// Subscription delivers events for one subscriber. Close must be called
// on teardown to release the subscription.
type Subscription struct {
	C      <-chan Event
	c      chan Event
	hub    *Hub
	userID string
}

// Close unregisters the subscription and closes its channel.
func (s *Subscription) Close() {
	s.hub.unsubscribe(s)
}

// Hub fans out change events to per-user subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a subscriber for events belonging to userID.
func (h *Hub) Subscribe(userID string) *Subscription {
	c := make(chan Event, 16)
	sub := &Subscription{C: c, c: c, hub: h, userID: userID}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.c)
	}
	h.mu.Unlock()
}

// Publish delivers an event to every subscriber of the event's user.
// Subscribers with a full buffer are skipped.
func (h *Hub) Publish(evt Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		if sub.userID != evt.UserID {
			continue
		}
		select {
		case sub.c <- evt:
		default:
		}
	}
}
