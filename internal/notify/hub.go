// Package notify implements the in-process change-notification feed.
// Services publish an event after every committed mutation; clients
// subscribe per household. Delivery is at-least-once with no ordering
// guarantee across tables, and payloads carry identifiers only — consumers
// must re-read state from storage rather than trusting event contents.
package notify

import (
	"log/slog"
	"sync"
)

// Actions carried on change events.
const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Event describes one change to a logical table.
type Event struct {
	// Table is the logical table that changed (e.g., "chores").
	Table string `json:"table"`

	// Action is ActionInsert, ActionUpdate, or ActionDelete.
	Action string `json:"action"`

	// ID is the identifier of the changed record.
	ID string `json:"id"`

	// HouseholdID scopes the event to one household feed.
	HouseholdID string `json:"household_id"`
}

// Hub fans out change events to per-household subscribers.
type Hub struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]chan Event // householdID -> subscriber ID -> channel
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan Event)}
}

// Subscribe registers a new subscriber for one household's feed and returns
// the event channel plus a cancel function. The channel is closed on cancel.
func (h *Hub) Subscribe(householdID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++

	ch := make(chan Event, 16)
	if h.subs[householdID] == nil {
		h.subs[householdID] = make(map[int]chan Event)
	}
	h.subs[householdID][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[householdID][id]; ok {
			delete(h.subs[householdID], id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber of its household. Slow
// subscribers with full buffers are skipped: the feed is best-effort and
// consumers re-read on reconnect anyway.
func (h *Hub) Publish(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[e.HouseholdID] {
		select {
		case ch <- e:
		default:
			slog.Debug("dropping change event for slow subscriber",
				"household_id", e.HouseholdID,
				"table", e.Table,
			)
		}
	}
}
