package audit

import (
	"context"
	"sync"
)

// Trail is a bounded in-memory ring of recent audit events, readable from the
// admin surface. When full, the oldest events fall off.
type Trail struct {
	mu     sync.RWMutex
	events []Event
	limit  int
}

// NewTrail creates a trail keeping at most limit events.
func NewTrail(limit int) *Trail {
	if limit <= 0 {
		limit = 1024
	}
	return &Trail{limit: limit}
}

// Emit appends an event, evicting the oldest when over capacity.
func (t *Trail) Emit(_ context.Context, e Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.events = append(t.events, e)
	if len(t.events) > t.limit {
		t.events = t.events[len(t.events)-t.limit:]
	}
	return nil
}

// Recent returns up to n most recent events, newest first.
func (t *Trail) Recent(n int) []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n <= 0 || n > len(t.events) {
		n = len(t.events)
	}
	out := make([]Event, 0, n)
	for i := len(t.events) - 1; i >= len(t.events)-n; i-- {
		out = append(out, t.events[i])
	}
	return out
}

// ByActor returns every retained event for one actor, newest first. Used by
// the privacy export.
func (t *Trail) ByActor(actor string) []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []Event
	for i := len(t.events) - 1; i >= 0; i-- {
		if t.events[i].Actor == actor {
			out = append(out, t.events[i])
		}
	}
	return out
}

// DropActor removes every event attributed to actor, honoring erasure
// requests.
func (t *Trail) DropActor(actor string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.events[:0]
	dropped := 0
	for _, e := range t.events {
		if e.Actor == actor {
			dropped++
			continue
		}
		kept = append(kept, e)
	}
	t.events = kept
	return dropped
}
