package testutil

import (
	"context"
	"sync"

	"bidmart/internal/events"
)

// EventRecorder is a Publisher that keeps every event in memory.
type EventRecorder struct {
	mu     sync.Mutex
	events []events.Event
	Err    error
}

func (r *EventRecorder) Publish(_ context.Context, evt events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, evt)
	return nil
}

func (r *EventRecorder) Close() error { return nil }

// Names lists the recorded event names in publish order.
func (r *EventRecorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.events))
	for _, e := range r.events {
		names = append(names, e.Name)
	}
	return names
}

func (r *EventRecorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.events...)
}
