// Package audittest oferece um Sink que guarda os eventos em memória para testes.
package audittest

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
)

// Recorder guarda os eventos recebidos, na ordem.
type Recorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *Recorder) Name() string { return "recorder" }

func (r *Recorder) Handle(_ context.Context, ev audit.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Events() []audit.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]audit.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Actions lista as ações recebidas, na ordem.
func (r *Recorder) Actions() []string {
	evs := r.Events()
	out := make([]string, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.Action)
	}
	return out
}

var _ audit.Sink = (*Recorder)(nil)
