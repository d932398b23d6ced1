package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/barber-queue/internal/metrics"
)

// Event é uma mudança de estado publicada para auditoria e notificação.
type Event struct {
	ID           string    `json:"id"`
	BarbershopID uint      `json:"barbershop_id"`
	UserID       *uint     `json:"user_id,omitempty"`
	CustomerID   *uint     `json:"customer_id,omitempty"`
	Action       string    `json:"action"`
	Entity       string    `json:"entity"`
	EntityID     *uint     `json:"entity_id,omitempty"`
	Metadata     any       `json:"metadata,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Sink recebe os eventos despachados (banco, broker, push).
type Sink interface {
	Name() string
	Handle(ctx context.Context, ev Event) error
}

const (
	bufferSize  = 100
	sinkTimeout = 5 * time.Second
)

type Dispatcher struct {
	sinks []Sink
	queue chan Event
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		sinks: sinks,
		queue: make(chan Event, bufferSize),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
			if err := s.Handle(ctx, ev); err != nil {
				log.Error().Err(err).
					Str("sink", s.Name()).
					Str("action", ev.Action).
					Msg("event sink failed")
			}
			cancel()
		}
	}
}

// Dispatch nunca bloqueia: com o buffer cheio o evento é descartado.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		metrics.DroppedEvent()
		log.Warn().Str("action", ev.Action).Msg("event queue full, dropping event")
	}
}

// Close para de aceitar eventos e espera o worker esvaziar a fila.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}
