package memory

import (
	"context"
	"sort"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/domain/session"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type QueueRepository struct {
	catalog
	ledger *SessionRepository
}

func NewQueueRepository(s *Store) *QueueRepository {
	return &QueueRepository{catalog: catalog{s: s}, ledger: NewSessionRepository(s)}
}

func (r *QueueRepository) WithTx(_ context.Context, fn func(tx queue.Repository) error) error {
	return r.s.inTx(func() error { return fn(r) })
}

func (r *QueueRepository) LockBarber(context.Context, uint) error { return nil }

func (r *QueueRepository) Ledger() session.Repository { return r.ledger }

// checkInService reproduz o índice único parcial (um IN_SERVICE por barbeiro).
func (r *QueueRepository) checkInService(e *models.QueueEntry) error {
	if e.Status != string(queue.StatusInService) {
		return nil
	}
	for id, other := range r.s.entries {
		if id != e.ID && other.BarberID == e.BarberID && other.Status == string(queue.StatusInService) {
			return httperr.Conflict("barber_busy", "Barbeiro já está atendendo.")
		}
	}
	return nil
}

// checkIdempotency reproduz o índice único (customer_id, idempotency_key).
func (r *QueueRepository) checkIdempotency(e *models.QueueEntry) error {
	if e.IdempotencyKey == nil {
		return nil
	}
	for id, other := range r.s.entries {
		if id != e.ID && other.CustomerID == e.CustomerID &&
			other.IdempotencyKey != nil && *other.IdempotencyKey == *e.IdempotencyKey {
			return httperr.Conflict("duplicate_request", "Requisição duplicada.")
		}
	}
	return nil
}

// checkCustomerActive reproduz o índice parcial de uma entrada ativa por cliente.
func (r *QueueRepository) checkCustomerActive(e *models.QueueEntry) error {
	if !queue.Status(e.Status).IsActive() {
		return nil
	}
	for id, other := range r.s.entries {
		if id != e.ID && other.CustomerID == e.CustomerID && queue.Status(other.Status).IsActive() {
			return httperr.Conflict("customer_already_in_queue", "Cliente já está em uma fila.")
		}
	}
	return nil
}

func (r *QueueRepository) put(e *models.QueueEntry) {
	stamp(&e.CreatedAt, &e.UpdatedAt)
	stored := *e
	stored.Position = nil
	r.s.entries[e.ID] = stored
}

func (r *QueueRepository) Create(_ context.Context, e *models.QueueEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkIdempotency(e); err != nil {
		return err
	}
	if err := r.checkCustomerActive(e); err != nil {
		return err
	}
	if err := r.checkInService(e); err != nil {
		return err
	}
	e.ID = r.s.nextID()
	r.put(e)
	return nil
}

func (r *QueueRepository) Save(_ context.Context, e *models.QueueEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.entries[e.ID]; !ok {
		return domain.ErrNotFound
	}
	if err := r.checkInService(e); err != nil {
		return err
	}
	r.put(e)
	return nil
}

func (r *QueueRepository) GetByID(_ context.Context, id uint) (*models.QueueEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.entries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

func (r *QueueRepository) findOne(match func(models.QueueEntry) bool) (*models.QueueEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.entries {
		if match(e) {
			return &e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *QueueRepository) list(match func(models.QueueEntry) bool) []models.QueueEntry {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.QueueEntry{}
	for _, e := range r.s.entries {
		if match(e) {
			out = append(out, e)
		}
	}
	return out
}

func (r *QueueRepository) FindByIdempotencyKey(_ context.Context, customerID uint, key string) (*models.QueueEntry, error) {
	return r.findOne(func(e models.QueueEntry) bool {
		return e.CustomerID == customerID && e.IdempotencyKey != nil && *e.IdempotencyKey == key
	})
}

func (r *QueueRepository) FindInService(_ context.Context, barberID uint) (*models.QueueEntry, error) {
	return r.findOne(func(e models.QueueEntry) bool {
		return e.BarberID == barberID && e.Status == string(queue.StatusInService)
	})
}

func (r *QueueRepository) FindActiveForCustomer(_ context.Context, customerID uint) (*models.QueueEntry, error) {
	return r.findOne(func(e models.QueueEntry) bool {
		return e.CustomerID == customerID && queue.Status(e.Status).IsActive()
	})
}

func (r *QueueRepository) ListWaiting(_ context.Context, barberID uint) ([]models.QueueEntry, error) {
	out := r.list(func(e models.QueueEntry) bool {
		return e.BarberID == barberID && e.Status == string(queue.StatusWaiting)
	})
	queue.SortFIFO(out)
	return out, nil
}

func (r *QueueRepository) ListStartedBetween(_ context.Context, barberID uint, from, to time.Time) ([]models.QueueEntry, error) {
	out := r.list(func(e models.QueueEntry) bool {
		return e.BarberID == barberID && e.StartedAt != nil &&
			!e.StartedAt.Before(from) && e.StartedAt.Before(to)
	})
	sortByID(out, func(e models.QueueEntry) uint { return e.ID })
	return out, nil
}

func (r *QueueRepository) ListForShopBetween(_ context.Context, barbershopID uint, from, to time.Time) ([]models.QueueEntry, error) {
	out := r.list(func(e models.QueueEntry) bool {
		return e.BarbershopID == barbershopID && !e.ArrivedAt.Before(from) && e.ArrivedAt.Before(to)
	})
	queue.SortFIFO(out)
	return out, nil
}

func (r *QueueRepository) ListHistory(_ context.Context, customerID uint, limit int) ([]models.QueueEntry, error) {
	out := r.list(func(e models.QueueEntry) bool {
		return e.CustomerID == customerID && queue.Status(e.Status).IsTerminal()
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ArrivedAt.Equal(out[j].ArrivedAt) {
			return out[i].ArrivedAt.After(out[j].ArrivedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ queue.Repository = (*QueueRepository)(nil)
