package memory

import (
	"context"
	"sort"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type AppointmentRepository struct {
	catalog
}

func NewAppointmentRepository(s *Store) *AppointmentRepository {
	return &AppointmentRepository{catalog{s: s}}
}

func (r *AppointmentRepository) WithTx(_ context.Context, fn func(tx appointment.Repository) error) error {
	return r.s.inTx(func() error { return fn(r) })
}

func (r *AppointmentRepository) LockBarber(context.Context, uint) error { return nil }

// checkExclusion reproduz a exclusion constraint do Postgres.
func (r *AppointmentRepository) checkExclusion(ap *models.Appointment) error {
	if !appointment.Status(ap.Status).Blocks() {
		return nil
	}
	for id, other := range r.s.appointments {
		if id == ap.ID || other.BarberID != ap.BarberID || !appointment.Status(other.Status).Blocks() {
			continue
		}
		if appointment.Overlaps(ap.StartTime, ap.EndTime, other.StartTime, other.EndTime) {
			return httperr.SlotConflict("slot_taken", "Horário indisponível.")
		}
	}
	return nil
}

func (r *AppointmentRepository) Create(_ context.Context, ap *models.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkExclusion(ap); err != nil {
		return err
	}
	ap.ID = r.s.nextID()
	stamp(&ap.CreatedAt, &ap.UpdatedAt)
	r.s.appointments[ap.ID] = *ap
	return nil
}

func (r *AppointmentRepository) Save(_ context.Context, ap *models.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.appointments[ap.ID]; !ok {
		return domain.ErrNotFound
	}
	if err := r.checkExclusion(ap); err != nil {
		return err
	}
	stamp(&ap.CreatedAt, &ap.UpdatedAt)
	r.s.appointments[ap.ID] = *ap
	return nil
}

func (r *AppointmentRepository) SetPaymentLink(_ context.Context, id uint, link string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ap, ok := r.s.appointments[id]
	if !ok {
		return domain.ErrNotFound
	}
	ap.PaymentLink = link
	stamp(&ap.CreatedAt, &ap.UpdatedAt)
	r.s.appointments[id] = ap
	return nil
}

func (r *AppointmentRepository) GetByID(_ context.Context, id uint) (*models.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ap, ok := r.s.appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ap, nil
}

func (r *AppointmentRepository) list(match func(models.Appointment) bool) []models.Appointment {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Appointment{}
	for _, ap := range r.s.appointments {
		if match(ap) {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *AppointmentRepository) FindByIdempotencyKey(_ context.Context, customerID uint, key string) (*models.Appointment, error) {
	found := r.list(func(ap models.Appointment) bool {
		return ap.CustomerID == customerID && ap.IdempotencyKey != nil && *ap.IdempotencyKey == key
	})
	if len(found) == 0 {
		return nil, domain.ErrNotFound
	}
	return &found[0], nil
}

func (r *AppointmentRepository) HasBlockingOverlap(_ context.Context, barberID uint, start, end time.Time, excludeID uint) (bool, error) {
	found := r.list(func(ap models.Appointment) bool {
		return ap.ID != excludeID && ap.BarberID == barberID &&
			appointment.Status(ap.Status).Blocks() &&
			appointment.Overlaps(start, end, ap.StartTime, ap.EndTime)
	})
	return len(found) > 0, nil
}

func (r *AppointmentRepository) ListBlocking(_ context.Context, barberID uint, from, to time.Time) ([]models.Appointment, error) {
	return r.list(func(ap models.Appointment) bool {
		return ap.BarberID == barberID && appointment.Status(ap.Status).Blocks() &&
			appointment.Overlaps(from, to, ap.StartTime, ap.EndTime)
	}), nil
}

func (r *AppointmentRepository) ListForBarberBetween(_ context.Context, barberID uint, from, to time.Time) ([]models.Appointment, error) {
	return r.list(func(ap models.Appointment) bool {
		return ap.BarberID == barberID && !ap.StartTime.Before(from) && ap.StartTime.Before(to)
	}), nil
}

func (r *AppointmentRepository) ListForCustomer(_ context.Context, customerID uint) ([]models.Appointment, error) {
	return r.list(func(ap models.Appointment) bool { return ap.CustomerID == customerID }), nil
}

func (r *AppointmentRepository) ListPending(_ context.Context, barbershopID uint) ([]models.Appointment, error) {
	return r.list(func(ap models.Appointment) bool {
		return ap.BarbershopID == barbershopID && ap.Status == string(appointment.StatusPending)
	}), nil
}

var _ appointment.Repository = (*AppointmentRepository)(nil)
