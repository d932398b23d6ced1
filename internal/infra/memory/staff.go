package memory

import (
	"context"
	"sort"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/domain/staff"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type StaffRepository struct {
	catalog
}

func NewStaffRepository(s *Store) *StaffRepository {
	return &StaffRepository{catalog{s: s}}
}

func (r *StaffRepository) WithTx(_ context.Context, fn func(tx staff.Repository) error) error {
	return r.s.inTx(func() error { return fn(r) })
}

func (r *StaffRepository) LockUser(context.Context, uint) error { return nil }

func (r *StaffRepository) GetUser(_ context.Context, userID uint) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *StaffRepository) SaveLink(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.users[u.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.BarbershopID = u.BarbershopID
	stored.LinkStatus = u.LinkStatus
	stored.RequestedShopID = u.RequestedShopID
	stored.LinkRequestedAt = u.LinkRequestedAt
	r.s.users[u.ID] = stored
	return nil
}

func (r *StaffRepository) ListRequests(_ context.Context, barbershopID uint) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.User{}
	for _, u := range r.s.users {
		if staff.PendingFor(&u, barbershopID) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].LinkRequestedAt, out[j].LinkRequestedAt
		if a != nil && b != nil && !a.Equal(*b) {
			return a.Before(*b)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *StaffRepository) CountOpenWork(_ context.Context, barberID uint, now time.Time) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, e := range r.s.entries {
		if e.BarberID == barberID && queue.Status(e.Status).IsActive() {
			n++
		}
	}
	for _, ap := range r.s.appointments {
		if ap.BarberID == barberID && !appointment.Status(ap.Status).IsFinal() && ap.EndTime.After(now) {
			n++
		}
	}
	return n, nil
}

var _ staff.Repository = (*StaffRepository)(nil)
