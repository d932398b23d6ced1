package memory

import (
	"context"
	"sort"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/session"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type SessionRepository struct {
	catalog
}

func NewSessionRepository(s *Store) *SessionRepository {
	return &SessionRepository{catalog{s: s}}
}

func (r *SessionRepository) WithTx(_ context.Context, fn func(tx session.Repository) error) error {
	return r.s.inTx(func() error { return fn(r) })
}

func (r *SessionRepository) LockShop(context.Context, uint) error { return nil }

func (r *SessionRepository) FindActive(_ context.Context, barbershopID uint) (*models.WorkSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var found *models.WorkSession
	for _, ws := range r.s.sessions {
		if ws.BarbershopID != barbershopID || ws.Status == string(session.StatusClosed) {
			continue
		}
		if found == nil || ws.OpenedAt.After(found.OpenedAt) || (ws.OpenedAt.Equal(found.OpenedAt) && ws.ID > found.ID) {
			cp := ws
			found = &cp
		}
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}
	return found, nil
}

func (r *SessionRepository) CountForDate(_ context.Context, barbershopID uint, date string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, ws := range r.s.sessions {
		if ws.BarbershopID == barbershopID && ws.SessionDate == date {
			n++
		}
	}
	return n, nil
}

func (r *SessionRepository) Create(_ context.Context, ws *models.WorkSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ws.ID = r.s.nextID()
	stamp(&ws.CreatedAt, &ws.UpdatedAt)
	r.s.sessions[ws.ID] = *ws
	return nil
}

func (r *SessionRepository) Save(_ context.Context, ws *models.WorkSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sessions[ws.ID]; !ok {
		return domain.ErrNotFound
	}
	stamp(&ws.CreatedAt, &ws.UpdatedAt)
	r.s.sessions[ws.ID] = *ws
	return nil
}

func (r *SessionRepository) ListHistory(_ context.Context, barbershopID uint, limit int) ([]models.WorkSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.WorkSession{}
	for _, ws := range r.s.sessions {
		if ws.BarbershopID == barbershopID {
			out = append(out, ws)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OpenedAt.Equal(out[j].OpenedAt) {
			return out[i].OpenedAt.After(out[j].OpenedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *SessionRepository) ListByDate(_ context.Context, barbershopID uint, date string) ([]models.WorkSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.WorkSession{}
	for _, ws := range r.s.sessions {
		if ws.BarbershopID == barbershopID && ws.SessionDate == date {
			out = append(out, ws)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionNumber < out[j].SessionNumber })
	return out, nil
}

var _ session.Repository = (*SessionRepository)(nil)
