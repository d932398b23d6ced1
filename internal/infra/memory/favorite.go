package memory

import (
	"context"
	"sort"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/favorite"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type FavoriteRepository struct {
	catalog
}

func NewFavoriteRepository(s *Store) *FavoriteRepository {
	return &FavoriteRepository{catalog{s: s}}
}

func pointsTo(f models.Favorite, t favorite.Target) bool {
	return f.Kind == t.Kind && f.TargetID() == t.ID
}

func (r *FavoriteRepository) Find(_ context.Context, userID uint, t favorite.Target) (*models.Favorite, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, f := range r.s.favorites {
		if f.UserID == userID && pointsTo(f, t) {
			return &f, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *FavoriteRepository) Create(_ context.Context, f *models.Favorite) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t := favorite.Target{Kind: f.Kind, ID: f.TargetID()}
	for _, other := range r.s.favorites {
		if other.UserID == f.UserID && pointsTo(other, t) {
			return domain.ErrDuplicate
		}
	}

	f.ID = r.s.nextID()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	r.s.favorites[f.ID] = *f
	return nil
}

func (r *FavoriteRepository) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.favorites[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.favorites, id)
	return nil
}

func (r *FavoriteRepository) ListForUser(_ context.Context, userID uint, kind string) ([]models.Favorite, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Favorite{}
	for _, f := range r.s.favorites {
		if f.UserID == userID && (kind == "" || f.Kind == kind) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *FavoriteRepository) Count(_ context.Context, t favorite.Target) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, f := range r.s.favorites {
		if pointsTo(f, t) {
			n++
		}
	}
	return n, nil
}

var _ favorite.Repository = (*FavoriteRepository)(nil)
