package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/directory"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type DirectoryRepository struct {
	s *Store
}

func NewDirectoryRepository(s *Store) *DirectoryRepository {
	return &DirectoryRepository{s: s}
}

func (r *DirectoryRepository) shops(match func(models.Barbershop) bool) []models.Barbershop {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Barbershop{}
	for _, shop := range r.s.shops {
		if shop.Active && match(shop) {
			out = append(out, shop)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *DirectoryRepository) SearchShops(_ context.Context, f directory.Filter, page domain.Page) ([]models.Barbershop, int64, error) {
	name := strings.ToLower(f.Name)
	all := r.shops(func(shop models.Barbershop) bool {
		if name != "" && !strings.Contains(strings.ToLower(shop.Name), name) {
			return false
		}
		return f.City == "" || strings.EqualFold(shop.City, f.City)
	})
	return domain.Slice(all, page), int64(len(all)), nil
}

func (r *DirectoryRepository) ListShopsIn(_ context.Context, b directory.Box) ([]models.Barbershop, error) {
	return r.shops(func(shop models.Barbershop) bool {
		if shop.Latitude == nil || shop.Longitude == nil {
			return false
		}
		return b.Contains(directory.Point{Lat: *shop.Latitude, Lng: *shop.Longitude})
	}), nil
}

var _ directory.Repository = (*DirectoryRepository)(nil)
