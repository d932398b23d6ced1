// Package directory é a busca pública de barbearias, por nome/cidade ou
// por proximidade.
package directory

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/directory"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type Service struct {
	repo directory.Repository
}

func NewService(repo directory.Repository) *Service {
	return &Service{repo: repo}
}

// Shop é o cartão público da barbearia.
type Shop struct {
	ID         uint     `json:"id"`
	Name       string   `json:"name"`
	Slug       string   `json:"slug"`
	Address    string   `json:"address"`
	City       string   `json:"city"`
	Phone      string   `json:"phone"`
	LogoURL    string   `json:"logo_url"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

func card(s models.Barbershop) Shop {
	return Shop{
		ID:        s.ID,
		Name:      s.Name,
		Slug:      s.Slug,
		Address:   s.Address,
		City:      s.City,
		Phone:     s.Phone,
		LogoURL:   s.LogoURL,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
	}
}

type SearchResult struct {
	Shops []Shop
	Total int64
	Page  domain.Page
}

// Search sem filtro lista todas as barbearias ativas.
func (s *Service) Search(ctx context.Context, name, city string, number, size int) (*SearchResult, error) {
	f := directory.Filter{Name: strings.TrimSpace(name), City: strings.TrimSpace(city)}
	p := domain.NewPage(number, size, directory.DefaultPageSize, directory.MaxPageSize)

	list, total, err := s.repo.SearchShops(ctx, f, p)
	if err != nil {
		return nil, err
	}

	out := make([]Shop, 0, len(list))
	for _, shop := range list {
		out = append(out, card(shop))
	}
	return &SearchResult{Shops: out, Total: total, Page: p}, nil
}

// Nearby devolve as barbearias a até radiusKm do ponto, da mais perto para a
// mais longe. Raio zero usa o padrão.
func (s *Service) Nearby(ctx context.Context, center directory.Point, radiusKm float64, limit int) ([]Shop, error) {
	if !center.Valid() {
		return nil, httperr.Validation("invalid_coordinates", "Coordenadas inválidas.")
	}
	switch {
	case radiusKm == 0:
		radiusKm = directory.DefaultRadiusKm
	case radiusKm < 0 || radiusKm > directory.MaxRadiusKm || math.IsNaN(radiusKm):
		return nil, httperr.Validation("invalid_radius", "Raio deve ser entre 0 e 100 km.")
	}
	if limit <= 0 || limit > directory.MaxPageSize {
		limit = directory.DefaultPageSize
	}

	candidates, err := s.repo.ListShopsIn(ctx, directory.BoundingBox(center, radiusKm))
	if err != nil {
		return nil, err
	}

	type hit struct {
		shop models.Barbershop
		km   float64
	}
	hits := make([]hit, 0, len(candidates))
	for _, shop := range candidates {
		if shop.Latitude == nil || shop.Longitude == nil {
			continue
		}
		d := directory.DistanceKm(center, directory.Point{Lat: *shop.Latitude, Lng: *shop.Longitude})
		if d <= radiusKm {
			hits = append(hits, hit{shop: shop, km: d})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].km != hits[j].km {
			return hits[i].km < hits[j].km
		}
		return hits[i].shop.ID < hits[j].shop.ID
	})

	out := make([]Shop, 0, len(hits))
	for _, h := range hits {
		c := card(h.shop)
		km := math.Round(h.km*100) / 100
		c.DistanceKm = &km
		out = append(out, c)
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
