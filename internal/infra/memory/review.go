package memory

import (
	"context"
	"sort"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/review"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type ReviewRepository struct {
	catalog
}

func NewReviewRepository(s *Store) *ReviewRepository {
	return &ReviewRepository{catalog{s: s}}
}

func (r *ReviewRepository) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ap, ok := r.s.appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ap, nil
}

func sameTarget(rv models.Review, kind string, targetID uint) bool {
	switch kind {
	case models.ReviewShop:
		return rv.Kind == kind && rv.BarbershopID == targetID
	case models.ReviewBarber:
		return rv.Kind == kind && rv.BarberID != nil && *rv.BarberID == targetID
	case models.ReviewAppointment:
		return rv.AppointmentID != nil && *rv.AppointmentID == targetID
	}
	return false
}

func targetOf(rv *models.Review) uint {
	switch rv.Kind {
	case models.ReviewBarber:
		return *rv.BarberID
	case models.ReviewAppointment:
		return *rv.AppointmentID
	}
	return rv.BarbershopID
}

// Create espelha os índices únicos de reviews.
func (r *ReviewRepository) Create(_ context.Context, rv *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, other := range r.s.reviews {
		sameOwner := other.CustomerID == rv.CustomerID || rv.Kind == models.ReviewAppointment
		if sameOwner && sameTarget(other, rv.Kind, targetOf(rv)) {
			return httperr.Conflict("already_reviewed", "Você já avaliou.")
		}
	}

	rv.ID = r.s.nextID()
	stamp(&rv.CreatedAt, &rv.UpdatedAt)
	r.s.reviews[rv.ID] = *rv
	return nil
}

func (r *ReviewRepository) GetByID(_ context.Context, id uint) (*models.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rv, nil
}

func (r *ReviewRepository) FindByCustomer(_ context.Context, customerID uint, kind string, targetID uint) (*models.Review, error) {
	found := r.list(func(rv models.Review) bool {
		return rv.CustomerID == customerID && sameTarget(rv, kind, targetID)
	})
	if len(found) == 0 {
		return nil, domain.ErrNotFound
	}
	return &found[0], nil
}

func (r *ReviewRepository) SetReply(_ context.Context, id uint, reply string, by uint, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv, ok := r.s.reviews[id]
	if !ok || rv.Reply != "" {
		return domain.ErrNotFound
	}
	rv.Reply = reply
	rv.RepliedBy = &by
	rv.RepliedAt = &at
	stamp(&rv.CreatedAt, &rv.UpdatedAt)
	r.s.reviews[id] = rv
	return nil
}

func (r *ReviewRepository) SetVisible(_ context.Context, id uint, visible bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv, ok := r.s.reviews[id]
	if !ok {
		return domain.ErrNotFound
	}
	rv.Visible = visible
	stamp(&rv.CreatedAt, &rv.UpdatedAt)
	r.s.reviews[id] = rv
	return nil
}

// list ordena do mais recente para o mais antigo.
func (r *ReviewRepository) list(match func(models.Review) bool) []models.Review {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Review{}
	for _, rv := range r.s.reviews {
		if match(rv) {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func matchesTarget(rv models.Review, t review.Target) bool {
	if t.BarberID != 0 {
		return rv.BarberID != nil && *rv.BarberID == t.BarberID
	}
	return rv.BarbershopID == t.BarbershopID
}

func (r *ReviewRepository) ListVisible(_ context.Context, t review.Target, page domain.Page) ([]models.Review, int64, error) {
	all := r.list(func(rv models.Review) bool { return rv.Visible && matchesTarget(rv, t) })
	return domain.Slice(all, page), int64(len(all)), nil
}

func (r *ReviewRepository) ListForCustomer(_ context.Context, customerID uint) ([]models.Review, error) {
	return r.list(func(rv models.Review) bool { return rv.CustomerID == customerID }), nil
}

func (r *ReviewRepository) ListUnreplied(_ context.Context, barbershopID uint) ([]models.Review, error) {
	return r.list(func(rv models.Review) bool {
		return rv.BarbershopID == barbershopID && rv.Reply == ""
	}), nil
}

func (r *ReviewRepository) RatingCounts(_ context.Context, t review.Target) (map[int]int64, error) {
	counts := map[int]int64{}
	for _, rv := range r.list(func(rv models.Review) bool { return rv.Visible && matchesTarget(rv, t) }) {
		counts[rv.Rating]++
	}
	return counts, nil
}

var _ review.Repository = (*ReviewRepository)(nil)
