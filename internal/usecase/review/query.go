package review

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/review"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/access"
)

type Query struct{ base }

func NewQuery(d Deps) *Query {
	return &Query{newBase(d)}
}

type Page struct {
	Items []Item
	Total int64
	Page  domain.Page
}

func (q *Query) page(ctx context.Context, t review.Target, number, size int) (*Page, error) {
	p := domain.NewPage(number, size, review.DefaultPageSize, review.MaxPageSize)
	list, total, err := q.Repo.ListVisible(ctx, t, p)
	if err != nil {
		return nil, err
	}
	return &Page{Items: q.items(ctx, list), Total: total, Page: p}, nil
}

// ForShop é público: avaliações visíveis da barbearia, incluindo as de barbeiros e atendimentos.
func (q *Query) ForShop(ctx context.Context, shopID uint, number, size int) (*Page, error) {
	if _, err := q.Repo.GetBarbershopByID(ctx, shopID); err != nil {
		return nil, access.NotFound(err, "barbershop_not_found", "Barbearia não encontrada.")
	}
	return q.page(ctx, review.Target{BarbershopID: shopID}, number, size)
}

func (q *Query) ForBarber(ctx context.Context, barberID uint, number, size int) (*Page, error) {
	if _, err := access.Barber(ctx, q.Repo, barberID); err != nil {
		return nil, err
	}
	return q.page(ctx, review.Target{BarberID: barberID}, number, size)
}

func (q *Query) ShopSummary(ctx context.Context, shopID uint) (*review.Summary, error) {
	if _, err := q.Repo.GetBarbershopByID(ctx, shopID); err != nil {
		return nil, access.NotFound(err, "barbershop_not_found", "Barbearia não encontrada.")
	}
	return q.summary(ctx, review.Target{BarbershopID: shopID})
}

func (q *Query) BarberSummary(ctx context.Context, barberID uint) (*review.Summary, error) {
	if _, err := access.Barber(ctx, q.Repo, barberID); err != nil {
		return nil, err
	}
	return q.summary(ctx, review.Target{BarberID: barberID})
}

func (q *Query) summary(ctx context.Context, t review.Target) (*review.Summary, error) {
	counts, err := q.Repo.RatingCounts(ctx, t)
	if err != nil {
		return nil, err
	}
	s := review.Summarize(counts)
	return &s, nil
}

func (q *Query) Mine(ctx context.Context, actor domain.Actor) ([]Item, error) {
	if !actor.IsCustomer() {
		return nil, httperr.NotFoundErr("customer_not_found", "Cliente não encontrado.")
	}
	list, err := q.Repo.ListForCustomer(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return q.items(ctx, list), nil
}

// Pending lista o que falta responder; o barbeiro vê só as avaliações sobre ele.
func (q *Query) Pending(ctx context.Context, actor domain.Actor) ([]Item, error) {
	if err := access.Shop(actor, actor.BarbershopID); err != nil {
		return nil, err
	}

	list, err := q.Repo.ListUnreplied(ctx, actor.BarbershopID)
	if err != nil {
		return nil, err
	}
	if !actor.IsOwner() {
		mine := list[:0]
		for _, rv := range list {
			if rv.BarberID != nil && *rv.BarberID == actor.UserID {
				mine = append(mine, rv)
			}
		}
		list = mine
	}
	return q.items(ctx, list), nil
}

// Reviewed diz se o cliente já avaliou o atendimento.
func (q *Query) Reviewed(ctx context.Context, actor domain.Actor, appointmentID uint) (bool, error) {
	if !actor.IsCustomer() {
		return false, httperr.NotFoundErr("customer_not_found", "Cliente não encontrado.")
	}
	_, err := q.Repo.FindByCustomer(ctx, actor.UserID, models.ReviewAppointment, appointmentID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	}
	return false, err
}
