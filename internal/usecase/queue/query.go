package queue

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/metrics"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/timezone"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/access"
)

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

type Query struct{ base }

func NewQuery(d Deps) *Query {
	return &Query{newBase(d)}
}

// ForBarber devolve o retrato da fila. Funcionários só veem barbeiros da
// própria barbearia; clientes veem qualquer fila.
func (q *Query) ForBarber(ctx context.Context, actor domain.Actor, barberID uint) (*queue.View, error) {
	barber, err := access.Barber(ctx, q.Repo, barberID)
	if err != nil {
		return nil, err
	}
	if actor.IsStaff() && barber.ShopID() != actor.BarbershopID {
		return nil, access.ErrBarberNotFound()
	}

	if v, ok := q.Cache.Get(ctx, barber.ID); ok {
		return v, nil
	}

	// versão lida antes dos dados
	version := q.Cache.Version(ctx, barber.ID)

	shop, err := q.Repo.GetBarbershopByID(ctx, barber.ShopID())
	if err != nil {
		return nil, access.NotFound(err, "barbershop_not_found", "Barbearia não encontrada.")
	}

	now := q.now().In(timezone.Location(shop.Timezone))
	from, to := timezone.DayBounds(now, now.Location())

	inService, err := optional(q.Repo.FindInService(ctx, barber.ID))
	if err != nil {
		return nil, err
	}
	waiting, err := q.Repo.ListWaiting(ctx, barber.ID)
	if err != nil {
		return nil, err
	}
	startedToday, err := q.Repo.ListStartedBetween(ctx, barber.ID, from, to)
	if err != nil {
		return nil, err
	}

	v := queue.BuildView(barber.ID, inService, waiting, startedToday, now)
	metrics.SetWaiting(strconv.FormatUint(uint64(barber.ID), 10), v.Stats.Waiting)

	q.Cache.Put(ctx, barber.ID, version, v)
	return v, nil
}

// MyEntry devolve a entrada ativa do cliente com a posição; nil se não há.
func (q *Query) MyEntry(ctx context.Context, actor domain.Actor) (*models.QueueEntry, error) {
	if !actor.IsCustomer() {
		return nil, httperr.NotFoundErr("entry_not_found", "Entrada da fila não encontrada.")
	}

	e, err := optional(q.Repo.FindActiveForCustomer(ctx, actor.UserID))
	if err != nil || e == nil {
		return e, err
	}

	if queue.Status(e.Status) == queue.StatusWaiting {
		waiting, err := q.Repo.ListWaiting(ctx, e.BarberID)
		if err != nil {
			return nil, err
		}
		if pos := queue.PositionOf(waiting, e.ID); pos > 0 {
			e.Position = &pos
		}
	}
	return e, nil
}

// ShopDay lista todas as entradas da barbearia que chegaram na data (fuso da barbearia).
func (q *Query) ShopDay(ctx context.Context, actor domain.Actor, date string) ([]models.QueueEntry, error) {
	if err := access.Shop(actor, actor.BarbershopID); err != nil {
		return nil, err
	}

	shop, err := q.Repo.GetBarbershopByID(ctx, actor.BarbershopID)
	if err != nil {
		return nil, access.NotFound(err, "barbershop_not_found", "Barbearia não encontrada.")
	}
	loc := timezone.Location(shop.Timezone)

	var day time.Time
	if date == "" {
		day = q.now().In(loc)
	} else {
		day, err = timezone.ParseDate(date, loc)
		if err != nil {
			return nil, httperr.Validation("invalid_date", "Data inválida, use AAAA-MM-DD.")
		}
	}

	from, to := timezone.DayBounds(day, loc)
	return q.Repo.ListForShopBetween(ctx, shop.ID, from, to)
}

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// History são as passagens do cliente pela fila já encerradas.
func (q *Query) History(ctx context.Context, actor domain.Actor, limit int) ([]models.QueueEntry, error) {
	if !actor.IsCustomer() {
		return nil, httperr.NotFoundErr("customer_not_found", "Cliente não encontrado.")
	}

	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	return q.Repo.ListHistory(ctx, actor.UserID, limit)
}
