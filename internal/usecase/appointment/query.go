package appointment

import (
	"context"
	"slices"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-queue/internal/dto"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/timezone"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/access"
)

type Query struct{ base }

func NewQuery(d Deps) *Query {
	return &Query{newBase(d)}
}

// ByDate é a agenda do barbeiro no dia; barberID zero usa o próprio ator.
func (q *Query) ByDate(ctx context.Context, actor domain.Actor, barberID uint, date string) ([]models.Appointment, error) {
	if barberID == 0 {
		barberID = actor.UserID
	}

	barber, err := access.ManageBarber(ctx, q.Repo, actor, barberID)
	if err != nil {
		return nil, err
	}

	_, loc, err := q.loadShop(ctx, barber.ShopID())
	if err != nil {
		return nil, err
	}

	day := q.now().In(loc)
	if date != "" {
		if day, err = timezone.ParseDate(date, loc); err != nil {
			return nil, httperr.Validation("invalid_date", "Data inválida, use AAAA-MM-DD.")
		}
	}

	from, to := timezone.DayBounds(day, loc)
	return q.Repo.ListForBarberBetween(ctx, barber.ID, from, to)
}

func (q *Query) Mine(ctx context.Context, actor domain.Actor) ([]models.Appointment, error) {
	if !actor.IsCustomer() {
		return nil, httperr.NotFoundErr("customer_not_found", "Cliente não encontrado.")
	}
	return q.Repo.ListForCustomer(ctx, actor.UserID)
}

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// History são os agendamentos encerrados ou que já passaram, do mais
// recente para o mais antigo.
func (q *Query) History(ctx context.Context, actor domain.Actor, limit int) ([]models.Appointment, error) {
	if !actor.IsCustomer() {
		return nil, httperr.NotFoundErr("customer_not_found", "Cliente não encontrado.")
	}

	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	all, err := q.Repo.ListForCustomer(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	now := q.now()
	past := make([]models.Appointment, 0, len(all))
	for _, ap := range all {
		if appointment.Status(ap.Status).IsFinal() || !ap.EndTime.After(now) {
			past = append(past, ap)
		}
	}
	slices.Reverse(past)

	if len(past) > limit {
		past = past[:limit]
	}
	return past, nil
}

// Pending lista o que aguarda confirmação; barbeiro vê só os seus.
func (q *Query) Pending(ctx context.Context, actor domain.Actor) ([]models.Appointment, error) {
	if err := access.Shop(actor, actor.BarbershopID); err != nil {
		return nil, err
	}

	all, err := q.Repo.ListPending(ctx, actor.BarbershopID)
	if err != nil || actor.IsOwner() {
		return all, err
	}

	mine := make([]models.Appointment, 0, len(all))
	for _, ap := range all {
		if ap.BarberID == actor.UserID {
			mine = append(mine, ap)
		}
	}
	return mine, nil
}

// Agenda é o ByDate pronto para exibição: nome do cliente e horário local.
func (q *Query) Agenda(ctx context.Context, actor domain.Actor, barberID uint, date string) ([]dto.AgendaItem, error) {
	list, err := q.ByDate(ctx, actor, barberID, date)
	if err != nil {
		return nil, err
	}
	if barberID == 0 {
		barberID = actor.UserID
	}

	barber, err := q.Repo.GetBarber(ctx, barberID)
	if err != nil {
		return nil, access.ErrBarberNotFound()
	}
	_, loc, err := q.loadShop(ctx, barber.ShopID())
	if err != nil {
		return nil, err
	}

	names := map[uint]string{}
	items := make([]dto.AgendaItem, 0, len(list))
	for _, ap := range list {
		name, ok := names[ap.CustomerID]
		if !ok {
			if c, err := q.Repo.GetCustomer(ctx, ap.CustomerID); err == nil {
				name = c.Name
			}
			names[ap.CustomerID] = name
		}

		items = append(items, dto.AgendaItem{
			ID:           ap.ID,
			StartTime:    ap.StartTime,
			EndTime:      ap.EndTime,
			Start:        ap.StartTime.In(loc).Format("15:04"),
			End:          ap.EndTime.In(loc).Format("15:04"),
			Status:       ap.Status,
			CustomerID:   ap.CustomerID,
			CustomerName: name,
			ServiceName:  ap.ServiceName,
			Price:        ap.Price.StringFixed(2),
			Notes:        ap.Notes,
		})
	}
	return items, nil
}
