package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/timezone"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/access"
)

type Availability struct{ base }

func NewAvailability(d Deps) *Availability {
	return &Availability{newBase(d)}
}

// Execute lista os horários candidatos do dia com a flag available.
func (uc *Availability) Execute(
	ctx context.Context,
	barberID uint,
	serviceID uint,
	date string,
) ([]appointment.Slot, error) {
	barber, err := access.Barber(ctx, uc.Repo, barberID)
	if err != nil {
		return nil, err
	}

	svc, err := uc.Repo.GetService(ctx, barber.ShopID(), serviceID)
	if err != nil {
		return nil, access.NotFound(err, "service_not_found", "Serviço não encontrado.")
	}

	shop, loc, err := uc.loadShop(ctx, barber.ShopID())
	if err != nil {
		return nil, err
	}

	day, err := timezone.ParseDate(date, loc)
	if err != nil {
		return nil, httperr.Validation("invalid_date", "Data inválida, use AAAA-MM-DD.")
	}

	window, ok, err := uc.resolveWindow(ctx, barber.ID, day, shop)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []appointment.Slot{}, nil
	}

	blocking, err := uc.Repo.ListBlocking(ctx, barber.ID, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	busy := make([]appointment.Interval, 0, len(blocking))
	for _, ap := range blocking {
		busy = append(busy, appointment.Interval{Start: ap.StartTime, End: ap.EndTime})
	}

	notBefore := uc.now().In(loc).Add(time.Duration(shop.MinAdvanceMinutes) * time.Minute)

	return appointment.GenerateSlots(
		window,
		time.Duration(svc.DurationMin)*time.Minute,
		uc.Policy.SlotGranularity,
		busy,
		notBefore,
	), nil
}
