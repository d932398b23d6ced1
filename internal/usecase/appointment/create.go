package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/access"
)

// ======================================================
// INPUT
// ======================================================

type CreateInput struct {
	CustomerID uint
	BarberID   uint
	ServiceID  uint

	Date      string // AAAA-MM-DD
	StartTime string // HH:MM, fuso da barbearia
	Notes     string

	IdempotencyKey string
}

// ======================================================
// USECASE
// ======================================================

type Create struct{ base }

func NewCreate(d Deps) *Create {
	return &Create{newBase(d)}
}

func (uc *Create) Execute(
	ctx context.Context,
	actor domain.Actor,
	in CreateInput,
) (ap *models.Appointment, err error) {
	defer func() { observe("create", err) }()

	if actor.IsCustomer() {
		in.CustomerID = actor.UserID
	}
	if in.CustomerID == 0 {
		return nil, httperr.Validation("missing_customer_id", "Cliente é obrigatório.")
	}
	if in.ServiceID == 0 {
		return nil, httperr.Validation("missing_service_id", "Serviço é obrigatório.")
	}

	barber, err := access.Barber(ctx, uc.Repo, in.BarberID)
	if err != nil {
		return nil, err
	}
	if actor.IsStaff() && barber.ShopID() != actor.BarbershopID {
		return nil, access.ErrBarberNotFound()
	}

	if _, err := uc.Repo.GetCustomer(ctx, in.CustomerID); err != nil {
		return nil, access.NotFound(err, "customer_not_found", "Cliente não encontrado.")
	}

	svc, err := uc.Repo.GetService(ctx, barber.ShopID(), in.ServiceID)
	if err != nil {
		return nil, access.NotFound(err, "service_not_found", "Serviço não encontrado.")
	}
	if svc.DurationMin <= 0 {
		return nil, httperr.Validation("invalid_service_duration", "Serviço sem duração definida.")
	}

	shop, loc, err := uc.loadShop(ctx, barber.ShopID())
	if err != nil {
		return nil, err
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", strings.TrimSpace(in.Date)+" "+strings.TrimSpace(in.StartTime), loc)
	if err != nil {
		return nil, httperr.Validation("invalid_start_time", "Data ou horário inválido.")
	}
	end := start.Add(time.Duration(svc.DurationMin) * time.Minute)

	now := uc.now().In(loc)
	if err := appointment.CheckAdvance(start, now, time.Duration(shop.MinAdvanceMinutes)*time.Minute); err != nil {
		return nil, err
	}

	window, ok, err := uc.resolveWindow(ctx, barber.ID, start, shop)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.Policy("barber_unavailable", "Barbeiro não atende neste dia.")
	}
	if err := window.Check(start, end); err != nil {
		return nil, err
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" {
		prev, err := uc.Repo.FindByIdempotencyKey(ctx, in.CustomerID, key)
		if err == nil {
			return prev, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	created := false
	err = uc.withBarber(ctx, barber.ID, func(tx appointment.Repository) error {
		if key != "" {
			prev, err := tx.FindByIdempotencyKey(ctx, in.CustomerID, key)
			if err == nil {
				ap = prev
				return nil
			}
			if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		}

		busy, err := tx.HasBlockingOverlap(ctx, barber.ID, start, end, 0)
		if err != nil {
			return err
		}
		if busy {
			return errSlotTaken()
		}

		status := appointment.InitialStatus(shop.AutoConfirmAppointments)
		a := &models.Appointment{
			BarbershopID: shop.ID,
			BarberID:     barber.ID,
			CustomerID:   in.CustomerID,
			ServiceID:    svc.ID,
			ServiceName:  svc.Name,
			Price:        svc.Price,
			DurationMin:  svc.DurationMin,
			StartTime:    start.UTC(),
			EndTime:      end.UTC(),
			Status:       string(status),
			Notes:        strings.TrimSpace(in.Notes),
		}
		if status == appointment.StatusConfirmed {
			confirmedAt := now.UTC()
			a.ConfirmedAt = &confirmedAt
		}
		if key != "" {
			a.IdempotencyKey = &key
		}

		if err := tx.Create(ctx, a); err != nil {
			return err
		}

		ap = a
		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		uc.publish(actor, "appointment.created", ap, map[string]any{"service_id": ap.ServiceID})
	}
	return ap, nil
}
