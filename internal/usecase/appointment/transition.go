package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type applyFunc func(ctx context.Context, tx appointment.Repository, ap *models.Appointment, now time.Time) error

// run carrega o agendamento, confere o escopo e aplica a transição sob o
// lock do barbeiro.
func (b *base) run(
	ctx context.Context,
	actor domain.Actor,
	id uint,
	operation string,
	action string,
	allowCustomer bool,
	apply applyFunc,
) (ap *models.Appointment, err error) {
	defer func() { observe(operation, err) }()

	cur, err := loadAppointment(ctx, b.Repo, id)
	if err != nil {
		return nil, err
	}
	if actor.IsCustomer() && !allowCustomer {
		return nil, errAppointmentNotFound()
	}
	if !canSee(actor, cur) {
		return nil, errAppointmentNotFound()
	}

	_, loc, err := b.loadShop(ctx, cur.BarbershopID)
	if err != nil {
		return nil, err
	}
	now := b.now().In(loc)

	err = b.withBarber(ctx, cur.BarberID, func(tx appointment.Repository) error {
		fresh, err := loadAppointment(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := apply(ctx, tx, fresh, now); err != nil {
			return err
		}
		if err := tx.Save(ctx, fresh); err != nil {
			return err
		}

		ap = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.publish(actor, action, ap, nil)
	return ap, nil
}

// ======================================================
// CONFIRM
// ======================================================

type Confirm struct{ base }

func NewConfirm(d Deps) *Confirm { return &Confirm{newBase(d)} }

// Execute confirma um PENDING. Só CONFIRMED bloqueia agenda, então a
// sobreposição é conferida de novo aqui.
func (uc *Confirm) Execute(ctx context.Context, actor domain.Actor, id uint) (*models.Appointment, error) {
	return uc.run(ctx, actor, id, "confirm", "appointment.confirmed", false,
		func(ctx context.Context, tx appointment.Repository, ap *models.Appointment, now time.Time) error {
			if err := appointment.CanConfirm(appointment.Status(ap.Status)); err != nil {
				return err
			}
			busy, err := tx.HasBlockingOverlap(ctx, ap.BarberID, ap.StartTime, ap.EndTime, ap.ID)
			if err != nil {
				return err
			}
			if busy {
				return errSlotTaken()
			}
			return appointment.Confirm(ap, now)
		})
}

// ======================================================
// START / COMPLETE / NO SHOW
// ======================================================

type Start struct{ base }

func NewStart(d Deps) *Start { return &Start{newBase(d)} }

func (uc *Start) Execute(ctx context.Context, actor domain.Actor, id uint) (*models.Appointment, error) {
	return uc.run(ctx, actor, id, "start", "appointment.started", false,
		func(_ context.Context, _ appointment.Repository, ap *models.Appointment, now time.Time) error {
			return appointment.Start(ap, now)
		})
}

type Complete struct{ base }

func NewComplete(d Deps) *Complete { return &Complete{newBase(d)} }

func (uc *Complete) Execute(ctx context.Context, actor domain.Actor, id uint) (*models.Appointment, error) {
	return uc.run(ctx, actor, id, "complete", "appointment.completed", false,
		func(_ context.Context, _ appointment.Repository, ap *models.Appointment, now time.Time) error {
			return appointment.Complete(ap, now)
		})
}

type MarkNoShow struct{ base }

func NewMarkNoShow(d Deps) *MarkNoShow { return &MarkNoShow{newBase(d)} }

func (uc *MarkNoShow) Execute(ctx context.Context, actor domain.Actor, id uint) (*models.Appointment, error) {
	return uc.run(ctx, actor, id, "no_show", "appointment.no_show", false,
		func(_ context.Context, _ appointment.Repository, ap *models.Appointment, _ time.Time) error {
			return appointment.MarkNoShow(ap)
		})
}

// ======================================================
// CANCEL
// ======================================================

type Cancel struct{ base }

func NewCancel(d Deps) *Cancel { return &Cancel{newBase(d)} }

// canceledBy deriva a origem do cancelamento do papel de quem pede.
func canceledBy(actor domain.Actor) appointment.CanceledBy {
	switch {
	case actor.IsCustomer():
		return appointment.ByCustomer
	case actor.IsOwner():
		return appointment.ByShop
	default:
		return appointment.ByBarber
	}
}

// Execute cancela; o cliente só com mais de CancelWindow de antecedência.
func (uc *Cancel) Execute(ctx context.Context, actor domain.Actor, id uint, reason string) (*models.Appointment, error) {
	by := canceledBy(actor)

	return uc.run(ctx, actor, id, "cancel", "appointment.canceled", true,
		func(_ context.Context, _ appointment.Repository, ap *models.Appointment, now time.Time) error {
			if err := appointment.CanCancel(appointment.Status(ap.Status)); err != nil {
				return err
			}
			if err := appointment.CheckCancelWindow(by, ap.StartTime, now, uc.Policy.CancelWindow); err != nil {
				return err
			}
			return appointment.Cancel(ap, by, reason, now)
		})
}

