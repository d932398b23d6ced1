package queue

import (
	"context"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/access"
)

// ======================================================
// START NEXT (FIFO)
// ======================================================

type StartNext struct{ base }

func NewStartNext(d Deps) *StartNext {
	return &StartNext{newBase(d)}
}

func (uc *StartNext) Execute(
	ctx context.Context,
	actor domain.Actor,
	barberID uint,
) (entry *models.QueueEntry, err error) {
	defer func() { observe("start_next", err) }()

	barber, err := access.ManageBarber(ctx, uc.Repo, actor, barberID)
	if err != nil {
		return nil, err
	}

	err = uc.withBarber(ctx, barber.ID, func(tx queue.Repository) error {
		if err := ensureIdle(ctx, tx, barber.ID); err != nil {
			return err
		}

		waiting, err := tx.ListWaiting(ctx, barber.ID)
		if err != nil {
			return err
		}
		if len(waiting) == 0 {
			return httperr.InvalidState("queue_empty", "Não há clientes aguardando.")
		}

		queue.SortFIFO(waiting)
		next := waiting[0]
		if err := queue.Start(&next, uc.now().UTC()); err != nil {
			return err
		}
		if err := tx.Save(ctx, &next); err != nil {
			return err
		}

		entry = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterMutation(ctx, actor, "queue.started", entry, nil)
	return entry, nil
}

// ======================================================
// START SPECIFIC (fora de ordem)
// ======================================================

type StartSpecific struct{ base }

func NewStartSpecific(d Deps) *StartSpecific {
	return &StartSpecific{newBase(d)}
}

// Execute chama um cliente fora da ordem FIFO (ex.: VIP); permitido.
func (uc *StartSpecific) Execute(
	ctx context.Context,
	actor domain.Actor,
	entryID uint,
) (entry *models.QueueEntry, err error) {
	defer func() { observe("start_specific", err) }()

	e, err := uc.loadEntry(ctx, uc.Repo, entryID)
	if err != nil {
		return nil, err
	}
	if !access.CanManage(actor, e.BarbershopID, e.BarberID) {
		return nil, errEntryNotFound()
	}

	err = uc.withBarber(ctx, e.BarberID, func(tx queue.Repository) error {
		// relê dentro do lock
		cur, err := uc.loadEntry(ctx, tx, entryID)
		if err != nil {
			return err
		}
		if err := queue.CanStart(queue.Status(cur.Status)); err != nil {
			return err
		}
		if err := ensureIdle(ctx, tx, cur.BarberID); err != nil {
			return err
		}
		if err := queue.Start(cur, uc.now().UTC()); err != nil {
			return err
		}
		if err := tx.Save(ctx, cur); err != nil {
			return err
		}

		entry = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterMutation(ctx, actor, "queue.started", entry, map[string]any{"out_of_order": true})
	return entry, nil
}
