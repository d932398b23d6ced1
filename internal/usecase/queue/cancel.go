package queue

import (
	"context"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/access"
)

// ======================================================
// CANCEL
// ======================================================

type Cancel struct{ base }

func NewCancel(d Deps) *Cancel {
	return &Cancel{newBase(d)}
}

// Execute cancela uma entrada aguardando ou em atendimento. O cliente só
// cancela a própria entrada; vendas não são afetadas.
func (uc *Cancel) Execute(
	ctx context.Context,
	actor domain.Actor,
	entryID uint,
	reason string,
) (entry *models.QueueEntry, err error) {
	defer func() { observe("cancel", err) }()

	e, err := uc.loadEntry(ctx, uc.Repo, entryID)
	if err != nil {
		return nil, err
	}

	allowed := access.CanManage(actor, e.BarbershopID, e.BarberID) ||
		(actor.IsCustomer() && e.CustomerID == actor.UserID)
	if !allowed {
		return nil, errEntryNotFound()
	}

	err = uc.withBarber(ctx, e.BarberID, func(tx queue.Repository) error {
		cur, err := uc.loadEntry(ctx, tx, entryID)
		if err != nil {
			return err
		}
		if err := queue.Cancel(cur, reason, uc.now().UTC()); err != nil {
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

	uc.afterMutation(ctx, actor, "queue.canceled", entry, map[string]any{
		"reason":      entry.CancelReason,
		"by_customer": actor.IsCustomer(),
	})
	return entry, nil
}

// ======================================================
// NO SHOW
// ======================================================

type MarkNoShow struct{ base }

func NewMarkNoShow(d Deps) *MarkNoShow {
	return &MarkNoShow{newBase(d)}
}

func (uc *MarkNoShow) Execute(
	ctx context.Context,
	actor domain.Actor,
	entryID uint,
) (entry *models.QueueEntry, err error) {
	defer func() { observe("no_show", err) }()

	e, err := uc.loadEntry(ctx, uc.Repo, entryID)
	if err != nil {
		return nil, err
	}
	if !access.CanManage(actor, e.BarbershopID, e.BarberID) {
		return nil, errEntryNotFound()
	}

	err = uc.withBarber(ctx, e.BarberID, func(tx queue.Repository) error {
		cur, err := uc.loadEntry(ctx, tx, entryID)
		if err != nil {
			return err
		}
		if err := queue.MarkNoShow(cur, uc.now().UTC()); err != nil {
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

	uc.afterMutation(ctx, actor, "queue.no_show", entry, nil)
	return entry, nil
}
