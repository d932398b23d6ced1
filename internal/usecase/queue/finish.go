package queue

import (
	"context"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/domain/session"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/metrics"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/access"
)

type Finish struct{ base }

func NewFinish(d Deps) *Finish {
	return &Finish{newBase(d)}
}

// Execute conclui o atendimento em curso e credita o caixa ativo na mesma
// transação. Sem caixa ativo a venda fica órfã e o atendimento conclui mesmo assim.
func (uc *Finish) Execute(
	ctx context.Context,
	actor domain.Actor,
	barberID uint,
) (entry *models.QueueEntry, err error) {
	defer func() { observe("finish", err) }()

	barber, err := access.ManageBarber(ctx, uc.Repo, actor, barberID)
	if err != nil {
		return nil, err
	}

	err = uc.withBarber(ctx, barber.ID, func(tx queue.Repository) error {
		current, err := optional(tx.FindInService(ctx, barber.ID))
		if err != nil {
			return err
		}
		if current == nil {
			return httperr.InvalidState("no_entry_in_service", "Nenhum cliente em atendimento.")
		}

		if err := queue.Finish(current, uc.now().UTC()); err != nil {
			return err
		}

		ledger := tx.Ledger()
		if err := ledger.LockShop(ctx, current.BarbershopID); err != nil {
			return err
		}
		ws, err := ledger.FindActive(ctx, current.BarbershopID)
		switch {
		case err == nil:
			session.RegisterSale(ws, current.Price)
			if err := ledger.Save(ctx, ws); err != nil {
				return err
			}
			current.WorkSessionID = &ws.ID
		case isNotFound(err):
			current.SalesOrphaned = true
		default:
			return err
		}

		if err := tx.Save(ctx, current); err != nil {
			return err
		}

		entry = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	if entry.SalesOrphaned {
		metrics.OrphanedSale()
	}

	uc.afterMutation(ctx, actor, "queue.finished", entry, map[string]any{
		"price":           entry.Price.StringFixed(2),
		"work_session_id": entry.WorkSessionID,
		"sales_orphaned":  entry.SalesOrphaned,
	})
	return entry, nil
}
