package queue

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/access"
)

// ======================================================
// INPUT
// ======================================================

type EnqueueInput struct {
	BarberID   uint
	CustomerID uint
	ServiceID  uint
	Note       string

	IdempotencyKey string
}

// ======================================================
// USECASE
// ======================================================

type Enqueue struct{ base }

func NewEnqueue(d Deps) *Enqueue {
	return &Enqueue{newBase(d)}
}

// Execute coloca o cliente no fim da fila do barbeiro. Cliente entra por
// conta própria; funcionário informa o cliente (encaixe no balcão).
func (uc *Enqueue) Execute(
	ctx context.Context,
	actor domain.Actor,
	in EnqueueInput,
) (entry *models.QueueEntry, err error) {
	defer func() { observe("enqueue", err) }()

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

	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" {
		prev, err := optional(uc.Repo.FindByIdempotencyKey(ctx, in.CustomerID, key))
		if err != nil {
			return nil, err
		}
		if prev != nil {
			return uc.withPosition(ctx, prev)
		}
	}

	created := false
	err = uc.withBarber(ctx, barber.ID, func(tx queue.Repository) error {
		if key != "" {
			prev, err := optional(tx.FindByIdempotencyKey(ctx, in.CustomerID, key))
			if err != nil {
				return err
			}
			if prev != nil {
				entry = prev
				return nil
			}
		}

		active, err := optional(tx.FindActiveForCustomer(ctx, in.CustomerID))
		if err != nil {
			return err
		}
		if active != nil {
			return httperr.Conflict("customer_already_in_queue", "Cliente já está em uma fila.")
		}

		e := queue.NewEntry(barber, in.CustomerID, svc, in.Note, uc.now().UTC())
		if key != "" {
			e.IdempotencyKey = &key
		}
		if err := tx.Create(ctx, e); err != nil {
			return err
		}

		entry = e
		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		uc.afterMutation(ctx, actor, "queue.enqueued", entry, map[string]any{
			"service_id": entry.ServiceID,
		})
	}
	return uc.withPosition(ctx, entry)
}

func (uc *Enqueue) withPosition(ctx context.Context, e *models.QueueEntry) (*models.QueueEntry, error) {
	if queue.Status(e.Status) != queue.StatusWaiting {
		return e, nil
	}

	waiting, err := uc.Repo.ListWaiting(ctx, e.BarberID)
	if err != nil {
		return nil, err
	}
	if pos := queue.PositionOf(waiting, e.ID); pos > 0 {
		e.Position = &pos
	}
	return e, nil
}
