package queue

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/infra/cache"
	"github.com/BruksfildServices01/barber-queue/internal/lock"
	"github.com/BruksfildServices01/barber-queue/internal/metrics"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/access"
)

// Deps agrupa o que todos os comandos da fila usam.
type Deps struct {
	Repo  queue.Repository
	Guard *lock.Guard
	Cache queue.ViewCache
	Audit *audit.Dispatcher
}

type base struct {
	Deps
	now func() time.Time
}

func newBase(d Deps) base {
	if d.Cache == nil {
		d.Cache = cache.Noop{}
	}
	return base{Deps: d, now: time.Now}
}

func observe(operation string, err error) {
	metrics.QueueOp(operation, metrics.Result(err, httperr.KindOf(err) != ""))
}

func errEntryNotFound() error {
	return httperr.NotFoundErr("entry_not_found", "Entrada da fila não encontrada.")
}

func (b *base) loadEntry(ctx context.Context, repo queue.Repository, id uint) (*models.QueueEntry, error) {
	e, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, access.NotFound(err, "entry_not_found", "Entrada da fila não encontrada.")
	}
	return e, nil
}

// optional devolve nil, nil para registros inexistentes.
func optional(e *models.QueueEntry, err error) (*models.QueueEntry, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return e, err
}

// afterMutation invalida o retrato da fila e publica o evento.
func (b *base) afterMutation(ctx context.Context, actor domain.Actor, action string, e *models.QueueEntry, meta map[string]any) {
	b.Cache.Invalidate(ctx, e.BarberID)

	if meta == nil {
		meta = map[string]any{}
	}
	meta["barber_id"] = e.BarberID
	meta["status"] = e.Status

	customerID := e.CustomerID
	b.Audit.Dispatch(audit.Event{
		BarbershopID: e.BarbershopID,
		UserID:       &actor.UserID,
		CustomerID:   &customerID,
		Action:       action,
		Entity:       "queue_entry",
		EntityID:     &e.ID,
		Metadata:     meta,
	})
}

// withBarber serializa o comando no barbeiro: lock distribuído e, dentro
// da transação, a linha do barbeiro travada.
func (b *base) withBarber(ctx context.Context, barberID uint, fn func(tx queue.Repository) error) error {
	release, err := b.Guard.Barber(ctx, barberID)
	if err != nil {
		return err
	}
	defer release()

	return b.Repo.WithTx(ctx, func(tx queue.Repository) error {
		if err := tx.LockBarber(ctx, barberID); err != nil {
			return err
		}
		return fn(tx)
	})
}

func ensureIdle(ctx context.Context, tx queue.Repository, barberID uint) error {
	current, err := optional(tx.FindInService(ctx, barberID))
	if err != nil {
		return err
	}
	if current != nil {
		return httperr.Conflict("barber_busy", "Barbeiro já está atendendo.")
	}
	return nil
}
