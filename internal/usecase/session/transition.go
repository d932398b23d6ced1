package session

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	"github.com/BruksfildServices01/barber-queue/internal/domain"
	ledger "github.com/BruksfildServices01/barber-queue/internal/domain/session"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/lock"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/access"
)

// transition carrega a sessão ativa sob lock e aplica apply.
type transition struct {
	repo  ledger.Repository
	guard *lock.Guard
	audit *audit.Dispatcher
	now   func() time.Time
}

func (t *transition) run(
	ctx context.Context,
	actor domain.Actor,
	shopID uint,
	operation string,
	action string,
	apply func(ws *models.WorkSession, now time.Time) error,
) (ws *models.WorkSession, err error) {
	defer func() { observe(operation, err) }()

	if err := access.Shop(actor, shopID); err != nil {
		return nil, err
	}

	shop, err := loadShop(ctx, t.repo, shopID)
	if err != nil {
		return nil, err
	}

	release, err := t.guard.Shop(ctx, shop.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	now := localNow(t.now, shop)

	err = t.repo.WithTx(ctx, func(tx ledger.Repository) error {
		if err := tx.LockShop(ctx, shop.ID); err != nil {
			return err
		}

		active, err := findActive(ctx, tx, shop.ID)
		if err != nil {
			return err
		}
		if active == nil {
			// sem sessão ativa vale a mesma regra de uma sessão fechada
			closed := &models.WorkSession{Status: string(ledger.StatusClosed)}
			if err := apply(closed, now); err != nil {
				return err
			}
			return httperr.InvalidState("no_active_session", "Nenhum caixa aberto.")
		}

		if err := apply(active, now); err != nil {
			return err
		}
		if err := tx.Save(ctx, active); err != nil {
			return err
		}

		ws = active
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.audit.Dispatch(sessionEvent(action, actor, ws))
	return ws, nil
}

// ======================================================
// PAUSE / RESUME
// ======================================================

type PauseSession struct{ transition }

func NewPauseSession(repo ledger.Repository, guard *lock.Guard, audit *audit.Dispatcher) *PauseSession {
	return &PauseSession{transition{repo: repo, guard: guard, audit: audit, now: time.Now}}
}

func (uc *PauseSession) Execute(ctx context.Context, actor domain.Actor, shopID uint) (*models.WorkSession, error) {
	return uc.run(ctx, actor, shopID, "pause", "session.paused", ledger.Pause)
}

type ResumeSession struct{ transition }

func NewResumeSession(repo ledger.Repository, guard *lock.Guard, audit *audit.Dispatcher) *ResumeSession {
	return &ResumeSession{transition{repo: repo, guard: guard, audit: audit, now: time.Now}}
}

func (uc *ResumeSession) Execute(ctx context.Context, actor domain.Actor, shopID uint) (*models.WorkSession, error) {
	return uc.run(ctx, actor, shopID, "resume", "session.resumed",
		func(ws *models.WorkSession, _ time.Time) error {
			return ledger.Resume(ws)
		})
}

// ======================================================
// CLOSE
// ======================================================

type CloseInput struct {
	BarbershopID uint
	ClosingFloat decimal.Decimal
	Note         string
}

type CloseSession struct{ transition }

func NewCloseSession(repo ledger.Repository, guard *lock.Guard, audit *audit.Dispatcher) *CloseSession {
	return &CloseSession{transition{repo: repo, guard: guard, audit: audit, now: time.Now}}
}

func (uc *CloseSession) Execute(ctx context.Context, actor domain.Actor, in CloseInput) (*models.WorkSession, error) {
	return uc.run(ctx, actor, in.BarbershopID, "close", "session.closed",
		func(ws *models.WorkSession, now time.Time) error {
			return ledger.Close(ws, in.ClosingFloat, in.Note, now)
		})
}
