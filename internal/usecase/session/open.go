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

// ======================================================
// INPUT
// ======================================================

type OpenInput struct {
	BarbershopID uint
	OpeningFloat decimal.Decimal
	Note         string
}

// ======================================================
// USECASE
// ======================================================

type OpenSession struct {
	repo  ledger.Repository
	guard *lock.Guard
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewOpenSession(
	repo ledger.Repository,
	guard *lock.Guard,
	audit *audit.Dispatcher,
) *OpenSession {
	return &OpenSession{
		repo:  repo,
		guard: guard,
		audit: audit,
		now:   time.Now,
	}
}

func (uc *OpenSession) Execute(
	ctx context.Context,
	actor domain.Actor,
	in OpenInput,
) (ws *models.WorkSession, err error) {
	defer func() { observe("open", err) }()

	if err := access.Shop(actor, in.BarbershopID); err != nil {
		return nil, err
	}

	shop, err := loadShop(ctx, uc.repo, in.BarbershopID)
	if err != nil {
		return nil, err
	}

	release, err := uc.guard.Shop(ctx, shop.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	now := localNow(uc.now, shop)

	err = uc.repo.WithTx(ctx, func(tx ledger.Repository) error {
		if err := tx.LockShop(ctx, shop.ID); err != nil {
			return err
		}

		active, err := findActive(ctx, tx, shop.ID)
		if err != nil {
			return err
		}
		if active != nil {
			return httperr.Conflict("session_already_open", "Já existe um caixa aberto.")
		}

		count, err := tx.CountForDate(ctx, shop.ID, now.Format(ledger.DateLayout))
		if err != nil {
			return err
		}

		created, err := ledger.New(shop.ID, actor.UserID, int(count)+1, in.OpeningFloat, in.Note, now)
		if err != nil {
			return err
		}
		if err := tx.Create(ctx, created); err != nil {
			return err
		}

		ws = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(sessionEvent("session.opened", actor, ws))
	return ws, nil
}
