package session

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	"github.com/BruksfildServices01/barber-queue/internal/domain"
	ledger "github.com/BruksfildServices01/barber-queue/internal/domain/session"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/metrics"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/timezone"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/access"
)

func observe(operation string, err error) {
	metrics.SessionOp(operation, metrics.Result(err, httperr.KindOf(err) != ""))
}

func loadShop(ctx context.Context, repo ledger.Repository, shopID uint) (*models.Barbershop, error) {
	shop, err := repo.GetBarbershopByID(ctx, shopID)
	if err != nil {
		return nil, access.NotFound(err, "barbershop_not_found", "Barbearia não encontrada.")
	}
	return shop, nil
}

func localNow(now func() time.Time, shop *models.Barbershop) time.Time {
	return now().In(timezone.Location(shop.Timezone))
}

func sessionEvent(action string, actor domain.Actor, ws *models.WorkSession) audit.Event {
	return audit.Event{
		BarbershopID: ws.BarbershopID,
		UserID:       &actor.UserID,
		Action:       action,
		Entity:       "work_session",
		EntityID:     &ws.ID,
		Metadata: map[string]any{
			"status":           ws.Status,
			"session_number":   ws.SessionNumber,
			"sales_total":      ws.SalesTotal.StringFixed(2),
			"attendance_count": ws.AttendanceCount,
		},
	}
}

// findActive devolve nil (sem erro) quando não há sessão aberta.
func findActive(ctx context.Context, repo ledger.Repository, shopID uint) (*models.WorkSession, error) {
	ws, err := repo.FindActive(ctx, shopID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return ws, err
}
