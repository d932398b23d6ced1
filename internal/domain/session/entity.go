package session

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

const DateLayout = "2006-01-02"

// ===============================
// Domain Actions
// ===============================

func New(
	shopID uint,
	openedBy uint,
	number int,
	openingFloat decimal.Decimal,
	note string,
	now time.Time,
) (*models.WorkSession, error) {
	if err := ValidateAmount(openingFloat); err != nil {
		return nil, err
	}

	return &models.WorkSession{
		BarbershopID:  shopID,
		SessionNumber: number,
		SessionDate:   now.Format(DateLayout),
		OpenedByID:    openedBy,
		Status:        string(StatusOpen),
		OpeningFloat:  openingFloat.Round(2),
		SalesTotal:    decimal.Zero,
		Notes:         strings.TrimSpace(note),
		OpenedAt:      now,
	}, nil
}

func Pause(ws *models.WorkSession, now time.Time) error {
	if err := CanPause(Status(ws.Status)); err != nil {
		return err
	}
	ws.Status = string(StatusPaused)
	ws.PausedAt = &now
	return nil
}

func Resume(ws *models.WorkSession) error {
	if err := CanResume(Status(ws.Status)); err != nil {
		return err
	}
	ws.Status = string(StatusOpen)
	ws.PausedAt = nil
	return nil
}

// Close fecha o caixa e grava a diferença entre o contado e o esperado.
func Close(ws *models.WorkSession, closingFloat decimal.Decimal, note string, now time.Time) error {
	if err := CanClose(Status(ws.Status)); err != nil {
		return err
	}
	if err := ValidateAmount(closingFloat); err != nil {
		return err
	}

	closing := closingFloat.Round(2)
	ws.ClosingFloat = decimal.NewNullDecimal(closing)
	ws.Variance = decimal.NewNullDecimal(closing.Sub(ExpectedCash(ws)))
	ws.Status = string(StatusClosed)
	ws.ClosedAt = &now
	ws.PausedAt = nil
	ws.Notes = AppendNote(ws.Notes, note)
	return nil
}

// RegisterSale credita um atendimento concluído no caixa.
func RegisterSale(ws *models.WorkSession, price decimal.Decimal) {
	ws.SalesTotal = ws.SalesTotal.Add(price)
	ws.AttendanceCount++
}

func ExpectedCash(ws *models.WorkSession) decimal.Decimal {
	return ws.OpeningFloat.Add(ws.SalesTotal)
}

func AppendNote(current, note string) string {
	note = strings.TrimSpace(note)
	switch {
	case note == "":
		return current
	case current == "":
		return note
	default:
		return current + " | " + note
	}
}

func ValidateAmount(v decimal.Decimal) error {
	if v.IsNegative() {
		return httperr.Validation("negative_amount", "Valor não pode ser negativo.")
	}
	return nil
}
