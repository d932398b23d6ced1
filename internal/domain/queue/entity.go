package queue

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/models"
)

func NewEntry(
	barber *models.User,
	customerID uint,
	service *models.Service,
	note string,
	now time.Time,
) *models.QueueEntry {
	return &models.QueueEntry{
		BarbershopID: barber.ShopID(),
		BarberID:     barber.ID,
		CustomerID:   customerID,
		ServiceID:    service.ID,
		ServiceName:  service.Name,
		Price:        service.Price,
		DurationMin:  service.DurationMin,
		Status:       string(StatusWaiting),
		ArrivedAt:    now,
		Notes:        strings.TrimSpace(note),
	}
}

func Start(e *models.QueueEntry, now time.Time) error {
	if err := CanStart(Status(e.Status)); err != nil {
		return err
	}
	e.Status = string(StatusInService)
	e.StartedAt = &now
	e.Position = nil
	return nil
}

func Finish(e *models.QueueEntry, now time.Time) error {
	if err := CanFinish(Status(e.Status)); err != nil {
		return err
	}
	e.Status = string(StatusDone)
	e.EndedAt = &now
	return nil
}

func Cancel(e *models.QueueEntry, reason string, now time.Time) error {
	if err := CanCancel(Status(e.Status)); err != nil {
		return err
	}
	e.Status = string(StatusCanceled)
	e.CancelReason = strings.TrimSpace(reason)
	e.EndedAt = &now
	e.Position = nil
	return nil
}

func MarkNoShow(e *models.QueueEntry, now time.Time) error {
	if err := CanMarkNoShow(Status(e.Status)); err != nil {
		return err
	}
	e.Status = string(StatusNoShow)
	e.EndedAt = &now
	e.Position = nil
	return nil
}
