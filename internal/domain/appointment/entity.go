package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment, now time.Time) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}
	ap.Status = string(StatusConfirmed)
	ap.ConfirmedAt = &now
	return nil
}

func Start(ap *models.Appointment, now time.Time) error {
	if err := CanStart(Status(ap.Status)); err != nil {
		return err
	}
	ap.Status = string(StatusInProgress)
	ap.StartedAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}
	ap.Status = string(StatusDone)
	ap.CompletedAt = &now
	return nil
}

func Cancel(ap *models.Appointment, by CanceledBy, reason string, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}
	st, err := by.Status()
	if err != nil {
		return err
	}
	ap.Status = string(st)
	ap.CancelReason = strings.TrimSpace(reason)
	ap.CanceledAt = &now
	return nil
}

func MarkNoShow(ap *models.Appointment) error {
	if err := CanMarkNoShow(Status(ap.Status)); err != nil {
		return err
	}
	ap.Status = string(StatusNoShow)
	return nil
}
