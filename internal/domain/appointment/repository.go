package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type Repository interface {
	domain.Catalog

	WithTx(ctx context.Context, fn func(tx Repository) error) error
	LockBarber(ctx context.Context, barberID uint) error

	Create(ctx context.Context, ap *models.Appointment) error
	Save(ctx context.Context, ap *models.Appointment) error

	GetByID(ctx context.Context, id uint) (*models.Appointment, error)
	FindByIdempotencyKey(ctx context.Context, customerID uint, key string) (*models.Appointment, error)

	// SetPaymentLink grava só o link, sem reescrever o resto da linha.
	SetPaymentLink(ctx context.Context, id uint, link string) error

	// HasBlockingOverlap considera só CONFIRMED/IN_PROGRESS e ignora excludeID.
	HasBlockingOverlap(ctx context.Context, barberID uint, start, end time.Time, excludeID uint) (bool, error)

	ListBlocking(ctx context.Context, barberID uint, from, to time.Time) ([]models.Appointment, error)
	ListForBarberBetween(ctx context.Context, barberID uint, from, to time.Time) ([]models.Appointment, error)
	ListForCustomer(ctx context.Context, customerID uint) ([]models.Appointment, error)
	ListPending(ctx context.Context, barbershopID uint) ([]models.Appointment, error)
}
