package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type AppointmentGormRepository struct {
	catalog
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{catalog{db: db}}
}

func (r *AppointmentGormRepository) WithTx(ctx context.Context, fn func(tx domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewAppointmentGormRepository(tx))
	})
}

func (r *AppointmentGormRepository) LockBarber(ctx context.Context, barberID uint) error {
	return lockRow(ctx, r.db, &models.User{}, barberID)
}

// --------------------------------------------------
// Writes
// --------------------------------------------------

// translateAppointmentErr: a exclusion constraint é a última barreira contra
// sobreposição quando dois pedidos passam pelo lock ao mesmo tempo.
func translateAppointmentErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case httperr.IsExclusionConflict(err):
		return httperr.SlotConflict("slot_taken", "Horário indisponível, escolha outro.")
	case httperr.IsUniqueViolation(err):
		return httperr.Conflict("duplicate_request", "Requisição duplicada.")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func (r *AppointmentGormRepository) Create(ctx context.Context, ap *models.Appointment) error {
	return translateAppointmentErr("repository.CreateAppointment", r.db.WithContext(ctx).Create(ap).Error)
}

func (r *AppointmentGormRepository) Save(ctx context.Context, ap *models.Appointment) error {
	return translateAppointmentErr("repository.SaveAppointment", r.db.WithContext(ctx).Save(ap).Error)
}

func (r *AppointmentGormRepository) SetPaymentLink(ctx context.Context, id uint, link string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Update("payment_link", link)
	if res.Error != nil {
		return fmt.Errorf("repository.SetPaymentLink: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("repository.SetPaymentLink", gorm.ErrRecordNotFound)
	}
	return nil
}

// --------------------------------------------------
// Reads
// --------------------------------------------------

func (r *AppointmentGormRepository) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, notFound("repository.GetAppointment", err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) FindByIdempotencyKey(ctx context.Context, customerID uint, key string) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND idempotency_key = ?", customerID, key).
		First(&ap).Error; err != nil {
		return nil, notFound("repository.FindAppointmentByKey", err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) HasBlockingOverlap(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"barber_id = ? AND id <> ? AND status IN ? AND start_time < ? AND end_time > ?",
			barberID,
			excludeID,
			domain.BlockingStatuses,
			end,
			start,
		).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("repository.HasBlockingOverlap: %w", err)
	}
	return count > 0, nil
}

func (r *AppointmentGormRepository) list(ctx context.Context, op string, query string, args ...any) ([]models.Appointment, error) {
	out := []models.Appointment{}
	if err := r.db.WithContext(ctx).
		Where(query, args...).
		Order("start_time ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (r *AppointmentGormRepository) ListBlocking(ctx context.Context, barberID uint, from, to time.Time) ([]models.Appointment, error) {
	return r.list(ctx, "repository.ListBlocking",
		"barber_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
		barberID, domain.BlockingStatuses, to, from)
}

func (r *AppointmentGormRepository) ListForBarberBetween(ctx context.Context, barberID uint, from, to time.Time) ([]models.Appointment, error) {
	return r.list(ctx, "repository.ListAppointmentsForBarber",
		"barber_id = ? AND start_time >= ? AND start_time < ?", barberID, from, to)
}

func (r *AppointmentGormRepository) ListForCustomer(ctx context.Context, customerID uint) ([]models.Appointment, error) {
	return r.list(ctx, "repository.ListAppointmentsForCustomer", "customer_id = ?", customerID)
}

func (r *AppointmentGormRepository) ListPending(ctx context.Context, barbershopID uint) ([]models.Appointment, error) {
	return r.list(ctx, "repository.ListPendingAppointments",
		"barbershop_id = ? AND status = ?", barbershopID, string(domain.StatusPending))
}

var _ domain.Repository = (*AppointmentGormRepository)(nil)
