package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/domain/session"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

const (
	idxInService      = "ux_queue_entries_in_service"
	idxCustomerActive = "ux_queue_entries_customer_active"
)

type QueueGormRepository struct {
	catalog
}

func NewQueueGormRepository(db *gorm.DB) *QueueGormRepository {
	return &QueueGormRepository{catalog{db: db}}
}

func (r *QueueGormRepository) WithTx(ctx context.Context, fn func(tx queue.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewQueueGormRepository(tx))
	})
}

func (r *QueueGormRepository) LockBarber(ctx context.Context, barberID uint) error {
	return lockRow(ctx, r.db, &models.User{}, barberID)
}

// Ledger compartilha o handle (e portanto a transação) com a fila.
func (r *QueueGormRepository) Ledger() session.Repository {
	return NewSessionGormRepository(r.db)
}

// --------------------------------------------------
// Writes
// --------------------------------------------------

func translateQueueErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if httperr.IsUniqueViolation(err) {
		switch httperr.ConstraintName(err) {
		case idxInService:
			return httperr.Conflict("barber_busy", "Barbeiro já está atendendo.")
		case idxCustomerActive:
			return httperr.Conflict("customer_already_in_queue", "Cliente já está em uma fila.")
		}
		return httperr.Conflict("duplicate_request", "Requisição duplicada.")
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *QueueGormRepository) Create(ctx context.Context, e *models.QueueEntry) error {
	return translateQueueErr("repository.CreateQueueEntry", r.db.WithContext(ctx).Create(e).Error)
}

func (r *QueueGormRepository) Save(ctx context.Context, e *models.QueueEntry) error {
	return translateQueueErr("repository.SaveQueueEntry", r.db.WithContext(ctx).Save(e).Error)
}

// --------------------------------------------------
// Reads
// --------------------------------------------------

func (r *QueueGormRepository) first(ctx context.Context, op string, query string, args ...any) (*models.QueueEntry, error) {
	var e models.QueueEntry
	if err := r.db.WithContext(ctx).
		Where(query, args...).
		Order("arrived_at ASC, id ASC").
		First(&e).Error; err != nil {
		return nil, notFound(op, err)
	}
	return &e, nil
}

func (r *QueueGormRepository) GetByID(ctx context.Context, id uint) (*models.QueueEntry, error) {
	return r.first(ctx, "repository.GetQueueEntry", "id = ?", id)
}

func (r *QueueGormRepository) FindByIdempotencyKey(ctx context.Context, customerID uint, key string) (*models.QueueEntry, error) {
	return r.first(ctx, "repository.FindQueueEntryByKey",
		"customer_id = ? AND idempotency_key = ?", customerID, key)
}

func (r *QueueGormRepository) FindInService(ctx context.Context, barberID uint) (*models.QueueEntry, error) {
	return r.first(ctx, "repository.FindInService",
		"barber_id = ? AND status = ?", barberID, string(queue.StatusInService))
}

func (r *QueueGormRepository) FindActiveForCustomer(ctx context.Context, customerID uint) (*models.QueueEntry, error) {
	return r.first(ctx, "repository.FindActiveForCustomer",
		"customer_id = ? AND status IN ?", customerID,
		[]string{string(queue.StatusWaiting), string(queue.StatusInService)})
}

func (r *QueueGormRepository) list(ctx context.Context, op string, query string, args ...any) ([]models.QueueEntry, error) {
	out := []models.QueueEntry{}
	if err := r.db.WithContext(ctx).
		Where(query, args...).
		Order("arrived_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (r *QueueGormRepository) ListWaiting(ctx context.Context, barberID uint) ([]models.QueueEntry, error) {
	return r.list(ctx, "repository.ListWaiting",
		"barber_id = ? AND status = ?", barberID, string(queue.StatusWaiting))
}

func (r *QueueGormRepository) ListStartedBetween(ctx context.Context, barberID uint, from, to time.Time) ([]models.QueueEntry, error) {
	return r.list(ctx, "repository.ListStartedBetween",
		"barber_id = ? AND started_at >= ? AND started_at < ?", barberID, from, to)
}

func (r *QueueGormRepository) ListForShopBetween(ctx context.Context, barbershopID uint, from, to time.Time) ([]models.QueueEntry, error) {
	return r.list(ctx, "repository.ListQueueForShop",
		"barbershop_id = ? AND arrived_at >= ? AND arrived_at < ?", barbershopID, from, to)
}

func (r *QueueGormRepository) ListHistory(ctx context.Context, customerID uint, limit int) ([]models.QueueEntry, error) {
	out := []models.QueueEntry{}
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status IN ?", customerID, queue.TerminalStatuses).
		Order("arrived_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("repository.ListQueueHistory: %w", err)
	}
	return out, nil
}

var _ queue.Repository = (*QueueGormRepository)(nil)
