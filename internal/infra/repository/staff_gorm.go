package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	"github.com/BruksfildServices01/barber-queue/internal/domain/staff"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type StaffGormRepository struct {
	catalog
}

func NewStaffGormRepository(db *gorm.DB) *StaffGormRepository {
	return &StaffGormRepository{catalog{db: db}}
}

func (r *StaffGormRepository) WithTx(ctx context.Context, fn func(tx staff.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStaffGormRepository(tx))
	})
}

func (r *StaffGormRepository) LockUser(ctx context.Context, userID uint) error {
	return lockRow(ctx, r.db, &models.User{}, userID)
}

func (r *StaffGormRepository) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, userID).Error; err != nil {
		return nil, notFound("repository.GetUser", err)
	}
	return &u, nil
}

// SaveLink usa Select para gravar também os nulos.
func (r *StaffGormRepository) SaveLink(ctx context.Context, u *models.User) error {
	if err := r.db.WithContext(ctx).
		Model(u).
		Select("barbershop_id", "link_status", "requested_shop_id", "link_requested_at").
		Updates(u).Error; err != nil {
		return fmt.Errorf("repository.SaveLink: %w", err)
	}
	return nil
}

func (r *StaffGormRepository) ListRequests(ctx context.Context, barbershopID uint) ([]models.User, error) {
	out := []models.User{}
	if err := r.db.WithContext(ctx).
		Where("requested_shop_id = ? AND link_status = ?", barbershopID, models.LinkPending).
		Order("link_requested_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("repository.ListLinkRequests: %w", err)
	}
	return out, nil
}

func (r *StaffGormRepository) CountOpenWork(ctx context.Context, barberID uint, now time.Time) (int64, error) {
	const op = "repository.CountOpenWork"

	var entries int64
	if err := r.db.WithContext(ctx).
		Model(&models.QueueEntry{}).
		Where("barber_id = ? AND status IN ?", barberID,
			[]string{string(queue.StatusWaiting), string(queue.StatusInService)}).
		Count(&entries).Error; err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var appointments int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("barber_id = ? AND status IN ? AND end_time > ?", barberID,
			[]string{
				string(appointment.StatusPending),
				string(appointment.StatusConfirmed),
				string(appointment.StatusInProgress),
			}, now).
		Count(&appointments).Error; err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return entries + appointments, nil
}

var _ staff.Repository = (*StaffGormRepository)(nil)
