package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-queue/internal/domain/session"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

const idxActiveSession = "ux_work_sessions_active"

type SessionGormRepository struct {
	catalog
}

func NewSessionGormRepository(db *gorm.DB) *SessionGormRepository {
	return &SessionGormRepository{catalog{db: db}}
}

func (r *SessionGormRepository) WithTx(ctx context.Context, fn func(tx session.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewSessionGormRepository(tx))
	})
}

func (r *SessionGormRepository) LockShop(ctx context.Context, barbershopID uint) error {
	return lockRow(ctx, r.db, &models.Barbershop{}, barbershopID)
}

func (r *SessionGormRepository) FindActive(ctx context.Context, barbershopID uint) (*models.WorkSession, error) {
	var ws models.WorkSession
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND status <> ?", barbershopID, string(session.StatusClosed)).
		Order("opened_at DESC, id DESC").
		First(&ws).Error; err != nil {
		return nil, notFound("repository.FindActiveSession", err)
	}
	return &ws, nil
}

func (r *SessionGormRepository) CountForDate(ctx context.Context, barbershopID uint, date string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&models.WorkSession{}).
		Where("barbershop_id = ? AND session_date = ?", barbershopID, date).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("repository.CountSessionsForDate: %w", err)
	}
	return n, nil
}

func translateSessionErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if httperr.IsUniqueViolation(err) && httperr.ConstraintName(err) == idxActiveSession {
		return httperr.Conflict("session_already_open", "Já existe um caixa aberto.")
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *SessionGormRepository) Create(ctx context.Context, ws *models.WorkSession) error {
	return translateSessionErr("repository.CreateSession", r.db.WithContext(ctx).Create(ws).Error)
}

func (r *SessionGormRepository) Save(ctx context.Context, ws *models.WorkSession) error {
	return translateSessionErr("repository.SaveSession", r.db.WithContext(ctx).Save(ws).Error)
}

func (r *SessionGormRepository) ListHistory(ctx context.Context, barbershopID uint, limit int) ([]models.WorkSession, error) {
	out := []models.WorkSession{}
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ?", barbershopID).
		Order("opened_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("repository.ListSessionHistory: %w", err)
	}
	return out, nil
}

func (r *SessionGormRepository) ListByDate(ctx context.Context, barbershopID uint, date string) ([]models.WorkSession, error) {
	out := []models.WorkSession{}
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND session_date = ?", barbershopID, date).
		Order("session_number ASC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("repository.ListSessionsByDate: %w", err)
	}
	return out, nil
}

var _ session.Repository = (*SessionGormRepository)(nil)
