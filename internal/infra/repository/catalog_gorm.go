package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// notFound traduz o erro do gorm para o erro do domínio.
func notFound(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// catalog implementa as leituras de cadastro compartilhadas pelos repositórios.
type catalog struct {
	db *gorm.DB
}

// --------------------------------------------------
// Barbershop
// --------------------------------------------------

func (r catalog) GetBarbershopByID(ctx context.Context, id uint) (*models.Barbershop, error) {
	var shop models.Barbershop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, notFound("repository.GetBarbershopByID", err)
	}
	return &shop, nil
}

func (r catalog) GetBarbershopBySlug(ctx context.Context, slug string) (*models.Barbershop, error) {
	var shop models.Barbershop
	if err := r.db.WithContext(ctx).
		Where("LOWER(slug) = LOWER(?)", slug).
		First(&shop).Error; err != nil {
		return nil, notFound("repository.GetBarbershopBySlug", err)
	}
	return &shop, nil
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r catalog) GetBarber(ctx context.Context, barberID uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = ? AND role IN ? AND barbershop_id IS NOT NULL",
			barberID, true, []string{models.RoleOwner, models.RoleBarber}).
		First(&u).Error; err != nil {
		return nil, notFound("repository.GetBarber", err)
	}
	return &u, nil
}

func (r catalog) GetCustomer(ctx context.Context, customerID uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", customerID, models.RoleCustomer).
		First(&u).Error; err != nil {
		return nil, notFound("repository.GetCustomer", err)
	}
	return &u, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r catalog) GetService(ctx context.Context, barbershopID, serviceID uint) (*models.Service, error) {
	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ? AND active = ?", serviceID, barbershopID, true).
		First(&svc).Error; err != nil {
		return nil, notFound("repository.GetService", err)
	}
	return &svc, nil
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (r catalog) GetWorkingHours(ctx context.Context, barberID uint, weekday int) (*models.WorkingHours, error) {
	var wh models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("barber_id = ? AND weekday = ?", barberID, weekday).
		First(&wh).Error; err != nil {
		return nil, notFound("repository.GetWorkingHours", err)
	}
	return &wh, nil
}

// --------------------------------------------------
// Row locks
// --------------------------------------------------

// lockRow faz SELECT ... FOR UPDATE; só tem efeito dentro de transação.
func lockRow(ctx context.Context, db *gorm.DB, model any, id uint) error {
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(model, id).Error
	if err != nil {
		return notFound("repository.lockRow", err)
	}
	return nil
}

var _ domain.Catalog = catalog{}
