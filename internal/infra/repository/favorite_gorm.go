package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/favorite"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type FavoriteGormRepository struct {
	catalog
}

func NewFavoriteGormRepository(db *gorm.DB) *FavoriteGormRepository {
	return &FavoriteGormRepository{catalog{db: db}}
}

func targetColumn(t favorite.Target) string {
	if t.Kind == models.FavoriteShop {
		return "barbershop_id"
	}
	return "barber_id"
}

func (r *FavoriteGormRepository) Find(ctx context.Context, userID uint, t favorite.Target) (*models.Favorite, error) {
	var f models.Favorite
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND "+targetColumn(t)+" = ?", userID, t.ID).
		First(&f).Error; err != nil {
		return nil, notFound("repository.FindFavorite", err)
	}
	return &f, nil
}

// Create devolve domain.ErrDuplicate quando um toggle concorrente já criou.
func (r *FavoriteGormRepository) Create(ctx context.Context, f *models.Favorite) error {
	err := r.db.WithContext(ctx).Create(f).Error
	if err != nil && httperr.IsUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("repository.CreateFavorite: %w", err)
	}
	return nil
}

func (r *FavoriteGormRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Favorite{}, id)
	if res.Error != nil {
		return fmt.Errorf("repository.DeleteFavorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FavoriteGormRepository) ListForUser(ctx context.Context, userID uint, kind string) ([]models.Favorite, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}

	out := []models.Favorite{}
	if err := q.Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("repository.ListFavorites: %w", err)
	}
	return out, nil
}

func (r *FavoriteGormRepository) Count(ctx context.Context, t favorite.Target) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where(targetColumn(t)+" = ?", t.ID).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("repository.CountFavorites: %w", err)
	}
	return n, nil
}

var _ favorite.Repository = (*FavoriteGormRepository)(nil)
