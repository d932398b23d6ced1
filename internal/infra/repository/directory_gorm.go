package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/directory"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type DirectoryGormRepository struct {
	db *gorm.DB
}

func NewDirectoryGormRepository(db *gorm.DB) *DirectoryGormRepository {
	return &DirectoryGormRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern monta o LIKE para "contém", escapando os curingas digitados.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func (r *DirectoryGormRepository) SearchShops(ctx context.Context, f directory.Filter, page domain.Page) ([]models.Barbershop, int64, error) {
	const op = "repository.SearchShops"

	q := r.db.WithContext(ctx).Model(&models.Barbershop{}).Where("active = ?", true)
	if f.Name != "" {
		q = q.Where("LOWER(name) LIKE ?", containsPattern(f.Name))
	}
	if f.City != "" {
		q = q.Where("LOWER(city) = LOWER(?)", f.City)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	out := []models.Barbershop{}
	if err := q.Order("LOWER(name) ASC, id ASC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return out, total, nil
}

func (r *DirectoryGormRepository) ListShopsIn(ctx context.Context, b directory.Box) ([]models.Barbershop, error) {
	out := []models.Barbershop{}
	if err := r.db.WithContext(ctx).
		Where("active = ? AND latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?",
			true, b.MinLat, b.MaxLat, b.MinLng, b.MaxLng).
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("repository.ListShopsIn: %w", err)
	}
	return out, nil
}

var _ directory.Repository = (*DirectoryGormRepository)(nil)
