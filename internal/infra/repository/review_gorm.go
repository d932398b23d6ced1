package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/review"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// Índices únicos de reviews (ver db.constraints e o model).
const (
	idxReviewShop        = "ux_reviews_customer_shop"
	idxReviewBarber      = "ux_reviews_customer_barber"
	idxReviewAppointment = "ux_reviews_appointment"
)

type ReviewGormRepository struct {
	catalog
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{catalog{db: db}}
}

func translateReviewErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if httperr.IsUniqueViolation(err) {
		switch httperr.ConstraintName(err) {
		case idxReviewShop, idxReviewBarber, idxReviewAppointment:
			return httperr.Conflict("already_reviewed", "Você já avaliou.")
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *ReviewGormRepository) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, notFound("repository.GetReviewedAppointment", err)
	}
	return &ap, nil
}

func (r *ReviewGormRepository) Create(ctx context.Context, rv *models.Review) error {
	return translateReviewErr("repository.CreateReview", r.db.WithContext(ctx).Create(rv).Error)
}

func (r *ReviewGormRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var rv models.Review
	if err := r.db.WithContext(ctx).First(&rv, id).Error; err != nil {
		return nil, notFound("repository.GetReview", err)
	}
	return &rv, nil
}

func (r *ReviewGormRepository) FindByCustomer(ctx context.Context, customerID uint, kind string, targetID uint) (*models.Review, error) {
	q := r.db.WithContext(ctx).Where("customer_id = ?", customerID)
	switch kind {
	case models.ReviewShop:
		q = q.Where("kind = ? AND barbershop_id = ?", kind, targetID)
	case models.ReviewBarber:
		q = q.Where("kind = ? AND barber_id = ?", kind, targetID)
	case models.ReviewAppointment:
		q = q.Where("appointment_id = ?", targetID)
	default:
		return nil, domain.ErrNotFound
	}

	var rv models.Review
	if err := q.First(&rv).Error; err != nil {
		return nil, notFound("repository.FindCustomerReview", err)
	}
	return &rv, nil
}

// SetReply usa a condição reply = '' como trava: a segunda resposta não
// encontra linha para atualizar.
func (r *ReviewGormRepository) SetReply(ctx context.Context, id uint, reply string, by uint, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ? AND (reply IS NULL OR reply = '')", id).
		Updates(map[string]any{"reply": reply, "replied_by": by, "replied_at": at})
	if res.Error != nil {
		return fmt.Errorf("repository.SetReviewReply: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReviewGormRepository) SetVisible(ctx context.Context, id uint, visible bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", id).
		Update("visible", visible)
	if res.Error != nil {
		return fmt.Errorf("repository.SetReviewVisible: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scopeTarget(q *gorm.DB, t review.Target) *gorm.DB {
	if t.BarberID != 0 {
		return q.Where("barber_id = ?", t.BarberID)
	}
	return q.Where("barbershop_id = ?", t.BarbershopID)
}

func (r *ReviewGormRepository) ListVisible(ctx context.Context, t review.Target, page domain.Page) ([]models.Review, int64, error) {
	const op = "repository.ListVisibleReviews"

	q := scopeTarget(r.db.WithContext(ctx).Model(&models.Review{}), t).Where("visible = ?", true)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	out := []models.Review{}
	if err := q.Order("created_at DESC, id DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return out, total, nil
}

func (r *ReviewGormRepository) list(ctx context.Context, op string, query string, args ...any) ([]models.Review, error) {
	out := []models.Review{}
	if err := r.db.WithContext(ctx).
		Where(query, args...).
		Order("created_at DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (r *ReviewGormRepository) ListForCustomer(ctx context.Context, customerID uint) ([]models.Review, error) {
	return r.list(ctx, "repository.ListCustomerReviews", "customer_id = ?", customerID)
}

func (r *ReviewGormRepository) ListUnreplied(ctx context.Context, barbershopID uint) ([]models.Review, error) {
	return r.list(ctx, "repository.ListUnrepliedReviews",
		"barbershop_id = ? AND (reply IS NULL OR reply = '')", barbershopID)
}

func (r *ReviewGormRepository) RatingCounts(ctx context.Context, t review.Target) (map[int]int64, error) {
	var rows []struct {
		Rating int
		Total  int64
	}
	if err := scopeTarget(r.db.WithContext(ctx).Model(&models.Review{}), t).
		Select("rating, COUNT(*) AS total").
		Where("visible = ?", true).
		Group("rating").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("repository.ReviewRatingCounts: %w", err)
	}

	counts := make(map[int]int64, len(rows))
	for _, row := range rows {
		counts[row.Rating] = row.Total
	}
	return counts, nil
}

var _ review.Repository = (*ReviewGormRepository)(nil)
