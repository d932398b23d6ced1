package review

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type Repository interface {
	domain.Catalog

	// GetAppointment carrega o atendimento avaliado.
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)

	Create(ctx context.Context, r *models.Review) error
	GetByID(ctx context.Context, id uint) (*models.Review, error)

	// FindByCustomer procura a avaliação do cliente para o mesmo alvo:
	// barbearia, barbeiro ou atendimento, conforme kind.
	FindByCustomer(ctx context.Context, customerID uint, kind string, targetID uint) (*models.Review, error)

	// SetReply só grava se a avaliação ainda não tem resposta; senão
	// devolve domain.ErrNotFound.
	SetReply(ctx context.Context, id uint, reply string, by uint, at time.Time) error
	SetVisible(ctx context.Context, id uint, visible bool) error

	// ListVisible ordena da mais recente para a mais antiga.
	ListVisible(ctx context.Context, t Target, page domain.Page) ([]models.Review, int64, error)
	ListForCustomer(ctx context.Context, customerID uint) ([]models.Review, error)
	ListUnreplied(ctx context.Context, barbershopID uint) ([]models.Review, error)

	// RatingCounts conta as avaliações visíveis por nota.
	RatingCounts(ctx context.Context, t Target) (map[int]int64, error)
}
