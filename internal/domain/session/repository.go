package session

import (
	"context"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type Repository interface {
	domain.Catalog

	// WithTx executa fn numa transação; erro desfaz tudo.
	WithTx(ctx context.Context, fn func(tx Repository) error) error

	// LockShop serializa operações de caixa da barbearia dentro da transação.
	LockShop(ctx context.Context, barbershopID uint) error

	// FindActive devolve a sessão não fechada mais recente, ou domain.ErrNotFound.
	FindActive(ctx context.Context, barbershopID uint) (*models.WorkSession, error)

	CountForDate(ctx context.Context, barbershopID uint, date string) (int64, error)

	Create(ctx context.Context, ws *models.WorkSession) error
	Save(ctx context.Context, ws *models.WorkSession) error

	ListHistory(ctx context.Context, barbershopID uint, limit int) ([]models.WorkSession, error)
	ListByDate(ctx context.Context, barbershopID uint, date string) ([]models.WorkSession, error)
}
