// Package staff trata o vínculo entre barbeiros cadastrados por conta
// própria e as barbearias.
package staff

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type Repository interface {
	domain.Catalog

	WithTx(ctx context.Context, fn func(tx Repository) error) error

	// LockUser trava a linha do usuário até o fim da transação.
	LockUser(ctx context.Context, userID uint) error

	// GetUser carrega qualquer usuário, vinculado ou não.
	GetUser(ctx context.Context, userID uint) (*models.User, error)

	// SaveLink grava só as colunas de vínculo.
	SaveLink(ctx context.Context, u *models.User) error

	// ListRequests traz os pedidos pendentes para a barbearia, mais antigos primeiro.
	ListRequests(ctx context.Context, barbershopID uint) ([]models.User, error)

	// CountOpenWork conta entradas ativas na fila e agendamentos ainda por
	// acontecer do barbeiro.
	CountOpenWork(ctx context.Context, barberID uint, now time.Time) (int64, error)
}
