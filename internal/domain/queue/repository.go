package queue

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/session"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type Repository interface {
	domain.Catalog

	WithTx(ctx context.Context, fn func(tx Repository) error) error

	// LockBarber trava a linha do barbeiro até o fim da transação.
	LockBarber(ctx context.Context, barberID uint) error

	// Ledger dá acesso ao caixa dentro da mesma transação.
	Ledger() session.Repository

	Create(ctx context.Context, e *models.QueueEntry) error
	Save(ctx context.Context, e *models.QueueEntry) error

	GetByID(ctx context.Context, id uint) (*models.QueueEntry, error)
	// FindByIdempotencyKey procura só entre as entradas do próprio cliente.
	FindByIdempotencyKey(ctx context.Context, customerID uint, key string) (*models.QueueEntry, error)
	FindInService(ctx context.Context, barberID uint) (*models.QueueEntry, error)
	FindActiveForCustomer(ctx context.Context, customerID uint) (*models.QueueEntry, error)

	// ListWaiting devolve as entradas aguardando em ordem FIFO.
	ListWaiting(ctx context.Context, barberID uint) ([]models.QueueEntry, error)
	ListStartedBetween(ctx context.Context, barberID uint, from, to time.Time) ([]models.QueueEntry, error)
	ListForShopBetween(ctx context.Context, barbershopID uint, from, to time.Time) ([]models.QueueEntry, error)

	// ListHistory traz as entradas encerradas do cliente, mais recentes primeiro.
	ListHistory(ctx context.Context, customerID uint, limit int) ([]models.QueueEntry, error)
}

// ViewCache guarda o retrato da fila entre mutações. Version muda a cada
// Invalidate; Put com versão anterior é descartado, assim um retrato lido
// antes de uma mutação não volta ao cache depois dela.
type ViewCache interface {
	Version(ctx context.Context, barberID uint) int64
	Get(ctx context.Context, barberID uint) (*View, bool)
	Put(ctx context.Context, barberID uint, version int64, v *View)
	Invalidate(ctx context.Context, barberID uint)
}
