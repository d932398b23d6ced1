package directory

import (
	"context"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// Filter da busca textual; campos vazios não filtram.
type Filter struct {
	Name string
	City string
}

type Repository interface {
	// SearchShops lista barbearias ativas em ordem alfabética.
	SearchShops(ctx context.Context, f Filter, page domain.Page) ([]models.Barbershop, int64, error)

	// ListShopsIn devolve barbearias ativas com coordenadas dentro do retângulo.
	ListShopsIn(ctx context.Context, b Box) ([]models.Barbershop, error)
}
