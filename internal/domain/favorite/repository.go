package favorite

import (
	"context"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// Target é o que se favorita: Kind é models.FavoriteShop ou models.FavoriteBarber.
type Target struct {
	Kind string
	ID   uint
}

func (t Target) Valid() bool {
	return t.ID > 0 && (t.Kind == models.FavoriteShop || t.Kind == models.FavoriteBarber)
}

// Apply preenche a coluna certa do favorito.
func (t Target) Apply(f *models.Favorite) {
	id := t.ID
	f.Kind = t.Kind
	if t.Kind == models.FavoriteShop {
		f.BarbershopID = &id
		return
	}
	f.BarberID = &id
}

type Repository interface {
	domain.Catalog

	// Find devolve domain.ErrNotFound quando o alvo não está nos favoritos.
	Find(ctx context.Context, userID uint, t Target) (*models.Favorite, error)
	// Create devolve domain.ErrDuplicate quando o favorito já existe.
	Create(ctx context.Context, f *models.Favorite) error
	Delete(ctx context.Context, id uint) error

	// ListForUser filtra por tipo; kind vazio traz todos, mais recentes primeiro.
	ListForUser(ctx context.Context, userID uint, kind string) ([]models.Favorite, error)
	Count(ctx context.Context, t Target) (int64, error)
}
