// Package favorite guarda barbearias e barbeiros favoritos de cada usuário.
package favorite

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/favorite"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/metrics"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/access"
)

type Service struct {
	repo favorite.Repository
}

func NewService(repo favorite.Repository) *Service {
	return &Service{repo: repo}
}

func observe(operation string, err error) {
	metrics.AccountOp("favorite", operation, metrics.Result(err, httperr.KindOf(err) != ""))
}

// ParseKind aceita "shop" / "barber" em qualquer caixa.
func ParseKind(raw string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "":
		return "", nil
	case models.FavoriteShop:
		return models.FavoriteShop, nil
	case models.FavoriteBarber:
		return models.FavoriteBarber, nil
	}
	return "", httperr.Validation("invalid_favorite_kind", "Tipo de favorito inválido.")
}

// ensureTarget confere que o alvo existe; favoritos só apontam para
// barbearias ativas e barbeiros vinculados.
func (s *Service) ensureTarget(ctx context.Context, t favorite.Target) error {
	if !t.Valid() {
		return httperr.Validation("invalid_favorite", "Favorito inválido.")
	}
	if t.Kind == models.FavoriteShop {
		shop, err := s.repo.GetBarbershopByID(ctx, t.ID)
		if err != nil || !shop.Active {
			return access.ErrShopNotFound()
		}
		return nil
	}
	_, err := access.Barber(ctx, s.repo, t.ID)
	return err
}

// Toggle adiciona ou remove; devolve true quando o alvo ficou favoritado.
func (s *Service) Toggle(ctx context.Context, actor domain.Actor, t favorite.Target) (on bool, err error) {
	defer func() { observe("toggle", err) }()

	if err := s.ensureTarget(ctx, t); err != nil {
		return false, err
	}

	existing, err := s.repo.Find(ctx, actor.UserID, t)
	switch {
	case err == nil:
		if err := s.repo.Delete(ctx, existing.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return false, err
		}
		return false, nil
	case !errors.Is(err, domain.ErrNotFound):
		return false, err
	}

	f := &models.Favorite{UserID: actor.UserID}
	t.Apply(f)
	// toggle concorrente já criou: o resultado é o mesmo
	if err := s.repo.Create(ctx, f); err != nil && !errors.Is(err, domain.ErrDuplicate) {
		return false, err
	}
	return true, nil
}

func (s *Service) Check(ctx context.Context, actor domain.Actor, t favorite.Target) (bool, error) {
	if !t.Valid() {
		return false, httperr.Validation("invalid_favorite", "Favorito inválido.")
	}
	_, err := s.repo.Find(ctx, actor.UserID, t)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	}
	return false, err
}

func (s *Service) Count(ctx context.Context, t favorite.Target) (int64, error) {
	if err := s.ensureTarget(ctx, t); err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, t)
}

// Item é o favorito já com o nome do alvo.
type Item struct {
	ID        uint      `json:"id"`
	Kind      string    `json:"kind"`
	TargetID  uint      `json:"target_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// List omite favoritos cujo alvo sumiu (barbearia desativada, barbeiro desvinculado).
func (s *Service) List(ctx context.Context, actor domain.Actor, kind string) ([]Item, error) {
	list, err := s.repo.ListForUser(ctx, actor.UserID, kind)
	if err != nil {
		return nil, err
	}

	out := make([]Item, 0, len(list))
	for _, f := range list {
		it := Item{ID: f.ID, Kind: f.Kind, TargetID: f.TargetID(), CreatedAt: f.CreatedAt}

		switch f.Kind {
		case models.FavoriteShop:
			shop, err := s.repo.GetBarbershopByID(ctx, it.TargetID)
			if errors.Is(err, domain.ErrNotFound) || (err == nil && !shop.Active) {
				continue
			}
			if err != nil {
				return nil, err
			}
			it.Name, it.Slug, it.ImageURL = shop.Name, shop.Slug, shop.LogoURL
		default:
			barber, err := s.repo.GetBarber(ctx, it.TargetID)
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			it.Name, it.ImageURL = barber.Name, barber.AvatarURL
		}

		out = append(out, it)
	}
	return out, nil
}
