package session

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	ledger "github.com/BruksfildServices01/barber-queue/internal/domain/session"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/access"
)

const (
	DefaultHistoryLimit = 30
	MaxHistoryLimit     = 200
)

type Query struct {
	repo ledger.Repository
}

func NewQuery(repo ledger.Repository) *Query {
	return &Query{repo: repo}
}

// Active devolve a sessão aberta ou pausada; nil quando não há.
func (q *Query) Active(ctx context.Context, actor domain.Actor, shopID uint) (*models.WorkSession, error) {
	if err := access.Shop(actor, shopID); err != nil {
		return nil, err
	}
	return findActive(ctx, q.repo, shopID)
}

func (q *Query) History(ctx context.Context, actor domain.Actor, shopID uint, limit int) ([]models.WorkSession, error) {
	if err := access.Shop(actor, shopID); err != nil {
		return nil, err
	}

	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	return q.repo.ListHistory(ctx, shopID, limit)
}

func (q *Query) ByDate(ctx context.Context, actor domain.Actor, shopID uint, date string) ([]models.WorkSession, error) {
	if err := access.Shop(actor, shopID); err != nil {
		return nil, err
	}
	if _, err := time.Parse(ledger.DateLayout, date); err != nil {
		return nil, httperr.Validation("invalid_date", "Data inválida, use AAAA-MM-DD.")
	}
	return q.repo.ListByDate(ctx, shopID, date)
}

// ======================================================
// PUBLIC STATUS
// ======================================================

type ShopStatus struct {
	Name     string     `json:"name"`
	Slug     string     `json:"slug"`
	LogoURL  string     `json:"logo_url"`
	Status   string     `json:"status"`
	OpenedAt *time.Time `json:"opened_at,omitempty"`
}

// Status é público: OPEN, PAUSED ou CLOSED conforme a sessão ativa.
func (q *Query) Status(ctx context.Context, slug string) (*ShopStatus, error) {
	shop, err := q.repo.GetBarbershopBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, access.NotFound(err, "barbershop_not_found", "Barbearia não encontrada.")
	}

	out := &ShopStatus{
		Name:    shop.Name,
		Slug:    shop.Slug,
		LogoURL: shop.LogoURL,
		Status:  string(ledger.StatusClosed),
	}

	ws, err := findActive(ctx, q.repo, shop.ID)
	if err != nil {
		return nil, err
	}
	if ws != nil {
		out.Status = ws.Status
		out.OpenedAt = &ws.OpenedAt
	}
	return out, nil
}
