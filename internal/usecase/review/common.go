package review

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/review"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/metrics"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/access"
)

type Deps struct {
	Repo  review.Repository
	Audit *audit.Dispatcher
}

type base struct {
	Deps
	now func() time.Time
}

func newBase(d Deps) base {
	return base{Deps: d, now: time.Now}
}

func observe(operation string, err error) {
	metrics.AccountOp("review", operation, metrics.Result(err, httperr.KindOf(err) != ""))
}

func errReviewNotFound() error {
	return httperr.NotFoundErr("review_not_found", "Avaliação não encontrada.")
}

// cleanText apara e limita o texto livre.
func cleanText(raw, code string) (string, error) {
	text := strings.TrimSpace(raw)
	if utf8.RuneCountInString(text) > review.MaxTextLength {
		return "", httperr.Validation(code, "Texto muito longo (máximo de 1000 caracteres).")
	}
	return text, nil
}

// loadForStaff carrega a avaliação se ela for da barbearia do ator.
func (b *base) loadForStaff(ctx context.Context, actor domain.Actor, id uint) (*models.Review, error) {
	if err := access.Shop(actor, actor.BarbershopID); err != nil {
		return nil, errReviewNotFound()
	}
	rv, err := b.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, access.NotFound(err, "review_not_found", "Avaliação não encontrada.")
	}
	if rv.BarbershopID != actor.BarbershopID {
		return nil, errReviewNotFound()
	}
	return rv, nil
}

func (b *base) publish(actor domain.Actor, action string, rv *models.Review, meta map[string]any) {
	if meta == nil {
		meta = map[string]any{}
	}
	meta["kind"] = rv.Kind
	meta["rating"] = rv.Rating

	customerID := rv.CustomerID
	b.Audit.Dispatch(audit.Event{
		BarbershopID: rv.BarbershopID,
		UserID:       &actor.UserID,
		CustomerID:   &customerID,
		Action:       action,
		Entity:       "review",
		EntityID:     &rv.ID,
		Metadata:     meta,
	})
}

// ======================================================
// VIEW
// ======================================================

// Item é a avaliação como aparece para o público: avaliações anônimas não
// expõem o cliente.
type Item struct {
	ID            uint       `json:"id"`
	Kind          string     `json:"kind"`
	BarbershopID  uint       `json:"barbershop_id"`
	BarberID      *uint      `json:"barber_id,omitempty"`
	AppointmentID *uint      `json:"appointment_id,omitempty"`
	Rating        int        `json:"rating"`
	Comment       string     `json:"comment"`
	Author        string     `json:"author"`
	CustomerID    *uint      `json:"customer_id,omitempty"`
	Reply         string     `json:"reply,omitempty"`
	RepliedAt     *time.Time `json:"replied_at,omitempty"`
	Visible       bool       `json:"visible"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (b *base) items(ctx context.Context, list []models.Review) []Item {
	names := map[uint]string{}
	out := make([]Item, 0, len(list))
	for _, rv := range list {
		it := Item{
			ID:            rv.ID,
			Kind:          rv.Kind,
			BarbershopID:  rv.BarbershopID,
			BarberID:      rv.BarberID,
			AppointmentID: rv.AppointmentID,
			Rating:        rv.Rating,
			Comment:       rv.Comment,
			Reply:         rv.Reply,
			RepliedAt:     rv.RepliedAt,
			Visible:       rv.Visible,
			CreatedAt:     rv.CreatedAt,
		}

		if rv.Anonymous {
			it.Author = review.AnonymousAuthor
		} else {
			name, ok := names[rv.CustomerID]
			if !ok {
				if c, err := b.Repo.GetCustomer(ctx, rv.CustomerID); err == nil {
					name = c.Name
				}
				names[rv.CustomerID] = name
			}
			customerID := rv.CustomerID
			it.Author = name
			it.CustomerID = &customerID
		}

		out = append(out, it)
	}
	return out
}
