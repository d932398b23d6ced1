package review

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-queue/internal/domain/review"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/access"
)

type CreateInput struct {
	Kind string

	// o alvo conforme Kind
	BarbershopID  uint
	BarberID      uint
	AppointmentID uint

	Rating    int
	Comment   string
	Anonymous bool
}

type Create struct{ base }

func NewCreate(d Deps) *Create {
	return &Create{newBase(d)}
}

// Execute registra a avaliação do cliente. Cada cliente avalia uma vez cada
// barbearia, cada barbeiro e cada atendimento concluído.
func (uc *Create) Execute(ctx context.Context, actor domain.Actor, in CreateInput) (rv *models.Review, err error) {
	defer func() { observe("create", err) }()

	if !actor.IsCustomer() {
		return nil, httperr.NotFoundErr("customer_not_found", "Cliente não encontrado.")
	}
	if !review.ValidRating(in.Rating) {
		return nil, httperr.Validation("invalid_rating", "A nota deve ser de 1 a 5.")
	}
	comment, err := cleanText(in.Comment, "comment_too_long")
	if err != nil {
		return nil, err
	}

	rv = &models.Review{
		Kind:       in.Kind,
		CustomerID: actor.UserID,
		Rating:     in.Rating,
		Comment:    comment,
		Anonymous:  in.Anonymous,
		Visible:    true,
	}

	targetID, err := uc.resolveTarget(ctx, actor, in, rv)
	if err != nil {
		return nil, err
	}

	_, err = uc.Repo.FindByCustomer(ctx, actor.UserID, rv.Kind, targetID)
	switch {
	case err == nil:
		return nil, httperr.Conflict("already_reviewed", "Você já avaliou.")
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	// o índice único cobre a corrida entre a checagem e o insert
	if err := uc.Repo.Create(ctx, rv); err != nil {
		return nil, err
	}

	uc.publish(actor, "review.created", rv, nil)
	return rv, nil
}

// resolveTarget valida o alvo e preenche barbearia/barbeiro na avaliação.
func (uc *Create) resolveTarget(ctx context.Context, actor domain.Actor, in CreateInput, rv *models.Review) (uint, error) {
	switch in.Kind {
	case models.ReviewShop:
		shop, err := uc.Repo.GetBarbershopByID(ctx, in.BarbershopID)
		if err != nil || !shop.Active {
			return 0, access.ErrShopNotFound()
		}
		rv.BarbershopID = shop.ID
		return shop.ID, nil

	case models.ReviewBarber:
		barber, err := access.Barber(ctx, uc.Repo, in.BarberID)
		if err != nil {
			return 0, err
		}
		rv.BarbershopID = barber.ShopID()
		rv.BarberID = &barber.ID
		return barber.ID, nil

	case models.ReviewAppointment:
		if in.AppointmentID == 0 {
			return 0, httperr.Validation("missing_appointment_id", "Atendimento é obrigatório.")
		}
		ap, err := uc.Repo.GetAppointment(ctx, in.AppointmentID)
		if err != nil {
			return 0, access.NotFound(err, "appointment_not_found", "Agendamento não encontrado.")
		}
		if ap.CustomerID != actor.UserID {
			return 0, httperr.NotFoundErr("appointment_not_found", "Agendamento não encontrado.")
		}
		if appointment.Status(ap.Status) != appointment.StatusDone {
			return 0, httperr.InvalidState("appointment_not_done", "Só é possível avaliar atendimentos concluídos.")
		}
		barberID := ap.BarberID
		appointmentID := ap.ID
		rv.BarbershopID = ap.BarbershopID
		rv.BarberID = &barberID
		rv.AppointmentID = &appointmentID
		return ap.ID, nil
	}

	return 0, httperr.Validation("invalid_review_kind", "Tipo de avaliação inválido.")
}
