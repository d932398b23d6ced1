package review

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type Reply struct{ base }

func NewReply(d Deps) *Reply {
	return &Reply{newBase(d)}
}

// Execute responde uma vez: o dono responde qualquer avaliação da barbearia,
// o barbeiro só as que são sobre ele.
func (uc *Reply) Execute(ctx context.Context, actor domain.Actor, reviewID uint, text string) (rv *models.Review, err error) {
	defer func() { observe("reply", err) }()

	reply, err := cleanText(text, "reply_too_long")
	if err != nil {
		return nil, err
	}
	if reply == "" {
		return nil, httperr.Validation("missing_reply", "Escreva a resposta.")
	}

	rv, err = uc.loadForStaff(ctx, actor, reviewID)
	if err != nil {
		return nil, err
	}
	if !actor.IsOwner() && (rv.BarberID == nil || *rv.BarberID != actor.UserID) {
		return nil, httperr.Policy("reply_not_allowed", "Só o dono ou o barbeiro avaliado podem responder.")
	}
	if rv.Reply != "" {
		return nil, errAlreadyReplied()
	}

	now := uc.now().UTC()
	if err := uc.Repo.SetReply(ctx, rv.ID, reply, actor.UserID, now); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errAlreadyReplied()
		}
		return nil, err
	}

	rv.Reply = reply
	rv.RepliedBy = &actor.UserID
	rv.RepliedAt = &now

	uc.publish(actor, "review.replied", rv, nil)
	return rv, nil
}

func errAlreadyReplied() error {
	return httperr.InvalidState("already_replied", "Esta avaliação já foi respondida.")
}

type Moderate struct{ base }

func NewModerate(d Deps) *Moderate {
	return &Moderate{newBase(d)}
}

// Execute esconde ou mostra a avaliação nas listagens públicas; só o dono.
func (uc *Moderate) Execute(ctx context.Context, actor domain.Actor, reviewID uint, visible bool) (rv *models.Review, err error) {
	defer func() { observe("moderate", err) }()

	if !actor.IsOwner() {
		return nil, errReviewNotFound()
	}
	rv, err = uc.loadForStaff(ctx, actor, reviewID)
	if err != nil {
		return nil, err
	}

	if err := uc.Repo.SetVisible(ctx, rv.ID, visible); err != nil {
		return nil, err
	}
	rv.Visible = visible

	uc.publish(actor, "review.visibility_changed", rv, map[string]any{"visible": visible})
	return rv, nil
}
