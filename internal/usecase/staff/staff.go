// Package staff conduz o vínculo de barbeiros autônomos: o barbeiro pede,
// o dono aprova ou recusa, e qualquer dos dois desfaz.
package staff

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/staff"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/lock"
	"github.com/BruksfildServices01/barber-queue/internal/metrics"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/access"
)

type Deps struct {
	Repo  staff.Repository
	Guard *lock.Guard
	Audit *audit.Dispatcher
}

type Service struct {
	Deps
	now func() time.Time
}

func NewService(d Deps) *Service {
	return &Service{Deps: d, now: time.Now}
}

func observe(operation string, err error) {
	metrics.AccountOp("staff", operation, metrics.Result(err, httperr.KindOf(err) != ""))
}

func errRequestNotFound() error {
	return httperr.NotFoundErr("link_request_not_found", "Pedido de vínculo não encontrado.")
}

// Status é o vínculo como o barbeiro vê.
type Status struct {
	Status          string     `json:"status"`
	BarbershopID    *uint      `json:"barbershop_id,omitempty"`
	RequestedShopID *uint      `json:"requested_shop_id,omitempty"`
	RequestedAt     *time.Time `json:"requested_at,omitempty"`
}

func statusOf(u *models.User) *Status {
	return &Status{
		Status:          u.Link(),
		BarbershopID:    u.BarbershopID,
		RequestedShopID: u.RequestedShopID,
		RequestedAt:     u.LinkRequestedAt,
	}
}

// withUser serializa no mesmo lock de barbeiro usado pela fila e pela
// agenda, assim ninguém entra na fila de um barbeiro sendo desvinculado.
func (s *Service) withUser(ctx context.Context, userID uint, fn func(tx staff.Repository, u *models.User) error) error {
	release, err := s.Guard.Barber(ctx, userID)
	if err != nil {
		return err
	}
	defer release()

	return s.Repo.WithTx(ctx, func(tx staff.Repository) error {
		if err := tx.LockUser(ctx, userID); err != nil {
			return access.NotFound(err, "barber_not_found", "Barbeiro não encontrado.")
		}
		u, err := tx.GetUser(ctx, userID)
		if err != nil {
			return access.NotFound(err, "barber_not_found", "Barbeiro não encontrado.")
		}
		return fn(tx, u)
	})
}

func (s *Service) publish(actor domain.Actor, action string, shopID uint, u *models.User) {
	s.Audit.Dispatch(audit.Event{
		BarbershopID: shopID,
		UserID:       &actor.UserID,
		Action:       action,
		Entity:       "user",
		EntityID:     &u.ID,
		Metadata:     map[string]any{"link_status": u.Link()},
	})
}

func ensureIdle(ctx context.Context, tx staff.Repository, barberID uint, now time.Time) error {
	n, err := tx.CountOpenWork(ctx, barberID, now)
	if err != nil {
		return err
	}
	if n > 0 {
		return httperr.InvalidState("barber_has_open_work", "O barbeiro ainda tem clientes na fila ou agendamentos futuros.")
	}
	return nil
}

// ======================================================
// BARBEIRO
// ======================================================

func (s *Service) Status(ctx context.Context, actor domain.Actor) (*Status, error) {
	if actor.Role != models.RoleBarber {
		return nil, access.ErrBarberNotFound()
	}
	u, err := s.Repo.GetUser(ctx, actor.UserID)
	if err != nil {
		return nil, access.NotFound(err, "barber_not_found", "Barbeiro não encontrado.")
	}
	return statusOf(u), nil
}

// Request pede vínculo; um pedido pendente para outra barbearia é trocado.
func (s *Service) Request(ctx context.Context, actor domain.Actor, shopID uint) (st *Status, err error) {
	defer func() { observe("request", err) }()

	if actor.Role != models.RoleBarber {
		return nil, access.ErrBarberNotFound()
	}
	shop, err := s.Repo.GetBarbershopByID(ctx, shopID)
	if err != nil || !shop.Active {
		return nil, access.ErrShopNotFound()
	}

	var changed *models.User
	err = s.withUser(ctx, actor.UserID, func(tx staff.Repository, u *models.User) error {
		if u.Link() == models.LinkApproved {
			return httperr.InvalidState("already_linked", "Você já trabalha em uma barbearia.")
		}
		if staff.PendingFor(u, shop.ID) {
			st = statusOf(u)
			return nil
		}

		staff.Request(u, shop.ID, s.now().UTC())
		if err := tx.SaveLink(ctx, u); err != nil {
			return err
		}
		st = statusOf(u)
		changed = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed != nil {
		s.publish(actor, "staff.link_requested", shop.ID, changed)
	}
	return st, nil
}

func (s *Service) CancelRequest(ctx context.Context, actor domain.Actor) (st *Status, err error) {
	defer func() { observe("cancel_request", err) }()

	if actor.Role != models.RoleBarber {
		return nil, access.ErrBarberNotFound()
	}

	var (
		shopID  uint
		changed *models.User
	)
	err = s.withUser(ctx, actor.UserID, func(tx staff.Repository, u *models.User) error {
		if u.Link() != models.LinkPending || u.RequestedShopID == nil {
			return errRequestNotFound()
		}
		shopID = *u.RequestedShopID

		staff.Clear(u)
		if err := tx.SaveLink(ctx, u); err != nil {
			return err
		}
		changed = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(actor, "staff.link_request_canceled", shopID, changed)
	return statusOf(changed), nil
}

// Leave desfaz o vínculo a pedido do barbeiro; o dono não sai da própria barbearia.
func (s *Service) Leave(ctx context.Context, actor domain.Actor) (st *Status, err error) {
	defer func() { observe("leave", err) }()

	if actor.Role != models.RoleBarber {
		return nil, httperr.Policy("owner_cannot_leave", "O dono não pode sair da própria barbearia.")
	}

	var (
		shopID  uint
		changed *models.User
	)
	err = s.withUser(ctx, actor.UserID, func(tx staff.Repository, u *models.User) error {
		if u.BarbershopID == nil {
			return httperr.InvalidState("not_linked", "Você não está vinculado a nenhuma barbearia.")
		}
		shopID = *u.BarbershopID
		if err := ensureIdle(ctx, tx, u.ID, s.now()); err != nil {
			return err
		}

		staff.Clear(u)
		if err := tx.SaveLink(ctx, u); err != nil {
			return err
		}
		changed = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(actor, "staff.link_left", shopID, changed)
	return statusOf(changed), nil
}

// ======================================================
// DONO
// ======================================================

// Requests lista os pedidos pendentes para a barbearia do dono.
func (s *Service) Requests(ctx context.Context, actor domain.Actor) ([]models.User, error) {
	if !actor.IsOwner() || access.Shop(actor, actor.BarbershopID) != nil {
		return nil, access.ErrShopNotFound()
	}
	return s.Repo.ListRequests(ctx, actor.BarbershopID)
}

func (s *Service) Approve(ctx context.Context, actor domain.Actor, barberID uint) (u *models.User, err error) {
	defer func() { observe("approve", err) }()
	return s.decide(ctx, actor, barberID, true)
}

func (s *Service) Reject(ctx context.Context, actor domain.Actor, barberID uint) (u *models.User, err error) {
	defer func() { observe("reject", err) }()
	return s.decide(ctx, actor, barberID, false)
}

func (s *Service) decide(ctx context.Context, actor domain.Actor, barberID uint, approve bool) (*models.User, error) {
	if !actor.IsOwner() || access.Shop(actor, actor.BarbershopID) != nil {
		return nil, errRequestNotFound()
	}

	var out *models.User
	err := s.withUser(ctx, barberID, func(tx staff.Repository, u *models.User) error {
		if u.Role != models.RoleBarber || !staff.PendingFor(u, actor.BarbershopID) {
			return errRequestNotFound()
		}

		if approve {
			staff.Approve(u)
		} else {
			staff.Reject(u)
		}
		if err := tx.SaveLink(ctx, u); err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		if httperr.IsBusiness(err, "barber_not_found") {
			return nil, errRequestNotFound()
		}
		return nil, err
	}

	action := "staff.link_rejected"
	if approve {
		action = "staff.link_approved"
	}
	s.publish(actor, action, actor.BarbershopID, out)
	return out, nil
}

// Unlink tira um barbeiro da barbearia do dono.
func (s *Service) Unlink(ctx context.Context, actor domain.Actor, barberID uint) (u *models.User, err error) {
	defer func() { observe("unlink", err) }()

	if !actor.IsOwner() || access.Shop(actor, actor.BarbershopID) != nil {
		return nil, access.ErrBarberNotFound()
	}

	err = s.withUser(ctx, barberID, func(tx staff.Repository, target *models.User) error {
		if target.Role != models.RoleBarber || target.ShopID() != actor.BarbershopID {
			return access.ErrBarberNotFound()
		}
		if err := ensureIdle(ctx, tx, target.ID, s.now()); err != nil {
			return err
		}

		staff.Clear(target)
		if err := tx.SaveLink(ctx, target); err != nil {
			return err
		}
		u = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(actor, "staff.unlinked", actor.BarbershopID, u)
	return u, nil
}
