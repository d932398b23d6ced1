// Package access resolve o escopo do ator: a qual barbearia e a quais
// barbeiros ele tem acesso. Fora do escopo é tratado como inexistente.
package access

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// NotFound traduz domain.ErrNotFound para um erro de negócio com o código dado.
func NotFound(err error, code, message string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.NotFoundErr(code, message)
	}
	return err
}

func ErrShopNotFound() error {
	return httperr.NotFoundErr("barbershop_not_found", "Barbearia não encontrada.")
}

func ErrBarberNotFound() error {
	return httperr.NotFoundErr("barber_not_found", "Barbeiro não encontrado.")
}

// Shop exige um funcionário da própria barbearia.
func Shop(actor domain.Actor, barbershopID uint) error {
	if barbershopID == 0 || !actor.IsStaff() || actor.BarbershopID != barbershopID {
		return ErrShopNotFound()
	}
	return nil
}

// Barber busca um barbeiro ativo sem checar escopo (clientes escolhem qualquer um).
func Barber(ctx context.Context, cat domain.Catalog, barberID uint) (*models.User, error) {
	if barberID == 0 {
		return nil, httperr.Validation("missing_barber_id", "Barbeiro é obrigatório.")
	}
	b, err := cat.GetBarber(ctx, barberID)
	if err != nil {
		return nil, NotFound(err, "barber_not_found", "Barbeiro não encontrado.")
	}
	return b, nil
}

// ManageBarber exige que o ator possa operar a agenda/fila do barbeiro:
// o dono opera qualquer barbeiro da barbearia, o barbeiro só a si mesmo.
func ManageBarber(ctx context.Context, cat domain.Catalog, actor domain.Actor, barberID uint) (*models.User, error) {
	if !actor.IsStaff() {
		return nil, ErrBarberNotFound()
	}

	b, err := Barber(ctx, cat, barberID)
	if err != nil {
		return nil, err
	}

	if !CanManage(actor, b.ShopID(), b.ID) {
		return nil, ErrBarberNotFound()
	}
	return b, nil
}

// CanManage aplica a mesma regra de ManageBarber a um registro já carregado.
func CanManage(actor domain.Actor, barbershopID, barberID uint) bool {
	if !actor.IsStaff() || actor.BarbershopID != barbershopID {
		return false
	}
	return actor.IsOwner() || actor.UserID == barberID
}
