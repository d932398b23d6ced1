package domain

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// ErrNotFound é devolvido pelos repositórios quando o registro não existe.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate é devolvido quando uma chave única já existe e o chamador
// trata isso como sucesso.
var ErrDuplicate = errors.New("duplicate record")

// Actor é quem executa a operação, extraído do JWT.
type Actor struct {
	UserID       uint
	BarbershopID uint
	Role         string
}

func (a Actor) IsCustomer() bool { return a.Role == models.RoleCustomer }
func (a Actor) IsOwner() bool    { return a.Role == models.RoleOwner }
func (a Actor) IsStaff() bool    { return a.Role == models.RoleOwner || a.Role == models.RoleBarber }

// Catalog expõe as leituras de cadastro que todos os componentes usam.
type Catalog interface {
	GetBarbershopByID(ctx context.Context, id uint) (*models.Barbershop, error)
	GetBarbershopBySlug(ctx context.Context, slug string) (*models.Barbershop, error)

	// GetBarber devolve um usuário ativo com papel owner ou barber, já
	// vinculado a uma barbearia.
	GetBarber(ctx context.Context, barberID uint) (*models.User, error)
	// GetCustomer devolve um usuário com papel customer.
	GetCustomer(ctx context.Context, customerID uint) (*models.User, error)

	// GetService devolve um serviço ativo da barbearia.
	GetService(ctx context.Context, barbershopID, serviceID uint) (*models.Service, error)

	GetWorkingHours(ctx context.Context, barberID uint, weekday int) (*models.WorkingHours, error)
}
