// Package memorytest monta uma barbearia de exemplo sobre o armazenamento em memória.
package memorytest

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/infra/memory"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// Fixture é uma barbearia mínima para testes de casos de uso e handlers.
type Fixture struct {
	Shop *models.Barbershop

	Owner   *models.User
	Barber  *models.User
	Barber2 *models.User

	Customer  *models.User
	Customer2 *models.User

	Service *models.Service
}

// Seed cria dono, dois barbeiros, dois clientes e um corte de R$ 50 / 30 min.
func Seed(s *memory.Store) Fixture {
	shop := &models.Barbershop{
		Name:                    "Navalha de Ouro",
		Slug:                    "navalha",
		Timezone:                "America/Sao_Paulo",
		AutoConfirmAppointments: true,
		OpensAt:                 "08:00",
		ClosesAt:                "20:00",
		City:                    "São Paulo",
		Active:                  true,
	}
	s.AddShop(shop)

	staff := func(name, role string) *models.User {
		u := &models.User{
			BarbershopID: &shop.ID,
			Name:         name,
			Email:        name + "@navalha.test",
			Role:         role,
			Active:       true,
		}
		s.AddUser(u)
		return u
	}
	customer := func(name string) *models.User {
		u := &models.User{Name: name, Email: name + "@cliente.test", Role: models.RoleCustomer, Active: true}
		s.AddUser(u)
		return u
	}

	f := Fixture{
		Shop:      shop,
		Owner:     staff("dono", models.RoleOwner),
		Barber:    staff("joao", models.RoleBarber),
		Barber2:   staff("pedro", models.RoleBarber),
		Customer:  customer("ana"),
		Customer2: customer("bia"),
	}

	f.Service = &models.Service{
		BarbershopID: shop.ID,
		Name:         "Corte",
		DurationMin:  30,
		Price:        decimal.NewFromInt(50),
		Active:       true,
	}
	s.AddService(f.Service)

	return f
}

func (f Fixture) staffActor(u *models.User) domain.Actor {
	return domain.Actor{UserID: u.ID, BarbershopID: f.Shop.ID, Role: u.Role}
}

func (f Fixture) OwnerActor() domain.Actor   { return f.staffActor(f.Owner) }
func (f Fixture) BarberActor() domain.Actor  { return f.staffActor(f.Barber) }
func (f Fixture) Barber2Actor() domain.Actor { return f.staffActor(f.Barber2) }

func (f Fixture) CustomerActor() domain.Actor {
	return domain.Actor{UserID: f.Customer.ID, Role: models.RoleCustomer}
}

func (f Fixture) Customer2Actor() domain.Actor {
	return domain.Actor{UserID: f.Customer2.ID, Role: models.RoleCustomer}
}
