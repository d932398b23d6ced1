package models

import "time"

type Barbershop struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:100;not null" json:"name"`
	Slug    string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:255" json:"address"`
	LogoURL string `gorm:"size:255" json:"logo_url"`

	// Localização para a busca por proximidade; sem coordenadas a barbearia
	// só aparece na busca por nome.
	City      string   `gorm:"size:100;index" json:"city"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	// Active false tira a barbearia das buscas públicas.
	Active bool `gorm:"default:true" json:"active"`

	Timezone string `gorm:"size:64;default:'America/Sao_Paulo'" json:"timezone"`

	// Política de agendamento
	MinAdvanceMinutes       int  `gorm:"default:0" json:"min_advance_minutes"`
	AutoConfirmAppointments bool `gorm:"default:true" json:"auto_confirm_appointments"`

	// Expediente padrão, usado quando o barbeiro não configurou o dia.
	OpensAt  string `gorm:"size:5;default:'08:00'" json:"opens_at"`
	ClosesAt string `gorm:"size:5;default:'20:00'" json:"closes_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
