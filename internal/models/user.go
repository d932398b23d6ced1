package models

import "time"

const (
	RoleOwner    = "owner"
	RoleBarber   = "barber"
	RoleCustomer = "customer"
)

// Vínculo do barbeiro com a barbearia.
const (
	LinkNone     = "NONE"
	LinkPending  = "PENDING"
	LinkApproved = "APPROVED"
	LinkRejected = "REJECTED"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// nil para clientes, que não pertencem a uma barbearia
	BarbershopID *uint      `gorm:"index" json:"barbershop_id"`
	Barbershop   Barbershop `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'owner'" json:"role"`
	Active       bool   `gorm:"default:true" json:"active"`
	AvatarURL    string `gorm:"size:255" json:"avatar_url"`

	// Pedido de vínculo de um barbeiro que se cadastrou sozinho.
	LinkStatus      string     `gorm:"size:20" json:"link_status"`
	RequestedShopID *uint      `gorm:"index" json:"requested_shop_id"`
	LinkRequestedAt *time.Time `json:"link_requested_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsStaff indica quem pode atender (dono também corta).
func (u *User) IsStaff() bool {
	return u.Role == RoleOwner || u.Role == RoleBarber
}

func (u *User) ShopID() uint {
	if u.BarbershopID == nil {
		return 0
	}
	return *u.BarbershopID
}

// Link devolve o estado do vínculo; cadastros antigos não têm LinkStatus.
func (u *User) Link() string {
	if u.LinkStatus != "" {
		return u.LinkStatus
	}
	if u.BarbershopID != nil {
		return LinkApproved
	}
	return LinkNone
}
