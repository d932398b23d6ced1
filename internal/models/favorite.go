package models

import "time"

const (
	FavoriteShop   = "SHOP"
	FavoriteBarber = "BARBER"
)

// Favorite aponta para uma barbearia ou para um barbeiro, nunca os dois.
type Favorite struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint   `gorm:"index;not null" json:"user_id"`
	Kind   string `gorm:"size:20;not null" json:"kind"`

	BarbershopID *uint `gorm:"index" json:"barbershop_id"`
	BarberID     *uint `gorm:"index" json:"barber_id"`

	CreatedAt time.Time `json:"created_at"`
}

// TargetID é o id favoritado, qualquer que seja o tipo.
func (f *Favorite) TargetID() uint {
	switch {
	case f.BarbershopID != nil:
		return *f.BarbershopID
	case f.BarberID != nil:
		return *f.BarberID
	}
	return 0
}
