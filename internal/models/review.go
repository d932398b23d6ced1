package models

import "time"

const (
	ReviewShop        = "SHOP"
	ReviewBarber      = "BARBER"
	ReviewAppointment = "APPOINTMENT"
)

type Review struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Kind string `gorm:"size:20;not null" json:"kind"`

	BarbershopID uint       `gorm:"index;not null" json:"barbershop_id"`
	Barbershop   Barbershop `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	// preenchido em avaliações de barbeiro e de atendimento
	BarberID *uint `gorm:"index" json:"barber_id"`

	// no máximo uma avaliação por atendimento
	AppointmentID *uint `gorm:"uniqueIndex:ux_reviews_appointment" json:"appointment_id"`

	CustomerID uint `gorm:"index;not null" json:"customer_id"`
	Customer   User `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Rating    int    `gorm:"not null;check:ck_reviews_rating,rating BETWEEN 1 AND 5" json:"rating"`
	Comment   string `gorm:"size:1000" json:"comment"`
	Anonymous bool   `gorm:"default:false" json:"anonymous"`
	Visible   bool   `gorm:"default:true" json:"visible"`

	Reply     string     `gorm:"size:1000" json:"reply"`
	RepliedAt *time.Time `json:"replied_at"`
	RepliedBy *uint      `json:"replied_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
