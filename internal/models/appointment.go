package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarbershopID uint `gorm:"index;not null" json:"barbershop_id"`
	BarberID     uint `gorm:"index;not null" json:"barber_id"`
	CustomerID   uint `gorm:"index;not null;uniqueIndex:ux_appointments_customer_key,priority:1" json:"customer_id"`
	ServiceID    uint `json:"service_id"`

	ServiceName string          `gorm:"size:100" json:"service_name"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	DurationMin int             `json:"duration_min"`

	StartTime time.Time `gorm:"index;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status string `gorm:"size:25;index;not null" json:"status"`

	Notes        string `gorm:"size:255" json:"notes"`
	CancelReason string `gorm:"size:255" json:"cancel_reason"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CanceledAt  *time.Time `json:"canceled_at"`

	PaymentLink    string  `gorm:"size:500" json:"payment_link,omitempty"`
	IdempotencyKey *string `gorm:"size:100;uniqueIndex:ux_appointments_customer_key,priority:2" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
