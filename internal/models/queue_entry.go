package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// QueueEntry é um cliente de encaixe (walk-in) na fila de um barbeiro.
type QueueEntry struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"index;not null" json:"barbershop_id"`
	BarberID     uint `gorm:"index;not null" json:"barber_id"`
	CustomerID   uint `gorm:"index;not null;uniqueIndex:ux_queue_entries_customer_key,priority:1" json:"customer_id"`
	ServiceID    uint `json:"service_id"`

	// cópia do serviço no momento da entrada
	ServiceName string          `gorm:"size:100" json:"service_name"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	DurationMin int             `json:"duration_min"`

	Status string `gorm:"size:15;index;not null" json:"status"`

	ArrivedAt time.Time  `gorm:"index;not null" json:"arrived_at"`
	StartedAt *time.Time `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`

	CancelReason string `gorm:"size:255" json:"cancel_reason"`
	Notes        string `gorm:"size:255" json:"notes"`

	WorkSessionID *uint `json:"work_session_id"`
	SalesOrphaned bool  `gorm:"default:false" json:"sales_orphaned"`

	// única por cliente
	IdempotencyKey *string `gorm:"size:100;uniqueIndex:ux_queue_entries_customer_key,priority:2" json:"-"`

	// derivada da ordem FIFO na leitura, nunca persistida
	Position *int `gorm:"-" json:"position,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
