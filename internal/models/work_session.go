package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkSession é o caixa do dia de uma barbearia.
type WorkSession struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"index;not null" json:"barbershop_id"`

	SessionNumber int    `json:"session_number"`
	SessionDate   string `gorm:"size:10;index" json:"session_date"`
	OpenedByID    uint   `json:"opened_by_id"`

	Status string `gorm:"size:10;not null" json:"status"`

	OpeningFloat decimal.Decimal     `gorm:"type:numeric(10,2);not null" json:"opening_float"`
	ClosingFloat decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"closing_float"`
	Variance     decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"variance"`

	SalesTotal      decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"sales_total"`
	AttendanceCount int             `gorm:"not null;default:0" json:"attendance_count"`

	Notes string `gorm:"type:text" json:"notes"`

	OpenedAt time.Time  `json:"opened_at"`
	PausedAt *time.Time `json:"paused_at"`
	ClosedAt *time.Time `json:"closed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
