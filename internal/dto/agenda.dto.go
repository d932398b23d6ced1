package dto

import "time"

// AgendaItem é uma linha da agenda do barbeiro, já com o nome do cliente e os
// horários no fuso da barbearia.
type AgendaItem struct {
	ID        uint      `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Start     string    `json:"start"` // HH:MM local
	End       string    `json:"end"`
	Status    string    `json:"status"`

	CustomerID   uint   `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	ServiceName  string `json:"service_name"`
	Price        string `json:"price"`
	Notes        string `json:"notes,omitempty"`
}
