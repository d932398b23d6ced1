package appointment

import "github.com/BruksfildServices01/barber-queue/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending            Status = "PENDING"
	StatusConfirmed          Status = "CONFIRMED"
	StatusInProgress         Status = "IN_PROGRESS"
	StatusDone               Status = "DONE"
	StatusCanceledByCustomer Status = "CANCELED_BY_CUSTOMER"
	StatusCanceledByBarber   Status = "CANCELED_BY_BARBER"
	StatusCanceledByShop     Status = "CANCELED_BY_SHOP"
	StatusNoShow             Status = "NO_SHOW"
)

// BlockingStatuses ocupam a agenda do barbeiro; PENDING não bloqueia.
var BlockingStatuses = []string{string(StatusConfirmed), string(StatusInProgress)}

// IsFinal indica que o agendamento não muda mais de estado.
func (s Status) IsFinal() bool {
	switch s {
	case StatusDone, StatusCanceledByCustomer, StatusCanceledByBarber, StatusCanceledByShop, StatusNoShow:
		return true
	}
	return false
}

func (s Status) Blocks() bool {
	return s == StatusConfirmed || s == StatusInProgress
}

// CanceledBy identifica quem cancelou.
type CanceledBy string

const (
	ByCustomer CanceledBy = "customer"
	ByBarber   CanceledBy = "barber"
	ByShop     CanceledBy = "shop"
)

func (b CanceledBy) Status() (Status, error) {
	switch b {
	case ByCustomer:
		return StatusCanceledByCustomer, nil
	case ByBarber:
		return StatusCanceledByBarber, nil
	case ByShop:
		return StatusCanceledByShop, nil
	default:
		return "", httperr.Validation("invalid_canceled_by", "Origem do cancelamento inválida.")
	}
}

// ===============================
// Validations
// ===============================

func invalid(action string) error {
	return httperr.InvalidState("invalid_state", "Agendamento não pode ser "+action+".")
}

func CanConfirm(current Status) error {
	if current != StatusPending {
		return invalid("confirmado")
	}
	return nil
}

func CanStart(current Status) error {
	if current != StatusConfirmed {
		return invalid("iniciado")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusInProgress {
		return invalid("concluído")
	}
	return nil
}

func CanCancel(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return invalid("cancelado")
	}
	return nil
}

func CanMarkNoShow(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return invalid("marcado como falta")
	}
	return nil
}

// InitialStatus depende da política da barbearia.
func InitialStatus(autoConfirm bool) Status {
	if autoConfirm {
		return StatusConfirmed
	}
	return StatusPending
}
