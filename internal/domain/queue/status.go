package queue

import "github.com/BruksfildServices01/barber-queue/internal/httperr"

type Status string

const (
	StatusWaiting   Status = "WAITING"
	StatusInService Status = "IN_SERVICE"
	StatusDone      Status = "DONE"
	StatusCanceled  Status = "CANCELED"
	StatusNoShow    Status = "NO_SHOW"
)

// IsActive indica entrada ainda na fila (aguardando ou em atendimento).
func (s Status) IsActive() bool {
	return s == StatusWaiting || s == StatusInService
}

// TerminalStatuses são os estados finais, usados no histórico do cliente.
var TerminalStatuses = []string{string(StatusDone), string(StatusCanceled), string(StatusNoShow)}

func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusCanceled || s == StatusNoShow
}

// ===============================
// Transitions
// ===============================

func CanStart(current Status) error {
	if current != StatusWaiting {
		return httperr.InvalidState("entry_not_waiting", "Cliente não está aguardando.")
	}
	return nil
}

func CanFinish(current Status) error {
	if current != StatusInService {
		return httperr.InvalidState("entry_not_in_service", "Cliente não está em atendimento.")
	}
	return nil
}

func CanCancel(current Status) error {
	if !current.IsActive() {
		return httperr.InvalidState("entry_already_finished", "Entrada da fila já foi encerrada.")
	}
	return nil
}

func CanMarkNoShow(current Status) error {
	if current != StatusWaiting {
		return httperr.InvalidState("entry_not_waiting", "Só é possível marcar falta de quem está aguardando.")
	}
	return nil
}
