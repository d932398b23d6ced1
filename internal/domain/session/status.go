package session

import "github.com/BruksfildServices01/barber-queue/internal/httperr"

// ===============================
// Session Status
// ===============================

type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusPaused Status = "PAUSED"
	StatusClosed Status = "CLOSED"
)

// ===============================
// Transitions
// ===============================

// OPEN ⇄ PAUSED, ambos → CLOSED (terminal).

func CanPause(current Status) error {
	if current != StatusOpen {
		return httperr.InvalidState("session_not_open", "O caixa não está aberto.")
	}
	return nil
}

func CanResume(current Status) error {
	if current != StatusPaused {
		return httperr.InvalidState("session_not_paused", "O caixa não está pausado.")
	}
	return nil
}

func CanClose(current Status) error {
	if current != StatusOpen && current != StatusPaused {
		return httperr.InvalidState("session_already_closed", "O caixa já foi fechado.")
	}
	return nil
}
