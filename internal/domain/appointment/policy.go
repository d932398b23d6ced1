package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
)

// CheckAdvance rejeita horários no passado ou antes da antecedência mínima.
func CheckAdvance(start, now time.Time, minAdvance time.Duration) error {
	if !start.After(now) {
		return httperr.Policy("start_in_past", "Horário já passou.")
	}
	if start.Before(now.Add(minAdvance)) {
		return httperr.Policy("too_soon", "Horário não respeita a antecedência mínima.")
	}
	return nil
}

// CheckCancelWindow aplica a janela de cancelamento do cliente: só com mais
// de `window` de antecedência. Barbeiro e barbearia não têm janela.
func CheckCancelWindow(by CanceledBy, start, now time.Time, window time.Duration) error {
	if by != ByCustomer {
		return nil
	}
	if start.Sub(now) <= window {
		return httperr.Policy("cancel_window_closed", "Cancelamento permitido apenas com antecedência.")
	}
	return nil
}
