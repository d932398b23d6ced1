package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// Window é o expediente de um barbeiro em um dia concreto.
type Window struct {
	Start      time.Time
	End        time.Time
	LunchStart time.Time
	LunchEnd   time.Time
	HasLunch   bool
}

func atHM(day time.Time, hm string) (time.Time, bool) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), true
}

// ResolveWindow usa o expediente do barbeiro para o dia; sem cadastro, cai no
// horário padrão da barbearia. ok=false quando o barbeiro não atende no dia.
func ResolveWindow(day time.Time, wh *models.WorkingHours, shop *models.Barbershop) (Window, bool) {
	opens, closes := shop.OpensAt, shop.ClosesAt
	if opens == "" {
		opens = "08:00"
	}
	if closes == "" {
		closes = "20:00"
	}

	var lunchStart, lunchEnd string
	if wh != nil {
		if !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
			return Window{}, false
		}
		opens, closes = wh.StartTime, wh.EndTime
		lunchStart, lunchEnd = wh.LunchStart, wh.LunchEnd
	}

	start, ok1 := atHM(day, opens)
	end, ok2 := atHM(day, closes)
	if !ok1 || !ok2 || !end.After(start) {
		return Window{}, false
	}

	w := Window{Start: start, End: end}
	if ls, ok := atHM(day, lunchStart); ok {
		if le, ok := atHM(day, lunchEnd); ok && le.After(ls) {
			w.LunchStart, w.LunchEnd, w.HasLunch = ls, le, true
		}
	}
	return w, true
}

func (w Window) OverlapsLunch(start, end time.Time) bool {
	return w.HasLunch && Overlaps(start, end, w.LunchStart, w.LunchEnd)
}

// Check valida [start, end) contra o expediente e o almoço.
func (w Window) Check(start, end time.Time) error {
	if start.Before(w.Start) || end.After(w.End) {
		return httperr.Policy("outside_working_hours", "Fora do horário de atendimento.")
	}
	if w.OverlapsLunch(start, end) {
		return httperr.Policy("lunch_break", "Horário coincide com o almoço.")
	}
	return nil
}

// ValidRange confere "HH:MM" bem formados com end depois de start.
func ValidRange(start, end string) bool {
	day := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	s, ok1 := atHM(day, start)
	e, ok2 := atHM(day, end)
	return ok1 && ok2 && e.After(s)
}
