package appointment

import "time"

type Slot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps compara intervalos semiabertos [aStart, aEnd) e [bStart, bEnd).
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// GenerateSlots percorre o expediente em passos de granularity. Cada slot dura
// duration e fica indisponível se sobrepõe almoço, algum intervalo ocupado ou
// começa antes de notBefore.
func GenerateSlots(
	w Window,
	duration time.Duration,
	granularity time.Duration,
	busy []Interval,
	notBefore time.Time,
) []Slot {
	slots := []Slot{}
	if duration <= 0 || granularity <= 0 {
		return slots
	}

	for cur := w.Start; !cur.Add(duration).After(w.End); cur = cur.Add(granularity) {
		end := cur.Add(duration)

		available := !cur.Before(notBefore) && !w.OverlapsLunch(cur, end)
		if available {
			for _, b := range busy {
				if Overlaps(cur, end, b.Start, b.End) {
					available = false
					break
				}
			}
		}

		slots = append(slots, Slot{
			Start:     cur.Format("15:04"),
			End:       end.Format("15:04"),
			Available: available,
		})
	}

	return slots
}
