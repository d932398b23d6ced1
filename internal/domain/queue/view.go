package queue

import (
	"math"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type Stats struct {
	Waiting              int     `json:"waiting"`
	ServedToday          int     `json:"served_today"`
	AvgWaitMinutes       float64 `json:"avg_wait_minutes"`
	AvgServiceMinutes    float64 `json:"avg_service_minutes"`
	EstimatedWaitMinutes int     `json:"estimated_wait_minutes"`
}

// View é o retrato da fila de um barbeiro.
type View struct {
	BarberID  uint                `json:"barber_id"`
	InService *models.QueueEntry  `json:"in_service"`
	Waiting   []models.QueueEntry `json:"waiting"`
	Stats     Stats               `json:"stats"`
}

// BuildView monta a fila e as estatísticas. startedToday são as entradas
// que começaram a ser atendidas no dia (em atendimento ou concluídas).
func BuildView(
	barberID uint,
	inService *models.QueueEntry,
	waiting []models.QueueEntry,
	startedToday []models.QueueEntry,
	now time.Time,
) *View {
	if waiting == nil {
		waiting = []models.QueueEntry{}
	}
	AssignPositions(waiting)

	v := &View{
		BarberID:  barberID,
		InService: inService,
		Waiting:   waiting,
	}
	v.Stats = computeStats(inService, waiting, startedToday, now)
	return v
}

func computeStats(
	inService *models.QueueEntry,
	waiting []models.QueueEntry,
	startedToday []models.QueueEntry,
	now time.Time,
) Stats {
	st := Stats{Waiting: len(waiting)}

	var waitSum, serviceSum float64
	var waitN, serviceN int

	for _, e := range startedToday {
		if e.StartedAt != nil {
			waitSum += e.StartedAt.Sub(e.ArrivedAt).Minutes()
			waitN++
		}
		if Status(e.Status) == StatusDone && e.StartedAt != nil && e.EndedAt != nil {
			st.ServedToday++
			serviceSum += e.EndedAt.Sub(*e.StartedAt).Minutes()
			serviceN++
		}
	}

	if waitN > 0 {
		st.AvgWaitMinutes = round1(waitSum / float64(waitN))
	}
	if serviceN > 0 {
		st.AvgServiceMinutes = round1(serviceSum / float64(serviceN))
	}

	st.EstimatedWaitMinutes = EstimateWait(inService, waiting, now)
	return st
}

// EstimateWait soma o restante do atendimento atual com a duração de quem aguarda.
func EstimateWait(inService *models.QueueEntry, waiting []models.QueueEntry, now time.Time) int {
	total := 0

	if inService != nil && inService.StartedAt != nil {
		expectedEnd := inService.StartedAt.Add(time.Duration(inService.DurationMin) * time.Minute)
		if remaining := expectedEnd.Sub(now); remaining > 0 {
			total += int(math.Ceil(remaining.Minutes()))
		}
	}

	for _, e := range waiting {
		total += e.DurationMin
	}

	return total
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
