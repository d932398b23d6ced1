package queue

import (
	"sort"

	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// Before define a ordem FIFO: chegada, desempate pelo id.
func Before(a, b *models.QueueEntry) bool {
	if !a.ArrivedAt.Equal(b.ArrivedAt) {
		return a.ArrivedAt.Before(b.ArrivedAt)
	}
	return a.ID < b.ID
}

func SortFIFO(entries []models.QueueEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return Before(&entries[i], &entries[j])
	})
}

// AssignPositions ordena as entradas aguardando e numera a partir de 1.
func AssignPositions(waiting []models.QueueEntry) {
	SortFIFO(waiting)
	for i := range waiting {
		pos := i + 1
		waiting[i].Position = &pos
	}
}

// PositionOf devolve a posição de entryID entre as entradas aguardando (0 se ausente).
func PositionOf(waiting []models.QueueEntry, entryID uint) int {
	sorted := make([]models.QueueEntry, len(waiting))
	copy(sorted, waiting)
	SortFIFO(sorted)
	for i := range sorted {
		if sorted[i].ID == entryID {
			return i + 1
		}
	}
	return 0
}
