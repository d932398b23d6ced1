package queue

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

var t0 = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

func entry(id uint, arrived time.Time, duration int) models.QueueEntry {
	return models.QueueEntry{
		ID:          id,
		BarberID:    1,
		Status:      string(StatusWaiting),
		ArrivedAt:   arrived,
		DurationMin: duration,
		Price:       decimal.NewFromInt(50),
	}
}

func TestTransitions(t *testing.T) {
	e := entry(1, t0, 30)

	require.NoError(t, Start(&e, t0.Add(time.Minute)))
	assert.Equal(t, string(StatusInService), e.Status)
	assert.Equal(t, httperr.KindInvalidState, httperr.KindOf(Start(&e, t0)))
	assert.Equal(t, httperr.KindInvalidState, httperr.KindOf(MarkNoShow(&e, t0)))

	require.NoError(t, Finish(&e, t0.Add(30*time.Minute)))
	assert.Equal(t, string(StatusDone), e.Status)

	// terminal
	assert.Error(t, Cancel(&e, "", t0))
	assert.Error(t, Finish(&e, t0))
}

func TestCancelFromWaitingAndInService(t *testing.T) {
	w := entry(1, t0, 30)
	require.NoError(t, Cancel(&w, " desistiu ", t0))
	assert.Equal(t, "desistiu", w.CancelReason)

	s := entry(2, t0, 30)
	require.NoError(t, Start(&s, t0))
	require.NoError(t, Cancel(&s, "", t0))
	assert.Equal(t, string(StatusCanceled), s.Status)
}

func TestNoShowOnlyFromWaiting(t *testing.T) {
	e := entry(1, t0, 30)
	require.NoError(t, MarkNoShow(&e, t0))
	assert.Equal(t, string(StatusNoShow), e.Status)
	assert.True(t, Status(e.Status).IsTerminal())
}

func TestFIFOOrderingWithIDTieBreak(t *testing.T) {
	entries := []models.QueueEntry{
		entry(3, t0.Add(2*time.Minute), 30),
		entry(2, t0, 30),
		entry(1, t0, 30),
	}

	AssignPositions(entries)

	assert.Equal(t, uint(1), entries[0].ID)
	assert.Equal(t, uint(2), entries[1].ID)
	assert.Equal(t, uint(3), entries[2].ID)
	assert.Equal(t, 1, *entries[0].Position)
	assert.Equal(t, 3, *entries[2].Position)

	assert.Equal(t, 2, PositionOf(entries, 2))
	assert.Equal(t, 0, PositionOf(entries, 99))
}

func TestBuildViewStats(t *testing.T) {
	now := t0.Add(2 * time.Hour)

	done := entry(10, t0, 30)
	started := t0.Add(10 * time.Minute)
	ended := started.Add(20 * time.Minute)
	done.StartedAt, done.EndedAt = &started, &ended
	done.Status = string(StatusDone)

	current := entry(11, t0.Add(time.Hour), 40)
	curStart := now.Add(-10 * time.Minute)
	current.StartedAt = &curStart
	current.Status = string(StatusInService)

	waiting := []models.QueueEntry{entry(13, now, 15), entry(12, now.Add(-time.Minute), 30)}

	v := BuildView(1, &current, waiting, []models.QueueEntry{done, current}, now)

	assert.Equal(t, uint(12), v.Waiting[0].ID)
	assert.Equal(t, 2, v.Stats.Waiting)
	assert.Equal(t, 1, v.Stats.ServedToday)
	// espera: 10min e 50min
	assert.Equal(t, 30.0, v.Stats.AvgWaitMinutes)
	assert.Equal(t, 20.0, v.Stats.AvgServiceMinutes)
	// 30 restantes do atual + 30 + 15
	assert.Equal(t, 75, v.Stats.EstimatedWaitMinutes)
}

func TestBuildViewEmpty(t *testing.T) {
	v := BuildView(1, nil, nil, nil, t0)
	assert.NotNil(t, v.Waiting)
	assert.Empty(t, v.Waiting)
	assert.Zero(t, v.Stats.EstimatedWaitMinutes)
}
