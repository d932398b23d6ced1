package session

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
)

var now = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

func TestStateMachine(t *testing.T) {
	ws, err := New(1, 7, 1, decimal.NewFromInt(100), "abertura", now)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-10", ws.SessionDate)
	assert.Equal(t, string(StatusOpen), ws.Status)

	assert.Equal(t, httperr.KindInvalidState, httperr.KindOf(Resume(ws)))

	require.NoError(t, Pause(ws, now.Add(time.Hour)))
	assert.NotNil(t, ws.PausedAt)
	assert.Equal(t, httperr.KindInvalidState, httperr.KindOf(Pause(ws, now)))

	require.NoError(t, Resume(ws))
	assert.Nil(t, ws.PausedAt)

	require.NoError(t, Close(ws, decimal.NewFromInt(100), "", now.Add(8*time.Hour)))
	assert.Equal(t, string(StatusClosed), ws.Status)

	// CLOSED é terminal
	assert.Equal(t, httperr.KindInvalidState, httperr.KindOf(Pause(ws, now)))
	assert.Equal(t, httperr.KindInvalidState, httperr.KindOf(Resume(ws)))
	assert.True(t, httperr.IsBusiness(Close(ws, decimal.Zero, "", now), "session_already_closed"))
}

func TestCloseComputesVariance(t *testing.T) {
	ws, err := New(1, 7, 1, decimal.NewFromInt(100), "", now)
	require.NoError(t, err)

	RegisterSale(ws, decimal.RequireFromString("50.00"))
	RegisterSale(ws, decimal.RequireFromString("35.50"))
	assert.Equal(t, 2, ws.AttendanceCount)
	assert.True(t, ExpectedCash(ws).Equal(decimal.RequireFromString("185.50")))

	require.NoError(t, Close(ws, decimal.RequireFromString("180"), "faltou troco", now))
	require.True(t, ws.Variance.Valid)
	assert.True(t, ws.Variance.Decimal.Equal(decimal.RequireFromString("-5.50")), ws.Variance.Decimal.String())
	assert.Equal(t, "faltou troco", ws.Notes)
}

func TestNegativeAmountsRejected(t *testing.T) {
	_, err := New(1, 7, 1, decimal.NewFromInt(-1), "", now)
	assert.Equal(t, httperr.KindValidation, httperr.KindOf(err))

	ws, err := New(1, 7, 1, decimal.Zero, "", now)
	require.NoError(t, err)
	err = Close(ws, decimal.NewFromInt(-10), "", now)
	assert.Equal(t, httperr.KindValidation, httperr.KindOf(err))
	assert.Equal(t, string(StatusOpen), ws.Status)
}

func TestAppendNote(t *testing.T) {
	assert.Equal(t, "", AppendNote("", "  "))
	assert.Equal(t, "a", AppendNote("", "a"))
	assert.Equal(t, "a | b", AppendNote("a", "b"))
	assert.Equal(t, "a", AppendNote("a", ""))
}
