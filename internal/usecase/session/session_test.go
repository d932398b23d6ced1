package session

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	"github.com/BruksfildServices01/barber-queue/internal/audit/audittest"
	ledger "github.com/BruksfildServices01/barber-queue/internal/domain/session"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/infra/memory"
	"github.com/BruksfildServices01/barber-queue/internal/infra/memory/memorytest"
	"github.com/BruksfildServices01/barber-queue/internal/lock"
)

// 12:00 em São Paulo
var fixedNow = time.Date(2025, 1, 10, 15, 0, 0, 0, time.UTC)

type harness struct {
	f      memorytest.Fixture
	repo   *memory.SessionRepository
	rec    *audittest.Recorder
	events *audit.Dispatcher

	open   *OpenSession
	pause  *PauseSession
	resume *ResumeSession
	close  *CloseSession
	query  *Query
}

func setup(t *testing.T) *harness {
	t.Helper()

	store := memory.NewStore()
	h := &harness{
		f:    memorytest.Seed(store),
		repo: memory.NewSessionRepository(store),
		rec:  &audittest.Recorder{},
	}
	h.events = audit.NewDispatcher(h.rec)
	t.Cleanup(h.events.Close)

	guard := lock.NewGuard(lock.NewLocalLocker(), time.Second, time.Second)
	clock := func() time.Time { return fixedNow }

	h.open = NewOpenSession(h.repo, guard, h.events)
	h.open.now = clock
	h.pause = NewPauseSession(h.repo, guard, h.events)
	h.pause.now = clock
	h.resume = NewResumeSession(h.repo, guard, h.events)
	h.resume.now = clock
	h.close = NewCloseSession(h.repo, guard, h.events)
	h.close.now = clock
	h.query = NewQuery(h.repo)

	return h
}

func (h *harness) openWith(t *testing.T, amount int64) {
	t.Helper()
	_, err := h.open.Execute(context.Background(), h.f.OwnerActor(), OpenInput{
		BarbershopID: h.f.Shop.ID,
		OpeningFloat: decimal.NewFromInt(amount),
	})
	require.NoError(t, err)
}

func TestOpenSession(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	ws, err := h.open.Execute(ctx, h.f.OwnerActor(), OpenInput{
		BarbershopID: h.f.Shop.ID,
		OpeningFloat: decimal.NewFromInt(100),
		Note:         "troco do cofre",
	})
	require.NoError(t, err)
	assert.Equal(t, string(ledger.StatusOpen), ws.Status)
	assert.Equal(t, "2025-01-10", ws.SessionDate)
	assert.Equal(t, 1, ws.SessionNumber)
	assert.Equal(t, h.f.Owner.ID, ws.OpenedByID)

	_, err = h.open.Execute(ctx, h.f.BarberActor(), OpenInput{
		BarbershopID: h.f.Shop.ID,
		OpeningFloat: decimal.NewFromInt(100),
	})
	assert.True(t, httperr.IsBusiness(err, "session_already_open"))
	assert.Equal(t, httperr.KindConflict, httperr.KindOf(err))
}

func TestOpenAfterCloseNumbersSessions(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	h.openWith(t, 100)
	_, err := h.close.Execute(ctx, h.f.OwnerActor(), CloseInput{BarbershopID: h.f.Shop.ID, ClosingFloat: decimal.NewFromInt(100)})
	require.NoError(t, err)

	ws, err := h.open.Execute(ctx, h.f.OwnerActor(), OpenInput{BarbershopID: h.f.Shop.ID, OpeningFloat: decimal.Zero})
	require.NoError(t, err)
	assert.Equal(t, 2, ws.SessionNumber)

	list, err := h.query.ByDate(ctx, h.f.OwnerActor(), h.f.Shop.ID, "2025-01-10")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestOpenRejectsNegativeFloat(t *testing.T) {
	h := setup(t)

	_, err := h.open.Execute(context.Background(), h.f.OwnerActor(), OpenInput{
		BarbershopID: h.f.Shop.ID,
		OpeningFloat: decimal.NewFromInt(-5),
	})
	assert.Equal(t, httperr.KindValidation, httperr.KindOf(err))
}

func TestOpenOutsideScope(t *testing.T) {
	h := setup(t)

	_, err := h.open.Execute(context.Background(), h.f.CustomerActor(), OpenInput{BarbershopID: h.f.Shop.ID})
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))
}

func TestPauseWithoutSession(t *testing.T) {
	h := setup(t)

	_, err := h.pause.Execute(context.Background(), h.f.OwnerActor(), h.f.Shop.ID)
	assert.Equal(t, httperr.KindInvalidState, httperr.KindOf(err))
}

func TestPauseResume(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	h.openWith(t, 100)

	ws, err := h.pause.Execute(ctx, h.f.OwnerActor(), h.f.Shop.ID)
	require.NoError(t, err)
	assert.Equal(t, string(ledger.StatusPaused), ws.Status)

	_, err = h.pause.Execute(ctx, h.f.OwnerActor(), h.f.Shop.ID)
	assert.True(t, httperr.IsBusiness(err, "session_not_open"))

	ws, err = h.resume.Execute(ctx, h.f.OwnerActor(), h.f.Shop.ID)
	require.NoError(t, err)
	assert.Equal(t, string(ledger.StatusOpen), ws.Status)

	_, err = h.resume.Execute(ctx, h.f.OwnerActor(), h.f.Shop.ID)
	assert.True(t, httperr.IsBusiness(err, "session_not_paused"))
}

func TestCloseTwice(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	h.openWith(t, 100)

	in := CloseInput{BarbershopID: h.f.Shop.ID, ClosingFloat: decimal.NewFromInt(90), Note: "sangria"}

	ws, err := h.close.Execute(ctx, h.f.OwnerActor(), in)
	require.NoError(t, err)
	assert.Equal(t, string(ledger.StatusClosed), ws.Status)
	require.True(t, ws.Variance.Valid)
	assert.True(t, ws.Variance.Decimal.Equal(decimal.NewFromInt(-10)))

	_, err = h.close.Execute(ctx, h.f.OwnerActor(), in)
	assert.Equal(t, httperr.KindInvalidState, httperr.KindOf(err))

	// o estado gravado não mudou
	hist, err := h.query.History(ctx, h.f.OwnerActor(), h.f.Shop.ID, 0)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, string(ledger.StatusClosed), hist[0].Status)
	assert.True(t, hist[0].ClosingFloat.Decimal.Equal(decimal.NewFromInt(90)))

	active, err := h.query.Active(ctx, h.f.OwnerActor(), h.f.Shop.ID)
	require.NoError(t, err)
	assert.Nil(t, active)

	h.events.Close()
	assert.Equal(t, []string{"session.opened", "session.closed"}, h.rec.Actions())
}

func TestPublicStatus(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	st, err := h.query.Status(ctx, "navalha")
	require.NoError(t, err)
	assert.Equal(t, "CLOSED", st.Status)
	assert.Nil(t, st.OpenedAt)

	h.openWith(t, 0)
	_, err = h.pause.Execute(ctx, h.f.OwnerActor(), h.f.Shop.ID)
	require.NoError(t, err)

	st, err = h.query.Status(ctx, "navalha")
	require.NoError(t, err)
	assert.Equal(t, "PAUSED", st.Status)

	_, err = h.query.Status(ctx, "nao-existe")
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))
}

func TestByDateValidatesInput(t *testing.T) {
	h := setup(t)

	_, err := h.query.ByDate(context.Background(), h.f.OwnerActor(), h.f.Shop.ID, "10/01/2025")
	assert.Equal(t, httperr.KindValidation, httperr.KindOf(err))
}
