package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	"github.com/BruksfildServices01/barber-queue/internal/audit/audittest"
	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/queue"
	ledger "github.com/BruksfildServices01/barber-queue/internal/domain/session"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/infra/memory"
	"github.com/BruksfildServices01/barber-queue/internal/infra/memory/memorytest"
	"github.com/BruksfildServices01/barber-queue/internal/lock"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// clock avança um minuto a cada leitura para as chegadas ficarem ordenadas.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Minute)
	return c.t
}

type spyCache struct {
	mu          sync.Mutex
	invalidated []uint
}

func (s *spyCache) Version(context.Context, uint) int64           { return 0 }
func (s *spyCache) Get(context.Context, uint) (*queue.View, bool) { return nil, false }
func (s *spyCache) Put(context.Context, uint, int64, *queue.View) {}
func (s *spyCache) Invalidate(_ context.Context, barberID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated = append(s.invalidated, barberID)
}

type harness struct {
	f        memorytest.Fixture
	store    *memory.Store
	repo     *memory.QueueRepository
	sessions *memory.SessionRepository
	rec      *audittest.Recorder
	events   *audit.Dispatcher
	cache    *spyCache

	enqueue   *Enqueue
	startNext *StartNext
	startOne  *StartSpecific
	finish    *Finish
	cancel    *Cancel
	noShow    *MarkNoShow
	query     *Query
}

func setup(t *testing.T) *harness {
	t.Helper()

	store := memory.NewStore()
	h := &harness{
		f:        memorytest.Seed(store),
		store:    store,
		repo:     memory.NewQueueRepository(store),
		sessions: memory.NewSessionRepository(store),
		rec:      &audittest.Recorder{},
		cache:    &spyCache{},
	}
	h.events = audit.NewDispatcher(h.rec)
	t.Cleanup(h.events.Close)

	d := Deps{
		Repo:  h.repo,
		Guard: lock.NewGuard(lock.NewLocalLocker(), 5*time.Second, 2*time.Second),
		Cache: h.cache,
		Audit: h.events,
	}
	clk := &clock{t: time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)}

	h.enqueue = NewEnqueue(d)
	h.startNext = NewStartNext(d)
	h.startOne = NewStartSpecific(d)
	h.finish = NewFinish(d)
	h.cancel = NewCancel(d)
	h.noShow = NewMarkNoShow(d)
	h.query = NewQuery(d)
	for _, b := range []*base{
		&h.enqueue.base, &h.startNext.base, &h.startOne.base, &h.finish.base,
		&h.cancel.base, &h.noShow.base, &h.query.base,
	} {
		b.now = clk.Now
	}

	return h
}

func (h *harness) openSession(t *testing.T, opening int64) *models.WorkSession {
	t.Helper()
	ws, err := ledger.New(h.f.Shop.ID, h.f.Owner.ID, 1, decimal.NewFromInt(opening), "", time.Date(2025, 1, 10, 11, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, h.sessions.Create(context.Background(), ws))
	return ws
}

func (h *harness) add(t *testing.T, customer *models.User) *models.QueueEntry {
	t.Helper()
	e, err := h.enqueue.Execute(context.Background(), h.f.OwnerActor(), EnqueueInput{
		BarberID:   h.f.Barber.ID,
		CustomerID: customer.ID,
		ServiceID:  h.f.Service.ID,
	})
	require.NoError(t, err)
	return e
}

func (h *harness) activeSession(t *testing.T) *models.WorkSession {
	t.Helper()
	ws, err := h.sessions.FindActive(context.Background(), h.f.Shop.ID)
	require.NoError(t, err)
	return ws
}

func TestScenarioA(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	h.openSession(t, 100)

	first := h.add(t, h.f.Customer)
	second := h.add(t, h.f.Customer2)
	require.NotNil(t, first.Position)
	require.NotNil(t, second.Position)
	assert.Equal(t, 1, *first.Position)
	assert.Equal(t, 2, *second.Position)

	started, err := h.startNext.Execute(ctx, h.f.BarberActor(), h.f.Barber.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, started.ID)
	assert.Equal(t, string(queue.StatusInService), started.Status)
	assert.NotNil(t, started.StartedAt)

	done, err := h.finish.Execute(ctx, h.f.BarberActor(), h.f.Barber.ID)
	require.NoError(t, err)
	assert.Equal(t, string(queue.StatusDone), done.Status)
	assert.NotNil(t, done.EndedAt)
	assert.False(t, done.SalesOrphaned)
	require.NotNil(t, done.WorkSessionID)

	ws := h.activeSession(t)
	assert.True(t, ws.SalesTotal.Equal(decimal.NewFromInt(50)), ws.SalesTotal.String())
	assert.Equal(t, 1, ws.AttendanceCount)
	assert.Equal(t, ws.ID, *done.WorkSessionID)

	waiting, err := h.repo.ListWaiting(ctx, h.f.Barber.ID)
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	assert.Equal(t, second.ID, waiting[0].ID)

	h.events.Close()
	assert.Equal(t,
		[]string{"queue.enqueued", "queue.enqueued", "queue.started", "queue.finished"},
		h.rec.Actions())
	for _, ev := range h.rec.Events() {
		require.NotNil(t, ev.CustomerID)
	}
}

func TestScenarioEFinishWithoutService(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	h.openSession(t, 100)
	h.add(t, h.f.Customer)

	_, err := h.finish.Execute(ctx, h.f.BarberActor(), h.f.Barber.ID)
	assert.True(t, httperr.IsBusiness(err, "no_entry_in_service"))
	assert.Equal(t, httperr.KindInvalidState, httperr.KindOf(err))

	ws := h.activeSession(t)
	assert.True(t, ws.SalesTotal.IsZero())
	assert.Equal(t, 0, ws.AttendanceCount)

	waiting, err := h.repo.ListWaiting(ctx, h.f.Barber.ID)
	require.NoError(t, err)
	assert.Len(t, waiting, 1)
}

func TestFinishWithoutSessionOrphansSale(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	h.add(t, h.f.Customer)

	_, err := h.startNext.Execute(ctx, h.f.BarberActor(), h.f.Barber.ID)
	require.NoError(t, err)

	done, err := h.finish.Execute(ctx, h.f.BarberActor(), h.f.Barber.ID)
	require.NoError(t, err)
	assert.Equal(t, string(queue.StatusDone), done.Status)
	assert.True(t, done.SalesOrphaned)
	assert.Nil(t, done.WorkSessionID)
}

func TestFinishCreditsPausedSession(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	ws := h.openSession(t, 0)
	require.NoError(t, ledger.Pause(ws, time.Now()))
	require.NoError(t, h.sessions.Save(ctx, ws))

	h.add(t, h.f.Customer)
	_, err := h.startNext.Execute(ctx, h.f.BarberActor(), h.f.Barber.ID)
	require.NoError(t, err)
	_, err = h.finish.Execute(ctx, h.f.BarberActor(), h.f.Barber.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, h.activeSession(t).AttendanceCount)
}

func TestStartNextIsFIFOUnlessStartSpecific(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	e1 := h.add(t, h.f.Customer)
	e2 := h.add(t, h.f.Customer2)

	// VIP: e2 passa na frente
	started, err := h.startOne.Execute(ctx, h.f.BarberActor(), e2.ID)
	require.NoError(t, err)
	assert.Equal(t, e2.ID, started.ID)

	_, err = h.startNext.Execute(ctx, h.f.BarberActor(), h.f.Barber.ID)
	assert.True(t, httperr.IsBusiness(err, "barber_busy"))

	_, err = h.startOne.Execute(ctx, h.f.BarberActor(), e1.ID)
	assert.True(t, httperr.IsBusiness(err, "barber_busy"))

	_, err = h.finish.Execute(ctx, h.f.BarberActor(), h.f.Barber.ID)
	require.NoError(t, err)

	started, err = h.startNext.Execute(ctx, h.f.BarberActor(), h.f.Barber.ID)
	require.NoError(t, err)
	assert.Equal(t, e1.ID, started.ID)
}

func TestStartNextEmptyQueue(t *testing.T) {
	h := setup(t)

	_, err := h.startNext.Execute(context.Background(), h.f.BarberActor(), h.f.Barber.ID)
	assert.True(t, httperr.IsBusiness(err, "queue_empty"))
}

func TestConcurrentStartNext(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	h.add(t, h.f.Customer)
	h.add(t, h.f.Customer2)

	var ok int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := h.startNext.Execute(ctx, h.f.BarberActor(), h.f.Barber.ID); err == nil {
				atomic.AddInt32(&ok, 1)
			} else {
				assert.Equal(t, httperr.KindConflict, httperr.KindOf(err))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok)

	inService, err := h.repo.FindInService(ctx, h.f.Barber.ID)
	require.NoError(t, err)
	assert.NotNil(t, inService)

	waiting, err := h.repo.ListWaiting(ctx, h.f.Barber.ID)
	require.NoError(t, err)
	assert.Len(t, waiting, 1)
}

func TestEnqueueIdempotencyKey(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	in := EnqueueInput{BarberID: h.f.Barber.ID, ServiceID: h.f.Service.ID, IdempotencyKey: "req-1"}

	a, err := h.enqueue.Execute(ctx, h.f.CustomerActor(), in)
	require.NoError(t, err)
	b, err := h.enqueue.Execute(ctx, h.f.CustomerActor(), in)
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, h.f.Customer.ID, a.CustomerID)

	// sem chave, a segunda tentativa esbarra na regra de uma fila por cliente
	_, err = h.enqueue.Execute(ctx, h.f.CustomerActor(), EnqueueInput{BarberID: h.f.Barber2.ID, ServiceID: h.f.Service.ID})
	assert.True(t, httperr.IsBusiness(err, "customer_already_in_queue"))

	h.events.Close()
	assert.Equal(t, []string{"queue.enqueued"}, h.rec.Actions())
}

func TestEnqueueIdempotencyKeyIsPerCustomer(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	first, err := h.enqueue.Execute(ctx, h.f.CustomerActor(), EnqueueInput{
		BarberID: h.f.Barber.ID, ServiceID: h.f.Service.ID, IdempotencyKey: "k",
	})
	require.NoError(t, err)

	second, err := h.enqueue.Execute(ctx, h.f.Customer2Actor(), EnqueueInput{
		BarberID: h.f.Barber.ID, ServiceID: h.f.Service.ID, IdempotencyKey: "k",
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, h.f.Customer2.ID, second.CustomerID)
	require.NotNil(t, second.Position)
	assert.Equal(t, 2, *second.Position)
}

// a regra de uma fila por cliente também vale no armazenamento, mesmo
// para gravações que não passaram pelo lock do barbeiro
func TestStoreRejectsSecondActiveEntryForCustomer(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	h.add(t, h.f.Customer)

	e := queue.NewEntry(h.f.Barber2, h.f.Customer.ID, h.f.Service, "", time.Date(2025, 1, 10, 13, 0, 0, 0, time.UTC))
	err := h.repo.Create(ctx, e)
	assert.True(t, httperr.IsBusiness(err, "customer_already_in_queue"))
}

func TestEnqueueValidation(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	_, err := h.enqueue.Execute(ctx, h.f.OwnerActor(), EnqueueInput{BarberID: h.f.Barber.ID, ServiceID: h.f.Service.ID})
	assert.True(t, httperr.IsBusiness(err, "missing_customer_id"))

	_, err = h.enqueue.Execute(ctx, h.f.CustomerActor(), EnqueueInput{BarberID: h.f.Barber.ID, ServiceID: 999})
	assert.True(t, httperr.IsBusiness(err, "service_not_found"))

	_, err = h.enqueue.Execute(ctx, h.f.CustomerActor(), EnqueueInput{BarberID: h.f.Customer2.ID, ServiceID: h.f.Service.ID})
	assert.True(t, httperr.IsBusiness(err, "barber_not_found"))
}

func TestCancelAndNoShow(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	h.openSession(t, 0)

	e1 := h.add(t, h.f.Customer)
	e2 := h.add(t, h.f.Customer2)

	// outro cliente não enxerga a entrada
	_, err := h.cancel.Execute(ctx, h.f.Customer2Actor(), e1.ID, "")
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))

	// outro barbeiro também não
	_, err = h.noShow.Execute(ctx, h.f.Barber2Actor(), e2.ID)
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))

	canceled, err := h.cancel.Execute(ctx, h.f.CustomerActor(), e1.ID, "  desisti ")
	require.NoError(t, err)
	assert.Equal(t, string(queue.StatusCanceled), canceled.Status)
	assert.Equal(t, "desisti", canceled.CancelReason)

	_, err = h.cancel.Execute(ctx, h.f.CustomerActor(), e1.ID, "")
	assert.True(t, httperr.IsBusiness(err, "entry_already_finished"))

	_, err = h.startNext.Execute(ctx, h.f.BarberActor(), h.f.Barber.ID)
	require.NoError(t, err)

	// falta só de quem aguarda
	_, err = h.noShow.Execute(ctx, h.f.BarberActor(), e2.ID)
	assert.True(t, httperr.IsBusiness(err, "entry_not_waiting"))

	// cancelar em atendimento libera o barbeiro e não mexe no caixa
	_, err = h.cancel.Execute(ctx, h.f.BarberActor(), e2.ID, "")
	require.NoError(t, err)
	_, err = h.repo.FindInService(ctx, h.f.Barber.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, h.activeSession(t).SalesTotal.IsZero())

	e3 := h.add(t, h.f.Customer)
	marked, err := h.noShow.Execute(ctx, h.f.OwnerActor(), e3.ID)
	require.NoError(t, err)
	assert.Equal(t, string(queue.StatusNoShow), marked.Status)

	h.cache.mu.Lock()
	defer h.cache.mu.Unlock()
	assert.NotEmpty(t, h.cache.invalidated)
	for _, id := range h.cache.invalidated {
		assert.Equal(t, h.f.Barber.ID, id)
	}
}

func TestQueueViewAndMyEntry(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	e1 := h.add(t, h.f.Customer)
	h.add(t, h.f.Customer2)

	_, err := h.startNext.Execute(ctx, h.f.BarberActor(), h.f.Barber.ID)
	require.NoError(t, err)

	v, err := h.query.ForBarber(ctx, h.f.CustomerActor(), h.f.Barber.ID)
	require.NoError(t, err)
	require.NotNil(t, v.InService)
	assert.Equal(t, e1.ID, v.InService.ID)
	require.Len(t, v.Waiting, 1)
	assert.Equal(t, 1, *v.Waiting[0].Position)
	assert.Equal(t, 1, v.Stats.Waiting)
	assert.Positive(t, v.Stats.EstimatedWaitMinutes)

	mine, err := h.query.MyEntry(ctx, h.f.Customer2Actor())
	require.NoError(t, err)
	require.NotNil(t, mine)
	require.NotNil(t, mine.Position)
	assert.Equal(t, 1, *mine.Position)

	mine, err = h.query.MyEntry(ctx, h.f.CustomerActor())
	require.NoError(t, err)
	require.NotNil(t, mine)
	assert.Nil(t, mine.Position)

	day, err := h.query.ShopDay(ctx, h.f.OwnerActor(), "2025-01-10")
	require.NoError(t, err)
	assert.Len(t, day, 2)

	_, err = h.query.ShopDay(ctx, h.f.OwnerActor(), "ontem")
	assert.Equal(t, httperr.KindValidation, httperr.KindOf(err))
}

// versionedCache imita o QueueCache: Put só vale se a versão não mudou.
type versionedCache struct {
	mu       sync.Mutex
	views    map[uint]*queue.View
	versions map[uint]int64
}

func newVersionedCache() *versionedCache {
	return &versionedCache{views: map[uint]*queue.View{}, versions: map[uint]int64{}}
}

func (c *versionedCache) Version(_ context.Context, barberID uint) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[barberID]
}

func (c *versionedCache) Get(_ context.Context, barberID uint) (*queue.View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.views[barberID]
	return v, ok
}

func (c *versionedCache) Put(_ context.Context, barberID uint, version int64, v *queue.View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[barberID] == version {
		c.views[barberID] = v
	}
}

func (c *versionedCache) Invalidate(_ context.Context, barberID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[barberID]++
	delete(c.views, barberID)
}

// slowRepo executa duringRead no meio da montagem do retrato.
type slowRepo struct {
	*memory.QueueRepository
	duringRead func()
}

func (r *slowRepo) ListWaiting(ctx context.Context, barberID uint) ([]models.QueueEntry, error) {
	out, err := r.QueueRepository.ListWaiting(ctx, barberID)
	if r.duringRead != nil {
		r.duringRead()
		r.duringRead = nil
	}
	return out, err
}

func TestQueueViewReadDuringMutationIsNotCached(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	h.add(t, h.f.Customer)

	c := newVersionedCache()
	repo := &slowRepo{QueueRepository: h.repo}
	q := NewQuery(Deps{Repo: repo, Cache: c})

	// outra requisição grava e invalida enquanto o retrato é montado
	repo.duringRead = func() {
		h.add(t, h.f.Customer2)
		c.Invalidate(ctx, h.f.Barber.ID)
	}

	stale, err := q.ForBarber(ctx, h.f.OwnerActor(), h.f.Barber.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stale.Stats.Waiting)

	_, cached := c.Get(ctx, h.f.Barber.ID)
	assert.False(t, cached)

	fresh, err := q.ForBarber(ctx, h.f.OwnerActor(), h.f.Barber.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.Stats.Waiting)

	_, cached = c.Get(ctx, h.f.Barber.ID)
	assert.True(t, cached)
}

func TestHistoryListsOnlyEndedEntries(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	first := h.add(t, h.f.Customer)
	_, err := h.startNext.Execute(ctx, h.f.BarberActor(), h.f.Barber.ID)
	require.NoError(t, err)
	_, err = h.finish.Execute(ctx, h.f.BarberActor(), h.f.Barber.ID)
	require.NoError(t, err)

	// volta para a fila; a entrada em espera não entra no histórico
	h.add(t, h.f.Customer)

	list, err := h.query.History(ctx, h.f.CustomerActor(), 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, string(queue.StatusDone), list[0].Status)

	others, err := h.query.History(ctx, h.f.Customer2Actor(), 0)
	require.NoError(t, err)
	assert.Empty(t, others)

	_, err = h.query.History(ctx, h.f.BarberActor(), 0)
	assert.True(t, httperr.IsBusiness(err, "customer_not_found"))
}
