package lock

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
)

func TestLocalLockerExclusive(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	tok, ok, err := l.Lock(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, _ = l.Lock(ctx, "k", time.Minute)
	assert.False(t, ok)

	// token errado não libera
	require.NoError(t, l.Unlock(ctx, "k", "other"))
	_, ok, _ = l.Lock(ctx, "k", time.Minute)
	assert.False(t, ok)

	require.NoError(t, l.Unlock(ctx, "k", tok))
	_, ok, _ = l.Lock(ctx, "k", time.Minute)
	assert.True(t, ok)
}

func TestLocalLockerExpires(t *testing.T) {
	l := NewLocalLocker()
	base := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	_, ok, _ := l.Lock(context.Background(), "k", time.Second)
	require.True(t, ok)

	l.now = func() time.Time { return base.Add(2 * time.Second) }
	_, ok, _ = l.Lock(context.Background(), "k", time.Second)
	assert.True(t, ok)
}

func TestGuardSerializes(t *testing.T) {
	g := NewGuard(NewLocalLocker(), time.Minute, 2*time.Second)

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := g.Barber(context.Background(), 1)
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestGuardBusyBecomesConflict(t *testing.T) {
	l := NewLocalLocker()
	g := NewGuard(l, time.Minute, 30*time.Millisecond)

	release, err := g.Barber(context.Background(), 1)
	require.NoError(t, err)
	defer release()

	_, err = g.Barber(context.Background(), 1)
	assert.Equal(t, httperr.KindConflict, httperr.KindOf(err))

	// outro barbeiro não é afetado
	other, err := g.Barber(context.Background(), 2)
	require.NoError(t, err)
	other()
}

func TestNilGuardIsNoop(t *testing.T) {
	var g *Guard
	release, err := g.Barber(context.Background(), 1)
	require.NoError(t, err)
	release()
}

func TestRedisLock(t *testing.T) {
	client, mock := redismock.NewClientMock()
	l := NewRedisLock(client)
	l.newToken = func() string { return "tok-1" }

	mock.ExpectSetNX("lock:barber:7", "tok-1", 10*time.Second).SetVal(true)
	mock.ExpectEval(unlockScript, []string{"lock:barber:7"}, "tok-1").SetVal(int64(1))

	tok, ok, err := l.Lock(context.Background(), BarberKey(7), 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", tok)

	require.NoError(t, l.Unlock(context.Background(), BarberKey(7), tok))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLockTaken(t *testing.T) {
	client, mock := redismock.NewClientMock()
	l := NewRedisLock(client)
	l.newToken = func() string { return "tok-2" }

	mock.ExpectSetNX("lock:barber:7", "tok-2", time.Second).SetVal(false)

	_, ok, err := l.Lock(context.Background(), BarberKey(7), time.Second)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLockError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	l := NewRedisLock(client)
	l.newToken = func() string { return "tok-3" }

	mock.ExpectSetNX("lock:barber:7", "tok-3", time.Second).SetErr(errors.New("connection refused"))

	_, err := Acquire(context.Background(), l, BarberKey(7), time.Second, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestReleaseFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	client, mock := redismock.NewClientMock()
	l := NewRedisLock(client)
	l.newToken = func() string { return "tok-4" }

	mock.ExpectSetNX("lock:barber:7", "tok-4", time.Second).SetVal(true)
	mock.ExpectEval(unlockScript, []string{"lock:barber:7"}, "tok-4").SetErr(errors.New("connection reset"))

	release, err := Acquire(context.Background(), l, BarberKey(7), time.Second, time.Second)
	require.NoError(t, err)
	release()

	assert.Contains(t, buf.String(), "lock release failed")
	assert.Contains(t, buf.String(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
