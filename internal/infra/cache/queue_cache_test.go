package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-queue/internal/domain/queue"
)

func TestQueueCachePutGet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewQueueCache(client, 5*time.Second)
	ctx := context.Background()

	v := &queue.View{BarberID: 3, Stats: queue.Stats{Waiting: 2}}
	raw, err := json.Marshal(v)
	require.NoError(t, err)

	mock.ExpectGet("queue:version:3").RedisNil()
	mock.ExpectEval(putScript, []string{"queue:version:3", "queue:view:3"}, "0", string(raw), int64(5000)).SetVal(int64(1))
	mock.ExpectGet("queue:view:3").SetVal(string(raw))
	mock.ExpectIncr("queue:version:3").SetVal(1)
	mock.ExpectDel("queue:view:3").SetVal(1)

	version := c.Version(ctx, 3)
	assert.Equal(t, int64(0), version)
	c.Put(ctx, 3, version, v)

	got, ok := c.Get(ctx, 3)
	require.True(t, ok)
	assert.Equal(t, 2, got.Stats.Waiting)

	c.Invalidate(ctx, 3)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueCacheVersionFailureSkipsPut(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewQueueCache(client, time.Second)
	ctx := context.Background()

	mock.ExpectGet("queue:version:4").SetErr(errors.New("connection refused"))

	version := c.Version(ctx, 4)
	assert.Equal(t, int64(-1), version)

	// nenhum comando esperado: Put com versão inválida não fala com o Redis
	c.Put(ctx, 4, version, &queue.View{BarberID: 4})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueCacheMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewQueueCache(client, time.Second)

	mock.ExpectGet("queue:view:9").RedisNil()

	_, ok := c.Get(context.Background(), 9)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
