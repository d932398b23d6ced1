package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/barber-queue/internal/domain/queue"
)

// putScript grava o retrato só se a versão não mudou desde a leitura.
// KEYS[1] versão, KEYS[2] retrato; ARGV versão lida, retrato, TTL em ms.
const putScript = `
if (redis.call("GET", KEYS[1]) or "0") ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
return 1
`

// QueueCache guarda o retrato da fila por barbeiro no Redis com TTL curto.
type QueueCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewQueueCache(client redis.UniversalClient, ttl time.Duration) *QueueCache {
	return &QueueCache{client: client, ttl: ttl}
}

func queueKey(barberID uint) string {
	return fmt.Sprintf("queue:view:%d", barberID)
}

func versionKey(barberID uint) string {
	return fmt.Sprintf("queue:version:%d", barberID)
}

// Version devolve -1 se o Redis falhar; Put ignora essa versão.
func (c *QueueCache) Version(ctx context.Context, barberID uint) int64 {
	v, err := c.client.Get(ctx, versionKey(barberID)).Int64()
	switch {
	case err == redis.Nil:
		return 0
	case err != nil:
		log.Warn().Err(err).Uint("barber_id", barberID).Msg("queue cache version failed")
		return -1
	}
	return v
}

func (c *QueueCache) Get(ctx context.Context, barberID uint) (*queue.View, bool) {
	raw, err := c.client.Get(ctx, queueKey(barberID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Uint("barber_id", barberID).Msg("queue cache get failed")
		}
		return nil, false
	}

	var v queue.View
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return &v, true
}

func (c *QueueCache) Put(ctx context.Context, barberID uint, version int64, v *queue.View) {
	if version < 0 {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}

	err = c.client.Eval(ctx, putScript,
		[]string{versionKey(barberID), queueKey(barberID)},
		strconv.FormatInt(version, 10), string(raw), c.ttl.Milliseconds(),
	).Err()
	if err != nil {
		log.Warn().Err(err).Uint("barber_id", barberID).Msg("queue cache put failed")
	}
}

// Invalidate avança a versão antes de apagar o retrato.
func (c *QueueCache) Invalidate(ctx context.Context, barberID uint) {
	if err := c.client.Incr(ctx, versionKey(barberID)).Err(); err != nil {
		log.Warn().Err(err).Uint("barber_id", barberID).Msg("queue cache version bump failed")
	}
	if err := c.client.Del(ctx, queueKey(barberID)).Err(); err != nil {
		log.Warn().Err(err).Uint("barber_id", barberID).Msg("queue cache invalidate failed")
	}
}

// Noop não guarda nada; usado sem Redis.
type Noop struct{}

func (Noop) Version(context.Context, uint) int64           { return 0 }
func (Noop) Get(context.Context, uint) (*queue.View, bool) { return nil, false }
func (Noop) Put(context.Context, uint, int64, *queue.View) {}
func (Noop) Invalidate(context.Context, uint)              {}

var (
	_ queue.ViewCache = (*QueueCache)(nil)
	_ queue.ViewCache = Noop{}
)
