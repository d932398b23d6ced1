package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/metrics"
)

// ErrBusy indica que a chave continuou travada até o fim da espera.
var ErrBusy = errors.New("lock busy")

// Locker é um lock por chave com expiração. Unlock só libera se o token bater.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Unlock(ctx context.Context, key, token string) error
}

const retryEvery = 25 * time.Millisecond

// Acquire tenta travar key até wait; devolve a função de liberação.
func Acquire(
	ctx context.Context,
	l Locker,
	key string,
	ttl time.Duration,
	wait time.Duration,
) (func(), error) {
	const op = "lock.Acquire"

	deadline := time.Now().Add(wait)
	for {
		token, ok, err := l.Lock(ctx, key, ttl)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if ok {
			return func() {
				// contexto próprio: a liberação não pode morrer com o request
				uctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				if err := l.Unlock(uctx, key, token); err != nil {
					// o TTL libera a chave de qualquer forma
					log.Warn().Err(err).Str("key", key).Msg("lock release failed")
					metrics.LockReleaseFailed()
				}
			}, nil
		}

		if !time.Now().Before(deadline) {
			return nil, ErrBusy
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(retryEvery):
		}
	}
}

// Guard serializa comandos por barbeiro.
type Guard struct {
	locker Locker
	ttl    time.Duration
	wait   time.Duration
}

func NewGuard(l Locker, ttl, wait time.Duration) *Guard {
	return &Guard{locker: l, ttl: ttl, wait: wait}
}

func BarberKey(barberID uint) string {
	return fmt.Sprintf("barber:%d", barberID)
}

func ShopKey(barbershopID uint) string {
	return fmt.Sprintf("shop:%d", barbershopID)
}

func (g *Guard) Barber(ctx context.Context, barberID uint) (func(), error) {
	return g.acquire(ctx, BarberKey(barberID))
}

func (g *Guard) Shop(ctx context.Context, barbershopID uint) (func(), error) {
	return g.acquire(ctx, ShopKey(barbershopID))
}

func (g *Guard) acquire(ctx context.Context, key string) (func(), error) {
	if g == nil || g.locker == nil {
		return func() {}, nil
	}

	release, err := Acquire(ctx, g.locker, key, g.ttl, g.wait)
	if errors.Is(err, ErrBusy) {
		return nil, httperr.Conflict("resource_busy", "Outra operação está em andamento, tente novamente.")
	}
	return release, err
}
