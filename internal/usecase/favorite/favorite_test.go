package favorite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainfav "github.com/BruksfildServices01/barber-queue/internal/domain/favorite"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/infra/memory"
	"github.com/BruksfildServices01/barber-queue/internal/infra/memory/memorytest"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

func setup(t *testing.T) (*memory.Store, memorytest.Fixture, *Service) {
	t.Helper()
	store := memory.NewStore()
	f := memorytest.Seed(store)
	return store, f, NewService(memory.NewFavoriteRepository(store))
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind(" shop ")
	require.NoError(t, err)
	assert.Equal(t, models.FavoriteShop, kind)

	kind, err = ParseKind("Barber")
	require.NoError(t, err)
	assert.Equal(t, models.FavoriteBarber, kind)

	kind, err = ParseKind("")
	require.NoError(t, err)
	assert.Empty(t, kind)

	_, err = ParseKind("service")
	assert.True(t, httperr.IsBusiness(err, "invalid_favorite_kind"))
}

func TestToggle(t *testing.T) {
	_, f, svc := setup(t)
	ctx := context.Background()
	shop := domainfav.Target{Kind: models.FavoriteShop, ID: f.Shop.ID}

	on, err := svc.Toggle(ctx, f.CustomerActor(), shop)
	require.NoError(t, err)
	assert.True(t, on)

	ok, err := svc.Check(ctx, f.CustomerActor(), shop)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := svc.Count(ctx, shop)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	on, err = svc.Toggle(ctx, f.CustomerActor(), shop)
	require.NoError(t, err)
	assert.False(t, on)

	ok, err = svc.Check(ctx, f.CustomerActor(), shop)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err = svc.Count(ctx, shop)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestToggleRejectsMissingTarget(t *testing.T) {
	_, f, svc := setup(t)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, f.CustomerActor(), domainfav.Target{Kind: models.FavoriteShop})
	assert.True(t, httperr.IsBusiness(err, "invalid_favorite"))

	_, err = svc.Toggle(ctx, f.CustomerActor(), domainfav.Target{Kind: models.FavoriteShop, ID: 999})
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))

	// cliente não é barbeiro
	_, err = svc.Toggle(ctx, f.CustomerActor(), domainfav.Target{Kind: models.FavoriteBarber, ID: f.Customer2.ID})
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))
}

func TestListSkipsInactiveShops(t *testing.T) {
	store, f, svc := setup(t)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, f.CustomerActor(), domainfav.Target{Kind: models.FavoriteShop, ID: f.Shop.ID})
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, f.CustomerActor(), domainfav.Target{Kind: models.FavoriteBarber, ID: f.Barber.ID})
	require.NoError(t, err)

	list, err := svc.List(ctx, f.CustomerActor(), "")
	require.NoError(t, err)
	require.Len(t, list, 2)

	barbers, err := svc.List(ctx, f.CustomerActor(), models.FavoriteBarber)
	require.NoError(t, err)
	require.Len(t, barbers, 1)
	assert.Equal(t, f.Barber.Name, barbers[0].Name)
	assert.Equal(t, f.Barber.ID, barbers[0].TargetID)

	// outro usuário não vê os favoritos de ana
	others, err := svc.List(ctx, f.Customer2Actor(), "")
	require.NoError(t, err)
	assert.Empty(t, others)

	closed := *f.Shop
	closed.Active = false
	store.AddShop(&closed)

	list, err = svc.List(ctx, f.CustomerActor(), "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.FavoriteBarber, list[0].Kind)
}
