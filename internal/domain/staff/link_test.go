package staff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/barber-queue/internal/models"
)

func TestLinkLifecycle(t *testing.T) {
	u := &models.User{Role: models.RoleBarber}
	assert.Equal(t, models.LinkNone, u.Link())

	Request(u, 7, time.Now())
	assert.True(t, PendingFor(u, 7))
	assert.False(t, PendingFor(u, 8))
	assert.Nil(t, u.BarbershopID)

	Approve(u)
	assert.Equal(t, models.LinkApproved, u.Link())
	assert.Equal(t, uint(7), u.ShopID())
	assert.Nil(t, u.RequestedShopID)

	Clear(u)
	assert.Equal(t, models.LinkNone, u.Link())
	assert.Zero(t, u.ShopID())
}

func TestRejectKeepsUserUnlinked(t *testing.T) {
	u := &models.User{Role: models.RoleBarber}
	Request(u, 7, time.Now())
	Reject(u)

	assert.Equal(t, models.LinkRejected, u.Link())
	assert.Nil(t, u.RequestedShopID)
	assert.Zero(t, u.ShopID())
}

func TestLegacyUsersWithShopCountAsApproved(t *testing.T) {
	shop := uint(3)
	u := &models.User{BarbershopID: &shop, Role: models.RoleBarber}
	assert.Equal(t, models.LinkApproved, u.Link())
}
