package staff

import (
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// Request marca o pedido para a barbearia; um pedido anterior para outra
// barbearia é substituído.
func Request(u *models.User, barbershopID uint, now time.Time) {
	id := barbershopID
	u.LinkStatus = models.LinkPending
	u.RequestedShopID = &id
	u.LinkRequestedAt = &now
}

func Approve(u *models.User) {
	u.BarbershopID = u.RequestedShopID
	u.RequestedShopID = nil
	u.LinkStatus = models.LinkApproved
}

func Reject(u *models.User) {
	u.RequestedShopID = nil
	u.LinkStatus = models.LinkRejected
}

// Clear desfaz vínculo ou pedido.
func Clear(u *models.User) {
	u.BarbershopID = nil
	u.RequestedShopID = nil
	u.LinkRequestedAt = nil
	u.LinkStatus = models.LinkNone
}

// PendingFor diz se há pedido pendente do usuário para a barbearia.
func PendingFor(u *models.User, barbershopID uint) bool {
	return u.Link() == models.LinkPending && u.RequestedShopID != nil && *u.RequestedShopID == barbershopID
}
