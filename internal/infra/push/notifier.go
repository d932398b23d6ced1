package push

import (
	"context"
	"fmt"

	pubnub "github.com/pubnub/go/v7"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	"github.com/BruksfildServices01/barber-queue/internal/config"
)

type publisher interface {
	Publish(channel string, message any) error
}

type pubnubPublisher struct {
	pn *pubnub.PubNub
}

func (p pubnubPublisher) Publish(channel string, message any) error {
	_, _, err := p.pn.Publish().
		Channel(channel).
		Message(message).
		Execute()
	return err
}

// Notifier empurra mudanças de estado para os apps, substituindo o polling:
// o painel da barbearia assina shop-<id> e o cliente assina user-<id>.
type Notifier struct {
	pub publisher
}

func NewPubNub(cfg config.PubNub) *Notifier {
	pnConfig := pubnub.NewConfigWithUserId(pubnub.UserId(cfg.UserID))
	pnConfig.PublishKey = cfg.PublishKey
	pnConfig.SubscribeKey = cfg.SubscribeKey
	pnConfig.SecretKey = cfg.SecretKey

	return &Notifier{pub: pubnubPublisher{pn: pubnub.NewPubNub(pnConfig)}}
}

func ShopChannel(barbershopID uint) string {
	return fmt.Sprintf("shop-%d", barbershopID)
}

func UserChannel(userID uint) string {
	return fmt.Sprintf("user-%d", userID)
}

func (n *Notifier) Name() string { return "pubnub" }

func (n *Notifier) Handle(_ context.Context, ev audit.Event) error {
	msg := map[string]any{
		"type":        ev.Action,
		"entity":      ev.Entity,
		"entity_id":   ev.EntityID,
		"occurred_at": ev.OccurredAt,
	}

	if err := n.pub.Publish(ShopChannel(ev.BarbershopID), msg); err != nil {
		return fmt.Errorf("push.Notifier: %w", err)
	}

	if ev.CustomerID != nil {
		if err := n.pub.Publish(UserChannel(*ev.CustomerID), msg); err != nil {
			return fmt.Errorf("push.Notifier: %w", err)
		}
	}
	return nil
}

var _ audit.Sink = (*Notifier)(nil)
