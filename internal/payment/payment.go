package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/shopspring/decimal"
)

var ErrDisabled = errors.New("payment: gateway not configured")

type CheckoutRequest struct {
	Reference   string
	Title       string
	Description string
	Amount      decimal.Decimal
	PayerEmail  string
}

type Checkout struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Gateway cria links de pagamento.
type Gateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error)
}

type preferenceCreator interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

type MercadoPago struct {
	client          preferenceCreator
	notificationURL string
}

func NewMercadoPago(accessToken, notificationURL string) (*MercadoPago, error) {
	const op = "payment.NewMercadoPago"

	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &MercadoPago{
		client:          preference.NewClient(cfg),
		notificationURL: notificationURL,
	}, nil
}

func (m *MercadoPago) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	const op = "payment.MercadoPago.CreateCheckout"

	amount, _ := req.Amount.Round(2).Float64()

	request := preference.Request{
		Items: []preference.ItemRequest{
			{
				ID:          req.Reference,
				Title:       req.Title,
				Description: req.Description,
				Quantity:    1,
				UnitPrice:   amount,
				CurrencyID:  "BRL",
			},
		},
		ExternalReference: req.Reference,
		NotificationURL:   m.notificationURL,
	}
	if req.PayerEmail != "" {
		request.Payer = &preference.PayerRequest{Email: req.PayerEmail}
	}

	resp, err := m.client.Create(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Checkout{ID: resp.ID, URL: resp.InitPoint}, nil
}

// Disabled é usado quando não há token configurado.
type Disabled struct{}

func (Disabled) CreateCheckout(context.Context, CheckoutRequest) (*Checkout, error) {
	return nil, ErrDisabled
}

var (
	_ Gateway = (*MercadoPago)(nil)
	_ Gateway = Disabled{}
)
