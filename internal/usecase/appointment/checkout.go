package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/payment"
)

type Checkout struct{ base }

func NewCheckout(d Deps) *Checkout {
	return &Checkout{newBase(d)}
}

// Execute gera (uma vez) o link de pagamento do agendamento.
func (uc *Checkout) Execute(ctx context.Context, actor domain.Actor, id uint) (ap *models.Appointment, err error) {
	const op = "appointment.Checkout"
	defer func() { observe("checkout", err) }()

	ap, err = loadAppointment(ctx, uc.Repo, id)
	if err != nil {
		return nil, err
	}
	if !canSee(actor, ap) {
		return nil, errAppointmentNotFound()
	}

	if err := payable(ap); err != nil {
		return nil, err
	}
	if ap.PaymentLink != "" {
		return ap, nil
	}

	var payerEmail string
	if customer, err := uc.Repo.GetCustomer(ctx, ap.CustomerID); err == nil {
		payerEmail = customer.Email
	}

	co, err := uc.Payments.CreateCheckout(ctx, payment.CheckoutRequest{
		Reference:   fmt.Sprintf("appointment-%d", ap.ID),
		Title:       ap.ServiceName,
		Description: ap.StartTime.Format("02/01/2006 15:04"),
		Amount:      ap.Price,
		PayerEmail:  payerEmail,
	})
	if errors.Is(err, payment.ErrDisabled) {
		return nil, httperr.Policy("payments_disabled", "Pagamento online indisponível.")
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// o gateway roda fora do lock; a linha pode ter mudado enquanto isso
	err = uc.withBarber(ctx, ap.BarberID, func(tx appointment.Repository) error {
		current, err := loadAppointment(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := payable(current); err != nil {
			return err
		}
		if current.PaymentLink != "" {
			ap = current
			return nil
		}

		if err := tx.SetPaymentLink(ctx, current.ID, co.URL); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		current.PaymentLink = co.URL
		ap = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publish(actor, "appointment.checkout_created", ap, map[string]any{"checkout_id": co.ID})
	return ap, nil
}

func payable(ap *models.Appointment) error {
	st := appointment.Status(ap.Status)
	if st != appointment.StatusPending && st != appointment.StatusConfirmed {
		return httperr.InvalidState("invalid_state", "Agendamento não pode mais ser pago.")
	}
	return nil
}
