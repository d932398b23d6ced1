package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/lock"
	"github.com/BruksfildServices01/barber-queue/internal/metrics"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/payment"
	"github.com/BruksfildServices01/barber-queue/internal/timezone"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/access"
)

// Policy são as regras de agenda vindas da configuração.
type Policy struct {
	SlotGranularity time.Duration
	CancelWindow    time.Duration
}

type Deps struct {
	Repo     appointment.Repository
	Guard    *lock.Guard
	Audit    *audit.Dispatcher
	Payments payment.Gateway
	Policy   Policy
}

type base struct {
	Deps
	now func() time.Time
}

func newBase(d Deps) base {
	if d.Payments == nil {
		d.Payments = payment.Disabled{}
	}
	if d.Policy.SlotGranularity <= 0 {
		d.Policy.SlotGranularity = 30 * time.Minute
	}
	if d.Policy.CancelWindow <= 0 {
		d.Policy.CancelWindow = 2 * time.Hour
	}
	return base{Deps: d, now: time.Now}
}

func observe(operation string, err error) {
	metrics.AppointmentOp(operation, metrics.Result(err, httperr.KindOf(err) != ""))
}

func errAppointmentNotFound() error {
	return httperr.NotFoundErr("appointment_not_found", "Agendamento não encontrado.")
}

func errSlotTaken() error {
	return httperr.SlotConflict("slot_taken", "Horário indisponível, escolha outro.")
}

func (b *base) loadShop(ctx context.Context, shopID uint) (*models.Barbershop, *time.Location, error) {
	shop, err := b.Repo.GetBarbershopByID(ctx, shopID)
	if err != nil {
		return nil, nil, access.NotFound(err, "barbershop_not_found", "Barbearia não encontrada.")
	}
	return shop, timezone.Location(shop.Timezone), nil
}

func loadAppointment(ctx context.Context, repo appointment.Repository, id uint) (*models.Appointment, error) {
	ap, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, access.NotFound(err, "appointment_not_found", "Agendamento não encontrado.")
	}
	return ap, nil
}

// resolveWindow carrega o expediente do barbeiro no dia (ou o padrão da barbearia).
func (b *base) resolveWindow(
	ctx context.Context,
	barberID uint,
	day time.Time,
	shop *models.Barbershop,
) (appointment.Window, bool, error) {
	wh, err := b.Repo.GetWorkingHours(ctx, barberID, int(day.Weekday()))
	if errors.Is(err, domain.ErrNotFound) {
		wh, err = nil, nil
	}
	if err != nil {
		return appointment.Window{}, false, err
	}

	w, ok := appointment.ResolveWindow(day, wh, shop)
	return w, ok, nil
}

// withBarber serializa comandos de agenda do barbeiro (lock + linha travada).
func (b *base) withBarber(ctx context.Context, barberID uint, fn func(tx appointment.Repository) error) error {
	release, err := b.Guard.Barber(ctx, barberID)
	if err != nil {
		return err
	}
	defer release()

	return b.Repo.WithTx(ctx, func(tx appointment.Repository) error {
		if err := tx.LockBarber(ctx, barberID); err != nil {
			return err
		}
		return fn(tx)
	})
}

func (b *base) publish(actor domain.Actor, action string, ap *models.Appointment, meta map[string]any) {
	if meta == nil {
		meta = map[string]any{}
	}
	meta["barber_id"] = ap.BarberID
	meta["status"] = ap.Status
	meta["start_time"] = ap.StartTime

	customerID := ap.CustomerID
	b.Audit.Dispatch(audit.Event{
		BarbershopID: ap.BarbershopID,
		UserID:       &actor.UserID,
		CustomerID:   &customerID,
		Action:       action,
		Entity:       "appointment",
		EntityID:     &ap.ID,
		Metadata:     meta,
	})
}

// canSee: o cliente dono do agendamento ou quem administra o barbeiro.
func canSee(actor domain.Actor, ap *models.Appointment) bool {
	if actor.IsCustomer() {
		return ap.CustomerID == actor.UserID
	}
	return access.CanManage(actor, ap.BarbershopID, ap.BarberID)
}
