package review

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	"github.com/BruksfildServices01/barber-queue/internal/audit/audittest"
	"github.com/BruksfildServices01/barber-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-queue/internal/domain/review"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/infra/memory"
	"github.com/BruksfildServices01/barber-queue/internal/infra/memory/memorytest"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

var fixedNow = time.Date(2025, 1, 10, 15, 0, 0, 0, time.UTC)

type harness struct {
	f            memorytest.Fixture
	appointments *memory.AppointmentRepository
	rec          *audittest.Recorder
	events       *audit.Dispatcher

	create   *Create
	reply    *Reply
	moderate *Moderate
	query    *Query
}

func setup(t *testing.T) *harness {
	t.Helper()

	store := memory.NewStore()
	h := &harness{
		f:            memorytest.Seed(store),
		appointments: memory.NewAppointmentRepository(store),
		rec:          &audittest.Recorder{},
	}
	h.events = audit.NewDispatcher(h.rec)
	t.Cleanup(h.events.Close)

	d := Deps{Repo: memory.NewReviewRepository(store), Audit: h.events}
	h.create = NewCreate(d)
	h.reply = NewReply(d)
	h.reply.now = func() time.Time { return fixedNow }
	h.moderate = NewModerate(d)
	h.query = NewQuery(d)
	return h
}

func (h *harness) appointmentWith(t *testing.T, customerID uint, status appointment.Status) *models.Appointment {
	t.Helper()
	ap := &models.Appointment{
		BarbershopID: h.f.Shop.ID,
		BarberID:     h.f.Barber.ID,
		CustomerID:   customerID,
		ServiceID:    h.f.Service.ID,
		ServiceName:  h.f.Service.Name,
		Price:        decimal.NewFromInt(50),
		DurationMin:  30,
		StartTime:    fixedNow.Add(-2 * time.Hour),
		EndTime:      fixedNow.Add(-90 * time.Minute),
		Status:       string(status),
	}
	require.NoError(t, h.appointments.Create(context.Background(), ap))
	return ap
}

func (h *harness) reviewBarber(t *testing.T, barberID uint, rating int, anonymous bool) *models.Review {
	t.Helper()
	rv, err := h.create.Execute(context.Background(), h.f.CustomerActor(), CreateInput{
		Kind:      models.ReviewBarber,
		BarberID:  barberID,
		Rating:    rating,
		Comment:   "  ótimo corte  ",
		Anonymous: anonymous,
	})
	require.NoError(t, err)
	return rv
}

func TestCreateShopReview(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	rv, err := h.create.Execute(ctx, h.f.CustomerActor(), CreateInput{
		Kind:         models.ReviewShop,
		BarbershopID: h.f.Shop.ID,
		Rating:       4,
	})
	require.NoError(t, err)
	assert.Equal(t, h.f.Shop.ID, rv.BarbershopID)
	assert.Nil(t, rv.BarberID)
	assert.True(t, rv.Visible)

	_, err = h.create.Execute(ctx, h.f.CustomerActor(), CreateInput{
		Kind:         models.ReviewShop,
		BarbershopID: h.f.Shop.ID,
		Rating:       5,
	})
	assert.True(t, httperr.IsBusiness(err, "already_reviewed"))

	// outro cliente avalia a mesma barbearia normalmente
	_, err = h.create.Execute(ctx, h.f.Customer2Actor(), CreateInput{
		Kind:         models.ReviewShop,
		BarbershopID: h.f.Shop.ID,
		Rating:       5,
	})
	require.NoError(t, err)

	h.events.Close()
	assert.Equal(t, []string{"review.created", "review.created"}, h.rec.Actions())
}

func TestCreateBarberReviewTrimsComment(t *testing.T) {
	h := setup(t)

	rv := h.reviewBarber(t, h.f.Barber.ID, 5, false)
	assert.Equal(t, "ótimo corte", rv.Comment)
	require.NotNil(t, rv.BarberID)
	assert.Equal(t, h.f.Barber.ID, *rv.BarberID)
	assert.Equal(t, h.f.Shop.ID, rv.BarbershopID)
}

func TestCreateValidates(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	_, err := h.create.Execute(ctx, h.f.CustomerActor(), CreateInput{
		Kind: models.ReviewShop, BarbershopID: h.f.Shop.ID, Rating: 6,
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_rating"))

	_, err = h.create.Execute(ctx, h.f.CustomerActor(), CreateInput{
		Kind: "SERVICE", Rating: 3,
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_review_kind"))

	long := make([]rune, review.MaxTextLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = h.create.Execute(ctx, h.f.CustomerActor(), CreateInput{
		Kind: models.ReviewShop, BarbershopID: h.f.Shop.ID, Rating: 3, Comment: string(long),
	})
	assert.True(t, httperr.IsBusiness(err, "comment_too_long"))

	// equipe não avalia
	_, err = h.create.Execute(ctx, h.f.BarberActor(), CreateInput{
		Kind: models.ReviewShop, BarbershopID: h.f.Shop.ID, Rating: 3,
	})
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))

	h.events.Close()
	assert.Empty(t, h.rec.Actions())
}

func TestCreateAppointmentReview(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	done := h.appointmentWith(t, h.f.Customer.ID, appointment.StatusDone)
	rv, err := h.create.Execute(ctx, h.f.CustomerActor(), CreateInput{
		Kind:          models.ReviewAppointment,
		AppointmentID: done.ID,
		Rating:        5,
	})
	require.NoError(t, err)
	require.NotNil(t, rv.AppointmentID)
	assert.Equal(t, done.ID, *rv.AppointmentID)
	assert.Equal(t, h.f.Barber.ID, *rv.BarberID)

	reviewed, err := h.query.Reviewed(ctx, h.f.CustomerActor(), done.ID)
	require.NoError(t, err)
	assert.True(t, reviewed)

	_, err = h.create.Execute(ctx, h.f.CustomerActor(), CreateInput{
		Kind: models.ReviewAppointment, AppointmentID: done.ID, Rating: 1,
	})
	assert.True(t, httperr.IsBusiness(err, "already_reviewed"))
}

func TestCreateAppointmentReviewRules(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	confirmed := h.appointmentWith(t, h.f.Customer.ID, appointment.StatusConfirmed)
	_, err := h.create.Execute(ctx, h.f.CustomerActor(), CreateInput{
		Kind: models.ReviewAppointment, AppointmentID: confirmed.ID, Rating: 5,
	})
	assert.True(t, httperr.IsBusiness(err, "appointment_not_done"))

	// atendimento de outro cliente aparece como inexistente
	other := h.appointmentWith(t, h.f.Customer2.ID, appointment.StatusDone)
	_, err = h.create.Execute(ctx, h.f.CustomerActor(), CreateInput{
		Kind: models.ReviewAppointment, AppointmentID: other.ID, Rating: 5,
	})
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))

	_, err = h.create.Execute(ctx, h.f.CustomerActor(), CreateInput{
		Kind: models.ReviewAppointment, Rating: 5,
	})
	assert.True(t, httperr.IsBusiness(err, "missing_appointment_id"))
}

func TestReply(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	rv := h.reviewBarber(t, h.f.Barber.ID, 4, false)

	// o outro barbeiro não responde avaliação que não é sobre ele
	_, err := h.reply.Execute(ctx, h.f.Barber2Actor(), rv.ID, "valeu")
	assert.True(t, httperr.IsBusiness(err, "reply_not_allowed"))

	_, err = h.reply.Execute(ctx, h.f.BarberActor(), rv.ID, "   ")
	assert.True(t, httperr.IsBusiness(err, "missing_reply"))

	got, err := h.reply.Execute(ctx, h.f.BarberActor(), rv.ID, "Obrigado!")
	require.NoError(t, err)
	assert.Equal(t, "Obrigado!", got.Reply)
	require.NotNil(t, got.RepliedAt)
	assert.Equal(t, fixedNow, *got.RepliedAt)

	_, err = h.reply.Execute(ctx, h.f.OwnerActor(), rv.ID, "De novo")
	assert.True(t, httperr.IsBusiness(err, "already_replied"))

	h.events.Close()
	assert.Equal(t, []string{"review.created", "review.replied"}, h.rec.Actions())
}

func TestOwnerRepliesShopReview(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	rv, err := h.create.Execute(ctx, h.f.CustomerActor(), CreateInput{
		Kind: models.ReviewShop, BarbershopID: h.f.Shop.ID, Rating: 2,
	})
	require.NoError(t, err)

	_, err = h.reply.Execute(ctx, h.f.BarberActor(), rv.ID, "oi")
	assert.True(t, httperr.IsBusiness(err, "reply_not_allowed"))

	_, err = h.reply.Execute(ctx, h.f.OwnerActor(), rv.ID, "Vamos melhorar.")
	require.NoError(t, err)
}

func TestPendingFiltersBarber(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	mine := h.reviewBarber(t, h.f.Barber.ID, 5, false)
	h.reviewBarber(t, h.f.Barber2.ID, 3, false)

	list, err := h.query.Pending(ctx, h.f.BarberActor())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	all, err := h.query.Pending(ctx, h.f.OwnerActor())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = h.reply.Execute(ctx, h.f.BarberActor(), mine.ID, "valeu")
	require.NoError(t, err)

	list, err = h.query.Pending(ctx, h.f.BarberActor())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAnonymousReviewHidesCustomer(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	h.reviewBarber(t, h.f.Barber.ID, 5, true)
	_, err := h.create.Execute(ctx, h.f.Customer2Actor(), CreateInput{
		Kind: models.ReviewBarber, BarberID: h.f.Barber.ID, Rating: 3,
	})
	require.NoError(t, err)

	page, err := h.query.ForBarber(ctx, h.f.Barber.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.EqualValues(t, 2, page.Total)

	authors := map[string]*uint{}
	for _, it := range page.Items {
		authors[it.Author] = it.CustomerID
	}
	require.Contains(t, authors, review.AnonymousAuthor)
	assert.Nil(t, authors[review.AnonymousAuthor])
	require.Contains(t, authors, h.f.Customer2.Name)
	assert.Equal(t, h.f.Customer2.ID, *authors[h.f.Customer2.Name])
}

func TestSummaryAndModeration(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	first := h.reviewBarber(t, h.f.Barber.ID, 5, false)
	_, err := h.create.Execute(ctx, h.f.Customer2Actor(), CreateInput{
		Kind: models.ReviewBarber, BarberID: h.f.Barber.ID, Rating: 2,
	})
	require.NoError(t, err)

	s, err := h.query.BarberSummary(ctx, h.f.Barber.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, s.Total)
	assert.InDelta(t, 3.5, s.Average, 0.001)
	assert.EqualValues(t, 1, s.Distribution[5])
	assert.EqualValues(t, 1, s.Distribution[2])

	// barbeiro não modera
	_, err = h.moderate.Execute(ctx, h.f.BarberActor(), first.ID, false)
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))

	_, err = h.moderate.Execute(ctx, h.f.OwnerActor(), first.ID, false)
	require.NoError(t, err)

	s, err = h.query.ShopSummary(ctx, h.f.Shop.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, s.Total)
	assert.InDelta(t, 2.0, s.Average, 0.001)

	page, err := h.query.ForShop(ctx, h.f.Shop.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	// o cliente continua vendo a própria avaliação escondida
	mine, err := h.query.Mine(ctx, h.f.CustomerActor())
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.False(t, mine[0].Visible)
}
