package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	"github.com/BruksfildServices01/barber-queue/internal/audit/audittest"
	"github.com/BruksfildServices01/barber-queue/internal/config"
	"github.com/BruksfildServices01/barber-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-queue/internal/dto"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/infra/memory"
	"github.com/BruksfildServices01/barber-queue/internal/infra/memory/memorytest"
	"github.com/BruksfildServices01/barber-queue/internal/lock"
	"github.com/BruksfildServices01/barber-queue/internal/middleware"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barber-queue/internal/usecase/appointment"
	ucQueue "github.com/BruksfildServices01/barber-queue/internal/usecase/queue"
	ucReview "github.com/BruksfildServices01/barber-queue/internal/usecase/review"
	ucStaff "github.com/BruksfildServices01/barber-queue/internal/usecase/staff"
)

const secret = "routes-test"

type server struct {
	t      *testing.T
	engine *gin.Engine
	store  *memory.Store
	f      memorytest.Fixture
	rec    *audittest.Recorder
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	f := memorytest.Seed(store)

	rec := &audittest.Recorder{}
	events := audit.NewDispatcher(rec)
	t.Cleanup(events.Close)

	guard := lock.NewGuard(lock.NewLocalLocker(), time.Minute, time.Second)
	sessions := memory.NewSessionRepository(store)

	r := gin.New()
	RegisterRoutes(r, App{
		Config: &config.Config{
			JWTSecret:   secret,
			JWTTTL:      time.Hour,
			CORSOrigins: []string{"*"},
		},
		Sessions: sessions,
		Queue: ucQueue.Deps{
			Repo:  memory.NewQueueRepository(store),
			Guard: guard,
			Audit: events,
		},
		Appointments: ucAppointment.Deps{
			Repo:  memory.NewAppointmentRepository(store),
			Guard: guard,
			Audit: events,
		},
		Reviews: ucReview.Deps{
			Repo:  memory.NewReviewRepository(store),
			Audit: events,
		},
		Staff: ucStaff.Deps{
			Repo:  memory.NewStaffRepository(store),
			Guard: guard,
			Audit: events,
		},
		Favorites: memory.NewFavoriteRepository(store),
		Directory: memory.NewDirectoryRepository(store),
		Guard:     guard,
		Audit:     events,
	})

	return &server{t: t, engine: r, store: store, f: f, rec: rec}
}

func (s *server) token(u *models.User) string {
	tok, err := middleware.GenerateToken(secret, time.Hour, u)
	require.NoError(s.t, err)
	return tok
}

func (s *server) do(method, path string, user *models.User, body any, headers ...string) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+s.token(user))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type listBody[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	return decode[httperr.HTTPError](t, w).Code
}

func TestHealthAndAuth(t *testing.T) {
	s := newServer(t)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", nil, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/queue/1", nil, nil).Code)

	// cliente não opera a fila
	w := s.do(http.MethodPost, fmt.Sprintf("/api/queue/%d/start-next", s.f.Barber.ID), s.f.Customer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/queue/abc/start-next", s.f.Barber, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_id", errorCode(t, w))
}

func TestWalkInFlowOverHTTP(t *testing.T) {
	s := newServer(t)
	shopPath := fmt.Sprintf("/api/sessions/%d", s.f.Shop.ID)

	w := s.do(http.MethodGet, "/api/public/navalha/status", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CLOSED", decode[map[string]any](t, w)["status"])

	w = s.do(http.MethodGet, shopPath+"/active", s.f.Owner, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodPost, "/api/sessions/open", s.f.Owner, map[string]any{"opening_float": "100.00"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/sessions/open", s.f.Owner, map[string]any{"opening_float": "100.00"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "session_already_open", errorCode(t, w))

	enqueue := map[string]any{"barber_id": s.f.Barber.ID, "service_id": s.f.Service.ID}
	w = s.do(http.MethodPost, "/api/queue/enqueue", s.f.Customer, enqueue, "Idempotency-Key", "k-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode[models.QueueEntry](t, w)

	w = s.do(http.MethodPost, "/api/queue/enqueue", s.f.Customer, enqueue, "Idempotency-Key", "k-1")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, first.ID, decode[models.QueueEntry](t, w).ID)

	w = s.do(http.MethodGet, "/api/me/queue-entry", s.f.Customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[models.QueueEntry](t, w)
	require.NotNil(t, mine.Position)
	assert.Equal(t, 1, *mine.Position)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/queue/%d/start-next", s.f.Barber.ID), s.f.Barber, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "IN_SERVICE", decode[models.QueueEntry](t, w).Status)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/queue/%d/finish", s.f.Barber.ID), s.f.Barber, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	done := decode[models.QueueEntry](t, w)
	assert.Equal(t, "DONE", done.Status)
	assert.NotNil(t, done.WorkSessionID)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/queue/%d/finish", s.f.Barber.ID), s.f.Barber, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "no_entry_in_service", errorCode(t, w))

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodGet, "/api/me/queue-entry", s.f.Customer, nil).Code)

	w = s.do(http.MethodGet, shopPath+"/active", s.f.Barber, nil)
	require.Equal(t, http.StatusOK, w.Code)
	ws := decode[models.WorkSession](t, w)
	assert.True(t, ws.SalesTotal.Equal(decimal.NewFromInt(50)), ws.SalesTotal.String())
	assert.Equal(t, 1, ws.AttendanceCount)

	w = s.do(http.MethodGet, "/api/public/navalha/status", nil, nil)
	assert.Equal(t, "OPEN", decode[map[string]any](t, w)["status"])

	w = s.do(http.MethodPost, shopPath+"/close", s.f.Owner, map[string]any{"closing_float": "150.00"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	closed := decode[models.WorkSession](t, w)
	assert.Equal(t, "CLOSED", closed.Status)
	require.True(t, closed.Variance.Valid)
	assert.True(t, closed.Variance.Decimal.IsZero(), closed.Variance.Decimal.String())

	w = s.do(http.MethodGet, shopPath+"/history", s.f.Owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[listBody[models.WorkSession]](t, w).Total)

	w = s.do(http.MethodGet, "/api/queue-day", s.f.Owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[listBody[models.QueueEntry]](t, w).Total)

	// o dispatcher é assíncrono
	assert.Eventually(t, func() bool {
		return slices.Contains(s.rec.Actions(), "session.closed")
	}, time.Second, 10*time.Millisecond)
	assert.Contains(t, s.rec.Actions(), "queue.finished")
}

func TestSessionTransitionsOverHTTP(t *testing.T) {
	s := newServer(t)
	shopPath := fmt.Sprintf("/api/sessions/%d", s.f.Shop.ID)

	w := s.do(http.MethodPost, shopPath+"/pause", s.f.Owner, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, string(httperr.KindInvalidState), string(decode[httperr.HTTPError](t, w).Kind))

	w = s.do(http.MethodPost, "/api/sessions/open", s.f.Owner, map[string]any{"opening_float": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/sessions/open", s.f.Owner, map[string]any{"opening_float": 0}).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, shopPath+"/pause", s.f.Barber, nil).Code)

	w = s.do(http.MethodGet, "/api/public/navalha/status", nil, nil)
	assert.Equal(t, "PAUSED", decode[map[string]any](t, w)["status"])

	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, shopPath+"/resume", s.f.Barber, nil).Code)

	// outra barbearia não existe para este usuário
	w = s.do(http.MethodPost, fmt.Sprintf("/api/sessions/%d/pause", s.f.Shop.ID+100), s.f.Owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionFloatsAreRequired(t *testing.T) {
	s := newServer(t)
	shopPath := fmt.Sprintf("/api/sessions/%d", s.f.Shop.ID)

	w := s.do(http.MethodPost, "/api/sessions/open", s.f.Owner, map[string]any{"note": "sem troco"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_opening_float", errorCode(t, w))

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/sessions/open", s.f.Owner, map[string]any{"opening_float": "80.00"}).Code)

	w = s.do(http.MethodPost, shopPath+"/close", s.f.Owner, map[string]any{"note": "fim do dia"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_closing_float", errorCode(t, w))

	// o caixa continua aberto
	w = s.do(http.MethodGet, shopPath+"/active", s.f.Owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OPEN", decode[map[string]any](t, w)["status"])
}

func TestAppointmentFlowOverHTTP(t *testing.T) {
	s := newServer(t)

	loc := timezone.Location(s.f.Shop.Timezone)
	date := time.Now().In(loc).AddDate(0, 0, 2).Format("2006-01-02")

	create := map[string]any{
		"barber_id":  s.f.Barber.ID,
		"service_id": s.f.Service.ID,
		"date":       date,
		"time":       "10:00",
	}

	w := s.do(http.MethodPost, "/api/appointments", s.f.Customer, create, "Idempotency-Key", "ap-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ap := decode[models.Appointment](t, w)
	assert.Equal(t, string(appointment.StatusConfirmed), ap.Status)

	w = s.do(http.MethodPost, "/api/appointments", s.f.Customer2, create)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slot_taken", errorCode(t, w))

	w = s.do(http.MethodGet, fmt.Sprintf("/api/appointments/availability?barber_id=%d&service_id=%d&date=%s",
		s.f.Barber.ID, s.f.Service.ID, date), s.f.Customer2, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var avail struct {
		Slots []appointment.Slot `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &avail))
	require.NotEmpty(t, avail.Slots)
	for _, sl := range avail.Slots {
		if sl.Start == "10:00" {
			assert.False(t, sl.Available)
		}
	}

	w = s.do(http.MethodGet, "/api/appointments/mine", s.f.Customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[listBody[models.Appointment]](t, w).Total)

	w = s.do(http.MethodGet, "/api/appointments?date="+date, s.f.Barber, nil)
	require.Equal(t, http.StatusOK, w.Code)
	agenda := decode[listBody[dto.AgendaItem]](t, w)
	require.Equal(t, 1, agenda.Total)
	assert.Equal(t, "10:00", agenda.Data[0].Start)
	assert.Equal(t, s.f.Customer.Name, agenda.Data[0].CustomerName)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/appointments/%d/checkout", ap.ID), s.f.Customer, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "payments_disabled", errorCode(t, w))

	// outro cliente não enxerga
	w = s.do(http.MethodPost, fmt.Sprintf("/api/appointments/%d/cancel", ap.ID), s.f.Customer2, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/appointments/%d/cancel", ap.ID), s.f.Customer, map[string]any{"reason": "imprevisto"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, string(appointment.StatusCanceledByCustomer), decode[models.Appointment](t, w).Status)

	// horário liberado
	w = s.do(http.MethodPost, "/api/appointments", s.f.Customer2, create)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
