package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/httpresp"
	"github.com/BruksfildServices01/barber-queue/internal/middleware"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create       *appointment.Create
	confirm      *appointment.Confirm
	start        *appointment.Start
	complete     *appointment.Complete
	noShow       *appointment.MarkNoShow
	cancel       *appointment.Cancel
	checkout     *appointment.Checkout
	availability *appointment.Availability
	query        *appointment.Query
}

func NewAppointmentHandler(d appointment.Deps) *AppointmentHandler {
	return &AppointmentHandler{
		create:       appointment.NewCreate(d),
		confirm:      appointment.NewConfirm(d),
		start:        appointment.NewStart(d),
		complete:     appointment.NewComplete(d),
		noShow:       appointment.NewMarkNoShow(d),
		cancel:       appointment.NewCancel(d),
		checkout:     appointment.NewCheckout(d),
		availability: appointment.NewAvailability(d),
		query:        appointment.NewQuery(d),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	BarberID   uint   `json:"barber_id" binding:"required"`
	CustomerID uint   `json:"customer_id"`
	ServiceID  uint   `json:"service_id" binding:"required"`
	Date       string `json:"date" binding:"required"` // AAAA-MM-DD
	Time       string `json:"time" binding:"required"` // HH:MM
	Notes      string `json:"notes"`
}

func appointmentResult(c *gin.Context, status int, ap *models.Appointment, err error) {
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(status, ap)
}

// ======================================================
// COMMANDS
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), middleware.Actor(c), appointment.CreateInput{
		CustomerID:     req.CustomerID,
		BarberID:       req.BarberID,
		ServiceID:      req.ServiceID,
		Date:           req.Date,
		StartTime:      req.Time,
		Notes:          req.Notes,
		IdempotencyKey: c.GetHeader(idempotencyHeader),
	})
	appointmentResult(c, http.StatusCreated, ap, err)
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	ap, err := h.confirm.Execute(c.Request.Context(), middleware.Actor(c), id)
	appointmentResult(c, http.StatusOK, ap, err)
}

func (h *AppointmentHandler) Start(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	ap, err := h.start.Execute(c.Request.Context(), middleware.Actor(c), id)
	appointmentResult(c, http.StatusOK, ap, err)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	ap, err := h.complete.Execute(c.Request.Context(), middleware.Actor(c), id)
	appointmentResult(c, http.StatusOK, ap, err)
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	ap, err := h.noShow.Execute(c.Request.Context(), middleware.Actor(c), id)
	appointmentResult(c, http.StatusOK, ap, err)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req CancelRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), middleware.Actor(c), id, req.Reason)
	appointmentResult(c, http.StatusOK, ap, err)
}

// Checkout gera (ou reaproveita) o link de pagamento.
func (h *AppointmentHandler) Checkout(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.checkout.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointment_id": ap.ID,
		"payment_link":   ap.PaymentLink,
	})
}

// ======================================================
// QUERIES
// ======================================================

// ListByDate: agenda do dia. barber_id omitido = o próprio usuário.
func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	barberID, ok := uintQuery(c, "barber_id")
	if !ok {
		return
	}

	list, err := h.query.Agenda(c.Request.Context(), middleware.Actor(c), barberID, c.Query("date"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *AppointmentHandler) Mine(c *gin.Context) {
	list, err := h.query.Mine(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *AppointmentHandler) History(c *gin.Context) {
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}
	list, err := h.query.History(c.Request.Context(), middleware.Actor(c), limit)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *AppointmentHandler) Pending(c *gin.Context) {
	list, err := h.query.Pending(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *AppointmentHandler) Availability(c *gin.Context) {
	barberID, ok := uintQuery(c, "barber_id")
	if !ok {
		return
	}
	serviceID, ok := uintQuery(c, "service_id")
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Informe a data (AAAA-MM-DD).")
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), barberID, serviceID, date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"barber_id": barberID,
		"date":      date,
		"slots":     slots,
	})
}
