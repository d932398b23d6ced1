package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/httpresp"
	"github.com/BruksfildServices01/barber-queue/internal/middleware"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/queue"
)

// ======================================================
// HANDLER
// ======================================================

type QueueHandler struct {
	enqueue       *queue.Enqueue
	startNext     *queue.StartNext
	startSpecific *queue.StartSpecific
	finish        *queue.Finish
	cancel        *queue.Cancel
	noShow        *queue.MarkNoShow
	query         *queue.Query
}

func NewQueueHandler(d queue.Deps) *QueueHandler {
	return &QueueHandler{
		enqueue:       queue.NewEnqueue(d),
		startNext:     queue.NewStartNext(d),
		startSpecific: queue.NewStartSpecific(d),
		finish:        queue.NewFinish(d),
		cancel:        queue.NewCancel(d),
		noShow:        queue.NewMarkNoShow(d),
		query:         queue.NewQuery(d),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type EnqueueRequest struct {
	BarberID   uint   `json:"barber_id" binding:"required"`
	CustomerID uint   `json:"customer_id"`
	ServiceID  uint   `json:"service_id" binding:"required"`
	Note       string `json:"note"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

// entryResult centraliza a resposta dos comandos que devolvem uma entrada.
func entryResult(c *gin.Context, status int, e *models.QueueEntry, err error) {
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(status, e)
}

// ======================================================
// COMMANDS
// ======================================================

func (h *QueueHandler) Enqueue(c *gin.Context) {
	var req EnqueueRequest
	if !bindJSON(c, &req) {
		return
	}

	e, err := h.enqueue.Execute(c.Request.Context(), middleware.Actor(c), queue.EnqueueInput{
		BarberID:       req.BarberID,
		CustomerID:     req.CustomerID,
		ServiceID:      req.ServiceID,
		Note:           req.Note,
		IdempotencyKey: c.GetHeader(idempotencyHeader),
	})
	entryResult(c, http.StatusCreated, e, err)
}

// StartNext: :id é o barbeiro.
func (h *QueueHandler) StartNext(c *gin.Context) {
	barberID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	e, err := h.startNext.Execute(c.Request.Context(), middleware.Actor(c), barberID)
	entryResult(c, http.StatusOK, e, err)
}

// Finish: :id é o barbeiro.
func (h *QueueHandler) Finish(c *gin.Context) {
	barberID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	e, err := h.finish.Execute(c.Request.Context(), middleware.Actor(c), barberID)
	entryResult(c, http.StatusOK, e, err)
}

// Start: :id é a entrada.
func (h *QueueHandler) Start(c *gin.Context) {
	entryID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	e, err := h.startSpecific.Execute(c.Request.Context(), middleware.Actor(c), entryID)
	entryResult(c, http.StatusOK, e, err)
}

func (h *QueueHandler) Cancel(c *gin.Context) {
	entryID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req CancelRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	e, err := h.cancel.Execute(c.Request.Context(), middleware.Actor(c), entryID, req.Reason)
	entryResult(c, http.StatusOK, e, err)
}

func (h *QueueHandler) NoShow(c *gin.Context) {
	entryID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	e, err := h.noShow.Execute(c.Request.Context(), middleware.Actor(c), entryID)
	entryResult(c, http.StatusOK, e, err)
}

// ======================================================
// QUERIES
// ======================================================

func (h *QueueHandler) View(c *gin.Context) {
	barberID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	v, err := h.query.ForBarber(c.Request.Context(), middleware.Actor(c), barberID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, v)
}

// MyEntry devolve 204 quando o cliente não está em nenhuma fila.
func (h *QueueHandler) MyEntry(c *gin.Context) {
	e, err := h.query.MyEntry(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if e == nil {
		c.Status(http.StatusNoContent)
		return
	}
	httpresp.OK(c, e)
}

// History: ?limit= limita a quantidade (padrão 20).
func (h *QueueHandler) History(c *gin.Context) {
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

func (h *QueueHandler) ShopDay(c *gin.Context) {
	list, err := h.query.ShopDay(c.Request.Context(), middleware.Actor(c), c.Query("date"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}
