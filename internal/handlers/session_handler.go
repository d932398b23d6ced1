package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	ledger "github.com/BruksfildServices01/barber-queue/internal/domain/session"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/httpresp"
	"github.com/BruksfildServices01/barber-queue/internal/lock"
	"github.com/BruksfildServices01/barber-queue/internal/middleware"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/session"
)

// ======================================================
// HANDLER
// ======================================================

type SessionHandler struct {
	open   *session.OpenSession
	pause  *session.PauseSession
	resume *session.ResumeSession
	close  *session.CloseSession
	query  *session.Query
}

func NewSessionHandler(repo ledger.Repository, guard *lock.Guard, dispatcher *audit.Dispatcher) *SessionHandler {
	return &SessionHandler{
		open:   session.NewOpenSession(repo, guard, dispatcher),
		pause:  session.NewPauseSession(repo, guard, dispatcher),
		resume: session.NewResumeSession(repo, guard, dispatcher),
		close:  session.NewCloseSession(repo, guard, dispatcher),
		query:  session.NewQuery(repo),
	}
}

// ======================================================
// REQUESTS
// ======================================================

// Os valores de caixa são ponteiros: ausente é diferente de zero.
type OpenSessionRequest struct {
	BarbershopID uint             `json:"barbershop_id"`
	OpeningFloat *decimal.Decimal `json:"opening_float"`
	Note         string           `json:"note"`
}

type CloseSessionRequest struct {
	ClosingFloat *decimal.Decimal `json:"closing_float"`
	Note         string           `json:"note"`
}

// ======================================================
// COMMANDS
// ======================================================

func (h *SessionHandler) Open(c *gin.Context) {
	var req OpenSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.OpeningFloat == nil {
		httperr.Respond(c, httperr.Validation("missing_opening_float", "Informe o troco inicial."))
		return
	}

	actor := middleware.Actor(c)
	if req.BarbershopID == 0 {
		req.BarbershopID = actor.BarbershopID
	}

	ws, err := h.open.Execute(c.Request.Context(), actor, session.OpenInput{
		BarbershopID: req.BarbershopID,
		OpeningFloat: *req.OpeningFloat,
		Note:         req.Note,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, ws)
}

func (h *SessionHandler) Pause(c *gin.Context) {
	shopID, ok := uintParam(c, "shopId")
	if !ok {
		return
	}

	ws, err := h.pause.Execute(c.Request.Context(), middleware.Actor(c), shopID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, ws)
}

func (h *SessionHandler) Resume(c *gin.Context) {
	shopID, ok := uintParam(c, "shopId")
	if !ok {
		return
	}

	ws, err := h.resume.Execute(c.Request.Context(), middleware.Actor(c), shopID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, ws)
}

func (h *SessionHandler) Close(c *gin.Context) {
	shopID, ok := uintParam(c, "shopId")
	if !ok {
		return
	}

	var req CloseSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ClosingFloat == nil {
		httperr.Respond(c, httperr.Validation("missing_closing_float", "Informe o valor contado no caixa."))
		return
	}

	ws, err := h.close.Execute(c.Request.Context(), middleware.Actor(c), session.CloseInput{
		BarbershopID: shopID,
		ClosingFloat: *req.ClosingFloat,
		Note:         req.Note,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, ws)
}

// ======================================================
// QUERIES
// ======================================================

// Active devolve 204 quando não há caixa aberto.
func (h *SessionHandler) Active(c *gin.Context) {
	shopID, ok := uintParam(c, "shopId")
	if !ok {
		return
	}

	ws, err := h.query.Active(c.Request.Context(), middleware.Actor(c), shopID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if ws == nil {
		c.Status(http.StatusNoContent)
		return
	}
	httpresp.OK(c, ws)
}

// History aceita ?date=AAAA-MM-DD ou ?limit=N.
func (h *SessionHandler) History(c *gin.Context) {
	shopID, ok := uintParam(c, "shopId")
	if !ok {
		return
	}

	actor := middleware.Actor(c)

	if date := c.Query("date"); date != "" {
		list, err := h.query.ByDate(c.Request.Context(), actor, shopID, date)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		httpresp.List(c, list)
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.query.History(c.Request.Context(), actor, shopID, limit)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}
