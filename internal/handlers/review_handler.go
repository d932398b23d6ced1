package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/httpresp"
	"github.com/BruksfildServices01/barber-queue/internal/middleware"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/review"
)

// ======================================================
// HANDLER
// ======================================================

type ReviewHandler struct {
	create   *review.Create
	reply    *review.Reply
	moderate *review.Moderate
	query    *review.Query
}

func NewReviewHandler(d review.Deps) *ReviewHandler {
	return &ReviewHandler{
		create:   review.NewCreate(d),
		reply:    review.NewReply(d),
		moderate: review.NewModerate(d),
		query:    review.NewQuery(d),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateReviewRequest struct {
	Kind          string `json:"kind" binding:"required"`
	BarbershopID  uint   `json:"barbershop_id"`
	BarberID      uint   `json:"barber_id"`
	AppointmentID uint   `json:"appointment_id"`
	Rating        int    `json:"rating" binding:"required"`
	Comment       string `json:"comment"`
	Anonymous     bool   `json:"anonymous"`
}

type ReplyReviewRequest struct {
	Reply string `json:"reply" binding:"required"`
}

func reviewPage(c *gin.Context, p *review.Page, err error) {
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Page(c, p.Items, p.Total, p.Page.Number, p.Page.Size)
}

// ======================================================
// COMMANDS
// ======================================================

func (h *ReviewHandler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	rv, err := h.create.Execute(c.Request.Context(), middleware.Actor(c), review.CreateInput{
		Kind:          req.Kind,
		BarbershopID:  req.BarbershopID,
		BarberID:      req.BarberID,
		AppointmentID: req.AppointmentID,
		Rating:        req.Rating,
		Comment:       req.Comment,
		Anonymous:     req.Anonymous,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, rv)
}

func (h *ReviewHandler) Reply(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req ReplyReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	rv, err := h.reply.Execute(c.Request.Context(), middleware.Actor(c), id, req.Reply)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, rv)
}

func (h *ReviewHandler) Hide(c *gin.Context) { h.setVisible(c, false) }
func (h *ReviewHandler) Show(c *gin.Context) { h.setVisible(c, true) }

func (h *ReviewHandler) setVisible(c *gin.Context, visible bool) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	rv, err := h.moderate.Execute(c.Request.Context(), middleware.Actor(c), id, visible)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, rv)
}

// ======================================================
// QUERIES
// ======================================================

func (h *ReviewHandler) ForShop(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	number, size, ok := pageQuery(c)
	if !ok {
		return
	}
	p, err := h.query.ForShop(c.Request.Context(), id, number, size)
	reviewPage(c, p, err)
}

func (h *ReviewHandler) ForBarber(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	number, size, ok := pageQuery(c)
	if !ok {
		return
	}
	p, err := h.query.ForBarber(c.Request.Context(), id, number, size)
	reviewPage(c, p, err)
}

func (h *ReviewHandler) ShopSummary(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	s, err := h.query.ShopSummary(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, s)
}

func (h *ReviewHandler) BarberSummary(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	s, err := h.query.BarberSummary(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, s)
}

func (h *ReviewHandler) Mine(c *gin.Context) {
	list, err := h.query.Mine(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *ReviewHandler) Pending(c *gin.Context) {
	list, err := h.query.Pending(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}

// Reviewed: :id é o agendamento.
func (h *ReviewHandler) Reviewed(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	done, err := h.query.Reviewed(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, gin.H{"reviewed": done})
}
