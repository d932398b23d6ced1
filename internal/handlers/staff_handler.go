package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/httpresp"
	"github.com/BruksfildServices01/barber-queue/internal/middleware"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/staff"
)

type StaffHandler struct {
	svc *staff.Service
}

func NewStaffHandler(d staff.Deps) *StaffHandler {
	return &StaffHandler{svc: staff.NewService(d)}
}

// linkRequestJSON não expõe dados de login do barbeiro.
func linkRequestJSON(u *models.User) gin.H {
	return gin.H{
		"id":                u.ID,
		"name":              u.Name,
		"email":             u.Email,
		"phone":             u.Phone,
		"avatar_url":        u.AvatarURL,
		"link_status":       u.Link(),
		"barbershop_id":     u.BarbershopID,
		"requested_shop_id": u.RequestedShopID,
		"requested_at":      u.LinkRequestedAt,
	}
}

func statusResult(c *gin.Context, st *staff.Status, err error) {
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, st)
}

func userResult(c *gin.Context, u *models.User, err error) {
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, linkRequestJSON(u))
}

// --------- Barbeiro ---------

func (h *StaffHandler) Status(c *gin.Context) {
	st, err := h.svc.Status(c.Request.Context(), middleware.Actor(c))
	statusResult(c, st, err)
}

// Request: :shopId é a barbearia pedida.
func (h *StaffHandler) Request(c *gin.Context) {
	shopID, ok := uintParam(c, "shopId")
	if !ok {
		return
	}
	st, err := h.svc.Request(c.Request.Context(), middleware.Actor(c), shopID)
	statusResult(c, st, err)
}

func (h *StaffHandler) CancelRequest(c *gin.Context) {
	st, err := h.svc.CancelRequest(c.Request.Context(), middleware.Actor(c))
	statusResult(c, st, err)
}

func (h *StaffHandler) Leave(c *gin.Context) {
	st, err := h.svc.Leave(c.Request.Context(), middleware.Actor(c))
	statusResult(c, st, err)
}

// --------- Dono ---------

func (h *StaffHandler) Requests(c *gin.Context) {
	list, err := h.svc.Requests(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	out := make([]gin.H, 0, len(list))
	for i := range list {
		out = append(out, linkRequestJSON(&list[i]))
	}
	httpresp.List(c, out)
}

func (h *StaffHandler) Approve(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	u, err := h.svc.Approve(c.Request.Context(), middleware.Actor(c), id)
	userResult(c, u, err)
}

func (h *StaffHandler) Reject(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	u, err := h.svc.Reject(c.Request.Context(), middleware.Actor(c), id)
	userResult(c, u, err)
}

func (h *StaffHandler) Unlink(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	u, err := h.svc.Unlink(c.Request.Context(), middleware.Actor(c), id)
	userResult(c, u, err)
}
