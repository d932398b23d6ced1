package handlers

import (
	"github.com/gin-gonic/gin"

	domainDirectory "github.com/BruksfildServices01/barber-queue/internal/domain/directory"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/httpresp"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/directory"
)

type DirectoryHandler struct {
	svc *directory.Service
}

func NewDirectoryHandler(repo domainDirectory.Repository) *DirectoryHandler {
	return &DirectoryHandler{svc: directory.NewService(repo)}
}

// Search: ?name= e ?city= opcionais, paginado.
func (h *DirectoryHandler) Search(c *gin.Context) {
	number, size, ok := pageQuery(c)
	if !ok {
		return
	}
	res, err := h.svc.Search(c.Request.Context(), c.Query("name"), c.Query("city"), number, size)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Page(c, res.Shops, res.Total, res.Page.Number, res.Page.Size)
}

// Nearby: ?lat=&lng= obrigatórios, ?radius_km= e ?limit= opcionais.
func (h *DirectoryHandler) Nearby(c *gin.Context) {
	lat, _, ok := floatQuery(c, "lat", true)
	if !ok {
		return
	}
	lng, _, ok := floatQuery(c, "lng", true)
	if !ok {
		return
	}
	radius, _, ok := floatQuery(c, "radius_km", false)
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}

	list, err := h.svc.Nearby(c.Request.Context(), domainDirectory.Point{Lat: lat, Lng: lng}, radius, limit)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}
