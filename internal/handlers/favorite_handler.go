package handlers

import (
	"github.com/gin-gonic/gin"

	domainFavorite "github.com/BruksfildServices01/barber-queue/internal/domain/favorite"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/httpresp"
	"github.com/BruksfildServices01/barber-queue/internal/middleware"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/favorite"
)

type FavoriteHandler struct {
	svc *favorite.Service
}

func NewFavoriteHandler(repo domainFavorite.Repository) *FavoriteHandler {
	return &FavoriteHandler{svc: favorite.NewService(repo)}
}

// favoriteTarget lê :kind (shops|barbers) e :id da rota.
func favoriteTarget(c *gin.Context) (domainFavorite.Target, bool) {
	id, ok := uintParam(c, "id")
	if !ok {
		return domainFavorite.Target{}, false
	}
	switch c.Param("kind") {
	case "shops":
		return domainFavorite.Target{Kind: models.FavoriteShop, ID: id}, true
	case "barbers":
		return domainFavorite.Target{Kind: models.FavoriteBarber, ID: id}, true
	}
	httperr.BadRequest(c, "invalid_favorite_kind", "Tipo de favorito inválido.")
	return domainFavorite.Target{}, false
}

func (h *FavoriteHandler) Toggle(c *gin.Context) {
	t, ok := favoriteTarget(c)
	if !ok {
		return
	}
	on, err := h.svc.Toggle(c.Request.Context(), middleware.Actor(c), t)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, gin.H{"favorite": on})
}

func (h *FavoriteHandler) Check(c *gin.Context) {
	t, ok := favoriteTarget(c)
	if !ok {
		return
	}
	on, err := h.svc.Check(c.Request.Context(), middleware.Actor(c), t)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, gin.H{"favorite": on})
}

func (h *FavoriteHandler) Count(c *gin.Context) {
	t, ok := favoriteTarget(c)
	if !ok {
		return
	}
	n, err := h.svc.Count(c.Request.Context(), t)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, gin.H{"total": n})
}

// List: ?kind=shop|barber filtra.
func (h *FavoriteHandler) List(c *gin.Context) {
	kind, err := favorite.ParseKind(c.Query("kind"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	list, err := h.svc.List(c.Request.Context(), middleware.Actor(c), kind)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}
