package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	ledger "github.com/BruksfildServices01/barber-queue/internal/domain/session"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/httpresp"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/usecase/session"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler atende rotas sem autenticação, identificadas pelo slug.
type PublicHandler struct {
	db       *gorm.DB
	sessions *session.Query
}

func NewPublicHandler(db *gorm.DB, sessions ledger.Repository) *PublicHandler {
	return &PublicHandler{
		db:       db,
		sessions: session.NewQuery(sessions),
	}
}

////////////////////////////////////////////////////////
// STATUS
////////////////////////////////////////////////////////

// Status informa se a barbearia está aberta, em pausa ou fechada.
func (h *PublicHandler) Status(c *gin.Context) {
	st, err := h.sessions.Status(c.Request.Context(), c.Param("slug"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, st)
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))

	var shop models.Barbershop
	if err := h.db.WithContext(c.Request.Context()).
		Where("slug = ?", slug).
		First(&shop).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
			return
		}
		httperr.Internal(c, "failed_to_get_barbershop", "Erro ao buscar barbearia.")
		return
	}

	var services []models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("barbershop_id = ? AND active = ?", shop.ID, true).
		Order("name ASC").
		Find(&services).Error; err != nil {

		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"barbershop": gin.H{
			"id":       shop.ID,
			"name":     shop.Name,
			"slug":     shop.Slug,
			"phone":    shop.Phone,
			"address":  shop.Address,
			"logo_url": shop.LogoURL,
		},
		"services": services,
	})
}
