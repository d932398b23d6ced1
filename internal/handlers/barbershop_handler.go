package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	"github.com/BruksfildServices01/barber-queue/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-queue/internal/domain/directory"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/middleware"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/timezone"
)

type BarbershopHandler struct {
	db       *gorm.DB
	audit    *audit.Dispatcher
	uploader *Uploader
}

func NewBarbershopHandler(db *gorm.DB, dispatcher *audit.Dispatcher, uploader *Uploader) *BarbershopHandler {
	return &BarbershopHandler{db: db, audit: dispatcher, uploader: uploader}
}

type UpdateBarbershopConfigRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`

	Timezone                *string `json:"timezone"`
	MinAdvanceMinutes       *int    `json:"min_advance_minutes"`
	AutoConfirmAppointments *bool   `json:"auto_confirm_appointments"`
	OpensAt                 *string `json:"opens_at"`
	ClosesAt                *string `json:"closes_at"`

	City      *string  `json:"city"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Active    *bool    `json:"active"`
}

func (h *BarbershopHandler) loadShop(c *gin.Context) (*models.Barbershop, bool) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var shop models.Barbershop
	if err := h.db.WithContext(c.Request.Context()).First(&shop, barbershopID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_barbershop", "Erro ao buscar dados da barbearia.")
		return nil, false
	}
	return &shop, true
}

func (h *BarbershopHandler) GetMeBarbershop(c *gin.Context) {
	shop, ok := h.loadShop(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, shop)
}

func (h *BarbershopHandler) UpdateMeBarbershop(c *gin.Context) {
	shop, ok := h.loadShop(c)
	if !ok {
		return
	}

	var req UpdateBarbershopConfigRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := applyShopConfig(shop, req); err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(shop).Error; err != nil {
		httperr.Internal(c, "failed_to_update_barbershop", "Erro ao salvar as configurações da barbearia.")
		return
	}

	h.publish(c, "barbershop.updated", shop, nil)
	c.JSON(http.StatusOK, shop)
}

func (h *BarbershopHandler) UploadLogo(c *gin.Context) {
	shop, ok := h.loadShop(c)
	if !ok {
		return
	}

	url, ok := h.uploader.save(c, "logos", shop.ID)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(shop).
		Update("logo_url", url).Error; err != nil {

		httperr.Internal(c, "failed_to_update_logo", "Erro ao salvar o logo.")
		return
	}

	h.publish(c, "barbershop.logo_updated", shop, map[string]any{"logo_url": url})
	c.JSON(http.StatusOK, gin.H{"logo_url": url})
}

// applyShopConfig valida e aplica só os campos enviados.
func applyShopConfig(shop *models.Barbershop, req UpdateBarbershopConfigRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return httperr.Validation("invalid_name", "Nome não pode ser vazio.")
		}
		shop.Name = name
	}
	if req.Phone != nil {
		shop.Phone = *req.Phone
	}
	if req.Address != nil {
		shop.Address = *req.Address
	}

	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			return httperr.Validation("invalid_timezone", "Fuso horário inválido.")
		}
		shop.Timezone = *req.Timezone
	}

	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			return httperr.Validation("invalid_min_advance", "Antecedência mínima deve ser zero ou positiva (em minutos).")
		}
		shop.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}

	if req.AutoConfirmAppointments != nil {
		shop.AutoConfirmAppointments = *req.AutoConfirmAppointments
	}

	opens, closes := shop.OpensAt, shop.ClosesAt
	if req.OpensAt != nil {
		opens = *req.OpensAt
	}
	if req.ClosesAt != nil {
		closes = *req.ClosesAt
	}
	if req.OpensAt != nil || req.ClosesAt != nil {
		if !appointment.ValidRange(opens, closes) {
			return httperr.Validation("invalid_business_hours", "Horário de funcionamento inválido.")
		}
		shop.OpensAt, shop.ClosesAt = opens, closes
	}

	if req.City != nil {
		shop.City = strings.TrimSpace(*req.City)
	}
	if req.Active != nil {
		shop.Active = *req.Active
	}

	// coordenadas andam juntas
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return httperr.Validation("invalid_coordinates", "Informe latitude e longitude juntas.")
	}
	if req.Latitude != nil {
		p := directory.Point{Lat: *req.Latitude, Lng: *req.Longitude}
		if !p.Valid() {
			return httperr.Validation("invalid_coordinates", "Coordenadas inválidas.")
		}
		shop.Latitude, shop.Longitude = req.Latitude, req.Longitude
	}

	return nil
}

func (h *BarbershopHandler) publish(c *gin.Context, action string, shop *models.Barbershop, meta map[string]any) {
	userID := c.GetUint(middleware.ContextUserID)
	shopID := shop.ID
	h.audit.Dispatch(audit.Event{
		BarbershopID: shop.ID,
		UserID:       &userID,
		Action:       action,
		Entity:       "barbershop",
		EntityID:     &shopID,
		Metadata:     meta,
	})
}
