package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-queue/internal/audit"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/httpresp"
	"github.com/BruksfildServices01/barber-queue/internal/middleware"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

// BarbersHandler: o dono cadastra e lista a equipe.
type BarbersHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewBarbersHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *BarbersHandler {
	return &BarbersHandler{db: db, audit: dispatcher}
}

type CreateBarberRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

func (h *BarbersHandler) List(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var staff []models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("barbershop_id = ? AND role IN ?", barbershopID, []string{models.RoleOwner, models.RoleBarber}).
		Order("id ASC").
		Find(&staff).Error; err != nil {

		httperr.Internal(c, "failed_to_list_barbers", "Erro ao listar a equipe.")
		return
	}

	httpresp.List(c, staff)
}

func (h *BarbersHandler) Create(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)
	ownerID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateBarberRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao processar a senha.")
		return
	}

	barber := models.User{
		BarbershopID: &barbershopID,
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         models.RoleBarber,
		Active:       true,
		LinkStatus:   models.LinkApproved,
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.Conflict("email_already_exists", "E-mail já cadastrado.")
		}
		return tx.Create(&barber).Error
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		UserID:       &ownerID,
		Action:       "barber.created",
		Entity:       "user",
		EntityID:     &barber.ID,
	})

	c.JSON(http.StatusCreated, barber)
}
