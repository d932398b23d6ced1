package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-queue/internal/config"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/middleware"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/timezone"
	"github.com/BruksfildServices01/barber-queue/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config

	emailOK func(email string) bool
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, emailOK: validators.IsEmailDomainValid}
}

// --------- Requests ---------

type RegisterRequest struct {
	BarbershopName    string `json:"barbershop_name" binding:"required"`
	BarbershopSlug    string `json:"barbershop_slug" binding:"required"`
	BarbershopPhone   string `json:"barbershop_phone"`
	BarbershopAddress string `json:"barbershop_address"`
	Timezone          string `json:"timezone"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type RegisterCustomerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	email, ok := h.normalizeEmail(c, req.Email)
	if !ok {
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.BarbershopSlug))
	tz := strings.TrimSpace(req.Timezone)
	if tz == "" {
		tz = timezone.DefaultTimezone
	} else if !timezone.IsValid(tz) {
		httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao processar a senha.")
		return
	}

	shop := models.Barbershop{
		Name:                    req.BarbershopName,
		Slug:                    slug,
		Phone:                   req.BarbershopPhone,
		Address:                 req.BarbershopAddress,
		Timezone:                tz,
		AutoConfirmAppointments: true,
	}
	var user models.User

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Barbershop{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.Conflict("slug_already_exists", "Já existe uma barbearia com esse endereço.")
		}
		if err := h.ensureEmailFree(tx, email); err != nil {
			return err
		}

		if err := tx.Create(&shop).Error; err != nil {
			return err
		}

		user = models.User{
			BarbershopID: &shop.ID,
			Name:         req.Name,
			Email:        email,
			PasswordHash: string(hashed),
			Phone:        req.Phone,
			Role:         models.RoleOwner,
			Active:       true,
			LinkStatus:   models.LinkApproved,
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	user.Barbershop = shop
	h.respondWithToken(c, http.StatusCreated, &user)
}

// RegisterCustomer cria a conta de cliente, que não pertence a nenhuma barbearia.
func (h *AuthHandler) RegisterCustomer(c *gin.Context) {
	var req RegisterCustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	email, ok := h.normalizeEmail(c, req.Email)
	if !ok {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao processar a senha.")
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         models.RoleCustomer,
		Active:       true,
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := h.ensureEmailFree(tx, email); err != nil {
			return err
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, &user)
}

// RegisterBarber cria um barbeiro sem barbearia; ele pede vínculo depois.
func (h *AuthHandler) RegisterBarber(c *gin.Context) {
	var req RegisterCustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	email, ok := h.normalizeEmail(c, req.Email)
	if !ok {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao processar a senha.")
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         models.RoleBarber,
		Active:       true,
		LinkStatus:   models.LinkNone,
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := h.ensureEmailFree(tx, email); err != nil {
			return err
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, &user)
}

// Refresh troca o token de renovação por um par novo, relendo o usuário.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, err := middleware.ParseRefreshToken(h.config.JWTSecret, req.RefreshToken)
	if err != nil {
		httperr.Unauthorized(c, "invalid_refresh_token", "Sessão expirada, entre novamente.")
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Barbershop").
		First(&user, userID).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_refresh_token", "Sessão expirada, entre novamente.")
			return
		}
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	if !user.Active {
		httperr.Unauthorized(c, "user_inactive", "Usuário desativado.")
		return
	}

	h.respondWithToken(c, http.StatusOK, &user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Barbershop").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
			return
		}
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	if !user.Active {
		httperr.Unauthorized(c, "user_inactive", "Usuário desativado.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
		return
	}

	h.respondWithToken(c, http.StatusOK, &user)
}

// --------- Helpers ---------

func (h *AuthHandler) normalizeEmail(c *gin.Context, raw string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if !h.emailOK(email) {
		httperr.BadRequest(c, "invalid_email_domain", "O domínio do e-mail informado não parece ser válido.")
		return "", false
	}
	return email, true
}

func (h *AuthHandler) ensureEmailFree(tx *gorm.DB, email string) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return httperr.Conflict("email_already_exists", "E-mail já cadastrado.")
	}
	return nil
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := middleware.GenerateToken(h.config.JWTSecret, h.config.JWTTTL, user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar o token.")
		return
	}
	refresh, err := middleware.GenerateRefreshToken(h.config.JWTSecret, h.config.RefreshTTL, user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar o token.")
		return
	}

	c.JSON(status, gin.H{
		"user":          userJSON(user),
		"barbershop":    shopJSON(user),
		"token":         token,
		"refresh_token": refresh,
	})
}

func userJSON(user *models.User) gin.H {
	return gin.H{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"phone":         user.Phone,
		"role":          user.Role,
		"avatar_url":    user.AvatarURL,
		"barbershop_id": user.BarbershopID,
		"link_status":   user.Link(),
	}
}

// shopJSON é nil para clientes.
func shopJSON(user *models.User) gin.H {
	if user.BarbershopID == nil {
		return nil
	}
	return gin.H{
		"id":       user.Barbershop.ID,
		"name":     user.Barbershop.Name,
		"slug":     user.Barbershop.Slug,
		"phone":    user.Barbershop.Phone,
		"address":  user.Barbershop.Address,
		"logo_url": user.Barbershop.LogoURL,
		"timezone": user.Barbershop.Timezone,
	}
}
