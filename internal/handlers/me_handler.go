package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/middleware"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

type MeHandler struct {
	db       *gorm.DB
	uploader *Uploader
}

func NewMeHandler(db *gorm.DB, uploader *Uploader) *MeHandler {
	return &MeHandler{db: db, uploader: uploader}
}

func (h *MeHandler) loadUser(c *gin.Context) (*models.User, bool) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Barbershop").
		First(&user, userID).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "Usuário não encontrado.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_user", "Erro ao buscar usuário.")
		return nil, false
	}
	return &user, true
}

func (h *MeHandler) GetMe(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":       userJSON(user),
		"barbershop": shopJSON(user),
	})
}

// UploadAvatar recebe multipart com o campo "file".
func (h *MeHandler) UploadAvatar(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}

	url, ok := h.uploader.save(c, "avatars", user.ID)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(user).
		Update("avatar_url", url).Error; err != nil {

		httperr.Internal(c, "failed_to_update_avatar", "Erro ao salvar o avatar.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}
