package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/middleware"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/timezone"
)

const (
	auditDefaultLimit = 50
	auditMaxLimit     = 200
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

type auditPage struct {
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int64             `json:"total"`
	Logs  []models.AuditLog `json:"logs"`
}

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(auditDefaultLimit)))
	if limit <= 0 || limit > auditMaxLimit {
		limit = auditDefaultLimit
	}
	return page, limit
}

// List filtra por action, entity, entity_id e intervalo de datas (from/to
// inclusivos, no fuso da barbearia).
func (h *AuditLogsHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)
	page, limit := pagination(c)

	var shop models.Barbershop
	if err := h.db.WithContext(ctx).Select("id", "timezone").First(&shop, barbershopID).Error; err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}
	loc := timezone.Location(shop.Timezone)

	q := h.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("barbershop_id = ?", barbershopID)

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}
	if raw := c.Query("entity_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_entity_id", "Parâmetro inválido.")
			return
		}
		q = q.Where("entity_id = ?", id)
	}

	if from := c.Query("from"); from != "" {
		day, err := timezone.ParseDate(from, loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida, use AAAA-MM-DD.")
			return
		}
		start, _ := timezone.DayBounds(day, loc)
		q = q.Where("created_at >= ?", start)
	}
	if to := c.Query("to"); to != "" {
		day, err := timezone.ParseDate(to, loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida, use AAAA-MM-DD.")
			return
		}
		_, end := timezone.DayBounds(day, loc)
		q = q.Where("created_at < ?", end)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Erro ao contar logs.")
		return
	}

	logs := []models.AuditLog{}
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	c.JSON(http.StatusOK, auditPage{Page: page, Limit: limit, Total: total, Logs: logs})
}
