package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
)

const idempotencyHeader = "Idempotency-Key"

// uintParam lê um id da rota; responde 400 se não for número positivo.
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Identificador inválido.")
		return 0, false
	}
	return uint(v), true
}

// uintQuery devolve 0 quando o parâmetro não veio.
func uintQuery(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Parâmetro inválido.")
		return 0, false
	}
	return uint(v), true
}

// intQuery devolve 0 quando o parâmetro não veio.
func intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Parâmetro inválido.")
		return 0, false
	}
	return v, true
}

// floatQuery exige o parâmetro quando required; ausente devolve 0, false.
func floatQuery(c *gin.Context, name string, required bool) (float64, bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		if required {
			httperr.BadRequest(c, "missing_"+name, "Parâmetro obrigatório.")
			return 0, false, false
		}
		return 0, false, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Parâmetro inválido.")
		return 0, false, false
	}
	return v, true, true
}

// pageQuery lê ?page= e ?size=; a correção de faixa fica com domain.NewPage.
func pageQuery(c *gin.Context) (number, size int, ok bool) {
	if number, ok = intQuery(c, "page"); !ok {
		return 0, 0, false
	}
	if size, ok = intQuery(c, "size"); !ok {
		return 0, 0, false
	}
	return number, size, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return false
	}
	return true
}

// bindOptionalJSON aceita corpo vazio.
func bindOptionalJSON(c *gin.Context, req any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return bindJSON(c, req)
}
