package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type HTTPError struct {
	Kind    Kind   `json:"error_kind,omitempty"`
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, HTTPError{Kind: KindValidation, Code: code, Message: message})
}

func NotFound(c *gin.Context, code, message string) {
	c.JSON(http.StatusNotFound, HTTPError{Kind: KindNotFound, Code: code, Message: message})
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// StatusFor mapeia o Kind para o status HTTP.
func StatusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindInvalidState, KindSlotConflict:
		return http.StatusConflict
	case KindPolicy:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Respond escreve erros de negócio com o status do seu Kind; o resto vira 500.
func Respond(c *gin.Context, err error) {
	var be BusinessError
	if errors.As(err, &be) {
		c.JSON(StatusFor(be.Kind), HTTPError{
			Kind:    be.Kind,
			Code:    be.Code,
			Message: be.Message,
		})
		return
	}

	_ = c.Error(err)
	log.Error().Err(err).Str("path", c.FullPath()).Msg("unexpected error")
	Internal(c, "internal_error", "Erro interno.")
}
