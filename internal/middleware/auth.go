package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/barber-queue/internal/domain"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/models"
)

const (
	ContextUserID       = "userID"
	ContextBarbershopID = "barbershopID"
	ContextUserRole     = "userRole"
)

const refreshType = "refresh"

// ErrNotRefreshToken: o token é válido mas não é de renovação.
var ErrNotRefreshToken = errors.New("not a refresh token")

// GenerateToken assina o JWT do usuário. Clientes levam barbershopId 0.
func GenerateToken(secret string, ttl time.Duration, user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":          user.ID,
		"barbershopId": user.ShopID(),
		"role":         user.Role,
		"exp":          now.Add(ttl).Unix(),
		"iat":          now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateRefreshToken leva só o usuário: papel e barbearia são relidos do
// banco na renovação, assim um vínculo novo entra no próximo token.
func GenerateRefreshToken(secret string, ttl time.Duration, user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.ID,
		"typ": refreshType,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parse(secret, raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// ParseRefreshToken devolve o id do usuário de um token de renovação válido.
func ParseRefreshToken(secret, raw string) (uint, error) {
	claims, err := parse(secret, raw)
	if err != nil {
		return 0, err
	}
	if typ, _ := claims["typ"].(string); typ != refreshType {
		return 0, ErrNotRefreshToken
	}
	userID, ok := claims["sub"].(float64)
	if !ok || userID <= 0 {
		return 0, jwt.ErrTokenInvalidClaims
	}
	return uint(userID), nil
}

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Token não informado.")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Cabeçalho de autorização inválido.")
			c.Abort()
			return
		}

		claims, err := parse(secret, parts[1])
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "Sessão expirada ou inválida.")
			c.Abort()
			return
		}

		// token de renovação não dá acesso à API
		if _, isRefresh := claims["typ"]; isRefresh {
			httperr.Unauthorized(c, "invalid_token_type", "Sessão expirada ou inválida.")
			c.Abort()
			return
		}

		userID, ok1 := claims["sub"].(float64)
		barbershopID, ok2 := claims["barbershopId"].(float64)
		role, ok3 := claims["role"].(string)
		if !ok1 || !ok2 || !ok3 || userID <= 0 {
			httperr.Unauthorized(c, "invalid_token_payload", "Sessão expirada ou inválida.")
			c.Abort()
			return
		}

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextBarbershopID, uint(barbershopID))
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

// Actor monta o ator a partir do que o AuthMiddleware gravou no contexto.
func Actor(c *gin.Context) domain.Actor {
	return domain.Actor{
		UserID:       c.GetUint(ContextUserID),
		BarbershopID: c.GetUint(ContextBarbershopID),
		Role:         c.GetString(ContextUserRole),
	}
}

// RequireRoles barra papéis fora da lista com 403.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c, "forbidden", "Acesso não permitido para este perfil.")
		c.Abort()
	}
}
