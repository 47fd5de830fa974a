package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aybserve/clickenrent-backend-sub004/internal/middleware"
	"github.com/aybserve/clickenrent-backend-sub004/internal/services"
)

func getClaims(c *gin.Context) (*services.Claims, bool) {
	v, ok := c.Get(middleware.CtxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*services.Claims)
	return claims, ok
}

// respondError переводит сентинелы сервисов в HTTP-ответ. Сообщения про
// учётные данные и дубликаты намеренно одинаково общие.
func respondError(c *gin.Context, err error) {
	var cve *services.CodeValidationError
	switch {
	case errors.As(err, &cve):
		detail := "invalid code"
		if errors.Is(err, services.ErrCodeFormat) {
			detail = "malformed code: " + cve.Detail
		} else if errors.Is(err, services.ErrCodeMismatch) {
			detail = "wrong code"
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": detail, "remaining_attempts": cve.Remaining})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, services.ErrTokenInvalid),
		errors.Is(err, services.ErrTokenExpired),
		errors.Is(err, services.ErrTokenRevoked):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "Registration failed"})
	case errors.Is(err, services.ErrAlreadyVerified):
		c.JSON(http.StatusBadRequest, gin.H{"error": "already verified"})
	case errors.Is(err, services.ErrNoActiveCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no active code, please request a new one"})
	case errors.Is(err, services.ErrCodeExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "code expired, please request a new one"})
	case errors.Is(err, services.ErrTooManyAttempts):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts, please request a new code"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
