package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aybserve/clickenrent-backend-sub004/internal/services"
)

const (
	CtxClaims    = "claims"
	CtxAccountID = "account_id"
	CtxRoles     = "roles"
)

// AuthMiddleware валидирует Bearer-токен через AuthService.CheckAccess:
// подпись, срок и затем явная проверка отзыва. Отозванный токен
// отклоняется немедленно, без задержки распространения.
func AuthMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// preflight пропускаем
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimSpace(parts[1])

		claims, err := auth.CheckAccess(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(CtxClaims, claims)
		c.Set(CtxAccountID, claims.AccountID)
		c.Set(CtxRoles, claims.Roles)

		c.Next()
	}
}
