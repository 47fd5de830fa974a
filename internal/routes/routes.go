package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/aybserve/clickenrent-backend-sub004/internal/authz"
	"github.com/aybserve/clickenrent-backend-sub004/internal/handlers"
	"github.com/aybserve/clickenrent-backend-sub004/internal/middleware"
	"github.com/aybserve/clickenrent-backend-sub004/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	authSvc *services.AuthService,
	authHandler *handlers.AuthHandler,
	verifyHandler *handlers.VerifyHandler,
	resetHandler *handlers.PasswordResetHandler,
	oauthHandler *handlers.OAuthHandler,
	accountHandler *handlers.AccountHandler,
) *gin.Engine {

	// ---- public
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
		auth.POST("/logout", authHandler.Logout)

		auth.POST("/email/send", verifyHandler.SendCode)
		auth.POST("/email/verify", verifyHandler.VerifyCode)
		auth.POST("/email/resend", verifyHandler.ResendCode)

		auth.POST("/password/forgot", resetHandler.Initiate)
		auth.POST("/password/validate", resetHandler.Validate)
		auth.POST("/password/reset", resetHandler.Confirm)

		auth.POST("/oauth/:provider/callback", oauthHandler.Callback)
	}

	// ---- protected
	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(authSvc))
	protected.Use(middleware.ReadOnlyGuard())
	{
		protected.GET("/auth/me", authHandler.Me)

		accounts := protected.Group("/accounts")
		{
			accounts.GET("/", accountHandler.List)
			accounts.GET("/:id", accountHandler.GetByID)
		}

		admin := protected.Group("/admin", middleware.RequireRoles(authz.RoleAdmin))
		{
			admin.GET("/accounts", accountHandler.List)
			admin.DELETE("/accounts/:id", accountHandler.Deactivate)
		}
	}

	return r
}
