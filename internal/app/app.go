package app

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/aybserve/clickenrent-backend-sub004/docs"
	"github.com/aybserve/clickenrent-backend-sub004/internal/config"
	"github.com/aybserve/clickenrent-backend-sub004/internal/handlers"
	"github.com/aybserve/clickenrent-backend-sub004/internal/oauth"
	"github.com/aybserve/clickenrent-backend-sub004/internal/repositories"
	"github.com/aybserve/clickenrent-backend-sub004/internal/routes"
	"github.com/aybserve/clickenrent-backend-sub004/internal/services"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()

	// === Repos ===
	accountRepo := repositories.NewAccountRepository(db)
	verificationRepo := repositories.NewVerificationRepository(db)

	// === Services ===
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	tokenService := services.NewTokenService(cfg.Auth, accountRepo)
	revocationStore := services.NewRevocationStore()
	verificationService := services.NewVerificationService(accountRepo, verificationRepo, emailService, cfg.Auth)
	identityService := services.NewIdentityService(accountRepo, cfg.Auth)

	authService := services.NewAuthService(
		accountRepo,
		tokenService,
		revocationStore,
		verificationService,
		identityService,
		emailService,
		oauth.NewGoogleClient(cfg.OAuth.Google.ClientID, cfg.OAuth.Google.ClientSecret),
		oauth.NewFacebookClient(cfg.OAuth.Facebook.ClientID, cfg.OAuth.Facebook.ClientSecret),
	)

	// фоновая чистка чёрного списка
	stopSweeper := revocationStore.StartSweeper(time.Duration(cfg.Auth.RevocationSweepMinutes) * time.Minute)
	defer stopSweeper()

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(authService)
	verifyHandler := handlers.NewVerifyHandler(authService)
	resetHandler := handlers.NewPasswordResetHandler(authService)
	oauthHandler := handlers.NewOAuthHandler(authService)
	accountHandler := handlers.NewAccountHandler(accountRepo)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		authService,
		authHandler,
		verifyHandler,
		resetHandler,
		oauthHandler,
		accountHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
