package main

import (
	_ "backend/api/swagger" // swagger docs
	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/mailer"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Headless Content API
// @version         1.0
// @description     Multi-tenant headless content API. Services define content
// @description     types with typed fields and store schema-validated JSON
// @description     documents, authorized per request via API key and role
// @description     permissions.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		logrus.Info("no configs/.env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	db, err := database.NewConnection(cfg.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}
	logrus.Info("connected to PostgreSQL")

	// Mail transport: Mailgun when configured, log-only otherwise.
	var mail mailer.Mailer = mailer.Log{}
	if cfg.Mail.MailgunDomain != "" && cfg.Mail.MailgunAPIKey != "" {
		mail = mailer.NewMailgun(cfg.Mail.MailgunDomain, cfg.Mail.MailgunAPIKey, cfg.Mail.Sender)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	contentTypeRepo := repository.NewContentTypeRepository(db)
	fieldRepo := repository.NewFieldRepository(db)
	contentItemRepo := repository.NewContentItemRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db)

	// Services
	authService := service.NewAuthService(userRepo, sessionRepo, mail, cfg.Session.TTL)
	tenantService := service.NewTenantService(serviceRepo, roleRepo, auditRepo, txManager)
	contentService := service.NewContentService(contentTypeRepo, fieldRepo, contentItemRepo)
	auditService := service.NewAuditService(auditRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, cfg.Session)
	tenantHandler := handler.NewTenantHandler(tenantService, auditService, sessionRepo, cfg.Session.CookieName)
	contentHandler := handler.NewContentHandler(contentService, serviceRepo, roleRepo)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept", "x-api-key"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	authHandler.RegisterRoutes(router.Group(""))
	tenantHandler.RegisterRoutes(router.Group(""))
	contentHandler.RegisterRoutes(router.Group(""))

	logrus.WithField("port", cfg.Server.Port).Info("server listening")
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logrus.WithError(err).Fatal("server failed")
	}
}
