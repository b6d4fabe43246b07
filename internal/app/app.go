package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "vena/docs"
	"vena/internal/config"
	"vena/internal/handlers"
	"vena/internal/locks"
	"vena/internal/pdf"
	"vena/internal/pricing"
	"vena/internal/realtime"
	"vena/internal/repositories"
	"vena/internal/repositories/memory"
	"vena/internal/routes"
	"vena/internal/services"
)

func Run() {
	cfg := config.LoadConfig()
	ctx := context.Background()

	// === Store ===
	var store repositories.Store
	if cfg.Database.DSN != "" {
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			log.Fatal("[app] db open: ", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Printf("[app] db close: %v", err)
			}
		}()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal("[app] db ping: ", err)
		}
		pg := repositories.NewPostgresStore(db)
		if err := pg.Migrate(ctx); err != nil {
			log.Fatal("[app] ", err)
		}
		store = pg
	} else {
		log.Printf("[app] database.url is empty, using in-memory store")
		store = memory.NewStore()
	}

	// === Locks ===
	var locker locks.Locker = locks.NewLocalLocker()
	if cfg.Redis.URL != "" {
		rdb, err := locks.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal("[app] ", err)
		}
		defer rdb.Close()
		locker = locks.NewRedisLocker(rdb, "vena:lock:")
	}

	// === Notifications ===
	hub := realtime.NewHub()
	var chat services.ChatSender
	if cfg.Telegram.BotToken != "" {
		tg, err := services.NewTelegramService(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			log.Printf("[app] telegram disabled: %v", err)
		} else {
			chat = tg
		}
	}
	var email services.EmailService
	if cfg.Email.SMTPHost != "" {
		email = services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
			cfg.Server.VendorName,
		)
	}

	// === Services ===
	calc := pricing.NewCalculator(nil)
	notificationService := services.NewNotificationService(store, hub, chat)
	authService := services.NewAuthService(store, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	userService := services.NewUserService(store, authService)
	leadService := services.NewLeadService(store, notificationService)
	clientService := services.NewClientService(store)
	catalogService := services.NewCatalogService(store, calc)
	conversionService := services.NewConversionService(store, calc, locker, notificationService, cfg.Finance.DepositCategory)
	projectService := services.NewProjectService(store, notificationService, email, cfg.Server.PublicBaseURL, cfg.Finance.PaymentCategory)
	financeService := services.NewFinanceService(store, cfg.Finance.IncomeCategories, cfg.Finance.ExpenseCategories)
	reportService := services.NewReportService(store)

	seedCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := userService.EnsureAdmin(seedCtx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		log.Printf("[app] ensure admin: %v", err)
	}
	cancel()

	docs := pdf.NewDocumentGenerator(cfg.Files.RootDir, cfg.Files.FontPath, cfg.Server.VendorName)

	// === Handlers ===
	h := routes.Handlers{
		Auth:          handlers.NewAuthHandler(authService),
		User:          handlers.NewUserHandler(userService),
		Lead:          handlers.NewLeadHandler(leadService, conversionService, cfg.Files.MaxProofBytes),
		Client:        handlers.NewClientHandler(clientService),
		Project:       handlers.NewProjectHandler(projectService, clientService, docs),
		Catalog:       handlers.NewCatalogHandler(catalogService),
		Finance:       handlers.NewFinanceHandler(financeService, projectService, docs),
		Report:        handlers.NewReportHandler(reportService),
		Notification:  handlers.NewNotificationHandler(notificationService),
		Public:        handlers.NewPublicHandler(catalogService, conversionService, clientService, cfg.Files.MaxProofBytes),
		Notifications: hub,
	}

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(router, []byte(cfg.Auth.JWTSecret), h)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("[app] listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("[app] server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
