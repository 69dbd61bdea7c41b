package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"nature-widget.backend/internal/config"
	"nature-widget.backend/internal/infrastructure/billing"
	"nature-widget.backend/internal/infrastructure/jobs"
	"nature-widget.backend/internal/infrastructure/repositories"
	"nature-widget.backend/internal/interfaces/http/handlers"
	"nature-widget.backend/internal/interfaces/http/middleware"
	"nature-widget.backend/internal/usecases"
	"nature-widget.backend/pkg/jwt"
	"nature-widget.backend/pkg/logger"
	"nature-widget.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt:    false,
			TranslateError: true,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize repositories
	accountRepo := repositories.NewAccountRepository(db)
	domainRepo := repositories.NewDomainRepository(db)
	apiKeyRepo := repositories.NewApiKeyRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Start billing lapse sweep
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()
	lapseJob := jobs.NewBillingLapseJob(domainRepo, apiKeyRepo, uow)
	go lapseJob.Start(jobCtx)

	// Initialize billing gateway and pending purchase store
	billingGateway := billing.NewHostedCheckoutGateway(cfg.Billing.CheckoutBaseURL)
	purchaseStore := redis.NewPurchaseStore(cfg.Billing.SessionTTL)

	// Initialize usecases
	authUsecase := usecases.NewAuthUsecase(accountRepo, domainRepo, uow, jwtService)
	keyUsecase := usecases.NewKeyLifecycleUsecase(apiKeyRepo, domainRepo, uow)
	purchaseUsecase := usecases.NewDomainPurchaseUsecase(domainRepo, apiKeyRepo, accountRepo, uow, billingGateway, purchaseStore)
	widgetAuthUsecase := usecases.NewWidgetAuthUsecase(apiKeyRepo, domainRepo, accountRepo, cfg.Server.IsDevelopment())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	domainHandler := handlers.NewDomainHandler(purchaseUsecase)
	keyHandler := handlers.NewKeyHandler(keyUsecase)
	widgetHandler := handlers.NewWidgetHandler(cfg.Widget.AssetPath)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerRoutes(r, routeDeps{
		authHandler:          authHandler,
		domainHandler:        domainHandler,
		keyHandler:           keyHandler,
		widgetHandler:        widgetHandler,
		authMiddleware:       middleware.AuthMiddleware(jwtService),
		widgetAuthMiddleware: middleware.WidgetAuthMiddleware(widgetAuthUsecase),
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		lapseJob.Stop()
	}()

	// Start server
	log.Printf("🚀 Nature Widget Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
