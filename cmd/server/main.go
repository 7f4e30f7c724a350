package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"docstack.backend/internal/config"
	"docstack.backend/internal/domain/entities"
	"docstack.backend/internal/infrastructure/chat"
	"docstack.backend/internal/infrastructure/models"
	"docstack.backend/internal/infrastructure/ratelimit"
	"docstack.backend/internal/infrastructure/repositories"
	"docstack.backend/internal/infrastructure/storage"
	"docstack.backend/internal/interfaces/http/handlers"
	"docstack.backend/internal/interfaces/http/middleware"
	"docstack.backend/internal/usecases"
	"docstack.backend/pkg/jwt"
	"docstack.backend/pkg/logger"
	"docstack.backend/pkg/redis"
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
			PrepareStmt: false,
		})
	}
	newBlobStore = storage.NewLocalBlobStore
	runServer    = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB     = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
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
		if err := db.AutoMigrate(
			&models.User{},
			&models.ApiKey{},
			&models.UsageRecord{},
			&models.AuditEntry{},
			&models.Document{},
		); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Pick the rate limiter backend
	limiter, err := buildLimiter(ctx, cfg)
	if err != nil {
		return err
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	apiKeyRepo := repositories.NewApiKeyRepository(db)
	usageRepo := repositories.NewUsageRecordRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	documentRepo := repositories.NewDocumentRepository(db)

	// Initialize document blob storage
	blobStore, err := newBlobStore(cfg.Storage.BlobDir)
	if err != nil {
		return fmt.Errorf("failed to initialize blob storage: %w", err)
	}

	// Initialize upstream chat forwarder
	forwarder := chat.NewHTTPForwarder(cfg.Chat.UpstreamURL, cfg.Chat.UpstreamAPIKey, cfg.Chat.Timeout)

	// Initialize usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService)
	apiKeyUsecase := usecases.NewApiKeyUsecase(apiKeyRepo, limiter)
	apiKeyUsecase.SetDefaultRateLimit(cfg.RateLimit.DefaultPerHour)
	usageUsecase := usecases.NewUsageUsecase(usageRepo)
	auditUsecase := usecases.NewAuditUsecase(auditRepo, userRepo)
	chatUsecase := usecases.NewChatUsecase(forwarder)
	documentUsecase := usecases.NewDocumentUsecase(documentRepo, blobStore)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase, auditUsecase)
	apiKeyHandler := handlers.NewApiKeyHandler(apiKeyUsecase, usageUsecase, auditUsecase)
	auditHandler := handlers.NewAuditHandler(auditUsecase)
	chatHandler := handlers.NewChatHandler(chatUsecase, auditUsecase)
	documentHandler := handlers.NewDocumentHandler(documentUsecase, auditUsecase)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:     authHandler,
		apiKeyHandler:   apiKeyHandler,
		auditHandler:    auditHandler,
		chatHandler:     chatHandler,
		documentHandler: documentHandler,
		sessionAuth:     middleware.AuthMiddleware(jwtService),
		gateChat:        middleware.ApiKeyAuthMiddleware(apiKeyUsecase, usageUsecase, entities.CapabilityChat),
		gateUpload:      middleware.ApiKeyAuthMiddleware(apiKeyUsecase, usageUsecase, entities.CapabilityUpload),
		gateSearch:      middleware.ApiKeyAuthMiddleware(apiKeyUsecase, usageUsecase, entities.CapabilitySearch),
		gateDelete:      middleware.ApiKeyAuthMiddleware(apiKeyUsecase, usageUsecase, entities.CapabilityDelete),
	})

	// Print all registered routes for debugging
	log.Println("📋 Registered Routes:")
	for _, route := range r.Routes() {
		log.Printf("   %s %s", route.Method, route.Path)
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		cancel()
	}()

	// Start server
	log.Printf("🚀 DocStack Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// buildLimiter wires the configured rate limiter store. Redis is only dialed
// when the redis store is selected, so single-node deployments need no Redis.
func buildLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, error) {
	switch cfg.RateLimit.Store {
	case "redis":
		if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
			logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		logger.Info(context.Background(), "Redis rate limiter initialized")
		return ratelimit.NewRedisLimiter(redis.GetClient()), nil
	case "memory":
		l := ratelimit.NewMemoryLimiter()
		go l.StartCleanup(ctx, cfg.RateLimit.CleanupInterval, 2*time.Hour)
		return l, nil
	default:
		return nil, fmt.Errorf("unknown rate limit store %q", cfg.RateLimit.Store)
	}
}
