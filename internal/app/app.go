package app

import (
	"fmt"

	"delego_backend/database"
	"delego_backend/internal/auth"
	"delego_backend/internal/config"
	"delego_backend/internal/handlers"
	"delego_backend/internal/logger"
	"delego_backend/internal/middleware"
	"delego_backend/internal/repositories"
	"delego_backend/internal/routes"
	"delego_backend/internal/services"
	"delego_backend/internal/storage"
	"delego_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Run boots the full application: config, logger, database, migrations,
// router. Blocks serving HTTP until the process exits.
func Run() error {
	// Missing .env is fine; real deployments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Server.Env)

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	router, err := SetupRouter(cfg, db)
	if err != nil {
		return fmt.Errorf("setup router: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "addr", addr, "env", cfg.Server.Env)
	return router.Run(addr)
}

// SetupRouter assembles the gin engine with all middleware and routes. The
// test suite calls it directly against its own database handle.
func SetupRouter(cfg *config.Config, db *gorm.DB) (*gin.Engine, error) {
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)

	sc := initializeServices(store, tokens, cfg.Upload.MaxSize)
	appHandlers := handlers.NewAppHandlers(sc, validator.New(), tokens)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))

	routes.RegisterRoutes(router, appHandlers, tokens)

	return router, nil
}

func initializeServices(store storage.Storage, tokens *auth.TokenManager, maxUploadSize int64) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository()
	projectRepo := repositories.NewProjectRepository()
	quoteRepo := repositories.NewQuoteRepository()
	messageRepo := repositories.NewMessageRepository()
	fileRepo := repositories.NewFileRepository()
	reviewRepo := repositories.NewReviewRepository()

	return &services.ServiceContainer{
		AuthService:    services.NewAuthService(userRepo, tokens),
		ProjectService: services.NewProjectService(projectRepo, quoteRepo, fileRepo),
		QuoteService:   services.NewQuoteService(quoteRepo, projectRepo, reviewRepo, fileRepo),
		MessageService: services.NewMessageService(messageRepo, projectRepo),
		FileService:    services.NewFileService(fileRepo, quoteRepo, projectRepo, store, maxUploadSize),
		ReviewService:  services.NewReviewService(reviewRepo, projectRepo, userRepo),
	}
}
