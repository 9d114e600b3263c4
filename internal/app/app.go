package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qq3pta/coffee-shop-api/internal/config"
	"github.com/qq3pta/coffee-shop-api/internal/database"
	"github.com/qq3pta/coffee-shop-api/internal/observability"
	"github.com/qq3pta/coffee-shop-api/internal/repository"
	"github.com/qq3pta/coffee-shop-api/internal/security"
	"github.com/qq3pta/coffee-shop-api/internal/service"
	"github.com/qq3pta/coffee-shop-api/internal/tasks"
)

type App struct {
	Config *config.Config
	Logger *slog.Logger
	Server *http.Server
}

// New builds the API process: config, logger, datastore, services, router.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLogger(cfg.Env, cfg.LogLevel)

	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	if err := database.SeedAdmin(db, cfg.BootstrapAdminEmail); err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	jwtMgr := security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
	enqueuer := tasks.NewClient(cfg)

	accountSvc := service.NewAccountService(userRepo, jwtMgr, enqueuer, cfg, logger)
	userSvc := service.NewUserService(userRepo)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	router := NewRouter(RouterDeps{
		Config:      cfg,
		Logger:      logger,
		JWTManager:  jwtMgr,
		Accounts:    accountSvc,
		Users:       userSvc,
		RedisClient: redisClient,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return &App{Config: cfg, Logger: logger, Server: server}, nil
}

// RunMigrationOnly applies the schema and the admin seed, then returns.
func RunMigrationOnly() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return database.SeedAdmin(db, cfg.BootstrapAdminEmail)
}
