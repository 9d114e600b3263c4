package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/qq3pta/coffee-shop-api/internal/config"
	"github.com/qq3pta/coffee-shop-api/internal/database"
	"github.com/qq3pta/coffee-shop-api/internal/observability"
	"github.com/qq3pta/coffee-shop-api/internal/repository"
	"github.com/qq3pta/coffee-shop-api/internal/service"
	"github.com/qq3pta/coffee-shop-api/internal/tasks"
)

// The worker process consumes queued tasks (verification emails) and drives
// the daily cleanup of unverified accounts via the embedded scheduler.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := observability.NewLogger(cfg.Env, cfg.LogLevel)

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}
	userRepo := repository.NewUserRepository(db)
	cleanupSvc := service.NewCleanupService(userRepo, cfg.UnverifiedRetention, logger)

	var notifier service.EmailVerificationNotifier
	if cfg.SMTPHost != "" {
		notifier = service.NewSMTPEmailVerificationNotifier(cfg, logger)
	} else {
		notifier = service.NewDevEmailVerificationNotifier(logger)
	}

	redisOpt := tasks.RedisOpt(cfg)
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{"default": 1},
	})
	mux := tasks.NewServeMux(notifier, cleanupSvc)

	scheduler, err := tasks.NewScheduler(redisOpt)
	if err != nil {
		log.Fatal(err)
	}

	if err := server.Start(mux); err != nil {
		log.Fatal(err)
	}
	if err := scheduler.Start(); err != nil {
		log.Fatal(err)
	}
	logger.Info("worker started", "redis_addr", cfg.RedisAddr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	scheduler.Shutdown()
	server.Shutdown()
}
