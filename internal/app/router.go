package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/qq3pta/coffee-shop-api/internal/config"
	"github.com/qq3pta/coffee-shop-api/internal/http/handler"
	"github.com/qq3pta/coffee-shop-api/internal/http/middleware"
	"github.com/qq3pta/coffee-shop-api/internal/http/response"
	"github.com/qq3pta/coffee-shop-api/internal/security"
	"github.com/qq3pta/coffee-shop-api/internal/service"
)

type RouterDeps struct {
	Config      *config.Config
	Logger      *slog.Logger
	JWTManager  *security.JWTManager
	Accounts    service.AccountServiceInterface
	Users       service.UserServiceInterface
	RedisClient redis.UniversalClient
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(deps.Logger))

	authHandler := handler.NewAuthHandler(deps.Accounts)
	userHandler := handler.NewUserHandler(deps.Users)

	var limiter middleware.Limiter = middleware.NewLocalFixedWindowLimiter()
	if deps.RedisClient != nil {
		limiter = middleware.NewRedisFixedWindowLimiter(deps.RedisClient, "rl:auth")
	}
	authRate := middleware.NewRateLimiter(limiter, deps.Config.AuthRateLimitPerMin, time.Minute, middleware.FailOpen, deps.Logger)

	r.Route("/auth", func(r chi.Router) {
		r.Use(authRate.Middleware())
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.Post("/verify", authHandler.Verify)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Accounts, deps.JWTManager))
		r.Get("/me", userHandler.Me)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/", userHandler.List)
			r.Get("/{id}", userHandler.Get)
			r.Patch("/{id}", userHandler.Update)
			r.Delete("/{id}", userHandler.Delete)
		})
	})

	r.Get("/health/live", func(w http.ResponseWriter, req *http.Request) {
		response.JSON(w, req, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		response.JSON(w, req, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}
