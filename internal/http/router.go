package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okellodavid/revealhub/internal/auth"
	"github.com/okellodavid/revealhub/internal/cache"
	"github.com/okellodavid/revealhub/internal/config"
	"github.com/okellodavid/revealhub/internal/http/handlers"
	"github.com/okellodavid/revealhub/internal/http/middlewares"
	"github.com/okellodavid/revealhub/internal/observability"
	"github.com/okellodavid/revealhub/internal/repo/postgres"
	"github.com/okellodavid/revealhub/internal/throttle"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 16 // login and select payloads are tiny

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, throttleStore throttle.CounterStore, prom *observability.Prom, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())
	r.Use(otelgin.Middleware("revealhub"))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if prom != nil {
		r.GET("/metrics", gin.WrapH(prom.MetricsHandler()))
	}

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	gridsRepo := postgres.NewGridsRepo(pool, prom)

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL())
	authMW := middlewares.NewAuthMiddleware(jwtManager)

	gridCache := cache.New(5 * time.Second)

	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, jwtManager, prom)
	gridHandler := handlers.NewGameGridHandler(gridsRepo, usersRepo, gridCache, prom, cfg)
	countdownHandler := handlers.NewCountdownHandler(cfg.RevealAt)

	loginThrottle := middlewares.NewLoginThrottle(throttleStore, cfg.LoginRateLimit, cfg.LoginRateWindow)

	r.GET("/countdown", countdownHandler.Countdown)
	r.POST("/login", loginThrottle.Middleware(), authHandler.Login)

	authed := r.Group("/", authMW.RequireAuth())
	authed.GET("/gamegrid", gridHandler.GetState)
	authed.POST("/gamegrid", gridHandler.Select)

	return r
}
