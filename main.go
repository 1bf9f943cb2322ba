package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"workroll/api"
	"workroll/config"
	"workroll/storage"
	"workroll/stream"
	"workroll/updater"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := log.New()
	logger.SetFormatter(&log.JSONFormatter{})
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	base, err := storage.New(cfg.Storage())
	if err != nil {
		logger.Fatalf("storage: %v", err)
	}
	redisOpts, err := cfg.RedisOptions()
	if err != nil {
		logger.Fatalf("redis: %v", err)
	}
	rc := redis.NewClient(redisOpts)
	defer rc.Close()
	cache := storage.NewCache(base, rc, cfg.CacheTTL)

	auth, err := newAuth(cfg, logger)
	if err != nil {
		logger.Fatalf("auth: %v", err)
	}

	hub := stream.NewHub(logger)
	go hub.Run(ctx, rc, cfg.StreamChannel)
	if cfg.UpdaterEnabled {
		go updater.New(base, cache, rc, cfg.StreamChannel, cfg.UpdaterPollInterval, logger).Run(ctx)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Idempotency-Key"},
	}))
	e.Use(echoprometheus.NewMiddleware("workroll"))
	e.GET("/metrics", echoprometheus.NewHandler())

	api.Register(e, api.Deps{
		Store:   cache,
		Auth:    auth,
		Deduper: api.NewRedisDeduper(rc, cfg.DeduperTTL),
		Hub:     hub,
		Logger:  logger,
	})

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server: %v", err)
		}
	}()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("shutdown")
	}
}

func newAuth(cfg config.Config, logger *log.Logger) (*api.Auth, error) {
	if cfg.LocalAuth() {
		logger.Warn("verifying tokens with the local shared secret")
		return api.NewLocalAuth([]byte(cfg.LocalAuthSharedSecret)), nil
	}
	jwksURL := fmt.Sprintf("https://%s/.well-known/jwks.json", cfg.Auth0Domain)
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.WithError(err).Error("jwks refresh failed")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("jwks: %w", err)
	}
	return api.NewAuth(jwks, cfg.Auth0Audience, "https://"+cfg.Auth0Domain+"/", cfg.JWKSCacheTTL), nil
}
