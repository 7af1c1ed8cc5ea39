package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appsync "github.com/channelbridge/backend/internal/application/sync"
	"github.com/channelbridge/backend/internal/domain/channel"
	"github.com/channelbridge/backend/internal/infrastructure/adapters/cafe24"
	"github.com/channelbridge/backend/internal/infrastructure/adapters/coupang"
	"github.com/channelbridge/backend/internal/infrastructure/adapters/naver"
	"github.com/channelbridge/backend/internal/infrastructure/cache"
	"github.com/channelbridge/backend/internal/infrastructure/config"
	"github.com/channelbridge/backend/internal/infrastructure/logger"
	"github.com/channelbridge/backend/internal/infrastructure/persistence"
	"github.com/channelbridge/backend/internal/interfaces/http/handler"
	"github.com/channelbridge/backend/internal/interfaces/http/middleware"
	"github.com/channelbridge/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ChannelBridge",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Token cache. Redis keeps platform tokens shared across instances; when
	// Redis is unreachable at startup the in-memory cache keeps a single
	// instance functional.
	var tokens cache.TokenCache
	redisCache, err := cache.NewRedisTokenCache(cache.RedisConfig{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory token cache", zap.Error(err))
		tokens = cache.NewInMemoryTokenCache()
	} else {
		tokens = redisCache
	}

	// Channel adapters
	adapters, err := buildAdapters(cfg, tokens)
	if err != nil {
		log.Fatal("Failed to configure channel adapters", zap.Error(err))
	}
	if len(adapters) == 0 {
		log.Warn("No channels enabled; sync endpoints will reject every request")
	}
	registry := channel.NewRegistry(adapters...)
	for _, code := range registry.Codes() {
		log.Info("Channel adapter configured", zap.String("channel", code.String()))
	}

	// Mirror stores and application services
	store := persistence.NewGormChannelProductRepository(db.DB)
	syncLogs := persistence.NewGormSyncLogRepository(db.DB)
	resolver := persistence.NewGormSKUResolver(db.DB)

	catalogService := appsync.NewCatalogService(registry, store, syncLogs, resolver, cfg.Sync.MaxCatalogItems, log)
	inventoryService := appsync.NewInventoryService(registry, store, syncLogs, log)
	orderService := appsync.NewOrderService(registry, cfg.Sync.ChangeWindow, log)
	claimService := appsync.NewClaimService(registry, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodyBytes))
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		MaxAge:       12 * time.Hour,
	}))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewChannelHandler(catalogService, inventoryService, orderService, claimService))
	r.Register(handler.NewSystemHandler(db.DB, registry))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// buildAdapters constructs one adapter per enabled channel
func buildAdapters(cfg *config.Config, tokens cache.TokenCache) ([]channel.Adapter, error) {
	var adapters []channel.Adapter
	timeoutSeconds := int(cfg.Sync.RequestTimeout / time.Second)

	if cfg.Channels.Naver.Enabled {
		nc := naver.NewConfig(cfg.Channels.Naver.ClientID, cfg.Channels.Naver.ClientSecret)
		nc.BaseURL = cfg.Channels.Naver.BaseURL
		nc.PageSize = cfg.Sync.PageSize
		nc.TimeoutSeconds = timeoutSeconds
		a, err := naver.NewAdapter(nc, tokens)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, a)
	}

	if cfg.Channels.Coupang.Enabled {
		cc := coupang.NewConfig(cfg.Channels.Coupang.AccessKey, cfg.Channels.Coupang.SecretKey, cfg.Channels.Coupang.VendorID)
		cc.BaseURL = cfg.Channels.Coupang.BaseURL
		cc.PageSize = cfg.Sync.PageSize
		cc.TimeoutSeconds = timeoutSeconds
		a, err := coupang.NewAdapter(cc)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, a)
	}

	if cfg.Channels.Cafe24.Enabled {
		fc := cafe24.NewConfig(cfg.Channels.Cafe24.MallID, cfg.Channels.Cafe24.ClientID,
			cfg.Channels.Cafe24.ClientSecret, cfg.Channels.Cafe24.RefreshToken)
		fc.PageSize = cfg.Sync.PageSize
		fc.TimeoutSeconds = timeoutSeconds
		a, err := cafe24.NewAdapter(fc, tokens)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, a)
	}

	return adapters, nil
}
