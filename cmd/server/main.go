package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"instaclone/backend/internal/auth"
	"instaclone/backend/internal/cache"
	"instaclone/backend/internal/config"
	"instaclone/backend/internal/database"
	"instaclone/backend/internal/handler"
	"instaclone/backend/internal/hub"
	"instaclone/backend/internal/media"
	"instaclone/backend/internal/metrics"
	"instaclone/backend/internal/service"
	"instaclone/backend/internal/store"
	"instaclone/backend/pkg/logger"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "instaclone/backend/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Instaclone API
// @version         1.0
// @description     Users, friendships, posts and the friends feed.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Init("info", false)
		logger.Fatal("Failed to load config", err)
	}
	logger.Init(cfg.LogLevel, cfg.IsDevelopment())
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to migrate database", err)
	}
	st := store.NewGormStore(db)

	feedCache, closeCache := newCache(ctx, cfg)
	defer closeCache()

	storage, err := newStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize media storage", err)
	}

	notifications := hub.NewHub()
	posts := service.NewPostService(st, st, storage)
	tokens := service.NewTokenService(st, st, cfg.JWTSecret, cfg.TokenTTL, 0)
	h := &handler.Handler{
		Users: service.NewUserService(st, storage, service.UserOptions{
			ProfileImageMaxDim: cfg.ProfileImageMaxDim,
		}),
		Friends:        service.NewFriendService(st, st, storage, notifications),
		Posts:          posts,
		Feed:           service.NewFeedService(posts, feedCache, cfg.FeedPageSize, cfg.FeedCacheTTL),
		Tokens:         tokens,
		Hub:            notifications,
		UploadMaxBytes: cfg.UploadMaxBytes,
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), metrics.Middleware(), handler.RequestLogger())
	router.MaxMultipartMemory = cfg.UploadMaxBytes

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	if cfg.MediaBackend == config.MediaBackendLocal {
		router.Static(cfg.MediaBaseURL, cfg.MediaRoot)
	}

	limiter := auth.NewRateLimiter(cfg.TokenRatePerMinute)
	limiter.StartCleanup(10*time.Minute, ctx.Done())
	h.RegisterRoutes(router, limiter)

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Open notification streams never go idle, so end them when shutdown starts.
	srv.RegisterOnShutdown(notifications.Close)

	go func() {
		logger.Info("Server is running", "addr", cfg.ServerAddr, "swagger", "/swagger/index.html")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// newCache uses redis when REDIS_ADDR is set and falls back to an in-process cache.
func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, func()) {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set, using in-memory feed cache")
		return cache.NewMemoryCache(), func() {}
	}

	redisCache, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("Failed to connect to redis", err)
	}
	logger.Info("Connected to redis", "addr", cfg.RedisAddr)
	return redisCache, func() {
		if err := redisCache.Close(); err != nil {
			logger.Warn("Failed to close redis client", "error", err)
		}
	}
}

func newStorage(ctx context.Context, cfg *config.Config) (media.Storage, error) {
	if cfg.MediaBackend == config.MediaBackendMinio {
		return media.NewMinioStorage(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey,
			cfg.MinioBucket, cfg.MinioUseSSL, cfg.MinioPublicURL)
	}
	return media.NewLocalStorage(cfg.MediaRoot, cfg.MediaBaseURL)
}
