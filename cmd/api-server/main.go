package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"bloghub/database"
	"bloghub/internal/cache"
	"bloghub/internal/config"
	"bloghub/internal/events"
	"bloghub/internal/httpapi/handler"
	"bloghub/internal/httpapi/middleware"
	"bloghub/internal/httpapi/repository"
	"bloghub/internal/httpapi/service"
	"bloghub/internal/mailer"
	"bloghub/internal/websocket"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	// Cache and bus degrade instead of blocking startup: without redis the
	// listing reads go straight to the database and fan-out mail is skipped.
	var listCache cache.Cache = cache.Noop{}
	redisCache, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, logger)
	if err != nil {
		logger.Warn("redis cache unavailable, serving without cache", "error", err)
	} else {
		listCache = redisCache
		defer redisCache.Close()
	}

	var bus events.Bus = events.NopBus{}
	redisBus, err := events.NewRedisBus(cfg.RedisAddr, cfg.RedisPassword, logger)
	if err != nil {
		logger.Warn("event bus unavailable, mail fan-out disabled", "error", err)
	} else {
		bus = redisBus
		defer redisBus.Close()
	}

	registry := websocket.NewRegistry(logger)

	userRepo := repository.NewUserRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	authService := service.NewAuthService(userRepo, cfg)
	userService := service.NewUserService(userRepo)
	blogService := service.NewBlogService(
		blogRepo, notifRepo, bus, registry, listCache,
		cfg.CacheTTL, cfg.BlogPageSize, logger,
	)
	notifService := service.NewNotificationService(notifRepo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Mail fan-out consumes blog events on its own loop, decoupled from the
	// request path that published them.
	subscriber := mailer.NewSubscriber(blogRepo, mailer.NewFromConfig(cfg, logger), logger)
	if err := subscriber.Run(ctx, bus); err != nil {
		logger.Error("mail subscriber failed to start", "error", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.IsDevelopment() {
		r.Use(gin.Logger())
	}
	r.Use(middleware.CORS(cfg.CORSOrigins))

	rateLimiter := middleware.NewRateLimiter(120, 30)
	r.Use(rateLimiter.Middleware())

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler()
	blogHandler := handler.NewBlogHandler(blogService)
	notifHandler := handler.NewNotificationHandler(notifService)
	uploadHandler := handler.NewUploadHandler()

	r.GET("/check-conn", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API is alive and database connected"})
	})
	r.GET("/ws", websocket.WSHandler(registry))

	api := r.Group("/api")
	authHandler.RegisterRoutes(api.Group("/auth"))

	// blog detail is public, everything else resolves the caller's identity
	api.GET("/blogs/:blogid", blogHandler.Get)

	authed := api.Group("", middleware.AuthMiddleware(authService))
	authed.GET("/blogs", blogHandler.List)

	user := authed.Group("/user", middleware.UserSync(userService))
	user.GET("", userHandler.Get)
	user.POST("/blog", blogHandler.Create)
	user.PUT("/blog/:blogid", blogHandler.Update)
	user.DELETE("/blog/:blogid", blogHandler.Delete)
	notifHandler.RegisterRoutes(user.Group("/notifications"))
	uploadHandler.RegisterRoutes(user)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		logger.Info("api server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
