package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"appointment-tool/pkg/api"
	"appointment-tool/pkg/clients/calcom"
	"appointment-tool/pkg/config"
	"appointment-tool/pkg/logger"
	"appointment-tool/pkg/middleware"
	"appointment-tool/pkg/services"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadWithFile(".env")
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	zlog.Info("Configuration loaded",
		zap.Bool("calcom_api_key_present", cfg.CalcomAPIKey != ""),
		zap.String("calcom_base_url", cfg.CalcomBaseURL),
		zap.String("event_type_id", cfg.EventTypeID),
		zap.String("timezone", cfg.Location.String()))

	// Initialize API clients
	calcomClient := calcom.NewClient(cfg.CalcomAPIKey, cfg.CalcomBaseURL, cfg.EventTypeID, cfg.EventTypeSlug, cfg.CalcomTimeout)

	// Initialize services
	availabilityService := services.NewAvailabilityService(calcomClient, cfg, zlog)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(zlog))
	router.Use(middleware.AccessLog(zlog))
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, zlog))

	// Initialize handlers and register routes
	handlers := api.NewHandlers(availabilityService, zlog)
	api.RegisterRoutes(router, handlers, cfg.PublicDir)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	go func() {
		zlog.Info("Appointment availability tool running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Error starting server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}
}
