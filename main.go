package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"homestay-backend/config"
	"homestay-backend/controllers"
	"homestay-backend/middleware"
	"homestay-backend/routes"
	"homestay-backend/services"
	"homestay-backend/utils"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := utils.NewLogger(settings.IsDevelopment())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if !settings.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	// amounts go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	db, err := config.ConnectDatabase(settings, logger)
	if err != nil {
		logger.Fatal("database connect failed", zap.String("driver", settings.DBDriver), zap.Error(err))
	}
	logger.Info("database ready", zap.String("driver", settings.DBDriver))

	if settings.SeedEnabled() {
		if err := config.LogDemoTokens(db, settings, logger); err != nil {
			logger.Warn("could not issue demo tokens", zap.Error(err))
		}
	}

	var idem middleware.RedisClient
	if settings.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     settings.RedisAddr,
			Password: settings.RedisPassword,
			DB:       settings.RedisDB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable, idempotency keys disabled", zap.String("addr", settings.RedisAddr), zap.Error(err))
		} else {
			idem = rdb
			logger.Info("redis connected", zap.String("addr", settings.RedisAddr))
		}
		cancel()
	}

	bookingService := services.NewBookingService(db, logger)
	bookingController := controllers.NewBookingController(bookingService, logger)
	router := routes.SetupRouter(bookingController, settings, idem, logger)

	addr := ":" + settings.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received, shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return
	}
	logger.Info("server stopped gracefully")
}
