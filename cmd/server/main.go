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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/mpozdnyakov/storefront/internal/cache"
	"github.com/mpozdnyakov/storefront/internal/config"
	"github.com/mpozdnyakov/storefront/internal/handlers"
	"github.com/mpozdnyakov/storefront/internal/logging"
	"github.com/mpozdnyakov/storefront/internal/middleware/loggingmw"
	"github.com/mpozdnyakov/storefront/internal/mykafka"
	"github.com/mpozdnyakov/storefront/internal/service"
	httpserver "github.com/mpozdnyakov/storefront/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(context.Background(), configuration)
	if err != nil {
		log.Fatalf("db init failed: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	var productCache cache.ProductCache
	if configuration.REDIS_ADDR != "" {
		rdb := redis.NewClient(&redis.Options{Addr: configuration.REDIS_ADDR})
		productCache = cache.NewRedisProductCache(rdb)
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	cartSvc := &service.CartService{DB: db}
	orderSvc := &service.OrderService{DB: db}

	var publisher mykafka.Publisher
	if prod != nil {
		publisher = prod
	}

	deps := httpserver.Deps{
		DB:             db,
		JWTSecret:      jwtSecret,
		ProductHandler: &handlers.ProductHandler{DB: db, Cache: productCache, Producer: publisher},
		CartHandler:    &handlers.CartHandler{Svc: cartSvc, Producer: publisher},
		OrderHandler:   &handlers.OrderHandler{Svc: orderSvc, Producer: publisher},
		AddressHandler: &handlers.AddressHandler{DB: db},
	}
	httpserver.Register(e, &deps)

	port := configuration.SERVER_PORT
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if prod != nil {
		if err := prod.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
