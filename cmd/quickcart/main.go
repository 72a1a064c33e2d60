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

	"github.com/quickcart-shop/quickcart/internal/accounts"
	"github.com/quickcart-shop/quickcart/internal/cart"
	"github.com/quickcart-shop/quickcart/internal/catalog"
	"github.com/quickcart-shop/quickcart/internal/config"
	"github.com/quickcart-shop/quickcart/internal/events"
	"github.com/quickcart-shop/quickcart/internal/httpserver"
	"github.com/quickcart-shop/quickcart/internal/logging"
	"github.com/quickcart-shop/quickcart/internal/search"
	"github.com/quickcart-shop/quickcart/internal/storage"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := storage.Open(initCtx, cfg.DatabaseURL, cfg.StorePath)
	cancel()
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}

	cat, err := catalog.New(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("catalog init error: %v", err)
	}

	var producer *events.Producer
	if cfg.KafkaAddr != "" {
		producer = events.NewProducer([]string{cfg.KafkaAddr})
	}

	authSvc := &accounts.Service{Store: store, Producer: producer}
	cartSvc := &cart.Service{Store: store, Producer: producer, TaxRate: cfg.TaxRate}

	productHandler := &httpserver.ProductHTTP{Catalog: cat}
	if cfg.ESURL != "" {
		esClient, err := search.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		idxCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := search.IndexCatalog(idxCtx, esClient, search.Index, cat.All()); err != nil {
			log.Fatalf("catalog indexing error: %v", err)
		}
		cancel()
		productHandler.ES = esClient
	}

	jwtSecret := []byte(cfg.JWTSecret)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(httpserver.WithLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		Auth:      &httpserver.AuthHTTP{Svc: authSvc, JWTSecret: jwtSecret},
		Cart:      &httpserver.CartHTTP{Svc: cartSvc, Catalog: cat},
		Products:  productHandler,
		JWTSecret: jwtSecret,
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if err := store.Close(); err != nil {
		log.Printf("store close error: %v", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	logger.Info("shutdown complete")
}
