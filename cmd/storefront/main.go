// cmd/storefront/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/your-org/storefront-client/internal/config"
	"github.com/your-org/storefront-client/internal/domain/cart"
	"github.com/your-org/storefront-client/internal/domain/catalog"
	"github.com/your-org/storefront-client/internal/domain/identity"
	"github.com/your-org/storefront-client/internal/domain/order"
	"github.com/your-org/storefront-client/internal/domain/stock"
	"github.com/your-org/storefront-client/internal/infrastructure/storage"
	httpserver "github.com/your-org/storefront-client/internal/interfaces/http"
	"github.com/your-org/storefront-client/internal/interfaces/http/routes"
	"github.com/your-org/storefront-client/internal/pkg/logging"
	"github.com/your-org/storefront-client/internal/pkg/rest"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg)
	logger.WithField("version", cfg.App.Version).
		WithField("environment", cfg.App.Environment).
		Infof("starting %s", cfg.App.Name)

	// Local persisted store: files for a client install, Redis when hosting
	// sessions for a web frontend
	var store storage.KV
	switch cfg.Storage.Backend {
	case "redis":
		redisStore, err := storage.NewRedisKV(cfg, uuid.New().String())
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
	default:
		fileStore, err := storage.NewFileKV(cfg.Storage.DataDir)
		if err != nil {
			log.Fatalf("Failed to open local storage: %v", err)
		}
		store = fileStore
	}

	// Session first; the backend clients read its token per request
	var session *identity.Session
	tokenSource := func() string {
		if session == nil {
			return ""
		}
		return session.Token()
	}

	timeout := cfg.Services.RequestTimeout
	authRest := rest.NewClient(cfg.Services.AuthBaseURL, timeout, tokenSource, logger)
	catalogRest := rest.NewClient(cfg.Services.CatalogBaseURL, timeout, tokenSource, logger)
	cartRest := rest.NewClient(cfg.Services.CartBaseURL, timeout, tokenSource, logger)
	orderRest := rest.NewClient(cfg.Services.OrderBaseURL, timeout, tokenSource, logger)

	session = identity.NewSession(authRest, store, logger)
	catalogClient := catalog.NewClient(catalogRest)
	cartService := cart.NewService(session, cart.NewRemote(cartRest), catalogClient, store, logger)
	stocks := stock.NewBroadcaster(catalogClient, logger)
	orderService := order.NewService(orderRest, session, cartService, stocks, logger)

	// The reconciler watches identity transitions for the life of the process
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reconciler := cart.NewReconciler(session, cartService, logger)
	go reconciler.Run(ctx)

	// Resume a persisted login, then seed the badge count
	startupCtx, startupCancel := context.WithTimeout(ctx, timeout)
	if err := session.Resume(startupCtx); err != nil {
		logger.WithError(err).Info("continuing with anonymous session")
	}
	cartService.RefreshCount(startupCtx)
	startupCancel()

	// Create and start the HTTP surface
	server := httpserver.NewServer(cfg, logger, routes.Services{
		Session: session,
		Cart:    cartService,
		Catalog: catalogClient,
		Orders:  orderService,
		Stocks:  stocks,
	})

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down gracefully")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("failed to shutdown HTTP server gracefully")
	}

	logger.Info("shutdown complete")
}
