package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/zack5769/saferide/internal/api"
	"github.com/zack5769/saferide/internal/clients/routing"
	"github.com/zack5769/saferide/internal/config"
	"github.com/zack5769/saferide/internal/logging"
	"github.com/zack5769/saferide/internal/services"
)

func main() {
	configPath := flag.String("config", "saferide.yaml", "Path to YAML config (optional; SAFERIDE_* env vars override)")
	flag.Parse()

	appConfig, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(appConfig.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Routing backend client and the network -> sample -> minimal chain
	routingClient := routing.NewClient(appConfig.Routing, logger)
	routeService := services.NewRouteService(appConfig.Routing, routingClient, logger)

	// Requests without an origin start from the configured fallback position
	navigationService := services.NewNavigationService(routeService, nil, appConfig.Navigation, logger)

	server := api.NewServer(navigationService, appConfig.Server, logger)

	logger.Info("SafeRide navigator starting",
		zap.String("addr", appConfig.Server.Addr()),
		zap.String("routing_backend", appConfig.Routing.BaseURL),
		zap.Duration("tick_interval", appConfig.Navigation.TickInterval))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server failed", zap.Error(err))
	}
	logger.Info("SafeRide navigator stopped")
}
