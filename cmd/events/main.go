package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jaredtewodros/recallBridge/internal/config"
	"github.com/jaredtewodros/recallBridge/internal/events"
	"github.com/jaredtewodros/recallBridge/internal/observability"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to initialize logger: ", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()
	app := events.NewServer(logger, metrics, cfg.WebhookSharedKey)

	logger.Info("events server started", zap.Int("port", cfg.EventsPort))
	if err := app.Listen(fmt.Sprintf(":%d", cfg.EventsPort)); err != nil {
		logger.Fatal("events server stopped", zap.Error(err))
	}
}
