package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/hazard-notifier/internal/app"
	"github.com/hazard-notifier/internal/config"
	"github.com/hazard-notifier/internal/transport/stream"
)

// Lambda entry point for the hazards table stream.
func main() {
	cfg := config.Load()
	log := app.NewLogger(cfg.LogLevel)
	slog.SetDefault(log)

	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer a.Close()

	lambda.Start(stream.NewHandler(a.Hazards, log).Handle)
}
