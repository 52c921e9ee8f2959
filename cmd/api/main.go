package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hazard-notifier/internal/app"
	"github.com/hazard-notifier/internal/config"
	jwtinfra "github.com/hazard-notifier/internal/infrastructure/jwt"
	transporthttp "github.com/hazard-notifier/internal/transport/http"
	"github.com/hazard-notifier/internal/transport/queue"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment")
	}

	cfg := config.Load()
	log := app.NewLogger(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer a.Close()

	// JWT provider (optional: routes stay open without keys).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, cfg.JWTExpiry); err == nil {
		jwtProvider = p
	} else {
		log.Warn("JWT provider not available, routes are unauthenticated", "err", err)
	}

	if cfg.RabbitMQURL != "" {
		consumer, err := queue.NewConsumer(queue.Config{
			URL:           cfg.RabbitMQURL,
			Queue:         cfg.HazardQueue,
			DeadLetter:    cfg.HazardDLQ,
			PrefetchCount: cfg.QueuePrefetch,
		}, a.Hazards, log)
		if err != nil {
			log.Warn("queue consumer not available", "err", err)
		} else {
			defer consumer.Close()
			go func() {
				if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("queue consumer stopped", "err", err)
				}
			}()
		}
	}

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{
		HazardService: a.Hazards,
		JWTProvider:   jwtProvider,
		Logger:        log,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "err", err)
	}
	log.Info("server stopped")
}
