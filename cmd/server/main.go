package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"blogstats/internal/app"
	"blogstats/internal/logger"
)

func main() {
	addr := flag.String("addr", ":3000", "HTTP listen address")
	envFile := flag.String("env-file", ".env", "optional dotenv file loaded before reading the environment")
	flag.Parse()

	// a missing .env is fine; real environment variables always win
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("failed to load %s: %v\n", *envFile, err)
		os.Exit(1)
	}

	// Allow overriding port via PORT env (useful for platforms)
	if p := os.Getenv("PORT"); p != "" {
		*addr = ":" + p
	}

	if err := logger.InitLogger(os.Getenv("APP_ENV")); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := app.ConfigFromEnv()
	if err != nil {
		logger.Log.Fatal("Invalid configuration", zap.Error(err))
	}
	if cfg.AdminSecret == "" {
		logger.Log.Warn("ADMIN_SECRET is not set; upstream requests will likely be rejected")
	}

	srv, err := app.NewServer(cfg, logger.Log)
	if err != nil {
		logger.Log.Fatal("Failed to initialize server", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx, *addr); err != nil {
		logger.Log.Error("Server exited with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
