package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Evgen-Mutagen/breakfast-orders/internal/app"
	"github.com/Evgen-Mutagen/breakfast-orders/internal/util/logger"
)

func main() {
	cfg, err := app.NewConfigFromFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogEncoding); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	if !run(cfg) {
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *app.Config) bool {
	application, err := app.New(cfg, logger.Log)
	if err != nil {
		logger.Log.Error("Failed to start application", zap.Error(err))
		return false
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		logger.Log.Error("Server stopped with error", zap.Error(err))
		return false
	}

	logger.Log.Info("Server stopped")
	return true
}
