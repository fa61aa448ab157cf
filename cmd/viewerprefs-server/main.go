// Package main is the entry point for the viewerprefs-server application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CreativeUnicorns/viewerprefs/api"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig(os.Args[1:], environMap())
	if err != nil {
		return err
	}

	logger := cfg.newLogger(os.Stderr)
	logger.Info("Viewerprefs server starting up", "storage", cfg.Storage, "cache", cfg.Cache, "encrypt", cfg.Encrypt)

	mgr, err := cfg.newManager(logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := mgr.Close(); err != nil {
			logger.Error("Failed to close backends", "error", err)
		}
	}()

	apiServer, err := api.NewServer(api.Config{
		ListenAddress: cfg.ListenAddr,
		Manager:       mgr,
		Logger:        logger,
		SecureCookies: cfg.SecureCookies,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- apiServer.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		return err
	}

	logger.Info("Server exited gracefully")
	return nil
}
