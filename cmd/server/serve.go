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

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/njpv/shop-admin/internal/apiclient"
	"github.com/njpv/shop-admin/internal/config"
	"github.com/njpv/shop-admin/internal/handlers"
	"github.com/njpv/shop-admin/internal/notify"
	"github.com/njpv/shop-admin/internal/service"
	"github.com/njpv/shop-admin/internal/session"
	"github.com/njpv/shop-admin/pkg/logger"
	"github.com/njpv/shop-admin/web"
)

const janitorInterval = time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the admin screens",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return err
	}

	if err := cfg.ValidateSession(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return err
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting shop admin",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"api", cfg.API.BaseURL,
		"log_level", cfg.LogLevel,
		"version", version,
	)

	client, err := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		return err
	}

	// Each browser session gets its own catalog screen
	store := session.NewStore(cfg.Session.IdleTimeout, func(n notify.Notifier) *service.CatalogScreen {
		return service.NewCatalogScreen(client, n, log)
	})
	sessions := session.NewManager(store, cfg.Session.CookieName, cfg.Session.Secret, cfg.Session.Secure)

	router := handlers.NewRouter(handlers.RouterConfig{
		Login:          service.NewLoginService(client, log),
		Sessions:       sessions,
		Renderer:       renderer,
		Version:        version,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RequestTimeout: 60 * time.Second,
		Logger:         log,
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return store.RunJanitor(gctx, janitorInterval, func(removed int) {
			log.Info("evicted idle sessions", "count", removed)
		})
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}
