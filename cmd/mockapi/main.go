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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"

	"github.com/njpv/shop-admin/internal/backend"
	"github.com/njpv/shop-admin/internal/config"
	"github.com/njpv/shop-admin/internal/handlers"
	"github.com/njpv/shop-admin/internal/middleware"
	"github.com/njpv/shop-admin/pkg/logger"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "mockapi",
	Short: "Stub catalog API for local development",
	Long: `mockapi serves /usuarios and /productos over an in-memory store, seeded
from MOCKAPI_SEED_FILE (CSV) or a built-in catalog.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().String("port", "", "listen port (overrides MOCKAPI_PORT)")
	rootCmd.Flags().String("seed", "", "CSV seed file (overrides MOCKAPI_SEED_FILE)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return err
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.MockAPI.Port = port
	}
	if seed, _ := cmd.Flags().GetString("seed"); seed != "" {
		cfg.MockAPI.SeedFile = seed
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	products := backend.DefaultProducts()
	if cfg.MockAPI.SeedFile != "" {
		if products, err = backend.LoadProductsFile(cmd.Context(), cfg.MockAPI.SeedFile); err != nil {
			log.Error("failed to load seed file", "path", cfg.MockAPI.SeedFile, "error", err)
			return err
		}
	}
	repo := backend.NewInMemoryRepository(products, backend.DefaultUsers())
	log.Info("catalog seeded", "products", len(products), "seed_file", cfg.MockAPI.SeedFile)

	r := newRouter(repo, cfg.CORS.AllowedOrigins, log)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.MockAPI.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("mock api listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		log.Error("server failed to start", "error", err)
		return err
	}

	log.Info("shutting down mock api...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		return err
	}

	log.Info("mock api stopped gracefully")
	return nil
}

func newRouter(repo *backend.InMemoryRepository, origins []string, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         300,
	}))

	r.Get("/health", handlers.NewHealthHandler(version, nil, log).ServeHTTP)
	backend.NewHandler(repo, repo, log).Routes(r)

	// json-server answers unknown resources with an empty object
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("{}"))
	})

	return r
}
