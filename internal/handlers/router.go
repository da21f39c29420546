package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/njpv/shop-admin/internal/middleware"
	"github.com/njpv/shop-admin/internal/service"
	"github.com/njpv/shop-admin/internal/session"
)

// RouterConfig holds everything the admin router needs
type RouterConfig struct {
	Login          *service.LoginService
	Sessions       *session.Manager
	Renderer       Renderer
	Version        string
	AllowedOrigins []string
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewRouter assembles the admin UI routes
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	healthHandler := NewHealthHandler(cfg.Version, cfg.Sessions.Store(), cfg.Logger)
	authHandler := NewAuthHandler(cfg.Login, cfg.Sessions, cfg.Renderer, cfg.Logger)
	productHandler := NewProductHandler(cfg.Renderer, cfg.Logger)

	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

	// CORS only matters for the JSON endpoints; pages are same-origin
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)
	r.Get("/auth/check", authHandler.Check)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusFound)
	})

	r.With(middleware.RedirectIfAuthenticated(cfg.Sessions)).Get("/login", authHandler.LoginPage)
	r.Post("/login", authHandler.Login)
	r.Post("/logout", authHandler.Logout)

	r.Route("/productos", func(r chi.Router) {
		r.Use(middleware.SessionRequired(cfg.Sessions, cfg.Logger))

		r.Get("/", productHandler.ListProducts)
		r.Post("/", productHandler.SaveProduct)
		r.Get("/nuevo", productHandler.NewProduct)
		r.Post("/dialogo/cerrar", productHandler.CloseDialog)
		r.Post("/eliminar", productHandler.DeleteSelected)
		r.Get("/{productId}/editar", productHandler.EditProduct)
		r.Post("/{productId}/eliminar", productHandler.DeleteProduct)
	})

	return r
}
