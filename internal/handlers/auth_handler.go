package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/njpv/shop-admin/internal/models"
	"github.com/njpv/shop-admin/internal/notify"
	"github.com/njpv/shop-admin/internal/service"
	"github.com/njpv/shop-admin/internal/session"
	"github.com/njpv/shop-admin/internal/validation"
)

// loginPageData backs login.html
type loginPageData struct {
	pageData
	Email  string
	Errors validation.Errors
}

// AuthHandler serves the login screen
type AuthHandler struct {
	login    *service.LoginService
	sessions *session.Manager
	renderer Renderer
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(login *service.LoginService, sessions *session.Manager, renderer Renderer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		login:    login,
		sessions: sessions,
		renderer: renderer,
		logger:   logger,
	}
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, http.StatusOK, loginPageData{pageData: pageData{Title: "Iniciar sesión"}})
}

// Login handles POST /login
// - 303 to /productos when the credentials match
// - 422 with field errors when the form is invalid
// - 401 with an error toast otherwise
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("failed to parse login form", "error", err)
		h.renderLogin(w, http.StatusBadRequest, loginPageData{
			pageData: pageData{Title: "Iniciar sesión", Toasts: []notify.Toast{notify.Error("Formulario no válido")}},
		})
		return
	}

	creds := models.Credentials{
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		Password: r.PostForm.Get("password"),
	}
	data := loginPageData{pageData: pageData{Title: "Iniciar sesión"}, Email: creds.Email}

	if _, err := h.login.Login(r.Context(), creds); err != nil {
		if fe, ok := validation.AsErrors(err); ok {
			data.Errors = fe
			h.renderLogin(w, http.StatusUnprocessableEntity, data)
			return
		}
		if !errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Error("unexpected login error", "error", err)
		}
		data.Toasts = []notify.Toast{notify.Error("Credenciales inválidas")}
		h.renderLogin(w, http.StatusUnauthorized, data)
		return
	}

	if _, err := h.sessions.Start(w, creds.Email); err != nil {
		h.logger.Error("failed to start session", "email", creds.Email, "error", err)
		data.Toasts = []notify.Toast{notify.Error("No se ha podido iniciar la sesión")}
		h.renderLogin(w, http.StatusInternalServerError, data)
		return
	}

	http.Redirect(w, r, "/productos", http.StatusSeeOther)
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.End(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Check handles GET /auth/check
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Load(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "No autenticado", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"email":         sess.Email,
	}, h.logger)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, status int, data loginPageData) {
	renderPage(w, h.renderer, status, "login.html", data, h.logger)
}
