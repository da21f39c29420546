package middleware

import (
	"log/slog"
	"net/http"

	"github.com/njpv/shop-admin/internal/session"
)

// sessionLoader resolves the session of a request
type sessionLoader interface {
	Load(r *http.Request) (*session.Session, error)
}

// SessionRequired puts the request's session in its context, or redirects to /login.
// Page routes only; the session flag is never reported as JSON here.
func SessionRequired(sessions sessionLoader, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessions.Load(r)
			if err != nil {
				logger.Debug("no session, redirecting to login", "path", r.URL.Path, "error", err)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	}
}

// RedirectIfAuthenticated sends users who already hold a session to the catalog
func RedirectIfAuthenticated(sessions sessionLoader) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := sessions.Load(r); err == nil {
				http.Redirect(w, r, "/productos", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
