package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSession = errors.New("no session")
)

// Claims is what the session cookie carries
type Claims struct {
	SessionID string `json:"sid"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// Manager binds the store to a signed cookie
type Manager struct {
	store      *Store
	cookieName string
	secret     []byte
	secure     bool
}

// NewManager creates a manager signing cookies with secret
func NewManager(store *Store, cookieName, secret string, secure bool) *Manager {
	return &Manager{
		store:      store,
		cookieName: cookieName,
		secret:     []byte(secret),
		secure:     secure,
	}
}

// Store returns the underlying session store
func (m *Manager) Store() *Store {
	return m.store
}

// Start creates a session for email and sets its cookie.
// The cookie has no Max-Age, so it ends with the browser session.
func (m *Manager) Start(w http.ResponseWriter, email string) (*Session, error) {
	sess := m.store.Create(email)

	token, err := m.sign(sess)
	if err != nil {
		m.store.Delete(sess.ID)
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, nil
}

// Load returns the live session referenced by the request cookie
func (m *Manager) Load(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil, ErrNoSession
	}

	claims, err := m.parse(cookie.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoSession, err)
	}

	sess, ok := m.store.Get(claims.SessionID)
	if !ok || sess.Email != claims.Email {
		return nil, ErrNoSession
	}
	return sess, nil
}

// End deletes the session of the request, if any, and clears the cookie
func (m *Manager) End(w http.ResponseWriter, r *http.Request) {
	if sess, err := m.Load(r); err == nil {
		m.store.Delete(sess.ID)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) sign(sess *Session) (string, error) {
	claims := &Claims{
		SessionID: sess.ID,
		Email:     sess.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  sess.Email,
			IssuedAt: jwt.NewNumericDate(sess.CreatedAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

func (m *Manager) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(5*time.Second))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.SessionID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

type contextKey struct{}

// WithSession stores sess in ctx
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the session stored by WithSession
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(*Session)
	return sess, ok
}
