package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/njpv/shop-admin/internal/models"
	"github.com/njpv/shop-admin/internal/validation"
)

var (
	// ErrInvalidCredentials covers unknown users, wrong passwords and failed lookups alike
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserLookup finds user records by email
type UserLookup interface {
	GetUsersByEmail(ctx context.Context, email string) ([]models.User, error)
}

// LoginService checks credentials against the remote user lookup
type LoginService struct {
	users  UserLookup
	logger *slog.Logger
}

// NewLoginService creates a new login service
func NewLoginService(users UserLookup, logger *slog.Logger) *LoginService {
	return &LoginService{
		users:  users,
		logger: logger,
	}
}

// Login validates the form, performs a single lookup and compares the password of the first match.
// A form that fails validation returns validation.Errors and sends no request.
func (s *LoginService) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	if err := validation.Login(creds); err != nil {
		return nil, err
	}

	users, err := s.users.GetUsersByEmail(ctx, creds.Email)
	if err != nil {
		s.logger.Warn("user lookup failed", "email", creds.Email, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	if len(users) == 0 {
		s.logger.Info("login rejected", "email", creds.Email, "reason", "unknown user")
		return nil, ErrInvalidCredentials
	}

	user := users[0]
	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(creds.Password)) != 1 {
		s.logger.Info("login rejected", "email", creds.Email, "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("login accepted", "email", creds.Email)
	return &user, nil
}
