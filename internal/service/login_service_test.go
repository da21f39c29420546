package service

import (
	"context"
	"errors"
	"testing"

	"github.com/njpv/shop-admin/internal/models"
	"github.com/njpv/shop-admin/internal/validation"
	"github.com/njpv/shop-admin/pkg/logger"
)

type fakeUserLookup struct {
	users []models.User
	err   error
	calls int
}

func (f *fakeUserLookup) GetUsersByEmail(ctx context.Context, email string) ([]models.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.User
	for _, u := range f.users {
		if u.Email == email {
			out = append(out, u)
		}
	}
	return out, nil
}

func TestLoginService_Login(t *testing.T) {
	registered := []models.User{{ID: 1, Email: "ana@example.com", Password: "Secreto#1"}}

	tests := []struct {
		name      string
		lookup    *fakeUserLookup
		creds     models.Credentials
		wantErr   error
		wantCalls int
	}{
		{
			name:      "valid credentials",
			lookup:    &fakeUserLookup{users: registered},
			creds:     models.Credentials{Email: "ana@example.com", Password: "Secreto#1"},
			wantCalls: 1,
		},
		{
			name:      "unknown email",
			lookup:    &fakeUserLookup{users: registered},
			creds:     models.Credentials{Email: "luis@example.com", Password: "Secreto#1"},
			wantErr:   ErrInvalidCredentials,
			wantCalls: 1,
		},
		{
			name:      "password mismatch",
			lookup:    &fakeUserLookup{users: registered},
			creds:     models.Credentials{Email: "ana@example.com", Password: "Otra#Clave"},
			wantErr:   ErrInvalidCredentials,
			wantCalls: 1,
		},
		{
			name:      "lookup failure",
			lookup:    &fakeUserLookup{err: errors.New("connection refused")},
			creds:     models.Credentials{Email: "ana@example.com", Password: "Secreto#1"},
			wantErr:   ErrInvalidCredentials,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewLoginService(tt.lookup, logger.New("error"))

			user, err := svc.Login(context.Background(), tt.creds)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if user != nil {
					t.Errorf("expected no user, got %+v", user)
				}
			} else {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if user.Email != tt.creds.Email {
					t.Errorf("expected user %s, got %s", tt.creds.Email, user.Email)
				}
			}

			if tt.lookup.calls != tt.wantCalls {
				t.Errorf("expected %d lookup calls, got %d", tt.wantCalls, tt.lookup.calls)
			}
		})
	}
}

func TestLoginService_FirstRecordWins(t *testing.T) {
	lookup := &fakeUserLookup{users: []models.User{
		{ID: 1, Email: "ana@example.com", Password: "Primera#1"},
		{ID: 2, Email: "ana@example.com", Password: "Segunda#2"},
	}}
	svc := NewLoginService(lookup, logger.New("error"))

	if _, err := svc.Login(context.Background(), models.Credentials{Email: "ana@example.com", Password: "Segunda#2"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected only the first record to be checked, got %v", err)
	}
}

func TestLoginService_InvalidFormSkipsLookup(t *testing.T) {
	lookup := &fakeUserLookup{}
	svc := NewLoginService(lookup, logger.New("error"))

	_, err := svc.Login(context.Background(), models.Credentials{Email: "not-an-email", Password: "short"})

	if _, ok := validation.AsErrors(err); !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if lookup.calls != 0 {
		t.Errorf("expected no lookup, got %d calls", lookup.calls)
	}
}
