package service

import (
	"context"
	"log/slog"

	"github.com/tabwriterlabs/identity/internal/identity/domain"
	"github.com/tabwriterlabs/identity/internal/identity/store"
	"github.com/tabwriterlabs/identity/pkg/cryptox"
	"github.com/tabwriterlabs/identity/pkg/idx"
	"github.com/tabwriterlabs/identity/pkg/slogx"
)

// BootstrapService seeds the first admin account on an empty database so a
// fresh deployment is immediately usable.
type BootstrapService struct {
	Store         store.Store
	AdminEmail    string
	AdminName     string
	AdminPassword string // empty means generate one and log it
}

// EnsureAdmin creates the configured admin when the user table is empty. It
// is a no-op otherwise, so restarting the service never duplicates the seed.
func (s *BootstrapService) EnsureAdmin(ctx context.Context) error {
	l := slogx.FromContext(ctx)

	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}
	if s.AdminEmail == "" {
		l.Warn("user table is empty and no bootstrap admin configured")
		return nil
	}

	password := s.AdminPassword
	generated := false
	if password == "" {
		password, err = cryptox.GeneratePassword()
		if err != nil {
			return err
		}
		generated = true
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	admin := domain.User{
		ID:            idx.New().String(),
		Email:         normalizeEmail(s.AdminEmail),
		Name:          s.AdminName,
		PasswordHash:  &hash,
		Role:          domain.RoleAdmin,
		Provider:      domain.ProviderManual,
		EmailVerified: true,
		Active:        true,
	}
	if err := s.Store.Users().Create(ctx, admin); err != nil {
		return err
	}

	if generated {
		// One-time credential disclosure. Only happens on a brand new
		// database with no password configured.
		l.Warn("bootstrap admin created with generated password",
			slog.String("email", admin.Email),
			slog.String("password", password))
	} else {
		l.Info("bootstrap admin created", slog.String("email", admin.Email))
	}
	return nil
}
