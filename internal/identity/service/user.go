package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tabwriterlabs/identity/internal/identity/domain"
	"github.com/tabwriterlabs/identity/internal/identity/store"
	"github.com/tabwriterlabs/identity/pkg/slogx"
)

var ErrSelfDemotion = errors.New("cannot_modify_own_account")

// UserService covers the admin user-management surface plus profile lookup.
type UserService struct {
	Store store.Store
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetByID(ctx, userID)
}

// ListUsers returns every user, newest first.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().List(ctx)
}

// UpdateUser applies an admin edit. Admins cannot edit their own record
// through this path so they cannot lock themselves out mid-session.
func (s *UserService) UpdateUser(
	ctx context.Context,
	actorID, userID, name string,
	role domain.Role,
	active, blocked bool,
) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if actorID == userID {
		return domain.User{}, ErrSelfDemotion
	}
	if !role.Valid() {
		return domain.User{}, store.ErrNotFound
	}

	if err := s.Store.Users().UpdateProfile(ctx, userID, name, role, active, blocked); err != nil {
		return domain.User{}, err
	}

	// Blocking kills the live session too.
	if blocked {
		if err := s.Store.Users().ClearRefreshTokenHash(ctx, userID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return domain.User{}, err
		}
	}

	l.Info("user updated by admin",
		slog.String("actor_id", actorID), slog.String("user_id", userID))
	return s.Store.Users().GetByID(ctx, userID)
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, actorID, userID string) error {
	l := slogx.FromContext(ctx)

	if actorID == userID {
		return ErrSelfDemotion
	}
	if err := s.Store.Users().Delete(ctx, userID); err != nil {
		return err
	}

	l.Info("user deleted by admin",
		slog.String("actor_id", actorID), slog.String("user_id", userID))
	return nil
}
