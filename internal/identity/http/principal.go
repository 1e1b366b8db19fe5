package http

import (
	"context"
	"errors"

	"github.com/tabwriterlabs/identity/internal/identity/store"
	"github.com/tabwriterlabs/identity/pkg/httpx"
)

// principalSource loads the authenticated principal from the user store so
// the auth middleware sees blocks and deletions immediately, not at token
// expiry.
type principalSource struct {
	store store.Store
}

func NewPrincipalSource(st store.Store) httpx.PrincipalSource {
	return &principalSource{store: st}
}

func (s *principalSource) LoadPrincipal(ctx context.Context, id string) (httpx.Principal, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return httpx.Principal{}, httpx.ErrPrincipalNotFound
		}
		return httpx.Principal{}, err
	}
	if user.Blocked || !user.Active {
		return httpx.Principal{}, httpx.ErrPrincipalBlocked
	}
	return httpx.Principal{
		ID:    user.ID,
		Email: user.Email,
		Role:  string(user.Role),
	}, nil
}
