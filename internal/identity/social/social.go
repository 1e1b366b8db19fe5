// Package social verifies third-party login assertions against the provider
// that issued them. Each verifier exchanges the client-supplied assertion (an
// OAuth access token or an id_token depending on the provider) for the
// account's profile, which the auth service then maps onto a local user.
package social

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tabwriterlabs/identity/internal/identity/domain"
)

var (
	ErrUnknownProvider  = errors.New("social: unknown provider")
	ErrAssertionInvalid = errors.New("social: assertion rejected by provider")
	ErrNoEmail          = errors.New("social: provider returned no email")
)

// Profile is the minimal identity a provider vouches for.
type Profile struct {
	Email string
	Name  string
}

// Verifier checks a provider assertion and returns the profile it asserts.
type Verifier interface {
	Verify(ctx context.Context, assertion string) (Profile, error)
}

// Registry dispatches to a fixed set of provider verifiers.
type Registry struct {
	verifiers map[domain.Provider]Verifier
}

func NewRegistry() *Registry {
	return &Registry{verifiers: make(map[domain.Provider]Verifier)}
}

// Register installs a verifier for the given provider, replacing any previous
// one.
func (r *Registry) Register(p domain.Provider, v Verifier) {
	r.verifiers[p] = v
}

// Verify dispatches the assertion to the named provider's verifier.
func (r *Registry) Verify(ctx context.Context, p domain.Provider, assertion string) (Profile, error) {
	v, ok := r.verifiers[p]
	if !ok {
		return Profile{}, ErrUnknownProvider
	}
	return v.Verify(ctx, assertion)
}

// defaultHTTPClient bounds provider round trips so a slow upstream cannot
// hang a login request indefinitely.
var defaultHTTPClient = &http.Client{Timeout: 10 * time.Second}
