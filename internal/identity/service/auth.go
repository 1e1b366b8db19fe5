package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/tabwriterlabs/identity/internal/identity/domain"
	"github.com/tabwriterlabs/identity/internal/identity/social"
	"github.com/tabwriterlabs/identity/internal/identity/store"
	"github.com/tabwriterlabs/identity/pkg/cryptox"
	"github.com/tabwriterlabs/identity/pkg/idx"
	"github.com/tabwriterlabs/identity/pkg/mailx"
	"github.com/tabwriterlabs/identity/pkg/slogx"
	"github.com/tabwriterlabs/identity/pkg/tokenx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrAccountBlocked     = errors.New("account_blocked")
	ErrAccountInactive    = errors.New("account_inactive")
	ErrSessionRevoked     = errors.New("session_revoked")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrTokenExpired       = errors.New("token_expired")
	ErrWrongPassword      = errors.New("wrong_password")
	ErrEmailTaken         = errors.New("email_taken")
)

// AuthService owns session lifecycle: login, social login, refresh rotation,
// logout, and registration.
type AuthService struct {
	Store        store.Store
	SessionCodec *tokenx.Codec
	PurposeCodec *tokenx.Codec
	Social       *social.Registry
	Mail         mailx.Sender
	FrontendURL  string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	PurposeTTL   time.Duration
}

// Login authenticates an email/password pair and starts a session. Missing
// account, passwordless account, and bad password all collapse to
// ErrInvalidCredentials so callers cannot probe which emails exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, domain.TokenPair, error) {
	l := slogx.FromContext(ctx)
	email = normalizeEmail(email)

	user, err := s.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	if !user.HasPassword() {
		return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
	}
	if err := cryptox.VerifyPassword(password, *user.PasswordHash); err != nil {
		l.Info("login password mismatch", slog.String("user_id", user.ID))
		return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
	}

	if err := checkAccount(user); err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	pair, err := s.issueSession(ctx, user)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	l.Info("user logged in", slog.String("user_id", user.ID))
	return user, pair, nil
}

// SocialLogin verifies a provider assertion and starts a session, creating
// the account on first sight of the email.
func (s *AuthService) SocialLogin(
	ctx context.Context,
	provider domain.Provider,
	assertion string,
) (domain.User, domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	if !provider.Valid() || provider == domain.ProviderManual {
		return domain.User{}, domain.TokenPair{}, social.ErrUnknownProvider
	}

	profile, err := s.Social.Verify(ctx, provider, assertion)
	if err != nil {
		if errors.Is(err, social.ErrUnknownProvider) {
			return domain.User{}, domain.TokenPair{}, err
		}
		l.Info("social assertion rejected",
			slog.String("provider", string(provider)), slog.Any("error", err))
		return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
	}

	email := normalizeEmail(profile.Email)

	user, err := s.Store.Users().GetByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		user = domain.User{
			ID:            idx.New().String(),
			Email:         email,
			Name:          profile.Name,
			Role:          domain.RoleUser,
			Provider:      provider,
			EmailVerified: true,
			Active:        true,
		}
		if err := s.Store.Users().Create(ctx, user); err != nil {
			return domain.User{}, domain.TokenPair{}, err
		}
		l.Info("user created via social login",
			slog.String("user_id", user.ID), slog.String("provider", string(provider)))
	case err != nil:
		return domain.User{}, domain.TokenPair{}, err
	default:
		if err := checkAccount(user); err != nil {
			return domain.User{}, domain.TokenPair{}, err
		}
		if err := s.Store.Users().MarkSocialLogin(ctx, user.ID, provider); err != nil {
			return domain.User{}, domain.TokenPair{}, err
		}
		user.Provider = provider
		user.EmailVerified = true
	}

	pair, err := s.issueSession(ctx, user)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	l.Info("user logged in via social provider",
		slog.String("user_id", user.ID), slog.String("provider", string(provider)))
	return user, pair, nil
}

// Register creates a manual account and starts a session for it.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (domain.User, domain.TokenPair, error) {
	l := slogx.FromContext(ctx)
	email = normalizeEmail(email)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: &hash,
		Role:         domain.RoleUser,
		Provider:     domain.ProviderManual,
		Active:       true,
	}
	if err := s.Store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, domain.TokenPair{}, ErrEmailTaken
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	pair, err := s.issueSession(ctx, user)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	l.Info("user registered", slog.String("user_id", user.ID))
	return user, pair, nil
}

// Refresh rotates the session: the presented refresh token is verified, then
// atomically swapped for a new one. A stale token (already rotated, or
// cleared by logout or a password reset) yields ErrSessionRevoked.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.SessionCodec.Verify(rawRefresh, tokenx.KindRefresh)
	if err != nil {
		if errors.Is(err, tokenx.ErrExpired) {
			return domain.TokenPair{}, ErrTokenExpired
		}
		return domain.TokenPair{}, ErrInvalidToken
	}

	user, err := s.Store.Users().GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidToken
		}
		return domain.TokenPair{}, err
	}
	if err := checkAccount(user); err != nil {
		return domain.TokenPair{}, err
	}

	pair, err := s.mintPair(user)
	if err != nil {
		return domain.TokenPair{}, err
	}

	oldFP := cryptox.FingerprintToken(rawRefresh)
	newFP := cryptox.FingerprintToken(pair.RefreshToken)

	if err := s.Store.Users().RotateRefreshTokenHash(ctx, user.ID, oldFP, newFP); err != nil {
		if errors.Is(err, store.ErrStaleRefreshToken) {
			l.Warn("stale refresh token presented", slog.String("user_id", user.ID))
			return domain.TokenPair{}, ErrSessionRevoked
		}
		return domain.TokenPair{}, err
	}

	return pair, nil
}

// Logout revokes the user's session. It is idempotent.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	err := s.Store.Users().ClearRefreshTokenHash(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// issueSession mints a token pair and stores the refresh fingerprint,
// replacing any previous session for the user.
func (s *AuthService) issueSession(ctx context.Context, user domain.User) (domain.TokenPair, error) {
	pair, err := s.mintPair(user)
	if err != nil {
		return domain.TokenPair{}, err
	}

	fp := cryptox.FingerprintToken(pair.RefreshToken)
	if err := s.Store.Users().SetRefreshTokenHash(ctx, user.ID, fp); err != nil {
		return domain.TokenPair{}, err
	}
	return pair, nil
}

func (s *AuthService) mintPair(user domain.User) (domain.TokenPair, error) {
	access, err := s.SessionCodec.Issue(user.ID, string(user.Role), tokenx.KindAccess, s.AccessTTL, 0)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := s.SessionCodec.Issue(user.ID, string(user.Role), tokenx.KindRefresh, s.RefreshTTL, 0)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.AccessTTL,
	}, nil
}

// checkAccount rejects blocked and deactivated accounts. Ordering matters:
// blocked wins over inactive so an admin block is always reported as such.
func checkAccount(user domain.User) error {
	if user.Blocked {
		return ErrAccountBlocked
	}
	if !user.Active {
		return ErrAccountInactive
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
