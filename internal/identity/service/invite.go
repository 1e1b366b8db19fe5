package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tabwriterlabs/identity/internal/identity/domain"
	"github.com/tabwriterlabs/identity/internal/identity/store"
	"github.com/tabwriterlabs/identity/pkg/cryptox"
	"github.com/tabwriterlabs/identity/pkg/idx"
	"github.com/tabwriterlabs/identity/pkg/mailx"
	"github.com/tabwriterlabs/identity/pkg/slogx"
	"github.com/tabwriterlabs/identity/pkg/tokenx"
)

var ErrInviteConsumed = errors.New("invitation_already_accepted")

// InviteUser creates an inactive account and emails an invitation link. The
// account stays unusable until the invitee accepts and sets a password.
func (s *AuthService) InviteUser(
	ctx context.Context,
	email, name string,
	role domain.Role,
) (domain.User, error) {
	l := slogx.FromContext(ctx)
	email = normalizeEmail(email)

	if !role.Valid() {
		role = domain.RoleUser
	}

	user := domain.User{
		ID:       idx.New().String(),
		Email:    email,
		Name:     name,
		Role:     role,
		Provider: domain.ProviderManual,
		Active:   false,
	}
	if err := s.Store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	token, err := s.PurposeCodec.Issue(user.ID, string(user.Role), tokenx.KindInvite, s.PurposeTTL, user.TokenVersion)
	if err != nil {
		return domain.User{}, err
	}

	msg := mailx.InvitationMessage(user.Email, s.FrontendURL, token)
	if err := s.Mail.Send(ctx, msg); err != nil {
		l.Error("failed to send invitation email",
			slog.String("user_id", user.ID), slog.Any("error", err))
		// Remove the placeholder account so the admin can retry the invite
		// instead of hitting the duplicate-email check.
		if delErr := s.Store.Users().Delete(ctx, user.ID); delErr != nil {
			l.Error("failed to remove invited user after send failure",
				slog.String("user_id", user.ID), slog.Any("error", delErr))
		}
		return domain.User{}, err
	}

	l.Info("user invited",
		slog.String("user_id", user.ID), slog.String("role", string(role)))
	return user, nil
}

// AcceptInvitation consumes an invite token, sets the password, and activates
// the account. Accepting twice fails because activation bumps the token
// version the invite was minted against.
func (s *AuthService) AcceptInvitation(ctx context.Context, token, password string) (domain.User, domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.PurposeCodec.Verify(token, tokenx.KindInvite)
	if err != nil {
		if errors.Is(err, tokenx.ErrExpired) {
			return domain.User{}, domain.TokenPair{}, ErrTokenExpired
		}
		return domain.User{}, domain.TokenPair{}, ErrInvalidToken
	}

	user, err := s.Store.Users().GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.TokenPair{}, ErrInvalidToken
		}
		return domain.User{}, domain.TokenPair{}, err
	}
	if claims.TokenVersion != user.TokenVersion {
		return domain.User{}, domain.TokenPair{}, ErrInviteConsumed
	}
	if user.Blocked {
		return domain.User{}, domain.TokenPair{}, ErrAccountBlocked
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	if err := s.Store.Users().ActivateWithPassword(ctx, user.ID, hash); err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}
	user.Active = true
	user.EmailVerified = true
	user.PasswordHash = &hash

	pair, err := s.issueSession(ctx, user)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	l.Info("invitation accepted", slog.String("user_id", user.ID))
	return user, pair, nil
}
