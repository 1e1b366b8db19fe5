package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tabwriterlabs/identity/internal/identity/store"
	"github.com/tabwriterlabs/identity/pkg/cryptox"
	"github.com/tabwriterlabs/identity/pkg/mailx"
	"github.com/tabwriterlabs/identity/pkg/slogx"
	"github.com/tabwriterlabs/identity/pkg/tokenx"
)

// ChangePassword swaps the password after verifying the current one. Accounts
// created through a social provider carry no hash yet, so their first change
// skips the current-password check. The stored session is cleared and the
// token version bumped, so outstanding refresh and purpose tokens die with
// the old password.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, newPassword string) error {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.HasPassword() {
		if err := cryptox.VerifyPassword(current, *user.PasswordHash); err != nil {
			return ErrWrongPassword
		}
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.Store.Users().ResetCredentials(ctx, userID, hash); err != nil {
		return err
	}

	l.Info("password changed", slog.String("user_id", userID))
	return nil
}

// RequestPasswordReset emails a single-use reset link. Unknown emails are
// swallowed: the caller always sees success so the endpoint cannot be used
// to enumerate accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)
	email = normalizeEmail(email)

	user, err := s.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}
	if user.Blocked || !user.Active {
		l.Info("password reset requested for unavailable account",
			slog.String("user_id", user.ID))
		return nil
	}

	token, err := s.PurposeCodec.Issue(user.ID, string(user.Role), tokenx.KindReset, s.PurposeTTL, user.TokenVersion)
	if err != nil {
		return err
	}

	// Delivery failures are swallowed like unknown emails, so a broken
	// mailer cannot turn this endpoint into an account oracle.
	msg := mailx.ResetPasswordMessage(user.Email, s.FrontendURL, token)
	if err := s.Mail.Send(ctx, msg); err != nil {
		l.Error("failed to send reset email",
			slog.String("user_id", user.ID), slog.Any("error", err))
		return nil
	}

	l.Info("password reset email sent", slog.String("user_id", user.ID))
	return nil
}

// ResetPassword consumes a reset token and installs the new password. The
// token-version embedded in the claims must still match the account's
// current version, which is what makes the token single use.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	l := slogx.FromContext(ctx)

	claims, err := s.PurposeCodec.Verify(token, tokenx.KindReset)
	if err != nil {
		if errors.Is(err, tokenx.ErrExpired) {
			return ErrTokenExpired
		}
		return ErrInvalidToken
	}

	user, err := s.Store.Users().GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if claims.TokenVersion != user.TokenVersion {
		l.Warn("reused reset token rejected", slog.String("user_id", user.ID))
		return ErrInvalidToken
	}
	if err := checkAccount(user); err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.Store.Users().ResetCredentials(ctx, user.ID, hash); err != nil {
		return err
	}

	l.Info("password reset completed", slog.String("user_id", user.ID))
	return nil
}
