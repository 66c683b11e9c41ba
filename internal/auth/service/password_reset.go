package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/wayfarerhq/wayfarer/internal/auth/domain"
	"github.com/wayfarerhq/wayfarer/internal/auth/mail"
	"github.com/wayfarerhq/wayfarer/internal/auth/store"
	"github.com/wayfarerhq/wayfarer/pkg/clockx"
	"github.com/wayfarerhq/wayfarer/pkg/cryptox"
	"github.com/wayfarerhq/wayfarer/pkg/idx"
	"github.com/wayfarerhq/wayfarer/pkg/slogx"
)

// ErrInvalidResetCode is the single error a failed reset confirmation maps
// to. Unknown email, wrong code, expired code and consumed code are all
// reported identically so the endpoint cannot be used as an oracle.
var ErrInvalidResetCode = errors.New("invalid_reset_code")

// DefaultResetTTL is the validity window of a reset code when no override is
// configured.
const DefaultResetTTL = 15 * time.Minute

// PasswordResetService runs the forgot-password flow: generate a short
// emailed code, then exchange code + new password for a credential change.
type PasswordResetService struct {
	Store    store.Store
	Queue    mail.Queue
	Clock    clockx.Clock
	ResetTTL time.Duration
}

func (s *PasswordResetService) ttl() time.Duration {
	if s.ResetTTL > 0 {
		return s.ResetTTL
	}
	return DefaultResetTTL
}

// Begin creates a reset code for the account behind the email address and
// queues the email carrying it. When no account matches, Begin still returns
// nil; the response never reveals whether an address is registered.
func (s *PasswordResetService) Begin(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)
	now := s.Clock.Now()

	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	code, err := cryptox.GenerateResetCode()
	if err != nil {
		return err
	}

	pr := domain.PasswordReset{
		ID:        idx.NewAt(now).String(),
		UserID:    u.ID,
		Code:      code,
		ExpiresAt: now.Add(s.ttl()),
		Consumed:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Store.PasswordResets().CreatePasswordReset(ctx, pr); err != nil {
		return err
	}

	if err := s.Queue.EnqueuePasswordResetEmail(ctx, mail.PasswordResetEmailPayload{
		Email:     u.Email,
		FirstName: u.FirstName,
		Code:      code,
		ExpiresAt: pr.ExpiresAt,
	}); err != nil {
		l.Error("failed to enqueue password reset email",
			slog.Any("error", err),
			slog.String("user_id", u.ID),
		)
		return err
	}

	l.Info("password reset started", slog.String("user_id", u.ID))
	return nil
}

// Confirm redeems a reset code and sets the new password. On success every
// refresh token the user holds is disabled, forcing a fresh login on all
// devices.
//
// Consumption and the password update run in one transaction; the code's
// consumed flag is flipped with a conditional update, so of two concurrent
// confirmations exactly one succeeds.
func (s *PasswordResetService) Confirm(ctx context.Context, email, code, newPassword string) error {
	l := slogx.FromContext(ctx)
	now := s.Clock.Now()

	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.ToUpper(strings.TrimSpace(code))
	if newPassword == "" {
		return ErrInvalidRequest
	}

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidResetCode
		}
		return err
	}

	// Hash outside the transaction; argon2 is deliberately slow.
	newHash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		pr, err := tx.PasswordResets().GetPasswordResetByUserAndCode(ctx, u.ID, code)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidResetCode
			}
			return err
		}

		if !pr.Redeemable(now) {
			return ErrInvalidResetCode
		}

		if err := tx.PasswordResets().ConsumePasswordReset(ctx, pr.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidResetCode
			}
			return err
		}

		if err := tx.Users().UpdatePasswordHash(ctx, u.ID, newHash); err != nil {
			return err
		}

		return tx.RefreshTokens().DisableAllUserRefreshTokens(ctx, u.ID)
	})
	if err != nil {
		return err
	}

	l.Info("password reset completed", slog.String("user_id", u.ID))
	return nil
}
