package mail

import (
	"context"
	"log/slog"

	"github.com/wayfarerhq/wayfarer/pkg/slogx"
)

// Sender delivers a single email. Implementations wrap whatever transport is
// configured (SMTP relay, provider API); LogSender is the development default.
type Sender interface {
	SendPasswordResetEmail(ctx context.Context, p PasswordResetEmailPayload) error
	SendWelcomeEmail(ctx context.Context, p WelcomeEmailPayload) error
}

// LogSender writes emails to the structured log instead of sending them.
// Reset codes are redacted; only their presence and expiry are recorded.
type LogSender struct{}

func (LogSender) SendPasswordResetEmail(ctx context.Context, p PasswordResetEmailPayload) error {
	slogx.FromContext(ctx).Info("password reset email",
		slog.String("email", p.Email),
		slog.Time("code_expires_at", p.ExpiresAt),
	)
	return nil
}

func (LogSender) SendWelcomeEmail(ctx context.Context, p WelcomeEmailPayload) error {
	slogx.FromContext(ctx).Info("welcome email",
		slog.String("email", p.Email),
		slog.String("first_name", p.FirstName),
	)
	return nil
}
