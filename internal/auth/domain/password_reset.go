package domain

import "time"

// PasswordReset is a single-use code letting a user set a new password
// without presenting the old one. Consumption is terminal; a fresh request
// always creates a new record.
type PasswordReset struct {
	ID        string
	UserID    string
	Code      string // short alphanumeric one-time code, sent by email
	ExpiresAt time.Time
	Consumed  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Redeemable reports whether the code can still be redeemed at the given
// instant. Unlike refresh tokens, a code is still valid at the exact expiry
// instant.
func (p PasswordReset) Redeemable(now time.Time) bool {
	return !p.Consumed && !now.After(p.ExpiresAt)
}
