package domain

import "time"

// Token is an issued credential as returned to clients: the value plus its
// validity window.
type Token struct {
	Value     string    `json:"value"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// TokenPair is what a successful login, registration or refresh returns: the
// short-lived signed access token and the long-lived opaque refresh token.
type TokenPair struct {
	AccessToken  Token `json:"accessToken"`
	RefreshToken Token `json:"refreshToken"`
}

// RefreshToken models the stored refresh token record. The opaque value
// itself is never persisted; only its SHA-256 fingerprint is.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string // deterministic fingerprint (base64url SHA-256)
	ExpiresAt time.Time
	Disabled  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasExpired reports whether the token is past its validity window at the
// given instant. A token whose expiry equals now is already expired.
func (t RefreshToken) HasExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Usable reports whether the token can still mint access tokens. Disabling is
// terminal, so a disabled token is never usable again.
func (t RefreshToken) Usable(now time.Time) bool {
	return !t.Disabled && !t.HasExpired(now)
}
