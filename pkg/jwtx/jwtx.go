// Package jwtx signs and verifies the compact access tokens used across the
// Wayfarer services. Tokens are HS256 JWTs signed with a single shared secret
// supplied by configuration; the codec never reads process-wide state.
package jwtx

import (
	"errors"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wayfarerhq/wayfarer/pkg/clockx"
)

// AudienceAPI is the audience claim stamped into access tokens consumed by
// the Wayfarer API.
const AudienceAPI = "api"

// Default token TTL constants. These provide sensible security defaults but
// can be overridden per-service via configuration.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	// Short-lived because there is no revocation mechanism for them.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// ErrBadAuthentication is the only error Decode returns. Signature mismatch,
// expiry, wrong audience and malformed input are deliberately
// indistinguishable to the caller so a decode failure cannot be used as an
// oracle.
var ErrBadAuthentication = errors.New("jwtx: bad authentication")

// Claims are the access-token claims. The custom fields mirror the user
// snapshot at issuance time; a role change after issuance is not reflected
// until the token expires.
type Claims struct {
	jwt.RegisteredClaims

	// EmailAddress of the authenticated user.
	EmailAddress string `json:"emailAddress,omitempty"`

	// Role is "user" or "admin".
	Role string `json:"role,omitempty"`

	// Rank is "guest" or "member".
	Rank string `json:"rank,omitempty"`

	// LastName is carried for display purposes in downstream services.
	LastName string `json:"lastName,omitempty"`
}

// Codec signs and decodes access tokens with a symmetric secret. Safe for
// concurrent use; both fields are read-only after construction.
type Codec struct {
	secret []byte
	clock  clockx.Clock
}

// NewCodec builds a Codec from the configured signing secret. The clock is
// used when validating expiry so tests can decode at a fixed instant.
func NewCodec(secret string, clock clockx.Clock) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("jwtx: signing secret must not be empty")
	}
	if clock == nil {
		clock = clockx.SystemClock{}
	}
	return &Codec{secret: []byte(secret), clock: clock}, nil
}

// Sign produces a compact HS256 JWT for the given claims.
func (c *Codec) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Decode verifies the signature and expiry of a token and, when
// expectedAudiences is non-empty, requires the aud claim to contain at least
// one of them. Every failure mode returns ErrBadAuthentication.
func (c *Codec) Decode(token string, expectedAudiences []string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, ErrBadAuthentication
	}

	if len(expectedAudiences) > 0 && !hasAnyAudience(claims.Audience, expectedAudiences) {
		return Claims{}, ErrBadAuthentication
	}

	return claims, nil
}

func (c *Codec) keyFunc(*jwt.Token) (any, error) {
	return c.secret, nil
}

func hasAnyAudience(have jwt.ClaimStrings, want []string) bool {
	for _, aud := range want {
		if slices.Contains(have, aud) {
			return true
		}
	}
	return false
}

// NewAccessClaims builds minimally-correct claims for an access token issued
// at now with the given lifetime.
func NewAccessClaims(
	subject, emailAddress, role, rank, lastName string,
	ttl time.Duration,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Audience:  jwt.ClaimStrings{AudienceAPI},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		EmailAddress: emailAddress,
		Role:         role,
		Rank:         rank,
		LastName:     lastName,
	}
}
