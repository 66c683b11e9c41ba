package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/wayfarerhq/wayfarer/internal/auth/domain"
	"github.com/wayfarerhq/wayfarer/internal/auth/store"
	"github.com/wayfarerhq/wayfarer/pkg/clockx"
	"github.com/wayfarerhq/wayfarer/pkg/cryptox"
	"github.com/wayfarerhq/wayfarer/pkg/idx"
	"github.com/wayfarerhq/wayfarer/pkg/jwtx"
	"github.com/wayfarerhq/wayfarer/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
)

// TokenService owns credential verification and the issuance lifecycle of
// access/refresh token pairs.
type TokenService struct {
	Codec      *jwtx.Codec
	Store      store.Store
	Clock      clockx.Clock
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Login verifies an email/password pair and issues a fresh token pair.
//
// A missing user and a wrong password are indistinguishable to the caller;
// both come back as ErrInvalidCredentials so the endpoint cannot be used to
// probe which email addresses have accounts.
func (s *TokenService) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("login password verification failed", slog.String("user_id", u.ID))
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	return s.IssuePair(ctx, u)
}

// IssuePair signs a new access token for the user and mints a new opaque
// refresh token, persisting the refresh token's fingerprint.
func (s *TokenService) IssuePair(ctx context.Context, u domain.User) (domain.TokenPair, error) {
	now := s.Clock.Now()

	claims := jwtx.NewAccessClaims(
		u.ID,
		u.Email,
		string(u.Role),
		string(u.Rank),
		u.LastName,
		s.AccessTTL,
		now,
	)
	access, err := s.Codec.Sign(claims)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.TokenPair{}, err
	}

	rt := domain.RefreshToken{
		ID:        idx.NewAt(now).String(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(refreshOpaque),
		ExpiresAt: now.Add(s.RefreshTTL),
		Disabled:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Store.RefreshTokens().CreateRefreshToken(ctx, rt); err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken: domain.Token{
			Value:     access,
			IssuedAt:  now,
			ExpiresAt: now.Add(s.AccessTTL),
		},
		RefreshToken: domain.Token{
			Value:     refreshOpaque,
			IssuedAt:  now,
			ExpiresAt: rt.ExpiresAt,
		},
	}, nil
}

// Refresh exchanges a valid refresh token for a fresh access token. The
// refresh token itself is returned unchanged; it stays live until it expires
// or is disabled.
func (s *TokenService) Refresh(ctx context.Context, refreshOpaque string) (domain.TokenPair, error) {
	now := s.Clock.Now()

	fp := cryptox.FingerprintToken(refreshOpaque)
	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidRefresh
		}
		return domain.TokenPair{}, err
	}

	if !rt.Usable(now) {
		return domain.TokenPair{}, ErrInvalidRefresh
	}

	// The user snapshot in the new access token is read fresh, so a role or
	// rank change takes effect on the next refresh.
	u, err := s.Store.Users().GetUserByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidRefresh
		}
		return domain.TokenPair{}, err
	}

	claims := jwtx.NewAccessClaims(
		u.ID,
		u.Email,
		string(u.Role),
		string(u.Rank),
		u.LastName,
		s.AccessTTL,
		now,
	)
	access, err := s.Codec.Sign(claims)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken: domain.Token{
			Value:     access,
			IssuedAt:  now,
			ExpiresAt: now.Add(s.AccessTTL),
		},
		RefreshToken: domain.Token{
			Value:     refreshOpaque,
			IssuedAt:  rt.CreatedAt,
			ExpiresAt: rt.ExpiresAt,
		},
	}, nil
}

// Logout disables the refresh token identified by its opaque value. Unknown
// and already-disabled tokens succeed silently so logout is always safe to
// retry.
func (s *TokenService) Logout(ctx context.Context, refreshOpaque string) error {
	fp := cryptox.FingerprintToken(refreshOpaque)
	return s.Store.RefreshTokens().DisableRefreshToken(ctx, fp)
}
