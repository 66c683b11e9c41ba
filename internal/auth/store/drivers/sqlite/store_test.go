package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wayfarerhq/wayfarer/internal/auth/domain"
	"github.com/wayfarerhq/wayfarer/internal/auth/store"
	"github.com/wayfarerhq/wayfarer/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestUser(t *testing.T, s *Store, email string) domain.User {
	t.Helper()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		Role:         domain.RoleUser,
		Rank:         domain.RankMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func TestUsersRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "ada@example.com")

	byID, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, byID.Email)
	require.Equal(t, domain.RoleUser, byID.Role)
	require.Equal(t, domain.RankMember, byID.Rank)
	require.True(t, byID.CreatedAt.Equal(u.CreatedAt))

	byEmail, err := s.Users().GetUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = s.Users().GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateUserEnforcesUniqueEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := newTestUser(t, s, "ada@example.com")

	dup := first
	dup.ID = idx.New().String()
	err := s.Users().CreateUser(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUpdatePasswordHash(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "ada@example.com")

	require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "new-hash"))

	updated, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", updated.PasswordHash)

	require.ErrorIs(t, s.Users().UpdatePasswordHash(ctx, "missing", "hash"), store.ErrNotFound)
}

func TestDeleteUserCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "ada@example.com")
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rt := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: "fingerprint-1",
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, rt))

	pr := domain.PasswordReset{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Code:      "AB12CD",
		ExpiresAt: now.Add(15 * time.Minute),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.PasswordResets().CreatePasswordReset(ctx, pr))

	require.NoError(t, s.Users().DeleteUser(ctx, u.ID))

	_, err := s.RefreshTokens().GetRefreshTokenByHash(ctx, "fingerprint-1")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.PasswordResets().GetPasswordResetByUserAndCode(ctx, u.ID, "AB12CD")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRefreshTokensUniqueFingerprint(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "ada@example.com")
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rt := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: "same-fingerprint",
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, rt))

	dup := rt
	dup.ID = idx.New().String()
	require.ErrorIs(t, s.RefreshTokens().CreateRefreshToken(ctx, dup), store.ErrAlreadyExists)
}

func TestDisableRefreshTokenIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "ada@example.com")
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rt := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: "fp",
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, rt))

	require.NoError(t, s.RefreshTokens().DisableRefreshToken(ctx, "fp"))

	got, err := s.RefreshTokens().GetRefreshTokenByHash(ctx, "fp")
	require.NoError(t, err)
	require.True(t, got.Disabled)

	// Second disable and unknown fingerprints succeed without effect.
	require.NoError(t, s.RefreshTokens().DisableRefreshToken(ctx, "fp"))
	require.NoError(t, s.RefreshTokens().DisableRefreshToken(ctx, "unknown"))
}

func TestDisableAllUserRefreshTokens(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := newTestUser(t, s, "alice@example.com")
	bob := newTestUser(t, s, "bob@example.com")
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, userID := range []string{alice.ID, alice.ID, bob.ID} {
		rt := domain.RefreshToken{
			ID:        idx.New().String(),
			UserID:    userID,
			TokenHash: []string{"a1", "a2", "b1"}[i],
			ExpiresAt: now.Add(time.Hour),
			CreatedAt: now,
			UpdatedAt: now,
		}
		require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, rt))
	}

	require.NoError(t, s.RefreshTokens().DisableAllUserRefreshTokens(ctx, alice.ID))

	for _, hash := range []string{"a1", "a2"} {
		got, err := s.RefreshTokens().GetRefreshTokenByHash(ctx, hash)
		require.NoError(t, err)
		require.True(t, got.Disabled)
	}

	bobToken, err := s.RefreshTokens().GetRefreshTokenByHash(ctx, "b1")
	require.NoError(t, err)
	require.False(t, bobToken.Disabled)
}

func TestDeleteExpiredRefreshTokens(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "ada@example.com")
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	expired := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: "expired",
		ExpiresAt: now.Add(-time.Minute),
		CreatedAt: now.Add(-time.Hour),
		UpdatedAt: now.Add(-time.Hour),
	}
	live := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: "live",
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, expired))
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, live))

	require.NoError(t, s.RefreshTokens().DeleteExpiredRefreshTokens(ctx, now))

	_, err := s.RefreshTokens().GetRefreshTokenByHash(ctx, "expired")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.RefreshTokens().GetRefreshTokenByHash(ctx, "live")
	require.NoError(t, err)
}

func TestConsumePasswordResetIsSingleUse(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "ada@example.com")
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	pr := domain.PasswordReset{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Code:      "AB12CD",
		ExpiresAt: now.Add(15 * time.Minute),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.PasswordResets().CreatePasswordReset(ctx, pr))

	require.NoError(t, s.PasswordResets().ConsumePasswordReset(ctx, pr.ID))

	got, err := s.PasswordResets().GetPasswordResetByUserAndCode(ctx, u.ID, "AB12CD")
	require.NoError(t, err)
	require.True(t, got.Consumed)

	// Second consumption loses the compare-and-set.
	require.ErrorIs(t, s.PasswordResets().ConsumePasswordReset(ctx, pr.ID), store.ErrNotFound)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "ada@example.com")

	sentinel := store.ErrNotFound
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, u.ID, "inside-tx"); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	// The update was rolled back with the failed transaction.
	after, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.PasswordHash, after.PasswordHash)
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "ada@example.com")

	err := s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Users().UpdatePasswordHash(ctx, u.ID, "committed")
	})
	require.NoError(t, err)

	after, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "committed", after.PasswordHash)
}
