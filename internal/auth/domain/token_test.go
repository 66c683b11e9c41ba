package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRefreshTokenHasExpired(t *testing.T) {
	t.Parallel()

	expiry := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	token := RefreshToken{ExpiresAt: expiry}

	require.False(t, token.HasExpired(expiry.Add(-time.Second)))
	// A token is expired at the exact expiry instant, not one tick later.
	require.True(t, token.HasExpired(expiry))
	require.True(t, token.HasExpired(expiry.Add(time.Second)))
}

func TestRefreshTokenUsable(t *testing.T) {
	t.Parallel()

	expiry := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("live token is usable", func(t *testing.T) {
		token := RefreshToken{ExpiresAt: expiry}
		require.True(t, token.Usable(expiry.Add(-time.Minute)))
	})

	t.Run("disabled token is never usable", func(t *testing.T) {
		token := RefreshToken{ExpiresAt: expiry, Disabled: true}
		require.False(t, token.Usable(expiry.Add(-time.Minute)))
	})

	t.Run("expired token is not usable", func(t *testing.T) {
		token := RefreshToken{ExpiresAt: expiry}
		require.False(t, token.Usable(expiry))
	})
}

func TestRoleAndRankValidity(t *testing.T) {
	t.Parallel()

	require.True(t, RoleUser.Valid())
	require.True(t, RoleAdmin.Valid())
	require.False(t, Role("superuser").Valid())
	require.False(t, Role("").Valid())

	require.True(t, RankGuest.Valid())
	require.True(t, RankMember.Valid())
	require.False(t, Rank("vip").Valid())
	require.False(t, Rank("").Valid())
}

func TestAuthContextOwns(t *testing.T) {
	t.Parallel()

	user := AuthContext{UserID: "u1", Role: RoleUser}
	require.True(t, user.Owns("u1"))
	require.False(t, user.Owns("u2"))

	admin := AuthContext{UserID: "a1", Role: RoleAdmin}
	require.True(t, admin.Owns("a1"))
	require.True(t, admin.Owns("u2"))
}
