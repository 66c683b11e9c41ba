package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wayfarerhq/wayfarer/internal/auth/domain"
	"github.com/wayfarerhq/wayfarer/pkg/jwtx"
)

func TestCheckAcceptsValidToken(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t, testNow)
	authorizer := &Authorizer{Codec: codec}

	claims := jwtx.NewAccessClaims("user-1", "ada@example.com", "user", "member", "Lovelace", time.Minute, testNow)
	token, err := codec.Sign(claims)
	require.NoError(t, err)

	ac, err := authorizer.Check(token)
	require.NoError(t, err)
	require.Equal(t, domain.AuthContext{
		UserID: "user-1",
		Email:  "ada@example.com",
		Role:   domain.RoleUser,
		Rank:   domain.RankMember,
	}, ac)
}

func TestCheckRejectsBadTokensUniformly(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t, testNow)
	authorizer := &Authorizer{Codec: codec}

	sign := func(sub, role, rank string) string {
		claims := jwtx.NewAccessClaims(sub, "ada@example.com", role, rank, "", time.Minute, testNow)
		token, err := codec.Sign(claims)
		require.NoError(t, err)
		return token
	}

	expiredCodec := newTestCodec(t, testNow.Add(-2*time.Minute))
	expiredClaims := jwtx.NewAccessClaims("user-1", "ada@example.com", "user", "member", "", time.Minute, testNow.Add(-2*time.Minute))
	expired, err := expiredCodec.Sign(expiredClaims)
	require.NoError(t, err)

	cases := map[string]string{
		"garbage":       "not-a-jwt",
		"empty subject": sign("", "user", "member"),
		"unknown role":  sign("user-1", "superuser", "member"),
		"unknown rank":  sign("user-1", "user", "platinum"),
		"empty role":    sign("user-1", "", "member"),
		"expired":       expired,
	}

	for name, token := range cases {
		_, err := authorizer.Check(token)
		require.ErrorIs(t, err, jwtx.ErrBadAuthentication, name)
	}
}
