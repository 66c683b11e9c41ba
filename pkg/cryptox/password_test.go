package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	require.NoError(t, VerifyPassword("correct horse battery staple", hash))
	require.Error(t, VerifyPassword("wrong password", hash))
}

func TestHashPasswordUsesUniqueSalts(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("same password")
	require.NoError(t, err)
	second, err := HashPassword("same password")
	require.NoError(t, err)

	require.NotEqual(t, first, second)

	// Both still verify despite different encodings.
	require.NoError(t, VerifyPassword("same password", first))
	require.NoError(t, VerifyPassword("same password", second))
}

func TestVerifyPasswordFailsClosedOnMalformedHash(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"not a hash at all",
		"$argon2id$v=19$m=19456,t=2,p=1$onlyonesegment",
		"$argon2i$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=x,t=y,p=z$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA",
		"$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!",
	}

	for _, malformed := range cases {
		require.Error(t, VerifyPassword("anything", malformed), "hash: %q", malformed)
	}
}
