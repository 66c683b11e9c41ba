package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPasswordResetRedeemable(t *testing.T) {
	t.Parallel()

	expiry := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("fresh code is redeemable", func(t *testing.T) {
		pr := PasswordReset{ExpiresAt: expiry}
		require.True(t, pr.Redeemable(expiry.Add(-time.Minute)))
	})

	t.Run("still redeemable at the exact expiry instant", func(t *testing.T) {
		pr := PasswordReset{ExpiresAt: expiry}
		require.True(t, pr.Redeemable(expiry))
	})

	t.Run("not redeemable after expiry", func(t *testing.T) {
		pr := PasswordReset{ExpiresAt: expiry}
		require.False(t, pr.Redeemable(expiry.Add(time.Second)))
	})

	t.Run("consumed code is never redeemable", func(t *testing.T) {
		pr := PasswordReset{ExpiresAt: expiry, Consumed: true}
		require.False(t, pr.Redeemable(expiry.Add(-time.Minute)))
	})
}
