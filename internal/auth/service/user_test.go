package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wayfarerhq/wayfarer/internal/auth/domain"
	"github.com/wayfarerhq/wayfarer/pkg/clockx"
	"github.com/wayfarerhq/wayfarer/pkg/cryptox"
)

func TestRegisterCreatesUserWithDefaults(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	queue := &recordingQueue{}
	svc := &UserService{Store: st, Queue: queue, Clock: clockx.Fixed(testNow)}

	u, err := svc.Register(ctx, RegisterParams{
		Email:     "  Ada@Example.COM ",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Password:  "azerty123",
	})
	require.NoError(t, err)

	require.Equal(t, "ada@example.com", u.Email)
	require.Equal(t, domain.RoleUser, u.Role)
	require.Equal(t, domain.RankMember, u.Rank)
	require.True(t, u.CreatedAt.Equal(testNow))

	// Password is stored hashed, never in clear.
	require.NotEqual(t, "azerty123", u.PasswordHash)
	require.NoError(t, cryptox.VerifyPassword("azerty123", u.PasswordHash))

	require.Len(t, queue.welcome, 1)
	require.Equal(t, "ada@example.com", queue.welcome[0].Email)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &UserService{Store: st, Queue: &recordingQueue{}, Clock: clockx.Fixed(testNow)}

	params := RegisterParams{
		Email:     "ada@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Password:  "azerty123",
	}

	_, err := svc.Register(ctx, params)
	require.NoError(t, err)

	_, err = svc.Register(ctx, params)
	require.ErrorIs(t, err, ErrEmailTaken)

	// Same address with different casing is still taken.
	params.Email = "ADA@EXAMPLE.COM"
	_, err = svc.Register(ctx, params)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterValidatesInput(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &UserService{Store: st, Queue: &recordingQueue{}, Clock: clockx.Fixed(testNow)}

	_, err := svc.Register(ctx, RegisterParams{Email: "", Password: "pw"})
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.Register(ctx, RegisterParams{Email: "ada@example.com", Password: ""})
	require.ErrorIs(t, err, ErrInvalidRequest)
}
