package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/wayfarerhq/wayfarer/internal/auth/domain"
	"github.com/wayfarerhq/wayfarer/internal/auth/mail"
	"github.com/wayfarerhq/wayfarer/internal/auth/store"
	"github.com/wayfarerhq/wayfarer/pkg/clockx"
	"github.com/wayfarerhq/wayfarer/pkg/cryptox"
	"github.com/wayfarerhq/wayfarer/pkg/idx"
	"github.com/wayfarerhq/wayfarer/pkg/slogx"
)

var (
	ErrEmailTaken     = errors.New("email_taken")
	ErrInvalidRequest = errors.New("invalid_request")
)

// UserService handles account creation and lookup.
type UserService struct {
	Store store.Store
	Queue mail.Queue
	Clock clockx.Clock
}

// RegisterParams are the validated inputs for creating an account.
type RegisterParams struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// Register creates a new account with the default role and rank. Email
// uniqueness is enforced by the database, so concurrent registrations with
// the same address cannot both succeed.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (domain.User, error) {
	l := slogx.FromContext(ctx)
	now := s.Clock.Now()

	email := strings.ToLower(strings.TrimSpace(p.Email))
	if email == "" || p.Password == "" {
		return domain.User{}, ErrInvalidRequest
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		ID:           idx.NewAt(now).String(),
		Email:        email,
		FirstName:    strings.TrimSpace(p.FirstName),
		LastName:     strings.TrimSpace(p.LastName),
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Rank:         domain.RankMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	// Welcome email is best-effort; a queue hiccup must not fail registration.
	if err := s.Queue.EnqueueWelcomeEmail(ctx, mail.WelcomeEmailPayload{
		Email:     u.Email,
		FirstName: u.FirstName,
	}); err != nil {
		l.Error("failed to enqueue welcome email",
			slog.Any("error", err),
			slog.String("user_id", u.ID),
		)
	}

	l.Info("user registered", slog.String("user_id", u.ID))
	return u, nil
}

// GetUserByID fetches the user profile for an authenticated caller.
func (s *UserService) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, id)
}
