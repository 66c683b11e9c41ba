package mail

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task type names routed through the asynq queue.
const (
	TypePasswordResetEmail = "email:password_reset"
	TypeWelcomeEmail       = "email:welcome"
)

// PasswordResetEmailPayload carries everything the worker needs to render and
// send a reset email. The code is the raw value; it is never logged.
type PasswordResetEmailPayload struct {
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// WelcomeEmailPayload greets a newly registered user.
type WelcomeEmailPayload struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
}

func NewPasswordResetEmailTask(p PasswordResetEmailPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePasswordResetEmail, payload, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)), nil
}

func NewWelcomeEmailTask(p WelcomeEmailPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeWelcomeEmail, payload, asynq.MaxRetry(3), asynq.Timeout(30*time.Second)), nil
}
