package mail

import (
	"context"

	"github.com/hibiken/asynq"
)

// Queue enqueues outbound email work. Services depend on this interface so
// handlers never block on email delivery; tests swap in a recording fake.
type Queue interface {
	EnqueuePasswordResetEmail(ctx context.Context, p PasswordResetEmailPayload) error
	EnqueueWelcomeEmail(ctx context.Context, p WelcomeEmailPayload) error
}

// AsyncQueue pushes email tasks onto Redis via asynq for the worker to pick
// up. This is the production implementation.
type AsyncQueue struct {
	client *asynq.Client
}

func NewAsyncQueue(redisAddr string) *AsyncQueue {
	return &AsyncQueue{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
	}
}

func (q *AsyncQueue) EnqueuePasswordResetEmail(ctx context.Context, p PasswordResetEmailPayload) error {
	task, err := NewPasswordResetEmailTask(p)
	if err != nil {
		return err
	}
	_, err = q.client.EnqueueContext(ctx, task)
	return err
}

func (q *AsyncQueue) EnqueueWelcomeEmail(ctx context.Context, p WelcomeEmailPayload) error {
	task, err := NewWelcomeEmailTask(p)
	if err != nil {
		return err
	}
	_, err = q.client.EnqueueContext(ctx, task)
	return err
}

func (q *AsyncQueue) Close() error { return q.client.Close() }

// SyncQueue delivers emails inline on the calling goroutine. Used when no
// Redis address is configured (single-binary deployments, local dev, tests).
type SyncQueue struct {
	Sender Sender
}

func (q SyncQueue) EnqueuePasswordResetEmail(ctx context.Context, p PasswordResetEmailPayload) error {
	return q.Sender.SendPasswordResetEmail(ctx, p)
}

func (q SyncQueue) EnqueueWelcomeEmail(ctx context.Context, p WelcomeEmailPayload) error {
	return q.Sender.SendWelcomeEmail(ctx, p)
}
