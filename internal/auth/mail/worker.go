package mail

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Worker consumes email tasks from Redis and hands them to a Sender. It runs
// alongside the HTTP server in the auth binary; deployments that need
// independent scaling can run it in its own process instead.
type Worker struct {
	srv    *asynq.Server
	sender Sender
}

func NewWorker(redisAddr string, sender Sender, logger *slog.Logger) *Worker {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 4,
			Queues:      map[string]int{"default": 1},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("email task failed",
					slog.String("type", task.Type()),
					slog.Any("error", err),
				)
			}),
		},
	)
	return &Worker{srv: srv, sender: sender}
}

// Start begins processing tasks in background goroutines. It returns
// immediately; call Shutdown to stop.
func (w *Worker) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePasswordResetEmail, w.handlePasswordResetEmail)
	mux.HandleFunc(TypeWelcomeEmail, w.handleWelcomeEmail)
	return w.srv.Start(mux)
}

// Shutdown waits for in-flight tasks to finish before stopping.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}

func (w *Worker) handlePasswordResetEmail(ctx context.Context, task *asynq.Task) error {
	var p PasswordResetEmailPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	return w.sender.SendPasswordResetEmail(ctx, p)
}

func (w *Worker) handleWelcomeEmail(ctx context.Context, task *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	return w.sender.SendWelcomeEmail(ctx, p)
}
