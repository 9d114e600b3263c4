package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/qq3pta/coffee-shop-api/internal/service"
)

// Cleaner is the slice of CleanupService the worker needs.
type Cleaner interface {
	PurgeUnverified(ctx context.Context) (int64, error)
}

// NewServeMux routes queued tasks to their handlers.
func NewServeMux(notifier service.EmailVerificationNotifier, cleaner Cleaner) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeVerificationEmail, HandleVerificationEmail(notifier))
	mux.HandleFunc(TypeCleanupUnverified, HandleCleanupUnverified(cleaner))
	return mux
}

func HandleVerificationEmail(notifier service.EmailVerificationNotifier) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p VerificationEmailPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			// A payload that never unmarshals will never succeed; drop it.
			return fmt.Errorf("unmarshal %s payload: %v: %w", TypeVerificationEmail, err, asynq.SkipRetry)
		}
		return notifier.SendEmailVerification(ctx, service.VerificationNotification{
			UserID:    p.UserID,
			Email:     p.Email,
			Code:      p.Code,
			ExpiresAt: p.ExpiresAt,
		})
	}
}

func HandleCleanupUnverified(cleaner Cleaner) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		_, err := cleaner.PurgeUnverified(ctx)
		return err
	}
}

// NewScheduler registers the daily cleanup run.
func NewScheduler(redisOpt asynq.RedisClientOpt) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(redisOpt, nil)
	if _, err := scheduler.Register(CleanupSchedule, NewCleanupUnverifiedTask()); err != nil {
		return nil, fmt.Errorf("register cleanup schedule: %w", err)
	}
	return scheduler, nil
}
