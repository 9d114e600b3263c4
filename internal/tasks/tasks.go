// Package tasks wires the redis-backed task queue: asynchronous verification
// emails enqueued at signup, and the daily sweep of unverified accounts.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/qq3pta/coffee-shop-api/internal/config"
)

const (
	TypeVerificationEmail = "verification:email"
	TypeCleanupUnverified = "cleanup:unverified"

	// Run the cleanup once a day at midnight UTC.
	CleanupSchedule = "0 0 * * *"
)

type VerificationEmailPayload struct {
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

func NewVerificationEmailTask(p VerificationEmailPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal verification email payload: %w", err)
	}
	return asynq.NewTask(TypeVerificationEmail, payload), nil
}

func NewCleanupUnverifiedTask() *asynq.Task {
	return asynq.NewTask(TypeCleanupUnverified, nil)
}

// Client enqueues tasks for the worker process. Implements
// service.VerificationEnqueuer.
type Client struct {
	inner *asynq.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{inner: asynq.NewClient(RedisOpt(cfg))}
}

func (c *Client) EnqueueVerificationEmail(ctx context.Context, userID uint, email, code string, expiresAt time.Time) error {
	task, err := NewVerificationEmailTask(VerificationEmailPayload{
		UserID:    userID,
		Email:     email,
		Code:      code,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return err
	}
	if _, err := c.inner.EnqueueContext(ctx, task, asynq.MaxRetry(5), asynq.Timeout(time.Minute)); err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeVerificationEmail, err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.inner.Close()
}
