package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"

	"github.com/qq3pta/coffee-shop-api/internal/service"
)

type stubNotifier struct {
	sent []service.VerificationNotification
	err  error
}

func (s *stubNotifier) SendEmailVerification(_ context.Context, n service.VerificationNotification) error {
	s.sent = append(s.sent, n)
	return s.err
}

type stubCleaner struct {
	deleted int64
	err     error
	runs    int
}

func (s *stubCleaner) PurgeUnverified(_ context.Context) (int64, error) {
	s.runs++
	return s.deleted, s.err
}

func TestHandleVerificationEmail(t *testing.T) {
	expiry := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	task, err := NewVerificationEmailTask(VerificationEmailPayload{
		UserID:    7,
		Email:     "a@x.com",
		Code:      "code-123",
		ExpiresAt: expiry,
	})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}

	notifier := &stubNotifier{}
	if err := HandleVerificationEmail(notifier)(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifier.sent))
	}
	got := notifier.sent[0]
	if got.UserID != 7 || got.Email != "a@x.com" || got.Code != "code-123" || !got.ExpiresAt.Equal(expiry) {
		t.Fatalf("unexpected notification: %+v", got)
	}
}

func TestHandleVerificationEmailBadPayloadSkipsRetry(t *testing.T) {
	task := asynq.NewTask(TypeVerificationEmail, []byte("{not json"))
	err := HandleVerificationEmail(&stubNotifier{})(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry for malformed payload, got %v", err)
	}
}

func TestHandleVerificationEmailPropagatesSendError(t *testing.T) {
	task, err := NewVerificationEmailTask(VerificationEmailPayload{UserID: 1, Email: "a@x.com", Code: "c"})
	if err != nil {
		t.Fatal(err)
	}
	expected := errors.New("smtp down")
	err = HandleVerificationEmail(&stubNotifier{err: expected})(context.Background(), task)
	if !errors.Is(err, expected) {
		t.Fatalf("expected %v, got %v", expected, err)
	}
}

func TestHandleCleanupUnverified(t *testing.T) {
	cleaner := &stubCleaner{deleted: 2}
	if err := HandleCleanupUnverified(cleaner)(context.Background(), NewCleanupUnverifiedTask()); err != nil {
		t.Fatalf("handle cleanup: %v", err)
	}
	if cleaner.runs != 1 {
		t.Fatalf("expected one run, got %d", cleaner.runs)
	}

	failing := &stubCleaner{err: errors.New("db down")}
	if err := HandleCleanupUnverified(failing)(context.Background(), NewCleanupUnverifiedTask()); err == nil {
		t.Fatal("expected error to propagate so asynq retries")
	}
}
