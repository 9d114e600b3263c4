package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCleanupServicePurgeUnverified(t *testing.T) {
	var gotCutoff time.Time
	repo := &stubUserRepository{
		deleteStaleFn: func(_ context.Context, olderThan time.Time) (int64, error) {
			gotCutoff = olderThan
			return 3, nil
		},
	}
	svc := NewCleanupService(repo, 48*time.Hour, discardLogger())

	before := time.Now().Add(-48 * time.Hour)
	deleted, err := svc.PurgeUnverified(context.Background())
	after := time.Now().Add(-48 * time.Hour)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("expected 3 deletions, got %d", deleted)
	}
	if gotCutoff.Before(before) || gotCutoff.After(after) {
		t.Fatalf("cutoff %v not within retention window [%v, %v]", gotCutoff, before, after)
	}
}

func TestCleanupServicePropagatesError(t *testing.T) {
	expected := errors.New("db down")
	repo := &stubUserRepository{
		deleteStaleFn: func(_ context.Context, _ time.Time) (int64, error) {
			return 0, expected
		},
	}
	svc := NewCleanupService(repo, 48*time.Hour, discardLogger())

	if _, err := svc.PurgeUnverified(context.Background()); !errors.Is(err, expected) {
		t.Fatalf("expected %v, got %v", expected, err)
	}
}
