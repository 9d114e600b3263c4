package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/qq3pta/coffee-shop-api/internal/config"
	"github.com/qq3pta/coffee-shop-api/internal/domain"
	"github.com/qq3pta/coffee-shop-api/internal/security"
)

type stubUserRepository struct {
	createFn      func(ctx context.Context, user *domain.User) error
	findByIDFn    func(ctx context.Context, id uint) (*domain.User, error)
	findByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	listFn        func(ctx context.Context) ([]domain.User, error)
	updateFn      func(ctx context.Context, user *domain.User) error
	deleteFn      func(ctx context.Context, id uint) error
	consumeCodeFn func(ctx context.Context, userID uint, code string, now time.Time) (bool, error)
	deleteStaleFn func(ctx context.Context, olderThan time.Time) (int64, error)
}

func (s *stubUserRepository) Create(ctx context.Context, user *domain.User) error {
	if s.createFn == nil {
		return errors.New("not implemented")
	}
	return s.createFn(ctx, user)
}

func (s *stubUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if s.findByIDFn == nil {
		return nil, errors.New("not implemented")
	}
	return s.findByIDFn(ctx, id)
}

func (s *stubUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if s.findByEmailFn == nil {
		return nil, errors.New("not implemented")
	}
	return s.findByEmailFn(ctx, email)
}

func (s *stubUserRepository) List(ctx context.Context) ([]domain.User, error) {
	if s.listFn == nil {
		return nil, errors.New("not implemented")
	}
	return s.listFn(ctx)
}

func (s *stubUserRepository) Update(ctx context.Context, user *domain.User) error {
	if s.updateFn == nil {
		return errors.New("not implemented")
	}
	return s.updateFn(ctx, user)
}

func (s *stubUserRepository) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return errors.New("not implemented")
	}
	return s.deleteFn(ctx, id)
}

func (s *stubUserRepository) ConsumeVerificationCode(ctx context.Context, userID uint, code string, now time.Time) (bool, error) {
	if s.consumeCodeFn == nil {
		return false, errors.New("not implemented")
	}
	return s.consumeCodeFn(ctx, userID, code, now)
}

func (s *stubUserRepository) DeleteStaleUnverified(ctx context.Context, olderThan time.Time) (int64, error) {
	if s.deleteStaleFn == nil {
		return 0, errors.New("not implemented")
	}
	return s.deleteStaleFn(ctx, olderThan)
}

type stubEnqueuer struct {
	calls []VerificationNotification
	err   error
}

func (s *stubEnqueuer) EnqueueVerificationEmail(_ context.Context, userID uint, email, code string, expiresAt time.Time) error {
	s.calls = append(s.calls, VerificationNotification{UserID: userID, Email: email, Code: code, ExpiresAt: expiresAt})
	return s.err
}

func testConfig() *config.Config {
	return &config.Config{
		Env:                 "development",
		JWTIssuer:           "iss",
		JWTAudience:         "aud",
		JWTAccessSecret:     "abcdefghijklmnopqrstuvwxyz123456",
		JWTRefreshSecret:    "abcdefghijklmnopqrstuvwxyz654321",
		JWTAccessTTL:        30 * time.Minute,
		JWTRefreshTTL:       24 * time.Hour,
		VerificationCodeTTL: 48 * time.Hour,
		UnverifiedRetention: 48 * time.Hour,
	}
}

func testJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
