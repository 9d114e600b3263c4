package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/qq3pta/coffee-shop-api/internal/config"
	"github.com/qq3pta/coffee-shop-api/internal/domain"
	"github.com/qq3pta/coffee-shop-api/internal/repository"
	"github.com/qq3pta/coffee-shop-api/internal/security"
)

const minPasswordLength = 8

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type SignupInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// VerificationEnqueuer hands the verification email off to the task queue.
// Delivery is best effort; enqueue failures never fail the signup.
type VerificationEnqueuer interface {
	EnqueueVerificationEmail(ctx context.Context, userID uint, email, code string, expiresAt time.Time) error
}

type AccountServiceInterface interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, TokenPair, error)
	Login(ctx context.Context, email, password string) (TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	Verify(ctx context.Context, email, code string) error
	GetCurrentUser(ctx context.Context, accessToken string) (*domain.User, error)
}

type AccountService struct {
	repo     repository.UserRepositoryInterface
	jwtMgr   *security.JWTManager
	enqueuer VerificationEnqueuer
	cfg      *config.Config
	logger   *slog.Logger
}

func NewAccountService(
	repo repository.UserRepositoryInterface,
	jwtMgr *security.JWTManager,
	enqueuer VerificationEnqueuer,
	cfg *config.Config,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{repo: repo, jwtMgr: jwtMgr, enqueuer: enqueuer, cfg: cfg, logger: logger}
}

func (s *AccountService) Signup(ctx context.Context, in SignupInput) (*domain.User, TokenPair, error) {
	email := strings.TrimSpace(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, TokenPair{}, fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if len(in.Password) < minPasswordLength {
		return nil, TokenPair{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, TokenPair{}, ErrEmailAlreadyRegistered
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, TokenPair{}, err
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	code := security.NewVerificationCode()
	expiry := time.Now().Add(s.cfg.VerificationCodeTTL)
	user := &domain.User{
		Email:              email,
		PasswordHash:       hash,
		FirstName:          strings.TrimSpace(in.FirstName),
		LastName:           strings.TrimSpace(in.LastName),
		Role:               domain.RoleUser,
		VerificationCode:   &code,
		VerificationExpiry: &expiry,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, TokenPair{}, ErrEmailAlreadyRegistered
		}
		return nil, TokenPair{}, err
	}

	if err := s.enqueuer.EnqueueVerificationEmail(ctx, user.ID, user.Email, code, expiry); err != nil {
		s.logger.ErrorContext(ctx, "failed to enqueue verification email",
			"user_id", user.ID, "email", user.Email, "error", err)
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			security.BurnPasswordCheck(password)
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, err
	}
	if !security.CheckPassword(password, user.PasswordHash) {
		return TokenPair{}, ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

// Refresh mints a new token pair from a valid refresh token. The presented
// refresh token stays valid until its own expiry; there is no rotation or
// server-side revocation list.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.jwtMgr.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	id, err := claims.UserID()
	if err != nil {
		return TokenPair{}, err
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return TokenPair{}, security.ErrTokenInvalid
		}
		return TokenPair{}, err
	}
	return s.issueTokens(user)
}

func (s *AccountService) Verify(ctx context.Context, email, code string) error {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return err
	}
	ok, err := s.repo.ConsumeVerificationCode(ctx, user.ID, code, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrCodeInvalidOrExpired
	}
	s.logger.InfoContext(ctx, "user verified", "user_id", user.ID, "email", user.Email)
	return nil
}

func (s *AccountService) GetCurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.jwtMgr.ParseAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, security.ErrTokenInvalid
		}
		return nil, err
	}
	return user, nil
}

func (s *AccountService) issueTokens(user *domain.User) (TokenPair, error) {
	access, err := s.jwtMgr.SignAccessToken(user.ID, string(user.Role), s.cfg.JWTAccessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.jwtMgr.SignRefreshToken(user.ID, s.cfg.JWTRefreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}
