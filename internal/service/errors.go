package service

import "errors"

var (
	ErrValidation             = errors.New("validation failed")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrCodeInvalidOrExpired   = errors.New("verification code invalid or expired")
)
