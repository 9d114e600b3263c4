package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/qq3pta/coffee-shop-api/internal/http/response"
	"github.com/qq3pta/coffee-shop-api/internal/repository"
	"github.com/qq3pta/coffee-shop-api/internal/security"
	"github.com/qq3pta/coffee-shop-api/internal/service"
)

type AuthHandler struct {
	accounts service.AccountServiceInterface
}

func NewAuthHandler(accounts service.AccountServiceInterface) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var in service.SignupInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	_, pair, err := h.accounts.Signup(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			response.Error(w, r, http.StatusUnprocessableEntity, "VALIDATION_FAILED", err.Error(), nil)
		case errors.Is(err, service.ErrEmailAlreadyRegistered):
			response.Error(w, r, http.StatusBadRequest, "EMAIL_ALREADY_REGISTERED", "email already registered", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to sign up", nil)
		}
		return
	}
	response.JSON(w, r, http.StatusCreated, pair)
}

// Login accepts the OAuth2 password-grant form shape: username carries the
// email address.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid form body", nil)
		return
	}
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")
	pair, err := h.accounts.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to log in", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, pair)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Token == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "token is required", nil)
		return
	}
	pair, err := h.accounts.Refresh(r.Context(), in.Token)
	if err != nil {
		switch {
		case errors.Is(err, security.ErrTokenExpired):
			response.Error(w, r, http.StatusUnauthorized, "TOKEN_EXPIRED", "refresh token expired", nil)
		case errors.Is(err, security.ErrTokenInvalid):
			response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid refresh token", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to refresh tokens", nil)
		}
		return
	}
	response.JSON(w, r, http.StatusOK, pair)
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Email == "" || in.Code == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "email and code are required", nil)
		return
	}
	if err := h.accounts.Verify(r.Context(), in.Email, in.Code); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
		case errors.Is(err, service.ErrCodeInvalidOrExpired):
			response.Error(w, r, http.StatusBadRequest, "CODE_INVALID_OR_EXPIRED", "verification code invalid or expired", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to verify user", nil)
		}
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]string{"detail": "User verified"})
}
