// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/librarium/librarium/internal/auth"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

// Acknowledgement messages.
const (
	PasswordChangedMessage = "Password changed successfully"
	PasswordResetMessage   = "Password reset successfully"
)

// AuthService is the orchestrator surface served over HTTP.
type AuthService interface {
	Register(ctx context.Context, in auth.RegisterInput) (*auth.AuthResult, error)
	Login(ctx context.Context, email, password string) (*auth.AuthResult, error)
	VerifySession(ctx context.Context, token string) (*auth.User, error)
	GetProfile(ctx context.Context, token string) (*auth.User, error)
	Refresh(ctx context.Context, token string) (*auth.AuthResult, error)
	ChangePassword(ctx context.Context, id ulid.ULID, currentPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,allowed_domain"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest is the body of POST /change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// ForgotPasswordRequest is the body of POST /forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// normalizer is implemented by request bodies that canonicalize fields
// before validation.
type normalizer interface {
	normalize()
}

func (r *RegisterRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = auth.NormalizeEmail(r.Email)
}

func (r *LoginRequest) normalize() { r.Email = auth.NormalizeEmail(r.Email) }

func (r *ForgotPasswordRequest) normalize() { r.Email = auth.NormalizeEmail(r.Email) }

// ResetPasswordRequest is the body of POST /reset-password.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// AuthHandler serves the /auth routes.
type AuthHandler struct {
	service   AuthService
	validator *Validator
	cookie    CookieConfig
	logger    *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc AuthService, v *Validator, cookie CookieConfig, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AuthHandler{service: svc, validator: v, cookie: cookie, logger: logger}
}

// decode reads and validates a JSON body into dst. On failure the response
// is already written and false is returned.
func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorBody(w, http.StatusRequestEntityTooLarge, CodeRequestTooLarge, "request body too large")
			return false
		}
		writeErrorBody(w, http.StatusBadRequest, auth.CodeInvalidInput, "invalid request body")
		return false
	}

	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}

	if err := h.validator.Struct(dst); err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusBadRequest, response{Error: &errorResponse{
				Code:    auth.CodeInvalidInput,
				Message: vErr.Error(),
				Fields:  vErr.Fields(),
			}})
			return false
		}
		writeAppError(w, r, err, h.logger)
		return false
	}
	return true
}

func (h *AuthHandler) writeSession(w http.ResponseWriter, status int, result *auth.AuthResult) {
	http.SetCookie(w, h.cookie.sessionCookie(result.Token, result.ExpiresAt))
	writeData(w, status, result)
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.Register(r.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}
	h.writeSession(w, http.StatusCreated, result)
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}
	h.writeSession(w, http.StatusOK, result)
}

// Verify handles POST /api/v1/auth/verify.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.VerifySession(r.Context(), extractToken(r, h.cookie.Name))
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, user)
}

// Refresh handles POST /api/v1/auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Refresh(r.Context(), extractToken(r, h.cookie.Name))
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}
	h.writeSession(w, http.StatusOK, result)
}

// Profile handles GET /api/v1/auth/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetProfile(r.Context(), extractToken(r, h.cookie.Name))
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, user)
}

// ChangePassword handles POST /api/v1/auth/change-password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.VerifySession(r.Context(), extractToken(r, h.cookie.Name))
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	var req ChangePasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, messageResponse{Message: PasswordChangedMessage})
}

// ForgotPassword handles POST /api/v1/auth/forgot-password.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	msg, err := h.service.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, messageResponse{Message: msg})
}

// ResetPassword handles POST /api/v1/auth/reset-password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}
	writeData(w, http.StatusOK, messageResponse{Message: PasswordResetMessage})
}
