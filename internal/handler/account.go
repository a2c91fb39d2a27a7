package handler

import (
	"log/slog"
	"net/http"

	"github.com/fitlog/fitlog/internal/auth"
	"github.com/fitlog/fitlog/internal/handler/dto"
	"github.com/fitlog/fitlog/internal/service"
)

// AccountHandler handles registration, login, password reset and profile.
type AccountHandler struct {
	svc    *service.AccountService
	logger *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc *service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /api/register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.svc.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("user_registered", "email_hash", auth.QuickHash(user.Email))
	writeJSON(w, http.StatusCreated, dto.MessageResponse{Message: "User registered successfully."})
}

// Login handles POST /api/login.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      dto.ToUserResponse(result.User),
	})
}

// ResetChallenge handles POST /api/reset-password/challenge. The answer is
// the same whether or not the account exists.
func (h *AccountHandler) ResetChallenge(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetChallengeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.svc.RequestReset(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusAccepted, dto.MessageResponse{
		Message: "If the account exists, a reset code has been sent.",
	})
}

// ResetPassword handles POST /api/reset-password.
func (h *AccountHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.svc.ResetPassword(r.Context(), service.ResetInput{
		Email:       req.Email,
		NewPassword: req.NewPassword,
		Code:        req.Code,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("password_reset", "email_hash", auth.QuickHash(req.Email))
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Password reset successful."})
}

// Profile handles GET /api/profile.
func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	user, err := h.svc.Profile(r.Context(), identity.Email)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user.Identity()))
}
