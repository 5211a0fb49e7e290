package handlers

import (
	"net/http"

	"socialgram-backend/application/services"
	"socialgram-backend/pkg/common"
	pkgerrors "socialgram-backend/pkg/errors"
	"socialgram-backend/pkg/utils"

	"go.uber.org/zap"
)

// maxJSONBody bounds JSON request bodies
const maxJSONBody = 1 << 20 // 1 MB

// AuthHandler handles registration and login
type AuthHandler struct {
	accounts *services.AccountService
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accounts *services.AccountService, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		errors:   errors,
		logger:   logger,
	}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := common.ParseJSONBody(r, &req, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.accounts.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.Respond(w, http.StatusCreated, "Account created successfully", common.Envelope{
		"token": token,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := common.ParseJSONBody(r, &req, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, user, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.Respond(w, http.StatusOK, "Logged in successfully", common.Envelope{
		"token": token,
		"user":  user,
	})
}
