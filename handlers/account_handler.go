package handlers

import (
	"context"
	"net/http"

	"legallyai-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountService is the account behaviour the HTTP layer needs
type AccountService interface {
	Authenticator
	Signup(ctx context.Context, req service.SignupRequest) (*service.AuthResult, error)
	Login(ctx context.Context, req service.LoginRequest) (*service.AuthResult, error)
	Logout(ctx context.Context, token string) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*service.ProfileResult, error)
	UpdateProfile(ctx context.Context, req service.UpdateProfileRequest) (*service.ProfileResult, error)
}

// AccountHandler handles HTTP requests for auth and profiles
type AccountHandler struct {
	accounts AccountService
	logger   *zap.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accounts AccountService, logger *zap.Logger) *AccountHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountHandler{accounts: accounts, logger: logger}
}

func authData(res *service.AuthResult) gin.H {
	return gin.H{
		"token":      res.Session.Token,
		"expires_at": res.Session.ExpiresAt,
		"user":       res.User,
	}
}

// Signup handles POST /api/auth/signup
func (h *AccountHandler) Signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.accounts.Signup(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusCreated, authData(res))
}

// Login handles POST /api/auth/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.accounts.Login(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, authData(res))
}

// Logout handles POST /api/auth/logout
func (h *AccountHandler) Logout(c *gin.Context) {
	if err := h.accounts.Logout(c.Request.Context(), bearerToken(c)); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"logged_out": true})
}

// GetProfile handles GET /api/profile
func (h *AccountHandler) GetProfile(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		respondServiceError(c, h.logger, service.ErrUnauthorized)
		return
	}

	res, err := h.accounts.GetProfile(c.Request.Context(), user.ID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, res)
}

// UpdateProfile handles PUT /api/profile
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		respondServiceError(c, h.logger, service.ErrUnauthorized)
		return
	}

	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	req.UserID = user.ID

	res, err := h.accounts.UpdateProfile(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, res)
}
