package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	apperrors "github.com/peterkingsmesn/jig-backend/internal/errors"
	"github.com/peterkingsmesn/jig-backend/internal/model"
	"github.com/peterkingsmesn/jig-backend/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
	log zerolog.Logger
}

func NewAuthHandler(svc *service.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Email and password"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 429 {object} errors.Envelope
// @Failure 500 {object} errors.Envelope
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, apperrors.Validation(map[string]any{"body": "request body must be valid JSON"}))
		return
	}

	client := service.ClientContext{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	data, err := h.svc.Login(c.Request.Context(), req, client)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, data, "Login successful")
}

// Refresh godoc
// @Summary Exchange a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RefreshRequest true "Refresh token"
// @Success 200 {object} model.SuccessResponse
// @Failure 401 {object} errors.Envelope
// @Failure 500 {object} errors.Envelope
// @Router /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, apperrors.InvalidRefreshToken())
		return
	}

	data, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, data, "Token refreshed")
}

// Verify godoc
// @Summary Verify the presented access token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.SuccessResponse
// @Failure 401 {object} errors.Envelope
// @Router /api/auth/verify [get]
func (h *AuthHandler) Verify(c *gin.Context) {
	tokenString, ok := extractBearer(c)
	if !ok {
		respondError(c, h.log, apperrors.NoToken())
		return
	}

	user, err := h.svc.Verify(tokenString)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, model.VerifyData{User: user}, "")
}

// Me godoc
// @Summary Get the authenticated caller
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.SuccessResponse
// @Failure 401 {object} errors.Envelope
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		respondError(c, h.log, apperrors.NoToken())
		return
	}
	respondOK(c, model.VerifyData{User: *user}, "")
}

// Logout godoc
// @Summary Revoke the presented refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} model.SuccessResponse
// @Failure 500 {object} errors.Envelope
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req model.LogoutRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.svc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondError(c, h.log, err)
		return
	}

	respondOK(c, model.LogoutData{Status: "logged_out"}, "")
}
