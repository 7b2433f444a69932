package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/peterkingsmesn/jig-backend/internal/service"
)

// AdminHandler serves the role-gated admin dashboard endpoints.
type AdminHandler struct {
	svc *service.AuthService
	log zerolog.Logger
}

func NewAdminHandler(svc *service.AuthService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, log: log}
}

// GetUser godoc
// @Summary Get an account by ID
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} model.SuccessResponse
// @Failure 401 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Router /api/admin/users/{id} [get]
func (h *AdminHandler) GetUser(c *gin.Context) {
	user, err := h.svc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, user, "")
}
