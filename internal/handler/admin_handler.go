package handler

import (
	"context"
	"net/http"

	"salestrack/internal/services"
	"salestrack/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler exposes the privileged account operations. The routes sit
// behind the admin middleware, and the service verifies the caller's role
// again on its own.
type AdminHandler struct {
	admin *services.AdminService
}

func NewAdminHandler(admin *services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) ApproveUser(c *gin.Context) {
	h.runOnTarget(c, h.admin.ApproveUser)
}

func (h *AdminHandler) RejectUser(c *gin.Context) {
	h.runOnTarget(c, h.admin.RejectUser)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	h.runOnTarget(c, h.admin.DeleteUserAndData)
}

// SendPasswordReset issues a reset token for any account and returns it to
// the admin for delivery.
func (h *AdminHandler) SendPasswordReset(c *gin.Context) {
	callerID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "unauthenticated"))
		return
	}

	var req httpdto.AdminPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "invalid-argument"))
		return
	}

	token, err := h.admin.SendPasswordReset(c.Request.Context(), callerID, req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"reset_token": token}))
}

func (h *AdminHandler) runOnTarget(c *gin.Context, op func(ctx context.Context, callerID, targetID uuid.UUID) error) {
	callerID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "unauthenticated"))
		return
	}
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid user id", "invalid-argument"))
		return
	}

	if err := op(c.Request.Context(), callerID, targetID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}
