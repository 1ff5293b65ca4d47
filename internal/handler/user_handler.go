package handler

import (
	"net/http"

	"salestrack/internal/services"
	"salestrack/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler covers user listings, the per-agent goal and call scripts.
type UserHandler struct {
	sales   *services.SaleService
	users   *services.UserService
	reports *services.ReportService
}

func NewUserHandler(sales *services.SaleService, users *services.UserService, reports *services.ReportService) *UserHandler {
	return &UserHandler{sales: sales, users: users, reports: reports}
}

// List returns every user profile. Admin only; the chat contact list uses
// the agents endpoint instead.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.sales.AllUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]httpdto.UserDTO, len(users))
	for i, u := range users {
		out[i] = httpdto.FromUser(u)
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(out))
}

// Get returns one profile by id.
func (h *UserHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid user id", "invalid-argument"))
		return
	}

	profile, err := h.sales.UserProfile(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("user not found", "not-found"))
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromUser(*profile)))
}

// UpdateGoal sets an agent's monthly sales goal. Admin only.
func (h *UserHandler) UpdateGoal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid user id", "invalid-argument"))
		return
	}

	var req httpdto.SalesGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "invalid-argument"))
		return
	}

	if err := h.sales.UpdateSalesGoal(c.Request.Context(), id, req.Goal); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

// Colleagues is the chat contact list for the signed-in user.
func (h *UserHandler) Colleagues(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "unauthenticated"))
		return
	}

	users, err := h.users.Colleagues(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]httpdto.UserDTO, len(users))
	for i, u := range users {
		out[i] = httpdto.FromUser(u)
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(out))
}

// Scripts lists the caller's call scripts.
func (h *UserHandler) Scripts(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "unauthenticated"))
		return
	}

	scripts, err := h.users.Scripts(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]httpdto.ScriptDTO, len(scripts))
	for i, s := range scripts {
		out[i] = httpdto.FromScript(s)
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(out))
}

func (h *UserHandler) AddScript(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "unauthenticated"))
		return
	}

	var req httpdto.ScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "invalid-argument"))
		return
	}

	script, err := h.users.AddScript(c.Request.Context(), userID, req.Title, req.Body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromScript(script)))
}

func (h *UserHandler) DeleteScript(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "unauthenticated"))
		return
	}
	scriptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid script id", "invalid-argument"))
		return
	}

	if err := h.users.RemoveScript(c.Request.Context(), userID, scriptID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}
