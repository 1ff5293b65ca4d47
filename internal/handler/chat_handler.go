package handler

import (
	"net/http"

	"salestrack/internal/domain/chat"
	"salestrack/internal/domain/user"
	"salestrack/internal/services"
	"salestrack/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChatHandler handles the chat REST surface. Live delivery happens over
// the websocket; these endpoints cover history, sending and read markers.
type ChatHandler struct {
	chat  *services.ChatService
	sales *services.SaleService
}

func NewChatHandler(chatSvc *services.ChatService, sales *services.SaleService) *ChatHandler {
	return &ChatHandler{chat: chatSvc, sales: sales}
}

// Conversations lists the caller's DM rooms, most recent first.
func (h *ChatHandler) Conversations(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "unauthenticated"))
		return
	}

	snaps, err := h.chat.Conversations(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromSnapshots(snaps)))
}

// DirectMessages returns the recent history of the DM with one other user.
func (h *ChatHandler) DirectMessages(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "unauthenticated"))
		return
	}
	otherID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid user id", "invalid-argument"))
		return
	}

	msgs, err := h.chat.DirectMessages(c.Request.Context(), userID, otherID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromMessages(msgs)))
}

// SendDirect posts a DM, creating the room on first contact.
func (h *ChatHandler) SendDirect(c *gin.Context) {
	sender, ok := h.callerProfile(c)
	if !ok {
		return
	}

	var req httpdto.DirectMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "invalid-argument"))
		return
	}
	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid recipient id", "invalid-argument"))
		return
	}

	msg, err := h.chat.SendDirectMessage(c.Request.Context(), sender, recipientID, req.Text, toAttachment(req.Attachment))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromMessage(msg)))
}

// GroupMessages returns the recent history of the team room.
func (h *ChatHandler) GroupMessages(c *gin.Context) {
	msgs, err := h.chat.GroupMessages(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromMessages(msgs)))
}

// SendGroup posts to the team room.
func (h *ChatHandler) SendGroup(c *gin.Context) {
	sender, ok := h.callerProfile(c)
	if !ok {
		return
	}

	var req httpdto.GroupMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "invalid-argument"))
		return
	}

	msg, err := h.chat.SendGroupMessage(c.Request.Context(), sender, req.Text, toAttachment(req.Attachment))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromMessage(msg)))
}

// MarkRead advances the caller's read marker in a room.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "unauthenticated"))
		return
	}
	roomID := c.Param("roomId")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid room id", "invalid-argument"))
		return
	}

	if err := h.chat.MarkAsRead(c.Request.Context(), roomID, userID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

// ClearGroup wipes the team room history. Admin only.
func (h *ChatHandler) ClearGroup(c *gin.Context) {
	if err := h.chat.ClearGroupChat(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *ChatHandler) callerProfile(c *gin.Context) (user.User, bool) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "unauthenticated"))
		return user.User{}, false
	}
	profile, err := h.sales.UserProfile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return user.User{}, false
	}
	if profile == nil {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "unauthenticated"))
		return user.User{}, false
	}
	return *profile, true
}

func toAttachment(dto *httpdto.AttachmentDTO) *chat.Attachment {
	if dto == nil {
		return nil
	}
	return &chat.Attachment{
		Type:     dto.Type,
		URL:      dto.URL,
		Filename: dto.Filename,
	}
}
