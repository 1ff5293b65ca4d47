package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"salestrack/internal/events"
	"salestrack/internal/services"
	"salestrack/internal/transport/httpdto"
	"salestrack/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Handler upgrades authenticated requests to websocket connections. Every
// connection follows the user's own channel from the start; room channels
// are joined on request, after a membership check.
type Handler struct {
	auth     *services.AuthService
	chat     *services.ChatService
	watchers *services.WatcherManager
	hub      *Hub
	log      *logger.Logger
}

func NewHandler(auth *services.AuthService, chat *services.ChatService, watchers *services.WatcherManager, hub *Hub, log *logger.Logger) *Handler {
	return &Handler{auth: auth, chat: chat, watchers: watchers, hub: hub, log: log}
}

// controlMessage is the inbound frame clients send to follow or leave a
// room's live stream.
type controlMessage struct {
	Action string `json:"action"`
	RoomID string `json:"room_id"`
}

func (h *Handler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "unauthenticated"))
		return
	}

	claims, err := h.auth.ParseAccessToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "unauthenticated"))
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "unauthenticated"))
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := NewClient(conn, userID.String())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.hub.Register(client)
	h.hub.Subscribe(client, events.UserChannel(userID.String()))
	h.watchers.Attach(ctx, userID)
	go client.WriteLoop(ctx)

	h.readLoop(ctx, client, userID)

	h.watchers.Detach(userID)
	h.hub.Unregister(client)
}

func (h *Handler) readLoop(ctx context.Context, client *Client, userID uuid.UUID) {
	conn := client.Conn
	_ = conn.SetReadDeadline(time.Now().Add(readWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readWait))

		var msg controlMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}

		switch msg.Action {
		case "subscribe":
			if msg.RoomID == "" {
				continue
			}
			if !h.chat.CanSubscribe(ctx, userID, msg.RoomID) {
				h.log.Warnf("user %s denied subscription to room %s", userID, msg.RoomID)
				continue
			}
			h.hub.Subscribe(client, events.RoomChannel(msg.RoomID))
		case "unsubscribe":
			if msg.RoomID == "" {
				continue
			}
			h.hub.Unsubscribe(client, events.RoomChannel(msg.RoomID))
		}
	}
}
