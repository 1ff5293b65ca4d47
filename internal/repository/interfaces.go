package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"salestrack/internal/domain/chat"
	"salestrack/internal/domain/sale"
	"salestrack/internal/domain/user"
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetAll(ctx context.Context) ([]user.User, error)
	GetAgents(ctx context.Context) ([]user.User, error)
	GetPending(ctx context.Context) ([]user.User, error)
	Update(ctx context.Context, u user.User) error
	UpdateSalesGoal(ctx context.Context, id uuid.UUID, goal int) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateSession(ctx context.Context, s *user.UserSession) error
	GetSessionByID(ctx context.Context, sessionID uuid.UUID) (user.UserSession, error)
	RevokeSession(ctx context.Context, sessionID uuid.UUID) error
	RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error

	CreatePasswordReset(ctx context.Context, r *user.PasswordReset) error
	GetPasswordResetByHash(ctx context.Context, tokenHash string) (user.PasswordReset, error)
	MarkPasswordResetUsed(ctx context.Context, id uuid.UUID) error

	GetUserScripts(ctx context.Context, userID uuid.UUID) ([]user.Script, error)
	CreateScript(ctx context.Context, s *user.Script) error
	DeleteScript(ctx context.Context, userID, scriptID uuid.UUID) error
	DeleteUserScripts(ctx context.Context, userID uuid.UUID) error
}

type SaleRepository interface {
	Create(ctx context.Context, s *sale.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (sale.Sale, error)
	GetForAgentInRange(ctx context.Context, agentID uuid.UUID, start, end time.Time) ([]sale.Sale, error)
	GetAllInRange(ctx context.Context, start, end time.Time) ([]sale.Sale, error)
	GetAll(ctx context.Context) ([]sale.Sale, error)
	Update(ctx context.Context, s sale.Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteForAgent(ctx context.Context, agentID uuid.UUID) error
}

type ChatRepository interface {
	EnsureRoom(ctx context.Context, c *chat.Conversation) error
	GetRoom(ctx context.Context, roomID string) (chat.Conversation, error)
	GetUserConversations(ctx context.Context, userID uuid.UUID) ([]chat.Conversation, error)
	GetRead(ctx context.Context, roomID string, userID uuid.UUID) (chat.ConversationRead, error)
	GetReadsForUser(ctx context.Context, userID uuid.UUID) ([]chat.ConversationRead, error)

	CreateMessage(ctx context.Context, m *chat.Message) error
	GetRecentMessages(ctx context.Context, roomID string, limit int) ([]chat.Message, error)
	UpdateRoomLastMessage(ctx context.Context, roomID, text string, senderID uuid.UUID, at time.Time) error
	SetLastRead(ctx context.Context, roomID string, userID uuid.UUID, at time.Time) error
	SetLastReadNow(ctx context.Context, roomID string, userID uuid.UUID) error
	ClearRoom(ctx context.Context, roomID string) error
	DeleteReadsForUser(ctx context.Context, userID uuid.UUID) error
}
