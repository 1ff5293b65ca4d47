package repository

import (
	"context"
	"errors"
	"time"

	"salestrack/internal/domain/chat"
	apperrors "salestrack/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &PostgresChatRepository{db: db}
}

// EnsureRoom creates the conversation row if it does not exist yet. An
// existing row is left untouched (merge semantics), so this is safe to call
// on every chat open.
func (r *PostgresChatRepository) EnsureRoom(ctx context.Context, c *chat.Conversation) error {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(c).Error
}

func (r *PostgresChatRepository) GetRoom(ctx context.Context, roomID string) (chat.Conversation, error) {
	var c chat.Conversation
	err := r.db.WithContext(ctx).Where("id = ?", roomID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chat.Conversation{}, apperrors.ErrNotFound
		}
		return chat.Conversation{}, err
	}
	return c, nil
}

func (r *PostgresChatRepository) GetUserConversations(ctx context.Context, userID uuid.UUID) ([]chat.Conversation, error) {
	var convs []chat.Conversation
	err := r.db.WithContext(ctx).
		Where("member_a = ? OR member_b = ?", userID, userID).
		Order("last_message_at DESC NULLS LAST").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}

func (r *PostgresChatRepository) GetRead(ctx context.Context, roomID string, userID uuid.UUID) (chat.ConversationRead, error) {
	var read chat.ConversationRead
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND user_id = ?", roomID, userID).
		First(&read).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chat.ConversationRead{}, apperrors.ErrNotFound
		}
		return chat.ConversationRead{}, err
	}
	return read, nil
}

func (r *PostgresChatRepository) GetReadsForUser(ctx context.Context, userID uuid.UUID) ([]chat.ConversationRead, error) {
	var reads []chat.ConversationRead
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&reads).Error
	if err != nil {
		return nil, err
	}
	return reads, nil
}

func (r *PostgresChatRepository) CreateMessage(ctx context.Context, m *chat.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// GetRecentMessages returns the most recent limit messages of a room in
// ascending send order. The cap is applied before reordering so the window
// always holds the newest messages.
func (r *PostgresChatRepository) GetRecentMessages(ctx context.Context, roomID string, limit int) ([]chat.Message, error) {
	var msgs []chat.Message
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("sent_at DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *PostgresChatRepository) UpdateRoomLastMessage(ctx context.Context, roomID, text string, senderID uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&chat.Conversation{}).
		Where("id = ?", roomID).
		Updates(map[string]interface{}{
			"last_message_text":      text,
			"last_message_at":        at,
			"last_message_sender_id": senderID,
			"updated_at":             at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PostgresChatRepository) SetLastRead(ctx context.Context, roomID string, userID uuid.UUID, at time.Time) error {
	read := chat.ConversationRead{
		ConversationID: roomID,
		UserID:         userID,
		LastReadAt:     at,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "conversation_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"last_read_at": at}),
		}).
		Create(&read).Error
}

// SetLastReadNow stamps the marker with the database server's clock, not the
// application's, so skewed client clocks cannot move markers backwards.
func (r *PostgresChatRepository) SetLastReadNow(ctx context.Context, roomID string, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO conversation_reads (conversation_id, user_id, last_read_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (conversation_id, user_id) DO UPDATE SET last_read_at = NOW()`,
		roomID, userID,
	).Error
}

func (r *PostgresChatRepository) ClearRoom(ctx context.Context, roomID string) error {
	return r.db.WithContext(ctx).Delete(&chat.Message{}, "room_id = ?", roomID).Error
}

func (r *PostgresChatRepository) DeleteReadsForUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&chat.ConversationRead{}, "user_id = ?", userID).Error
}
