package chat

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// GroupRoomID is the fixed room holding the org-wide team chat.
const GroupRoomID = "group-chat"

// RoomID derives the direct-message room identifier for a pair of users.
// The two ids are ordered lexicographically before joining, so both call
// orders yield the same room.
func RoomID(a, b uuid.UUID) string {
	sa, sb := a.String(), b.String()
	if sa < sb {
		return sa + "_" + sb
	}
	return sb + "_" + sa
}

// Conversation represents the conversations table: one row per DM room,
// carrying the denormalized last message for list views and notifications.
type Conversation struct {
	ID                  string `gorm:"primaryKey"`
	MemberA             uuid.UUID
	MemberB             uuid.UUID
	LastMessageText     sql.NullString
	LastMessageAt       sql.NullTime
	LastMessageSenderID uuid.NullUUID
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (c Conversation) HasMember(userID uuid.UUID) bool {
	return c.MemberA == userID || c.MemberB == userID
}

// Other returns the member that is not userID.
func (c Conversation) Other(userID uuid.UUID) uuid.UUID {
	if c.MemberA == userID {
		return c.MemberB
	}
	return c.MemberA
}

// ConversationRead represents the conversation_reads table: one row per
// room member, tracking that member's last-read marker.
type ConversationRead struct {
	ConversationID string    `gorm:"primaryKey"`
	UserID         uuid.UUID `gorm:"primaryKey"`
	LastReadAt     time.Time
}

// Message represents the messages table. Rooms are either the fixed group
// room or a derived DM room id. Messages are immutable once created.
type Message struct {
	ID             uuid.UUID
	RoomID         string `gorm:"index"`
	SenderID       uuid.UUID
	SenderName     string
	Text           sql.NullString
	AttachmentType sql.NullString
	AttachmentURL  sql.NullString
	AttachmentName sql.NullString
	SentAt         time.Time `gorm:"index"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (ConversationRead) TableName() string {
	return "conversation_reads"
}

func (Message) TableName() string {
	return "messages"
}

// Attachment describes an uploaded file referenced by a message.
type Attachment struct {
	Type     string `json:"type"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Snapshot is the slice of a conversation the notification watcher and the
// conversation-list stream care about.
type Snapshot struct {
	RoomID       string    `json:"room_id"`
	OtherID      uuid.UUID `json:"other_id"`
	LastText     string    `json:"last_text,omitempty"`
	LastAt       time.Time `json:"last_at"`
	HasLast      bool      `json:"has_last"`
	LastSenderID uuid.UUID `json:"last_sender_id"`
	LastReadAt   time.Time `json:"last_read_at"`
	HasLastRead  bool      `json:"has_last_read"`
}
