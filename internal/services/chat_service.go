package services

import (
	"context"
	"strings"
	"time"

	"salestrack/internal/domain/chat"
	"salestrack/internal/domain/user"
	"salestrack/internal/events"
	"salestrack/internal/repository"
	apperrors "salestrack/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConversationObserver is notified after a conversation's denormalized last
// message changed. The notification watcher manager implements it.
type ConversationObserver interface {
	ConversationTouched(ctx context.Context, roomID string, senderID uuid.UUID, at time.Time, members ...uuid.UUID)
}

type ChatService struct {
	db        *gorm.DB
	chatRepo  repository.ChatRepository
	userRepo  repository.UserRepository
	publisher events.Publisher
	observer  ConversationObserver
}

const messageWindow = 100

func NewChatService(db *gorm.DB, chatRepo repository.ChatRepository, userRepo repository.UserRepository, publisher events.Publisher) *ChatService {
	return &ChatService{db: db, chatRepo: chatRepo, userRepo: userRepo, publisher: publisher}
}

// SetObserver wires the notification watcher manager in after construction;
// the two reference each other.
func (s *ChatService) SetObserver(o ConversationObserver) {
	s.observer = o
}

// EnsureRoom makes sure the DM room for the pair exists, creating it with
// its member pair if needed. Existing rooms are never overwritten, so every
// chat open may call this.
func (s *ChatService) EnsureRoom(ctx context.Context, a, b uuid.UUID) (string, error) {
	if a == uuid.Nil || b == uuid.Nil || a == b {
		return "", apperrors.ErrInvalidInput
	}

	roomID := chat.RoomID(a, b)
	memberA, memberB := a, b
	if memberB.String() < memberA.String() {
		memberA, memberB = memberB, memberA
	}

	conv := &chat.Conversation{
		ID:      roomID,
		MemberA: memberA,
		MemberB: memberB,
	}
	if err := s.chatRepo.EnsureRoom(ctx, conv); err != nil {
		return "", err
	}
	return roomID, nil
}

// SendDirectMessage appends the message and refreshes the room's
// denormalized last message plus the sender's own read marker in a single
// transaction, all stamped with the same send time. A reader can never see
// the room metadata advance without the message row existing.
func (s *ChatService) SendDirectMessage(ctx context.Context, sender user.User, recipientID uuid.UUID, text string, attachment *chat.Attachment) (chat.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" && attachment == nil {
		return chat.Message{}, apperrors.ErrInvalidInput
	}
	if sender.ID == uuid.Nil || recipientID == uuid.Nil || sender.ID == recipientID {
		return chat.Message{}, apperrors.ErrInvalidInput
	}

	roomID, err := s.EnsureRoom(ctx, sender.ID, recipientID)
	if err != nil {
		return chat.Message{}, err
	}

	sentAt := time.Now()
	msg := buildMessage(roomID, sender, text, attachment, sentAt)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.NewChatRepository(tx)
		if err := txRepo.CreateMessage(ctx, &msg); err != nil {
			return err
		}
		if err := txRepo.UpdateRoomLastMessage(ctx, roomID, previewText(msg), sender.ID, sentAt); err != nil {
			return err
		}
		return txRepo.SetLastRead(ctx, roomID, sender.ID, sentAt)
	})
	if err != nil {
		return chat.Message{}, err
	}

	s.fanOutMessage(ctx, msg, sender.ID, recipientID)
	return msg, nil
}

// SendGroupMessage appends to the shared team room. There is no
// conversation row to maintain for the group chat.
func (s *ChatService) SendGroupMessage(ctx context.Context, sender user.User, text string, attachment *chat.Attachment) (chat.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" && attachment == nil {
		return chat.Message{}, apperrors.ErrInvalidInput
	}
	if sender.ID == uuid.Nil {
		return chat.Message{}, apperrors.ErrInvalidInput
	}

	msg := buildMessage(chat.GroupRoomID, sender, text, attachment, time.Now())
	if err := s.chatRepo.CreateMessage(ctx, &msg); err != nil {
		return chat.Message{}, err
	}

	if s.publisher != nil {
		env := events.NewEnvelope(events.EventMessageCreated, chat.GroupRoomID, msg)
		_ = s.publisher.Publish(ctx, events.RoomChannel(chat.GroupRoomID), env.Encode())
	}
	return msg, nil
}

// MarkAsRead moves the caller's own read marker using the store's clock.
func (s *ChatService) MarkAsRead(ctx context.Context, roomID string, userID uuid.UUID) error {
	room, err := s.chatRepo.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if !room.HasMember(userID) {
		return apperrors.ErrForbidden
	}
	return s.chatRepo.SetLastReadNow(ctx, roomID, userID)
}

// Conversations returns the caller's DM rooms with last-message and
// last-read markers folded in.
func (s *ChatService) Conversations(ctx context.Context, userID uuid.UUID) ([]chat.Snapshot, error) {
	convs, err := s.chatRepo.GetUserConversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	reads, err := s.chatRepo.GetReadsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	readByRoom := make(map[string]time.Time, len(reads))
	for _, r := range reads {
		readByRoom[r.ConversationID] = r.LastReadAt
	}

	out := make([]chat.Snapshot, 0, len(convs))
	for _, c := range convs {
		snap := chat.Snapshot{
			RoomID:  c.ID,
			OtherID: c.Other(userID),
		}
		if c.LastMessageAt.Valid {
			snap.HasLast = true
			snap.LastAt = c.LastMessageAt.Time
			snap.LastText = c.LastMessageText.String
			if c.LastMessageSenderID.Valid {
				snap.LastSenderID = c.LastMessageSenderID.UUID
			}
		}
		if at, ok := readByRoom[c.ID]; ok {
			snap.HasLastRead = true
			snap.LastReadAt = at
		}
		out = append(out, snap)
	}
	return out, nil
}

// GroupMessages returns the most recent window of the team chat in
// ascending send order.
func (s *ChatService) GroupMessages(ctx context.Context) ([]chat.Message, error) {
	return s.chatRepo.GetRecentMessages(ctx, chat.GroupRoomID, messageWindow)
}

// DirectMessages returns the most recent window of the DM room between the
// caller and the other user.
func (s *ChatService) DirectMessages(ctx context.Context, callerID, otherID uuid.UUID) ([]chat.Message, error) {
	if callerID == uuid.Nil || otherID == uuid.Nil {
		return nil, apperrors.ErrInvalidInput
	}
	roomID := chat.RoomID(callerID, otherID)
	return s.chatRepo.GetRecentMessages(ctx, roomID, messageWindow)
}

// CanSubscribe reports whether a user may follow a room's live stream:
// everyone for the group room, members only for DM rooms.
func (s *ChatService) CanSubscribe(ctx context.Context, userID uuid.UUID, roomID string) bool {
	if roomID == chat.GroupRoomID {
		return true
	}
	room, err := s.chatRepo.GetRoom(ctx, roomID)
	if err != nil {
		return false
	}
	return room.HasMember(userID)
}

// ClearGroupChat wipes the team room's history. Admin only; the route guard
// enforces the role.
func (s *ChatService) ClearGroupChat(ctx context.Context) error {
	return s.chatRepo.ClearRoom(ctx, chat.GroupRoomID)
}

func (s *ChatService) fanOutMessage(ctx context.Context, msg chat.Message, memberIDs ...uuid.UUID) {
	if s.publisher != nil {
		env := events.NewEnvelope(events.EventMessageCreated, msg.RoomID, msg)
		_ = s.publisher.Publish(ctx, events.RoomChannel(msg.RoomID), env.Encode())

		update := events.NewEnvelope(events.EventConversationUpdated, msg.RoomID, nil)
		for _, id := range memberIDs {
			_ = s.publisher.Publish(ctx, events.UserChannel(id.String()), update.Encode())
		}
	}
	if s.observer != nil {
		s.observer.ConversationTouched(ctx, msg.RoomID, msg.SenderID, msg.SentAt, memberIDs...)
	}
}

func buildMessage(roomID string, sender user.User, text string, attachment *chat.Attachment, sentAt time.Time) chat.Message {
	msg := chat.Message{
		ID:         uuid.New(),
		RoomID:     roomID,
		SenderID:   sender.ID,
		SenderName: sender.Name,
		SentAt:     sentAt,
	}
	if text != "" {
		msg.Text.String = text
		msg.Text.Valid = true
	}
	if attachment != nil {
		msg.AttachmentType.String = attachment.Type
		msg.AttachmentType.Valid = true
		msg.AttachmentURL.String = attachment.URL
		msg.AttachmentURL.Valid = true
		msg.AttachmentName.String = attachment.Filename
		msg.AttachmentName.Valid = true
	}
	return msg
}

func previewText(msg chat.Message) string {
	if msg.Text.Valid {
		return msg.Text.String
	}
	return msg.AttachmentName.String
}
