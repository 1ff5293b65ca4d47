package events

import "context"

// Channel naming. Room channels fan out new messages to everyone viewing
// the room; user channels carry per-user payloads (conversation list
// updates, notification cues).
const (
	ChannelPrefixRoom = "channel:room:"
	ChannelPrefixUser = "channel:user:"

	EventMessageCreated      = "chat.message.created"
	EventConversationUpdated = "chat.conversation.updated"
	EventNotificationCue     = "notification.cue"
)

func RoomChannel(roomID string) string {
	return ChannelPrefixRoom + roomID
}

func UserChannel(userID string) string {
	return ChannelPrefixUser + userID
}

type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, patterns []string, handler func(channel string, payload []byte)) error
}
