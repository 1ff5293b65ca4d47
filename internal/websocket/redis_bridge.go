package websocket

import (
	"context"

	"salestrack/internal/events"
)

// RedisBridge forwards pub/sub traffic into the hub so every API instance
// delivers events regardless of which one handled the originating request.
type RedisBridge struct {
	subscriber events.Subscriber
	hub        *Hub
}

func NewRedisBridge(subscriber events.Subscriber, hub *Hub) *RedisBridge {
	return &RedisBridge{subscriber: subscriber, hub: hub}
}

// Run blocks until the context is canceled, relaying every matched channel
// one-to-one onto hub channels.
func (b *RedisBridge) Run(ctx context.Context) error {
	patterns := []string{
		events.ChannelPrefixRoom + "*",
		events.ChannelPrefixUser + "*",
	}
	return b.subscriber.Subscribe(ctx, patterns, func(channel string, payload []byte) {
		b.hub.Broadcast(channel, payload)
	})
}
