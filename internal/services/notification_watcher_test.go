package services

import (
	"context"
	"testing"
	"time"

	"salestrack/internal/domain/chat"
	"salestrack/internal/events"
	"salestrack/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherObserve(t *testing.T) {
	me := uuid.New()
	other := uuid.New()
	roomID := chat.RoomID(me, other)
	base := time.Now()

	t.Run("unprimed watcher never cues", func(t *testing.T) {
		w := NewWatcher(me)
		assert.False(t, w.Observe(roomID, other, base))
	})

	t.Run("baseline rooms do not cue on the primed timestamp", func(t *testing.T) {
		w := NewWatcher(me)
		w.Prime([]chat.Snapshot{{RoomID: roomID, HasLast: true, LastAt: base}})
		assert.False(t, w.Observe(roomID, other, base))
	})

	t.Run("newer message from someone else cues", func(t *testing.T) {
		w := NewWatcher(me)
		w.Prime([]chat.Snapshot{{RoomID: roomID, HasLast: true, LastAt: base}})
		assert.True(t, w.Observe(roomID, other, base.Add(time.Second)))
	})

	t.Run("own message never cues but still advances the marker", func(t *testing.T) {
		w := NewWatcher(me)
		w.Prime([]chat.Snapshot{{RoomID: roomID, HasLast: true, LastAt: base}})

		assert.False(t, w.Observe(roomID, me, base.Add(time.Second)))
		// A replay of the same update must not cue later either.
		assert.False(t, w.Observe(roomID, other, base.Add(time.Second)))
		// A genuinely newer message from the other side still does.
		assert.True(t, w.Observe(roomID, other, base.Add(2*time.Second)))
	})

	t.Run("unseen room cues once primed", func(t *testing.T) {
		w := NewWatcher(me)
		w.Prime(nil)
		assert.True(t, w.Observe(roomID, other, base))
	})

	t.Run("stale update does not cue", func(t *testing.T) {
		w := NewWatcher(me)
		w.Prime([]chat.Snapshot{{RoomID: roomID, HasLast: true, LastAt: base}})
		assert.False(t, w.Observe(roomID, other, base.Add(-time.Second)))
	})
}

func TestWatcherManager(t *testing.T) {
	ctx := context.Background()
	me := uuid.New()
	other := uuid.New()
	roomID := chat.RoomID(me, other)
	base := time.Now()

	newManager := func(pub *memPublisher, snaps []chat.Snapshot) *WatcherManager {
		snapshot := func(context.Context, uuid.UUID) ([]chat.Snapshot, error) {
			return snaps, nil
		}
		return NewWatcherManager(snapshot, pub, logger.New(logger.DevelopmentMode))
	}

	t.Run("cue published on newer foreign message", func(t *testing.T) {
		pub := &memPublisher{}
		m := newManager(pub, []chat.Snapshot{{RoomID: roomID, HasLast: true, LastAt: base}})
		m.Attach(ctx, me)

		m.ConversationTouched(ctx, roomID, other, base.Add(time.Second), me, other)

		channels := pub.published()
		require.Len(t, channels, 1)
		assert.Equal(t, events.UserChannel(me.String()), channels[0])
	})

	t.Run("no cue for detached users", func(t *testing.T) {
		pub := &memPublisher{}
		m := newManager(pub, nil)
		m.ConversationTouched(ctx, roomID, other, base, me, other)
		assert.Empty(t, pub.published())
	})

	t.Run("watcher survives until the last connection detaches", func(t *testing.T) {
		pub := &memPublisher{}
		m := newManager(pub, []chat.Snapshot{{RoomID: roomID, HasLast: true, LastAt: base}})
		m.Attach(ctx, me)
		m.Attach(ctx, me)
		m.Detach(me)

		m.ConversationTouched(ctx, roomID, other, base.Add(time.Second), me)
		assert.Len(t, pub.published(), 1)

		m.Detach(me)
		m.ConversationTouched(ctx, roomID, other, base.Add(2*time.Second), me)
		assert.Len(t, pub.published(), 1, "no cue after the last detach")
	})

	t.Run("drop removes the watcher regardless of refs", func(t *testing.T) {
		pub := &memPublisher{}
		m := newManager(pub, nil)
		m.Attach(ctx, me)
		m.Attach(ctx, me)
		m.Drop(me)

		m.ConversationTouched(ctx, roomID, other, base, me)
		assert.Empty(t, pub.published())
	})
}
