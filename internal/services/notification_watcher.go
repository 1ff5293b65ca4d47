package services

import (
	"context"
	"sync"
	"time"

	"salestrack/internal/domain/chat"
	"salestrack/internal/events"
	"salestrack/pkg/logger"

	"github.com/google/uuid"
)

// Watcher tracks one user's view of their conversation list and decides
// when an incoming message deserves a cue. The first snapshot only seeds
// the baseline; from then on a room alerts when its last message is
// strictly newer than what the watcher has seen and was written by
// someone else. The marker always advances, so self-sent messages never
// alert later.
type Watcher struct {
	userID uuid.UUID

	mu     sync.Mutex
	primed bool
	known  map[string]time.Time
}

func NewWatcher(userID uuid.UUID) *Watcher {
	return &Watcher{
		userID: userID,
		known:  make(map[string]time.Time),
	}
}

// Prime seeds the baseline from the user's current conversation list.
// Nothing already on screen should cue when the watcher starts.
func (w *Watcher) Prime(snaps []chat.Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, snap := range snaps {
		if snap.HasLast {
			w.known[snap.RoomID] = snap.LastAt
		}
	}
	w.primed = true
}

// Observe feeds one room update and reports whether it should cue.
func (w *Watcher) Observe(roomID string, senderID uuid.UUID, at time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	seen, ok := w.known[roomID]
	newer := !ok || at.After(seen)
	if newer {
		w.known[roomID] = at
	}
	return w.primed && newer && senderID != w.userID
}

// WatcherManager keeps one watcher per connected user. Watchers are
// reference counted against live websocket connections: the first
// connection primes the watcher, the last one tears it down.
type WatcherManager struct {
	mu       sync.Mutex
	entries  map[uuid.UUID]*watcherEntry
	snapshot func(ctx context.Context, userID uuid.UUID) ([]chat.Snapshot, error)

	publisher events.Publisher
	log       *logger.Logger
}

type watcherEntry struct {
	watcher *Watcher
	refs    int
}

func NewWatcherManager(snapshot func(ctx context.Context, userID uuid.UUID) ([]chat.Snapshot, error), publisher events.Publisher, log *logger.Logger) *WatcherManager {
	return &WatcherManager{
		entries:   make(map[uuid.UUID]*watcherEntry),
		snapshot:  snapshot,
		publisher: publisher,
		log:       log,
	}
}

// Attach registers a live connection for the user, creating and priming
// the watcher on the first one.
func (m *WatcherManager) Attach(ctx context.Context, userID uuid.UUID) {
	m.mu.Lock()
	entry, ok := m.entries[userID]
	if ok {
		entry.refs++
		m.mu.Unlock()
		return
	}
	entry = &watcherEntry{watcher: NewWatcher(userID), refs: 1}
	m.entries[userID] = entry
	m.mu.Unlock()

	snaps, err := m.snapshot(ctx, userID)
	if err != nil {
		m.log.Warnf("notification watcher prime failed for %s: %v", userID, err)
		snaps = nil
	}
	entry.watcher.Prime(snaps)
}

// Detach drops one connection reference, removing the watcher when the
// last connection goes away.
func (m *WatcherManager) Detach(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[userID]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.entries, userID)
	}
}

// Drop removes the user's watcher regardless of reference count. Used
// when every session is revoked.
func (m *WatcherManager) Drop(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, userID)
}

// ConversationTouched routes a conversation update to the watchers of its
// members and publishes a cue for each one that fires.
func (m *WatcherManager) ConversationTouched(ctx context.Context, roomID string, senderID uuid.UUID, at time.Time, members ...uuid.UUID) {
	for _, memberID := range members {
		m.mu.Lock()
		entry, ok := m.entries[memberID]
		m.mu.Unlock()
		if !ok {
			continue
		}
		if !entry.watcher.Observe(roomID, senderID, at) {
			continue
		}

		env := events.NewEnvelope(events.EventNotificationCue, roomID, nil)
		env.UserID = memberID.String()
		if err := m.publisher.Publish(ctx, events.UserChannel(memberID.String()), env.Encode()); err != nil {
			m.log.Warnf("notification cue publish failed for %s: %v", memberID, err)
		}
	}
}
