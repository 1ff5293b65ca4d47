package services

import (
	"context"
	"sync"
	"time"

	"salestrack/internal/domain/chat"
	"salestrack/internal/domain/sale"
	"salestrack/internal/domain/user"
	apperrors "salestrack/pkg/errors"

	"github.com/google/uuid"
)

// In-memory repository doubles backing the service tests. They honor the
// same not-found mapping as the postgres implementations.

type memUserRepo struct {
	mu       sync.Mutex
	users    map[uuid.UUID]user.User
	sessions map[uuid.UUID]user.UserSession
	resets   map[string]user.PasswordReset
	scripts  map[uuid.UUID][]user.Script

	revokedAll []uuid.UUID
	deleted    []uuid.UUID
}

func newMemUserRepo(seed ...user.User) *memUserRepo {
	r := &memUserRepo{
		users:    make(map[uuid.UUID]user.User),
		sessions: make(map[uuid.UUID]user.UserSession),
		resets:   make(map[string]user.PasswordReset),
		scripts:  make(map[uuid.UUID][]user.Script),
	}
	for _, u := range seed {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = *u
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.User{}, apperrors.ErrNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, apperrors.ErrNotFound
}

func (r *memUserRepo) GetAll(_ context.Context) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *memUserRepo) GetAgents(ctx context.Context) ([]user.User, error) {
	all, _ := r.GetAll(ctx)
	out := all[:0]
	for _, u := range all {
		if u.Role == user.RoleAgent {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memUserRepo) GetPending(ctx context.Context) ([]user.User, error) {
	all, _ := r.GetAll(ctx)
	out := all[:0]
	for _, u := range all {
		if u.Status == user.StatusPending {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memUserRepo) Update(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) UpdateSalesGoal(_ context.Context, id uuid.UUID, goal int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.SalesGoal = goal
	r.users[id] = u
	return nil
}

func (r *memUserRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.PasswordHash = hash
	r.users[id] = u
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.users, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *memUserRepo) CreateSession(_ context.Context, s *user.UserSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = *s
	return nil
}

func (r *memUserRepo) GetSessionByID(_ context.Context, sessionID uuid.UUID) (user.UserSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return user.UserSession{}, apperrors.ErrNotFound
	}
	return s, nil
}

func (r *memUserRepo) RevokeSession(_ context.Context, sessionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return apperrors.ErrNotFound
	}
	s.RevokedAt.Time = time.Now()
	s.RevokedAt.Valid = true
	r.sessions[sessionID] = s
	return nil
}

func (r *memUserRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.UserID == userID {
			s.RevokedAt.Time = time.Now()
			s.RevokedAt.Valid = true
			r.sessions[id] = s
		}
	}
	r.revokedAll = append(r.revokedAll, userID)
	return nil
}

func (r *memUserRepo) CreatePasswordReset(_ context.Context, reset *user.PasswordReset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets[reset.TokenHash] = *reset
	return nil
}

func (r *memUserRepo) GetPasswordResetByHash(_ context.Context, tokenHash string) (user.PasswordReset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reset, ok := r.resets[tokenHash]
	if !ok || reset.UsedAt.Valid || time.Now().After(reset.ExpiresAt) {
		return user.PasswordReset{}, apperrors.ErrNotFound
	}
	return reset, nil
}

func (r *memUserRepo) MarkPasswordResetUsed(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, reset := range r.resets {
		if reset.ID == id {
			reset.UsedAt.Time = time.Now()
			reset.UsedAt.Valid = true
			r.resets[hash] = reset
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *memUserRepo) GetUserScripts(_ context.Context, userID uuid.UUID) ([]user.Script, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scripts[userID], nil
}

func (r *memUserRepo) CreateScript(_ context.Context, s *user.Script) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scripts[s.UserID] = append(r.scripts[s.UserID], *s)
	return nil
}

func (r *memUserRepo) DeleteScript(_ context.Context, userID, scriptID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.scripts[userID]
	for i, s := range list {
		if s.ID == scriptID {
			r.scripts[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *memUserRepo) DeleteUserScripts(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.scripts, userID)
	return nil
}

type memSaleRepo struct {
	mu    sync.Mutex
	sales map[uuid.UUID]sale.Sale

	deleted []uuid.UUID
	updated []sale.Sale
}

func newMemSaleRepo(seed ...sale.Sale) *memSaleRepo {
	r := &memSaleRepo{sales: make(map[uuid.UUID]sale.Sale)}
	for _, s := range seed {
		r.sales[s.ID] = s
	}
	return r
}

func (r *memSaleRepo) Create(_ context.Context, s *sale.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales[s.ID] = *s
	return nil
}

func (r *memSaleRepo) GetByID(_ context.Context, id uuid.UUID) (sale.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return sale.Sale{}, apperrors.ErrNotFound
	}
	return s, nil
}

func (r *memSaleRepo) GetForAgentInRange(_ context.Context, agentID uuid.UUID, start, end time.Time) ([]sale.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []sale.Sale
	for _, s := range r.sales {
		if s.AgentID == agentID && !s.SaleDate.Before(start) && !s.SaleDate.After(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSaleRepo) GetAllInRange(_ context.Context, start, end time.Time) ([]sale.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []sale.Sale
	for _, s := range r.sales {
		if !s.SaleDate.Before(start) && !s.SaleDate.After(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSaleRepo) GetAll(_ context.Context) ([]sale.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sale.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, s)
	}
	return out, nil
}

func (r *memSaleRepo) Update(_ context.Context, s sale.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sales[s.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.sales[s.ID] = s
	r.updated = append(r.updated, s)
	return nil
}

func (r *memSaleRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sales[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.sales, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *memSaleRepo) DeleteForAgent(_ context.Context, agentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sales {
		if s.AgentID == agentID {
			delete(r.sales, id)
		}
	}
	return nil
}

type memChatRepo struct {
	mu       sync.Mutex
	rooms    map[string]chat.Conversation
	reads    map[string]chat.ConversationRead
	messages []chat.Message

	cleared []string
}

func newMemChatRepo() *memChatRepo {
	return &memChatRepo{
		rooms: make(map[string]chat.Conversation),
		reads: make(map[string]chat.ConversationRead),
	}
}

func readKey(roomID string, userID uuid.UUID) string {
	return roomID + "|" + userID.String()
}

func (r *memChatRepo) EnsureRoom(_ context.Context, c *chat.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[c.ID]; ok {
		return nil
	}
	r.rooms[c.ID] = *c
	return nil
}

func (r *memChatRepo) GetRoom(_ context.Context, roomID string) (chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rooms[roomID]
	if !ok {
		return chat.Conversation{}, apperrors.ErrNotFound
	}
	return c, nil
}

func (r *memChatRepo) GetUserConversations(_ context.Context, userID uuid.UUID) ([]chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.Conversation
	for _, c := range r.rooms {
		if c.HasMember(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memChatRepo) GetRead(_ context.Context, roomID string, userID uuid.UUID) (chat.ConversationRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	read, ok := r.reads[readKey(roomID, userID)]
	if !ok {
		return chat.ConversationRead{}, apperrors.ErrNotFound
	}
	return read, nil
}

func (r *memChatRepo) GetReadsForUser(_ context.Context, userID uuid.UUID) ([]chat.ConversationRead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.ConversationRead
	for _, read := range r.reads {
		if read.UserID == userID {
			out = append(out, read)
		}
	}
	return out, nil
}

func (r *memChatRepo) CreateMessage(_ context.Context, m *chat.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, *m)
	return nil
}

func (r *memChatRepo) GetRecentMessages(_ context.Context, roomID string, limit int) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.Message
	for _, m := range r.messages {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *memChatRepo) UpdateRoomLastMessage(_ context.Context, roomID, text string, senderID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rooms[roomID]
	if !ok {
		return apperrors.ErrNotFound
	}
	c.LastMessageText.String = text
	c.LastMessageText.Valid = true
	c.LastMessageAt.Time = at
	c.LastMessageAt.Valid = true
	c.LastMessageSenderID.UUID = senderID
	c.LastMessageSenderID.Valid = true
	r.rooms[roomID] = c
	return nil
}

func (r *memChatRepo) SetLastRead(_ context.Context, roomID string, userID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads[readKey(roomID, userID)] = chat.ConversationRead{
		ConversationID: roomID,
		UserID:         userID,
		LastReadAt:     at,
	}
	return nil
}

func (r *memChatRepo) SetLastReadNow(ctx context.Context, roomID string, userID uuid.UUID) error {
	return r.SetLastRead(ctx, roomID, userID, time.Now())
}

func (r *memChatRepo) ClearRoom(_ context.Context, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.messages[:0]
	for _, m := range r.messages {
		if m.RoomID != roomID {
			kept = append(kept, m)
		}
	}
	r.messages = kept
	r.cleared = append(r.cleared, roomID)
	return nil
}

func (r *memChatRepo) DeleteReadsForUser(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, read := range r.reads {
		if read.UserID == userID {
			delete(r.reads, key)
		}
	}
	return nil
}

// memPublisher records published envelopes for assertions.
type memPublisher struct {
	mu       sync.Mutex
	channels []string
	payloads [][]byte
}

func (p *memPublisher) Publish(_ context.Context, channel string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channels = append(p.channels, channel)
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *memPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.channels))
	copy(out, p.channels)
	return out
}
