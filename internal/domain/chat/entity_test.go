package chat

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRoomID(t *testing.T) {
	a := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	b := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	assert.Equal(t, a.String()+"_"+b.String(), RoomID(a, b))
	assert.Equal(t, RoomID(a, b), RoomID(b, a), "both call orders yield the same room")
}

func TestConversationMembership(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	conv := Conversation{ID: RoomID(a, b), MemberA: a, MemberB: b}

	assert.True(t, conv.HasMember(a))
	assert.True(t, conv.HasMember(b))
	assert.False(t, conv.HasMember(uuid.New()))

	assert.Equal(t, b, conv.Other(a))
	assert.Equal(t, a, conv.Other(b))
}
