package services

import (
	"context"
	"testing"

	"salestrack/internal/domain/user"
	apperrors "salestrack/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColleagues(t *testing.T) {
	ctx := context.Background()
	me := user.User{ID: uuid.New(), Name: "Me", Role: user.RoleAgent, Status: user.StatusActive}
	active := user.User{ID: uuid.New(), Name: "Active", Role: user.RoleAgent, Status: user.StatusActive}
	pending := user.User{ID: uuid.New(), Name: "Pending", Role: user.RoleAgent, Status: user.StatusPending}
	inactive := user.User{ID: uuid.New(), Name: "Gone", Role: user.RoleAgent, Status: user.StatusInactive}

	svc := NewUserService(newMemUserRepo(me, active, pending, inactive))

	out, err := svc.Colleagues(ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, out, 2)

	names := map[string]bool{}
	for _, u := range out {
		names[u.Name] = true
	}
	assert.True(t, names["Active"])
	assert.True(t, names["Pending"], "pending accounts are still contactable")
	assert.False(t, names["Me"], "caller excluded")
	assert.False(t, names["Gone"], "inactive accounts excluded")
}

func TestScripts(t *testing.T) {
	ctx := context.Background()
	me := uuid.New()
	svc := NewUserService(newMemUserRepo())

	t.Run("add and list", func(t *testing.T) {
		script, err := svc.AddScript(ctx, me, "  Opening pitch  ", "Hello, this is...")
		require.NoError(t, err)
		assert.Equal(t, "Opening pitch", script.Title, "title is trimmed")
		assert.Equal(t, me, script.UserID)

		list, err := svc.Scripts(ctx, me)
		require.NoError(t, err)
		require.Len(t, list, 1)
	})

	t.Run("blank title or body rejected", func(t *testing.T) {
		_, err := svc.AddScript(ctx, me, " ", "body")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		_, err = svc.AddScript(ctx, me, "title", "  ")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("remove is scoped to the owner", func(t *testing.T) {
		script, err := svc.AddScript(ctx, me, "Closing", "Thanks for your time")
		require.NoError(t, err)

		err = svc.RemoveScript(ctx, uuid.New(), script.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound, "someone else's delete misses")

		require.NoError(t, svc.RemoveScript(ctx, me, script.ID))
	})
}
