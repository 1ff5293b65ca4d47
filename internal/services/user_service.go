package services

import (
	"context"
	"strings"
	"time"

	"salestrack/internal/domain/user"
	"salestrack/internal/repository"
	apperrors "salestrack/pkg/errors"

	"github.com/google/uuid"
)

// UserService covers the agent-facing profile extras, currently the
// personal call scripts shown next to the sales form.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Colleagues is the chat contact list: every non-inactive user except the
// caller.
func (s *UserService) Colleagues(ctx context.Context, callerID uuid.UUID) ([]user.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]user.User, 0, len(users))
	for _, u := range users {
		if u.ID == callerID || u.Status == user.StatusInactive {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (s *UserService) Scripts(ctx context.Context, userID uuid.UUID) ([]user.Script, error) {
	return s.userRepo.GetUserScripts(ctx, userID)
}

func (s *UserService) AddScript(ctx context.Context, userID uuid.UUID, title, body string) (user.Script, error) {
	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(body) == "" {
		return user.Script{}, apperrors.ErrInvalidInput
	}

	now := time.Now()
	script := user.Script{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.userRepo.CreateScript(ctx, &script); err != nil {
		return user.Script{}, err
	}
	return script, nil
}

// RemoveScript deletes only the caller's own script; the user scope is part
// of the delete predicate.
func (s *UserService) RemoveScript(ctx context.Context, userID, scriptID uuid.UUID) error {
	if scriptID == uuid.Nil {
		return apperrors.ErrInvalidInput
	}
	return s.userRepo.DeleteScript(ctx, userID, scriptID)
}
