package services

import (
	"context"
	"errors"
	"strings"

	"salestrack/internal/domain/user"
	"salestrack/internal/repository"
	apperrors "salestrack/pkg/errors"
	"salestrack/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminService holds the privileged operations. Every entry point verifies
// the caller's admin role against the store before touching anything.
type AdminService struct {
	db       *gorm.DB
	auth     *AuthService
	userRepo repository.UserRepository
	watchers *WatcherManager
	log      *logger.Logger
}

func NewAdminService(db *gorm.DB, auth *AuthService, userRepo repository.UserRepository, watchers *WatcherManager, log *logger.Logger) *AdminService {
	return &AdminService{db: db, auth: auth, userRepo: userRepo, watchers: watchers, log: log}
}

// ApproveUser activates a pending sign-up.
func (s *AdminService) ApproveUser(ctx context.Context, callerID, targetID uuid.UUID) error {
	if _, err := s.auth.RequireAdmin(ctx, callerID); err != nil {
		return err
	}
	if targetID == uuid.Nil {
		return apperrors.ErrInvalidInput
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	target.Status = user.StatusActive
	return s.userRepo.Update(ctx, target)
}

// RejectUser marks a pending sign-up inactive so it can no longer log in.
func (s *AdminService) RejectUser(ctx context.Context, callerID, targetID uuid.UUID) error {
	if _, err := s.auth.RequireAdmin(ctx, callerID); err != nil {
		return err
	}
	if targetID == uuid.Nil {
		return apperrors.ErrInvalidInput
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	target.Status = user.StatusInactive
	if err := s.userRepo.Update(ctx, target); err != nil {
		return err
	}
	return s.auth.LogoutAll(ctx, targetID)
}

// SendPasswordReset issues a reset token for any account, on behalf of an
// admin. The token goes back to the caller so the mail layer can deliver
// it; a missing account is reported, unlike the self-service flow.
func (s *AdminService) SendPasswordReset(ctx context.Context, callerID uuid.UUID, targetEmail string) (string, error) {
	if _, err := s.auth.RequireAdmin(ctx, callerID); err != nil {
		return "", err
	}
	targetEmail = strings.ToLower(strings.TrimSpace(targetEmail))
	if targetEmail == "" {
		return "", apperrors.ErrInvalidInput
	}

	if _, err := s.userRepo.GetByEmail(ctx, targetEmail); err != nil {
		return "", err
	}

	token, err := s.auth.PasswordForgot(ctx, targetEmail)
	if err != nil {
		return "", err
	}
	s.log.Infof("admin %s issued a password reset for %s", callerID, targetEmail)
	return token, nil
}

// DeleteUserAndData removes an account and everything it owns. The sales,
// scripts, read markers and profile go in one transaction; sessions are
// revoked afterwards so a mid-flight request cannot recreate state. A
// failure after the commit is logged and surfaced as internal, the data
// deletion itself has already held.
func (s *AdminService) DeleteUserAndData(ctx context.Context, callerID, targetID uuid.UUID) error {
	if _, err := s.auth.RequireAdmin(ctx, callerID); err != nil {
		return err
	}
	if targetID == uuid.Nil {
		return apperrors.ErrInvalidInput
	}
	if callerID == targetID {
		return apperrors.ErrInvalidInput
	}

	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewSaleRepository(tx).DeleteForAgent(ctx, targetID); err != nil {
			return err
		}
		txUsers := repository.NewUserRepository(tx)
		if err := txUsers.DeleteUserScripts(ctx, targetID); err != nil {
			return err
		}
		if err := repository.NewChatRepository(tx).DeleteReadsForUser(ctx, targetID); err != nil {
			return err
		}
		return txUsers.Delete(ctx, targetID)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return err
	}

	if err := s.auth.LogoutAll(ctx, targetID); err != nil {
		s.log.Errorf("user %s deleted but session revocation failed: %v", targetID, err)
		return apperrors.ErrInternal
	}
	if s.watchers != nil {
		s.watchers.Drop(targetID)
	}

	s.log.Infof("admin %s deleted user %s and all owned data", callerID, targetID)
	return nil
}
