package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	RoleAgent = "agent"
	RoleAdmin = "admin"

	StatusActive   = "active"
	StatusPending  = "pending"
	StatusInactive = "inactive"

	DefaultSalesGoal = 26
)

// User represents the users table. The row doubles as the auth identity:
// deleting it revokes the account.
type User struct {
	ID           uuid.UUID
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	Name         string
	TeamCode     string
	Role         string
	SalesGoal    int
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserSession represents the user_sessions table
type UserSession struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	RefreshTokenHash string
	ExpiresAt        time.Time
	RevokedAt        sql.NullTime
	CreatedAt        time.Time
}

func (s UserSession) IsRevoked() bool {
	return s.RevokedAt.Valid
}

// PasswordReset represents the password_resets table
type PasswordReset struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	UsedAt    sql.NullTime
	CreatedAt time.Time
}

// Script represents the scripts table: per-agent call scripts, removed
// together with the owning account.
type Script struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}

func (UserSession) TableName() string {
	return "user_sessions"
}

func (PasswordReset) TableName() string {
	return "password_resets"
}

func (Script) TableName() string {
	return "scripts"
}
