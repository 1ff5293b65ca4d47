package database

import (
	"fmt"

	"salestrack/internal/domain/chat"
	"salestrack/internal/domain/sale"
	"salestrack/internal/domain/user"
)

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate() error {
	if DB == nil {
		return fmt.Errorf("database not connected")
	}
	return DB.AutoMigrate(
		&user.User{},
		&user.UserSession{},
		&user.PasswordReset{},
		&user.Script{},
		&sale.Sale{},
		&chat.Conversation{},
		&chat.ConversationRead{},
		&chat.Message{},
	)
}

// CoreTables lists the tables the status command inspects.
func CoreTables() []string {
	return []string{
		"users", "user_sessions", "password_resets", "sales",
		"conversations", "conversation_reads", "messages", "scripts",
	}
}

// TruncateAllTables wipes every owned table. Intended for test setups.
func TruncateAllTables() error {
	if DB == nil {
		return fmt.Errorf("database not connected")
	}
	for _, table := range CoreTables() {
		if err := DB.Exec("TRUNCATE TABLE " + table + " CASCADE").Error; err != nil {
			return err
		}
	}
	return nil
}
