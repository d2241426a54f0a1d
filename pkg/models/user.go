package models

import "time"

// User roles. Admin access is decided by the role column, which is assigned
// from the configured admin e-mail list at sign-up.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User is an account in the system
type User struct {
	ID             string    `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	DisplayName    string    `json:"display_name" db:"display_name"`
	Role           string    `json:"role" db:"role"`
	Disabled       bool      `json:"disabled" db:"disabled"`
	TelegramChatID int64     `json:"telegram_chat_id" db:"telegram_chat_id"` // 0 when not linked
	ReminderHour   int       `json:"reminder_hour" db:"reminder_hour"`       // Hour of day for revision reminders (0-23)
	RemindersOn    bool      `json:"reminders_on" db:"reminders_on"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
