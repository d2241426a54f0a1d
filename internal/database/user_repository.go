package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/quizdeck/pkg/models"
)

// UserRepository handles database operations for users
type UserRepository struct {
	store *Store
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := r.store.rebind(`
		INSERT INTO users (id, email, password_hash, display_name, role, disabled,
			telegram_chat_id, reminder_hour, reminders_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.store.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		user.Role,
		user.Disabled,
		user.TelegramChatID,
		user.ReminderHour,
		user.RemindersOn,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %v", err)
	}
	return nil
}

// GetByEmail returns a user by e-mail address. Returns sql.ErrNoRows when no
// such user exists so callers can distinguish not-found from other failures.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := r.store.rebind("SELECT * FROM users WHERE email = ?")
	if err := r.store.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID returns a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	query := r.store.rebind("SELECT * FROM users WHERE id = ?")
	if err := r.store.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailExists reports whether a user with the given e-mail already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	query := r.store.rebind("SELECT COUNT(*) FROM users WHERE email = ?")
	if err := r.store.db.GetContext(ctx, &count, query, email); err != nil {
		return false, fmt.Errorf("failed to check email: %v", err)
	}
	return count > 0, nil
}

// UpdateProfile changes a user's display name
func (r *UserRepository) UpdateProfile(ctx context.Context, userID, displayName string) error {
	query := r.store.rebind("UPDATE users SET display_name = ?, updated_at = ? WHERE id = ?")
	_, err := r.store.db.ExecContext(ctx, query, displayName, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %v", err)
	}
	return nil
}

// UpdateReminderSettings changes a user's revision reminder preferences
func (r *UserRepository) UpdateReminderSettings(ctx context.Context, userID string, hour int, enabled bool, chatID int64) error {
	query := r.store.rebind(`
		UPDATE users SET reminder_hour = ?, reminders_on = ?, telegram_chat_id = ?, updated_at = ?
		WHERE id = ?
	`)
	_, err := r.store.db.ExecContext(ctx, query, hour, enabled, chatID, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update reminder settings: %v", err)
	}
	return nil
}

// GetUsersForReminder returns users who want a revision reminder at the given hour
func (r *UserRepository) GetUsersForReminder(ctx context.Context, hour int) ([]models.User, error) {
	var users []models.User
	query := r.store.rebind(`
		SELECT * FROM users
		WHERE reminders_on = true AND reminder_hour = ? AND telegram_chat_id != 0 AND disabled = false
	`)
	if err := r.store.db.SelectContext(ctx, &users, query, hour); err != nil {
		return nil, fmt.Errorf("failed to get users for reminder: %v", err)
	}
	return users, nil
}

// GetAll returns all users
func (r *UserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.store.db.SelectContext(ctx, &users, "SELECT * FROM users ORDER BY created_at"); err != nil {
		return nil, fmt.Errorf("failed to get users: %v", err)
	}
	return users, nil
}
