package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/quizdeck/internal/database"
	"github.com/example/quizdeck/pkg/models"
)

// MinPasswordLength is the weak-password threshold
const MinPasswordLength = 6

// Service implements email/password authentication with the fixed failure
// taxonomy from errors.go.
type Service struct {
	store       *database.Store
	secret      string
	tokenTTL    time.Duration
	adminEmails map[string]bool
	disabled    bool // when true every sign-in fails with ErrNotAllowed
}

// NewService builds an auth service. Users signing up with an e-mail from
// adminEmails receive the admin role; everyone else is a student.
func NewService(store *database.Store, secret string, tokenTTL time.Duration, adminEmails []string) *Service {
	admins := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		admins[strings.ToLower(email)] = true
	}
	return &Service{
		store:       store,
		secret:      secret,
		tokenTTL:    tokenTTL,
		adminEmails: admins,
	}
}

// SetDisabled toggles the operation-not-allowed state for sign-in/sign-up
func (s *Service) SetDisabled(disabled bool) {
	s.disabled = disabled
}

// SignUp registers a new account and returns the user with a signed token
func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (*models.User, string, error) {
	if s.disabled {
		return nil, "", ErrNotAllowed
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, "", ErrWeakPassword
	}

	exists, err := s.store.Users.EmailExists(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing account: %v", err)
	}
	if exists {
		return nil, "", ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %v", err)
	}

	role := models.RoleStudent
	if s.adminEmails[email] {
		role = models.RoleAdmin
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(displayName),
		Role:         role,
		ReminderHour: 9,
		RemindersOn:  true,
	}
	if err := s.store.Users.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create account: %v", err)
	}

	token, err := s.issueToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SignIn authenticates an existing account and returns a signed token
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.User, string, error) {
	if s.disabled {
		return nil, "", ErrNotAllowed
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", ErrInvalidEmail
	}

	user, err := s.store.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", fmt.Errorf("failed to look up account: %v", err)
	}
	if user.Disabled {
		return nil, "", ErrUserDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrWrongPassword
	}

	token, err := s.issueToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// UpdateProfile changes the signed-in user's display name
func (s *Service) UpdateProfile(ctx context.Context, userID, displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return fmt.Errorf("display name is required")
	}
	return s.store.Users.UpdateProfile(ctx, userID, displayName)
}
