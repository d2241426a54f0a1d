package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/quizdeck/internal/database"
)

// Notifier interface for sending revision reminders
type Notifier interface {
	SendReminder(chatID int64, bookmarked int) error
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	store     *database.Store
	notifier  Notifier
	startHour int
	endHour   int
}

// New creates a new scheduler instance. Reminders are only sent between
// startHour and endHour (inclusive).
func New(store *database.Store, notifier Notifier, startHour, endHour int) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		store:     store,
		notifier:  notifier,
		startHour: startHour,
		endHour:   endHour,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Schedule hourly check for users who want a revision reminder
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminders finds users whose reminder hour is now and nudges
// anyone with bookmarked questions waiting for revision
func (s *Scheduler) checkAndSendReminders() {
	currentHour := time.Now().UTC().Hour()

	if currentHour < s.startHour || currentHour > s.endHour {
		log.Printf("Current hour %d is outside reminder hours (%d-%d), skipping reminders",
			currentHour, s.startHour, s.endHour)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	users, err := s.store.Users.GetUsersForReminder(ctx, currentHour)
	if err != nil {
		log.Printf("Error getting users for reminder: %v", err)
		return
	}

	for _, user := range users {
		if user.TelegramChatID == 0 {
			continue
		}

		bookmarked, err := s.store.Bookmarks.CountByUser(ctx, user.ID)
		if err != nil {
			log.Printf("Error counting bookmarks for user %s: %v", user.ID, err)
			continue
		}

		// Nothing saved for revision, nothing to remind about
		if bookmarked == 0 {
			continue
		}

		if err := s.notifier.SendReminder(user.TelegramChatID, bookmarked); err != nil {
			log.Printf("Error sending reminder to user %s: %v", user.ID, err)
		}
	}
}

// RunManualCheck forces a reminder check for a specific user
func (s *Scheduler) RunManualCheck(ctx context.Context, userID string) error {
	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.TelegramChatID == 0 {
		return nil
	}

	bookmarked, err := s.store.Bookmarks.CountByUser(ctx, userID)
	if err != nil {
		return err
	}
	if bookmarked == 0 {
		return nil
	}
	return s.notifier.SendReminder(user.TelegramChatID, bookmarked)
}
