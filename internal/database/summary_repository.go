package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/quizdeck/pkg/models"
)

// SummaryRepository handles database operations for completed-session records
type SummaryRepository struct {
	store *Store
}

// Create inserts a session summary
func (r *SummaryRepository) Create(ctx context.Context, s *models.SessionSummary) error {
	if s.TakenAt.IsZero() {
		s.TakenAt = time.Now().UTC()
	}
	query := r.store.rebind(`
		INSERT INTO session_summaries (user_id, chapter_id, mode, total, correct, incorrect, percentage, duration, taken_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.store.db.ExecContext(ctx, query,
		s.UserID, s.ChapterID, s.Mode, s.Total, s.Correct, s.Incorrect,
		s.Percentage, s.Duration, s.TakenAt)
	if err != nil {
		return fmt.Errorf("failed to create session summary: %v", err)
	}
	return nil
}

// GetByUser returns a user's session history, newest first
func (r *SummaryRepository) GetByUser(ctx context.Context, userID string) ([]models.SessionSummary, error) {
	var summaries []models.SessionSummary
	query := r.store.rebind("SELECT * FROM session_summaries WHERE user_id = ? ORDER BY taken_at DESC")
	if err := r.store.db.SelectContext(ctx, &summaries, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get session summaries: %v", err)
	}
	return summaries, nil
}
