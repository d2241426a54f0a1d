package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/quizdeck/pkg/models"
)

// ProgressRepository handles database operations for per-question progress
type ProgressRepository struct {
	store *Store
}

// Upsert writes a progress record with merge semantics: the latest answer
// replaces the previous one, and attempt_count accumulates across writes.
func (r *ProgressRepository) Upsert(ctx context.Context, p *models.ProgressRecord) error {
	if p.AnsweredAt.IsZero() {
		p.AnsweredAt = time.Now().UTC()
	}
	query := r.store.rebind(`
		INSERT INTO progress (user_id, question_id, chapter_id, selected, was_correct, attempt_count, answered_at)
		VALUES (?, ?, ?, ?, ?, 1, ?)
		ON CONFLICT (user_id, question_id) DO UPDATE SET
			selected = EXCLUDED.selected,
			was_correct = EXCLUDED.was_correct,
			attempt_count = progress.attempt_count + 1,
			answered_at = EXCLUDED.answered_at
	`)
	_, err := r.store.db.ExecContext(ctx, query,
		p.UserID, p.QuestionID, p.ChapterID, p.Selected, p.WasCorrect, p.AnsweredAt)
	if err != nil {
		return fmt.Errorf("failed to upsert progress: %v", err)
	}
	return nil
}

// GetByUserAndQuestion returns the progress record for one question
func (r *ProgressRepository) GetByUserAndQuestion(ctx context.Context, userID, questionID string) (*models.ProgressRecord, error) {
	var p models.ProgressRecord
	query := r.store.rebind("SELECT * FROM progress WHERE user_id = ? AND question_id = ?")
	if err := r.store.db.GetContext(ctx, &p, query, userID, questionID); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByUserAndChapter returns a user's progress records within a chapter
func (r *ProgressRepository) GetByUserAndChapter(ctx context.Context, userID, chapterID string) ([]models.ProgressRecord, error) {
	var records []models.ProgressRecord
	query := r.store.rebind("SELECT * FROM progress WHERE user_id = ? AND chapter_id = ?")
	if err := r.store.db.SelectContext(ctx, &records, query, userID, chapterID); err != nil {
		return nil, fmt.Errorf("failed to get progress: %v", err)
	}
	return records, nil
}

// GetUserStatistics returns aggregate practice statistics for a user
func (r *ProgressRepository) GetUserStatistics(ctx context.Context, userID string) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var attempted int
	query := r.store.rebind("SELECT COUNT(*) FROM progress WHERE user_id = ?")
	if err := r.store.db.GetContext(ctx, &attempted, query, userID); err != nil {
		return nil, err
	}
	stats["attempted"] = attempted

	var correct int
	query = r.store.rebind("SELECT COUNT(*) FROM progress WHERE user_id = ? AND was_correct = true")
	if err := r.store.db.GetContext(ctx, &correct, query, userID); err != nil {
		return nil, err
	}
	stats["correct"] = correct

	var attempts int
	query = r.store.rebind("SELECT COALESCE(SUM(attempt_count), 0) FROM progress WHERE user_id = ?")
	if err := r.store.db.GetContext(ctx, &attempts, query, userID); err != nil {
		return nil, err
	}
	stats["total_attempts"] = attempts

	return stats, nil
}
