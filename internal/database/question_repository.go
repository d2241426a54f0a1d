package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/quizdeck/pkg/models"
)

// QuestionRepository handles database operations for questions
type QuestionRepository struct {
	store *Store
}

// GetByChapter returns the chapter's full question set
func (r *QuestionRepository) GetByChapter(ctx context.Context, chapterID string) ([]models.Question, error) {
	var questions []models.Question
	query := r.store.rebind("SELECT * FROM questions WHERE chapter_id = ? ORDER BY created_at")
	if err := r.store.db.SelectContext(ctx, &questions, query, chapterID); err != nil {
		return nil, fmt.Errorf("failed to get questions: %v", err)
	}
	return questions, nil
}

// GetByID returns a question by ID
func (r *QuestionRepository) GetByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	query := r.store.rebind("SELECT * FROM questions WHERE id = ?")
	if err := r.store.db.GetContext(ctx, &question, query, id); err != nil {
		return nil, err
	}
	return &question, nil
}

// GetByPrompt returns a question by chapter and prompt text. Used by the
// importer to update rows in place instead of duplicating them.
func (r *QuestionRepository) GetByPrompt(ctx context.Context, chapterID, prompt string) (*models.Question, error) {
	var question models.Question
	query := r.store.rebind("SELECT * FROM questions WHERE chapter_id = ? AND prompt = ?")
	if err := r.store.db.GetContext(ctx, &question, query, chapterID, prompt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &question, nil
}

// Create inserts a new question
func (r *QuestionRepository) Create(ctx context.Context, q *models.Question) error {
	query := r.store.rebind(`
		INSERT INTO questions (id, chapter_id, topic_id, prompt, option_a, option_b, option_c, option_d, correct, explanation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.store.db.ExecContext(ctx, query,
		q.ID, q.ChapterID, q.TopicID, q.Prompt,
		q.OptionA, q.OptionB, q.OptionC, q.OptionD,
		q.Correct, q.Explanation,
	)
	if err != nil {
		return fmt.Errorf("failed to create question: %v", err)
	}
	return nil
}

// Update modifies an existing question
func (r *QuestionRepository) Update(ctx context.Context, q *models.Question) error {
	query := r.store.rebind(`
		UPDATE questions SET
			topic_id = ?,
			prompt = ?,
			option_a = ?,
			option_b = ?,
			option_c = ?,
			option_d = ?,
			correct = ?,
			explanation = ?,
			updated_at = ?
		WHERE id = ?
	`)
	_, err := r.store.db.ExecContext(ctx, query,
		q.TopicID, q.Prompt,
		q.OptionA, q.OptionB, q.OptionC, q.OptionD,
		q.Correct, q.Explanation, time.Now().UTC(), q.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update question: %v", err)
	}
	return nil
}

// Delete removes a question together with its bookmarks and progress records
func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	statements := []string{
		"DELETE FROM progress WHERE question_id = ?",
		"DELETE FROM bookmarks WHERE question_id = ?",
		"DELETE FROM questions WHERE id = ?",
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, r.store.rebind(stmt), id); err != nil {
			return fmt.Errorf("failed to delete question: %v", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit question delete: %v", err)
	}
	return nil
}
