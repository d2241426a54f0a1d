package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/quizdeck/pkg/models"
)

// ChapterRepository handles database operations for chapters
type ChapterRepository struct {
	store *Store
}

// GetBySubject returns a subject's chapters with question and formula counts.
// Counts are computed at read time; they are never stored on the chapter row.
func (r *ChapterRepository) GetBySubject(ctx context.Context, subjectID string) ([]models.Chapter, error) {
	var chapters []models.Chapter
	query := r.store.rebind("SELECT * FROM chapters WHERE subject_id = ? ORDER BY position, title")
	if err := r.store.db.SelectContext(ctx, &chapters, query, subjectID); err != nil {
		return nil, fmt.Errorf("failed to get chapters: %v", err)
	}

	for i := range chapters {
		if err := r.fillCounts(ctx, &chapters[i]); err != nil {
			return nil, err
		}
	}
	return chapters, nil
}

// GetByID returns a chapter by ID with computed counts
func (r *ChapterRepository) GetByID(ctx context.Context, id string) (*models.Chapter, error) {
	var chapter models.Chapter
	query := r.store.rebind("SELECT * FROM chapters WHERE id = ?")
	if err := r.store.db.GetContext(ctx, &chapter, query, id); err != nil {
		return nil, err
	}
	if err := r.fillCounts(ctx, &chapter); err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (r *ChapterRepository) fillCounts(ctx context.Context, chapter *models.Chapter) error {
	qCount := r.store.rebind("SELECT COUNT(*) FROM questions WHERE chapter_id = ?")
	if err := r.store.db.GetContext(ctx, &chapter.QuestionCount, qCount, chapter.ID); err != nil {
		return fmt.Errorf("failed to count questions: %v", err)
	}
	fCount := r.store.rebind("SELECT COUNT(*) FROM formulas WHERE chapter_id = ?")
	if err := r.store.db.GetContext(ctx, &chapter.FormulaCount, fCount, chapter.ID); err != nil {
		return fmt.Errorf("failed to count formulas: %v", err)
	}
	return nil
}

// Create inserts a new chapter
func (r *ChapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	query := r.store.rebind("INSERT INTO chapters (id, subject_id, title, position) VALUES (?, ?, ?, ?)")
	_, err := r.store.db.ExecContext(ctx, query, chapter.ID, chapter.SubjectID, chapter.Title, chapter.Position)
	if err != nil {
		return fmt.Errorf("failed to create chapter: %v", err)
	}
	return nil
}

// Update modifies an existing chapter
func (r *ChapterRepository) Update(ctx context.Context, chapter *models.Chapter) error {
	query := r.store.rebind("UPDATE chapters SET title = ?, position = ?, updated_at = ? WHERE id = ?")
	_, err := r.store.db.ExecContext(ctx, query, chapter.Title, chapter.Position, time.Now().UTC(), chapter.ID)
	if err != nil {
		return fmt.Errorf("failed to update chapter: %v", err)
	}
	return nil
}

// DeleteCascade removes a chapter and every topic, question, formula, bookmark
// and progress record referencing it, in one transaction. Any failure rolls
// the whole batch back, leaving the prior state intact.
func (r *ChapterRepository) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	statements := []string{
		"DELETE FROM progress WHERE chapter_id = ?",
		"DELETE FROM bookmarks WHERE chapter_id = ?",
		"DELETE FROM formulas WHERE chapter_id = ?",
		"DELETE FROM questions WHERE chapter_id = ?",
		"DELETE FROM topics WHERE chapter_id = ?",
		"DELETE FROM chapters WHERE id = ?",
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, r.store.rebind(stmt), id); err != nil {
			return fmt.Errorf("failed to cascade delete chapter: %v", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cascade delete: %v", err)
	}
	return nil
}
