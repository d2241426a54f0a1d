package database

import (
	"context"
	"fmt"

	"github.com/example/quizdeck/pkg/models"
)

// BookmarkRepository handles database operations for bookmarks
type BookmarkRepository struct {
	store *Store
}

// GetByUserAndChapter returns a user's bookmarks within one chapter
func (r *BookmarkRepository) GetByUserAndChapter(ctx context.Context, userID, chapterID string) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	query := r.store.rebind("SELECT * FROM bookmarks WHERE user_id = ? AND chapter_id = ?")
	if err := r.store.db.SelectContext(ctx, &bookmarks, query, userID, chapterID); err != nil {
		return nil, fmt.Errorf("failed to get bookmarks: %v", err)
	}
	return bookmarks, nil
}

// GetByUser returns all of a user's bookmarks, newest first
func (r *BookmarkRepository) GetByUser(ctx context.Context, userID string) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	query := r.store.rebind("SELECT * FROM bookmarks WHERE user_id = ? ORDER BY created_at DESC")
	if err := r.store.db.SelectContext(ctx, &bookmarks, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get bookmarks: %v", err)
	}
	return bookmarks, nil
}

// Create inserts a bookmark. The (user, question) key is content-addressed by
// a UNIQUE constraint, so repeated creates for the same question cannot
// produce duplicate rows; the conflicting insert is ignored.
func (r *BookmarkRepository) Create(ctx context.Context, b *models.Bookmark) error {
	query := r.store.rebind(`
		INSERT INTO bookmarks (user_id, question_id, chapter_id, subject_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, question_id) DO NOTHING
	`)
	_, err := r.store.db.ExecContext(ctx, query, b.UserID, b.QuestionID, b.ChapterID, b.SubjectID)
	if err != nil {
		return fmt.Errorf("failed to create bookmark: %v", err)
	}
	return nil
}

// Delete removes a bookmark by its (user, question) key
func (r *BookmarkRepository) Delete(ctx context.Context, userID, questionID string) error {
	query := r.store.rebind("DELETE FROM bookmarks WHERE user_id = ? AND question_id = ?")
	if _, err := r.store.db.ExecContext(ctx, query, userID, questionID); err != nil {
		return fmt.Errorf("failed to delete bookmark: %v", err)
	}
	return nil
}

// CountByUser returns how many questions a user has bookmarked
func (r *BookmarkRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	query := r.store.rebind("SELECT COUNT(*) FROM bookmarks WHERE user_id = ?")
	if err := r.store.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count bookmarks: %v", err)
	}
	return count, nil
}
