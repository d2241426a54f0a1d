package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/quizdeck/pkg/models"
)

// SubjectRepository handles database operations for subjects
type SubjectRepository struct {
	store *Store
}

// GetAll returns every subject ordered by position
func (r *SubjectRepository) GetAll(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	err := r.store.db.SelectContext(ctx, &subjects, "SELECT * FROM subjects ORDER BY position, title")
	if err != nil {
		return nil, fmt.Errorf("failed to get subjects: %v", err)
	}
	return subjects, nil
}

// GetByID returns a subject by ID
func (r *SubjectRepository) GetByID(ctx context.Context, id string) (*models.Subject, error) {
	var subject models.Subject
	query := r.store.rebind("SELECT * FROM subjects WHERE id = ?")
	if err := r.store.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// Create inserts a new subject
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	query := r.store.rebind("INSERT INTO subjects (id, title, position) VALUES (?, ?, ?)")
	_, err := r.store.db.ExecContext(ctx, query, subject.ID, subject.Title, subject.Position)
	if err != nil {
		return fmt.Errorf("failed to create subject: %v", err)
	}
	return nil
}

// Update modifies an existing subject
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	query := r.store.rebind("UPDATE subjects SET title = ?, position = ?, updated_at = ? WHERE id = ?")
	_, err := r.store.db.ExecContext(ctx, query, subject.Title, subject.Position, time.Now().UTC(), subject.ID)
	if err != nil {
		return fmt.Errorf("failed to update subject: %v", err)
	}
	return nil
}

// Delete removes a subject. Chapters must be cascade-deleted first.
func (r *SubjectRepository) Delete(ctx context.Context, id string) error {
	var chapters int
	countQuery := r.store.rebind("SELECT COUNT(*) FROM chapters WHERE subject_id = ?")
	if err := r.store.db.GetContext(ctx, &chapters, countQuery, id); err != nil {
		return fmt.Errorf("failed to count chapters: %v", err)
	}
	if chapters > 0 {
		return fmt.Errorf("subject %s still has %d chapters", id, chapters)
	}

	query := r.store.rebind("DELETE FROM subjects WHERE id = ?")
	if _, err := r.store.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete subject: %v", err)
	}
	return nil
}
