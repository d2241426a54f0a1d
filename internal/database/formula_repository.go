package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/quizdeck/pkg/models"
)

// FormulaRepository handles database operations for formula sheets
type FormulaRepository struct {
	store *Store
}

// GetByChapter returns a chapter's formula entries
func (r *FormulaRepository) GetByChapter(ctx context.Context, chapterID string) ([]models.Formula, error) {
	var formulas []models.Formula
	query := r.store.rebind("SELECT * FROM formulas WHERE chapter_id = ? ORDER BY title")
	if err := r.store.db.SelectContext(ctx, &formulas, query, chapterID); err != nil {
		return nil, fmt.Errorf("failed to get formulas: %v", err)
	}
	return formulas, nil
}

// GetByID returns a formula by ID
func (r *FormulaRepository) GetByID(ctx context.Context, id string) (*models.Formula, error) {
	var formula models.Formula
	query := r.store.rebind("SELECT * FROM formulas WHERE id = ?")
	if err := r.store.db.GetContext(ctx, &formula, query, id); err != nil {
		return nil, err
	}
	return &formula, nil
}

// Create inserts a new formula
func (r *FormulaRepository) Create(ctx context.Context, f *models.Formula) error {
	query := r.store.rebind("INSERT INTO formulas (id, chapter_id, title, body) VALUES (?, ?, ?, ?)")
	_, err := r.store.db.ExecContext(ctx, query, f.ID, f.ChapterID, f.Title, f.Body)
	if err != nil {
		return fmt.Errorf("failed to create formula: %v", err)
	}
	return nil
}

// Update modifies an existing formula
func (r *FormulaRepository) Update(ctx context.Context, f *models.Formula) error {
	query := r.store.rebind("UPDATE formulas SET title = ?, body = ?, updated_at = ? WHERE id = ?")
	_, err := r.store.db.ExecContext(ctx, query, f.Title, f.Body, time.Now().UTC(), f.ID)
	if err != nil {
		return fmt.Errorf("failed to update formula: %v", err)
	}
	return nil
}

// Delete removes a formula
func (r *FormulaRepository) Delete(ctx context.Context, id string) error {
	query := r.store.rebind("DELETE FROM formulas WHERE id = ?")
	if _, err := r.store.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete formula: %v", err)
	}
	return nil
}
