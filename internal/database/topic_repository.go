package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/quizdeck/pkg/models"
)

// TopicRepository handles database operations for topics
type TopicRepository struct {
	store *Store
}

// GetByChapter returns all topics within a chapter. The "All Topics" entry is
// not stored; callers inject the sentinel when presenting the list.
func (r *TopicRepository) GetByChapter(ctx context.Context, chapterID string) ([]models.Topic, error) {
	var topics []models.Topic
	query := r.store.rebind("SELECT * FROM topics WHERE chapter_id = ? ORDER BY title")
	if err := r.store.db.SelectContext(ctx, &topics, query, chapterID); err != nil {
		return nil, fmt.Errorf("failed to get topics: %v", err)
	}
	return topics, nil
}

// GetByID returns a topic by ID
func (r *TopicRepository) GetByID(ctx context.Context, id string) (*models.Topic, error) {
	var topic models.Topic
	query := r.store.rebind("SELECT * FROM topics WHERE id = ?")
	if err := r.store.db.GetContext(ctx, &topic, query, id); err != nil {
		return nil, err
	}
	return &topic, nil
}

// GetByTitle returns a topic by chapter and title
func (r *TopicRepository) GetByTitle(ctx context.Context, chapterID, title string) (*models.Topic, error) {
	var topic models.Topic
	query := r.store.rebind("SELECT * FROM topics WHERE chapter_id = ? AND title = ?")
	if err := r.store.db.GetContext(ctx, &topic, query, chapterID, title); err != nil {
		return nil, err
	}
	return &topic, nil
}

// Create inserts a new topic
func (r *TopicRepository) Create(ctx context.Context, topic *models.Topic) error {
	query := r.store.rebind("INSERT INTO topics (id, chapter_id, title) VALUES (?, ?, ?)")
	_, err := r.store.db.ExecContext(ctx, query, topic.ID, topic.ChapterID, topic.Title)
	if err != nil {
		return fmt.Errorf("failed to create topic: %v", err)
	}
	return nil
}

// Update modifies an existing topic
func (r *TopicRepository) Update(ctx context.Context, topic *models.Topic) error {
	query := r.store.rebind("UPDATE topics SET title = ?, updated_at = ? WHERE id = ?")
	_, err := r.store.db.ExecContext(ctx, query, topic.Title, time.Now().UTC(), topic.ID)
	if err != nil {
		return fmt.Errorf("failed to update topic: %v", err)
	}
	return nil
}

// Delete removes a topic and clears the topic reference on its questions
func (r *TopicRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	clear := r.store.rebind("UPDATE questions SET topic_id = '' WHERE topic_id = ?")
	if _, err := tx.ExecContext(ctx, clear, id); err != nil {
		return fmt.Errorf("failed to detach questions: %v", err)
	}
	del := r.store.rebind("DELETE FROM topics WHERE id = ?")
	if _, err := tx.ExecContext(ctx, del, id); err != nil {
		return fmt.Errorf("failed to delete topic: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit topic delete: %v", err)
	}
	return nil
}
