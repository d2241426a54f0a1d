package session

import (
	"context"

	"github.com/example/quizdeck/internal/database"
	"github.com/example/quizdeck/pkg/models"
)

// Catalog is the read side the session flow needs from storage
type Catalog interface {
	ChapterByID(ctx context.Context, id string) (*models.Chapter, error)
	QuestionsByChapter(ctx context.Context, chapterID string) ([]models.Question, error)
	BookmarksByUserAndChapter(ctx context.Context, userID, chapterID string) ([]models.Bookmark, error)
}

// Writer is the write side: progress upserts, bookmark records and
// completed-session summaries.
type Writer interface {
	UpsertProgress(ctx context.Context, p *models.ProgressRecord) error
	CreateBookmark(ctx context.Context, b *models.Bookmark) error
	DeleteBookmark(ctx context.Context, userID, questionID string) error
	CreateSummary(ctx context.Context, s *models.SessionSummary) error
}

// storeAdapter exposes a database.Store through the Catalog and Writer
// interfaces
type storeAdapter struct {
	store *database.Store
}

// NewStoreAdapter wraps a database.Store for use by the session manager
func NewStoreAdapter(store *database.Store) interface {
	Catalog
	Writer
} {
	return &storeAdapter{store: store}
}

func (a *storeAdapter) ChapterByID(ctx context.Context, id string) (*models.Chapter, error) {
	return a.store.Chapters.GetByID(ctx, id)
}

func (a *storeAdapter) QuestionsByChapter(ctx context.Context, chapterID string) ([]models.Question, error) {
	return a.store.Questions.GetByChapter(ctx, chapterID)
}

func (a *storeAdapter) BookmarksByUserAndChapter(ctx context.Context, userID, chapterID string) ([]models.Bookmark, error) {
	return a.store.Bookmarks.GetByUserAndChapter(ctx, userID, chapterID)
}

func (a *storeAdapter) UpsertProgress(ctx context.Context, p *models.ProgressRecord) error {
	return a.store.Progress.Upsert(ctx, p)
}

func (a *storeAdapter) CreateBookmark(ctx context.Context, b *models.Bookmark) error {
	return a.store.Bookmarks.Create(ctx, b)
}

func (a *storeAdapter) DeleteBookmark(ctx context.Context, userID, questionID string) error {
	return a.store.Bookmarks.Delete(ctx, userID, questionID)
}

func (a *storeAdapter) CreateSummary(ctx context.Context, s *models.SessionSummary) error {
	return a.store.Summaries.Create(ctx, s)
}
