package session

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/example/quizdeck/pkg/models"
)

// ChapterData is everything a session needs from storage: the chapter row,
// its full question set, and the user's bookmark set for it.
type ChapterData struct {
	Chapter   *models.Chapter
	Questions []models.Question
	Bookmarks map[string]bool
}

// Load fetches the question list and bookmark set concurrently; both must
// succeed before a session can be built. If ctx is canceled while either
// fetch is in flight the results are discarded — a dismissed session never
// observes late responses.
func Load(ctx context.Context, catalog Catalog, userID, chapterID string) (*ChapterData, error) {
	chapter, err := catalog.ChapterByID(ctx, chapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chapter: %v", err)
	}

	var questions []models.Question
	var bookmarks []models.Bookmark

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		questions, err = catalog.QuestionsByChapter(gctx, chapterID)
		return err
	})
	g.Go(func() error {
		var err error
		bookmarks, err = catalog.BookmarksByUserAndChapter(gctx, userID, chapterID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load chapter data: %v", err)
	}

	// Stale-response guard
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(bookmarks))
	for _, b := range bookmarks {
		set[b.QuestionID] = true
	}
	return &ChapterData{Chapter: chapter, Questions: questions, Bookmarks: set}, nil
}
