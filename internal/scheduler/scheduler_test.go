package scheduler

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/quizdeck/internal/config"
	"github.com/example/quizdeck/internal/database"
	"github.com/example/quizdeck/pkg/models"
)

type fakeNotifier struct {
	chatIDs []int64
	counts  []int
}

func (n *fakeNotifier) SendReminder(chatID int64, bookmarked int) error {
	n.chatIDs = append(n.chatIDs, chatID)
	n.counts = append(n.counts, bookmarked)
	return nil
}

func newTestStore(t *testing.T) *database.Store {
	t.Helper()
	cfg := &config.Config{
		DBDriver: "sqlite3",
		DBPath:   filepath.Join(t.TempDir(), "test.db"),
	}
	store, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRunManualCheck(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Users.Create(ctx, &models.User{
		ID: "u-1", Email: "a@example.com", PasswordHash: "h",
		Role: models.RoleStudent, ReminderHour: 9, RemindersOn: true, TelegramChatID: 42,
	}))
	require.NoError(t, store.Bookmarks.Create(ctx, &models.Bookmark{
		UserID: "u-1", QuestionID: "q-1", ChapterID: "ch-1", SubjectID: "sub-1",
	}))
	require.NoError(t, store.Bookmarks.Create(ctx, &models.Bookmark{
		UserID: "u-1", QuestionID: "q-2", ChapterID: "ch-1", SubjectID: "sub-1",
	}))

	notifier := &fakeNotifier{}
	s := New(store, notifier, 8, 22)

	require.NoError(t, s.RunManualCheck(ctx, "u-1"))
	require.Len(t, notifier.chatIDs, 1)
	assert.Equal(t, int64(42), notifier.chatIDs[0])
	assert.Equal(t, 2, notifier.counts[0])
}

func TestRunManualCheckSkipsWithoutBookmarksOrChat(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// No linked chat
	require.NoError(t, store.Users.Create(ctx, &models.User{
		ID: "u-1", Email: "a@example.com", PasswordHash: "h",
		Role: models.RoleStudent, ReminderHour: 9, RemindersOn: true,
	}))
	// Linked chat but nothing bookmarked
	require.NoError(t, store.Users.Create(ctx, &models.User{
		ID: "u-2", Email: "b@example.com", PasswordHash: "h",
		Role: models.RoleStudent, ReminderHour: 9, RemindersOn: true, TelegramChatID: 7,
	}))
	require.NoError(t, store.Bookmarks.Create(ctx, &models.Bookmark{
		UserID: "u-1", QuestionID: "q-1", ChapterID: "ch-1", SubjectID: "sub-1",
	}))

	notifier := &fakeNotifier{}
	s := New(store, notifier, 8, 22)

	require.NoError(t, s.RunManualCheck(ctx, "u-1"))
	require.NoError(t, s.RunManualCheck(ctx, "u-2"))
	assert.Empty(t, notifier.chatIDs)
}
