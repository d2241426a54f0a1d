package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/quizdeck/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	s := newStore(db)
	require.NoError(t, s.initializeSchema())
	t.Cleanup(func() { s.Close() })
	return s
}

// seedChapter creates a subject and chapter with the given topic and
// question counts, returning the chapter and its question ids
func seedChapter(t *testing.T, s *Store, topics, questionsPerTopic int) (*models.Chapter, []string) {
	t.Helper()
	ctx := context.Background()

	subject := &models.Subject{ID: "sub-1", Title: "Physics"}
	require.NoError(t, s.Subjects.Create(ctx, subject))

	chapter := &models.Chapter{ID: "ch-1", SubjectID: subject.ID, Title: "Kinematics"}
	require.NoError(t, s.Chapters.Create(ctx, chapter))

	var questionIDs []string
	for ti := 0; ti < topics; ti++ {
		topic := &models.Topic{
			ID:        fmt.Sprintf("top-%d", ti),
			ChapterID: chapter.ID,
			Title:     fmt.Sprintf("Topic %d", ti),
		}
		require.NoError(t, s.Topics.Create(ctx, topic))

		for qi := 0; qi < questionsPerTopic; qi++ {
			q := &models.Question{
				ID:        fmt.Sprintf("q-%d-%d", ti, qi),
				ChapterID: chapter.ID,
				TopicID:   topic.ID,
				Prompt:    fmt.Sprintf("prompt %d-%d", ti, qi),
				OptionA:   "a", OptionB: "b", OptionC: "c", OptionD: "d",
				Correct: 2,
			}
			require.NoError(t, s.Questions.Create(ctx, q))
			questionIDs = append(questionIDs, q.ID)
		}
	}
	return chapter, questionIDs
}

func TestChapterCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	chapter, _ := seedChapter(t, s, 2, 5)

	require.NoError(t, s.Formulas.Create(ctx, &models.Formula{
		ID: "f-1", ChapterID: chapter.ID, Title: "v = u + at", Body: "final velocity",
	}))

	got, err := s.Chapters.GetByID(ctx, chapter.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.QuestionCount)
	assert.Equal(t, 1, got.FormulaCount)

	list, err := s.Chapters.GetBySubject(ctx, chapter.SubjectID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 10, list[0].QuestionCount)
}

func TestChapterDeleteCascade(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	chapter, questionIDs := seedChapter(t, s, 2, 5)

	// A second chapter that must survive the cascade
	other := &models.Chapter{ID: "ch-2", SubjectID: chapter.SubjectID, Title: "Optics"}
	require.NoError(t, s.Chapters.Create(ctx, other))
	otherQ := &models.Question{
		ID: "q-other", ChapterID: other.ID, Prompt: "other prompt",
		OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", Correct: 1,
	}
	require.NoError(t, s.Questions.Create(ctx, otherQ))

	require.NoError(t, s.Formulas.Create(ctx, &models.Formula{
		ID: "f-1", ChapterID: chapter.ID, Title: "s = ut", Body: "displacement",
	}))
	require.NoError(t, s.Bookmarks.Create(ctx, &models.Bookmark{
		UserID: "user-1", QuestionID: questionIDs[0], ChapterID: chapter.ID, SubjectID: chapter.SubjectID,
	}))
	require.NoError(t, s.Progress.Upsert(ctx, &models.ProgressRecord{
		UserID: "user-1", QuestionID: questionIDs[0], ChapterID: chapter.ID, Selected: 1, WasCorrect: true,
	}))

	require.NoError(t, s.Chapters.DeleteCascade(ctx, chapter.ID))

	_, err := s.Chapters.GetByID(ctx, chapter.ID)
	assert.Error(t, err)

	questions, err := s.Questions.GetByChapter(ctx, chapter.ID)
	require.NoError(t, err)
	assert.Empty(t, questions)

	topics, err := s.Topics.GetByChapter(ctx, chapter.ID)
	require.NoError(t, err)
	assert.Empty(t, topics)

	formulas, err := s.Formulas.GetByChapter(ctx, chapter.ID)
	require.NoError(t, err)
	assert.Empty(t, formulas)

	count, err := s.Bookmarks.CountByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, count)

	// The sibling chapter and its question are untouched
	survivor, err := s.Chapters.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, survivor.QuestionCount)
}

func TestChapterDeleteCascadeRollsBackOnFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	chapter, questionIDs := seedChapter(t, s, 2, 5)

	require.NoError(t, s.Formulas.Create(ctx, &models.Formula{
		ID: "f-1", ChapterID: chapter.ID, Title: "s = ut", Body: "displacement",
	}))
	require.NoError(t, s.Bookmarks.Create(ctx, &models.Bookmark{
		UserID: "user-1", QuestionID: questionIDs[0], ChapterID: chapter.ID, SubjectID: chapter.SubjectID,
	}))
	require.NoError(t, s.Progress.Upsert(ctx, &models.ProgressRecord{
		UserID: "user-1", QuestionID: questionIDs[0], ChapterID: chapter.ID, Selected: 1, WasCorrect: true,
	}))

	// An interrupted delete must leave every record in place
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	require.Error(t, s.Chapters.DeleteCascade(canceled, chapter.ID))

	got, err := s.Chapters.GetByID(ctx, chapter.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.QuestionCount)
	assert.Equal(t, 1, got.FormulaCount)

	topics, err := s.Topics.GetByChapter(ctx, chapter.ID)
	require.NoError(t, err)
	assert.Len(t, topics, 2)

	count, err := s.Bookmarks.CountByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	records, err := s.Progress.GetByUserAndChapter(ctx, "user-1", chapter.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSubjectDeleteRefusesWhenChaptersExist(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	chapter, _ := seedChapter(t, s, 1, 1)

	err := s.Subjects.Delete(ctx, chapter.SubjectID)
	assert.Error(t, err)

	require.NoError(t, s.Chapters.DeleteCascade(ctx, chapter.ID))
	assert.NoError(t, s.Subjects.Delete(ctx, chapter.SubjectID))
}

func TestTopicDeleteClearsQuestionAssignment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	chapter, questionIDs := seedChapter(t, s, 1, 3)

	require.NoError(t, s.Topics.Delete(ctx, "top-0"))

	// Questions survive the topic; they just lose the assignment
	questions, err := s.Questions.GetByChapter(ctx, chapter.ID)
	require.NoError(t, err)
	require.Len(t, questions, len(questionIDs))
	for _, q := range questions {
		assert.Empty(t, q.TopicID)
	}
}

func TestProgressUpsertIncrementsAttempts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, questionIDs := seedChapter(t, s, 1, 1)
	questionID := questionIDs[0]

	require.NoError(t, s.Progress.Upsert(ctx, &models.ProgressRecord{
		UserID: "user-1", QuestionID: questionID, ChapterID: "ch-1", Selected: 0, WasCorrect: false,
	}))

	got, err := s.Progress.GetByUserAndQuestion(ctx, "user-1", questionID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Selected)
	assert.False(t, got.WasCorrect)
	assert.Equal(t, 1, got.AttemptCount)

	// A repeat answer overwrites the selection and bumps the attempt count
	require.NoError(t, s.Progress.Upsert(ctx, &models.ProgressRecord{
		UserID: "user-1", QuestionID: questionID, ChapterID: "ch-1", Selected: 1, WasCorrect: true,
	}))

	got, err = s.Progress.GetByUserAndQuestion(ctx, "user-1", questionID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Selected)
	assert.True(t, got.WasCorrect)
	assert.Equal(t, 2, got.AttemptCount)

	records, err := s.Progress.GetByUserAndChapter(ctx, "user-1", "ch-1")
	require.NoError(t, err)
	assert.Len(t, records, 1, "upsert must not create a second row")
}

func TestBookmarkCreateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	chapter, questionIDs := seedChapter(t, s, 1, 2)

	b := &models.Bookmark{
		UserID: "user-1", QuestionID: questionIDs[0],
		ChapterID: chapter.ID, SubjectID: chapter.SubjectID,
	}
	require.NoError(t, s.Bookmarks.Create(ctx, b))
	require.NoError(t, s.Bookmarks.Create(ctx, b))

	list, err := s.Bookmarks.GetByUserAndChapter(ctx, "user-1", chapter.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.Bookmarks.Delete(ctx, "user-1", questionIDs[0]))
	count, err := s.Bookmarks.CountByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestQuestionGetByPrompt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	chapter, _ := seedChapter(t, s, 1, 2)

	got, err := s.Questions.GetByPrompt(ctx, chapter.ID, "prompt 0-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "q-0-1", got.ID)

	// Unknown prompts are a nil result, not an error
	got, err = s.Questions.GetByPrompt(ctx, chapter.ID, "no such prompt")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepositoryRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := &models.User{
		ID: "user-1", Email: "sam@example.com", PasswordHash: "hash",
		DisplayName: "Sam", Role: models.RoleStudent,
		ReminderHour: 9, RemindersOn: true,
	}
	require.NoError(t, s.Users.Create(ctx, user))

	exists, err := s.Users.EmailExists(ctx, "sam@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.Users.EmailExists(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	got, err := s.Users.GetByEmail(ctx, "sam@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)
	assert.False(t, got.IsAdmin())

	require.NoError(t, s.Users.UpdateProfile(ctx, "user-1", "Sam R"))
	got, err = s.Users.GetByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Sam R", got.DisplayName)
}

func TestGetUsersForReminder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	users := []*models.User{
		{ID: "u-1", Email: "a@example.com", PasswordHash: "h", Role: models.RoleStudent, ReminderHour: 9, RemindersOn: true, TelegramChatID: 100},
		{ID: "u-2", Email: "b@example.com", PasswordHash: "h", Role: models.RoleStudent, ReminderHour: 9, RemindersOn: false, TelegramChatID: 200},
		{ID: "u-3", Email: "c@example.com", PasswordHash: "h", Role: models.RoleStudent, ReminderHour: 18, RemindersOn: true, TelegramChatID: 300},
	}
	for _, u := range users {
		require.NoError(t, s.Users.Create(ctx, u))
	}

	due, err := s.Users.GetUsersForReminder(ctx, 9)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "u-1", due[0].ID)
}

func TestSummaryRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sum := &models.SessionSummary{
		UserID: "user-1", ChapterID: "ch-1", Mode: "all",
		Total: 20, Correct: 14, Incorrect: 6, Percentage: "70.0", Duration: 300,
	}
	require.NoError(t, s.Summaries.Create(ctx, sum))

	list, err := s.Summaries.GetByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "70.0", list[0].Percentage)
	assert.Equal(t, 14, list[0].Correct)
}
