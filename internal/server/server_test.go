package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/quizdeck/internal/auth"
	"github.com/example/quizdeck/internal/config"
	"github.com/example/quizdeck/internal/database"
	"github.com/example/quizdeck/internal/session"
	"github.com/example/quizdeck/pkg/models"
)

type testAPI struct {
	srv   *httptest.Server
	store *database.Store
}

func newTestAPI(t *testing.T) *testAPI {
	return newTestAPIWithConfig(t, nil)
}

func newTestAPIWithConfig(t *testing.T, adjust func(*config.Config)) *testAPI {
	t.Helper()
	cfg := &config.Config{
		AllowedOrigins:     []string{"*"},
		DBDriver:           "sqlite3",
		DBPath:             filepath.Join(t.TempDir(), "test.db"),
		JWTSecret:          "test-secret",
		TokenTTL:           time.Hour,
		AdminEmails:        []string{"admin@example.com"},
		DefaultSessionSize: 20,
		MaxSessionSize:     100,
	}
	if adjust != nil {
		adjust(cfg)
	}

	store, err := database.New(cfg)
	require.NoError(t, err)

	authService := auth.NewService(store, cfg.JWTSecret, cfg.TokenTTL, cfg.AdminEmails)
	catalog := session.NewStoreAdapter(store)
	sessions := session.NewManager(catalog, catalog)

	srv := httptest.NewServer(New(store, authService, sessions, cfg).Router())
	t.Cleanup(func() {
		srv.Close()
		sessions.Shutdown()
		store.Close()
	})
	return &testAPI{srv: srv, store: store}
}

// do issues a JSON request, decoding the response body into out when non-nil
func (a *testAPI) do(t *testing.T, method, path, token string, body, out interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, a.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type signUpReply struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func (a *testAPI) signUp(t *testing.T, email string) signUpReply {
	t.Helper()
	var resp signUpReply
	status := a.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":        email,
		"password":     "secret123",
		"display_name": "Test User",
	}, &resp)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, resp.Token)
	return resp
}

func (a *testAPI) seedChapter(t *testing.T, questions int) *models.Chapter {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, a.store.Subjects.Create(ctx, &models.Subject{ID: "sub-1", Title: "Physics"}))
	chapter := &models.Chapter{ID: "ch-1", SubjectID: "sub-1", Title: "Kinematics"}
	require.NoError(t, a.store.Chapters.Create(ctx, chapter))
	for i := 0; i < questions; i++ {
		require.NoError(t, a.store.Questions.Create(ctx, &models.Question{
			ID:        fmt.Sprintf("q-%d", i),
			ChapterID: chapter.ID,
			Prompt:    fmt.Sprintf("prompt %d", i),
			OptionA:   "a", OptionB: "b", OptionC: "c", OptionD: "d",
			Correct: 1,
		}))
	}
	return chapter
}

func TestSignUpAndSignIn(t *testing.T) {
	api := newTestAPI(t)

	resp := api.signUp(t, "sam@example.com")
	assert.Equal(t, models.RoleStudent, resp.User.Role)

	// Duplicate sign-up is rejected with the taxonomy message
	var errResp map[string]string
	status := api.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "sam@example.com", "password": "secret123",
	}, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "An account with that e-mail address already exists.", errResp["error"])

	var signIn signUpReply
	status = api.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email": "sam@example.com", "password": "secret123",
	}, &signIn)
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, signIn.Token)

	status = api.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email": "sam@example.com", "password": "wrong-pass",
	}, &errResp)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Incorrect password.", errResp["error"])
}

func TestAdminRoleFromConfiguredEmails(t *testing.T) {
	api := newTestAPI(t)

	admin := api.signUp(t, "admin@example.com")
	assert.Equal(t, models.RoleAdmin, admin.User.Role)

	student := api.signUp(t, "student@example.com")
	assert.Equal(t, models.RoleStudent, student.User.Role)

	// Students are turned away from the admin console
	status := api.do(t, http.MethodPost, "/api/admin/subjects", student.Token,
		map[string]string{"title": "Chemistry"}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	var subject models.Subject
	status = api.do(t, http.MethodPost, "/api/admin/subjects", admin.Token,
		map[string]string{"title": "Chemistry"}, &subject)
	assert.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, subject.ID)
}

func TestCatalogRequiresAuth(t *testing.T) {
	api := newTestAPI(t)

	status := api.do(t, http.MethodGet, "/api/subjects", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status = api.do(t, http.MethodGet, "/api/subjects", "garbage-token", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestListTopicsIncludesAllTopicsEntry(t *testing.T) {
	api := newTestAPI(t)
	chapter := api.seedChapter(t, 0)
	require.NoError(t, api.store.Topics.Create(context.Background(), &models.Topic{
		ID: "top-1", ChapterID: chapter.ID, Title: "Vectors",
	}))
	user := api.signUp(t, "sam@example.com")

	var topics []models.Topic
	status := api.do(t, http.MethodGet, "/api/chapters/ch-1/topics", user.Token, nil, &topics)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, topics, 2)
	assert.Equal(t, models.AllTopics, topics[0].ID)
	assert.Equal(t, "Vectors", topics[1].Title)
}

func TestSessionFlow(t *testing.T) {
	api := newTestAPI(t)
	api.seedChapter(t, 3)
	user := api.signUp(t, "sam@example.com")

	// No session yet
	status := api.do(t, http.MethodGet, "/api/sessions/current", user.Token, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	var state session.State
	status = api.do(t, http.MethodPost, "/api/sessions", user.Token,
		map[string]interface{}{"chapter_id": "ch-1", "limit": 3}, &state)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, session.StatusActive, state.Status)
	assert.Equal(t, 3, state.Total)

	// Check before select is a client error
	status = api.do(t, http.MethodPost, "/api/sessions/check", user.Token, nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	for i := 0; i < 3; i++ {
		status = api.do(t, http.MethodPost, "/api/sessions/select", user.Token,
			map[string]int{"option": 0}, nil)
		require.Equal(t, http.StatusOK, status)

		var checked struct {
			Result session.Result `json:"result"`
			State  session.State  `json:"state"`
		}
		status = api.do(t, http.MethodPost, "/api/sessions/check", user.Token, nil, &checked)
		require.Equal(t, http.StatusOK, status)
		assert.True(t, checked.Result.Correct)

		status = api.do(t, http.MethodPost, "/api/sessions/next", user.Token, nil, &state)
		require.Equal(t, http.StatusOK, status)
	}
	assert.Equal(t, session.StatusComplete, state.Status)

	var summary struct {
		Summary session.Summary  `json:"summary"`
		Results []session.Result `json:"results"`
	}
	status = api.do(t, http.MethodGet, "/api/sessions/summary", user.Token, nil, &summary)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "100.0", summary.Summary.Percentage)
	assert.Len(t, summary.Results, 3)

	status = api.do(t, http.MethodDelete, "/api/sessions/current", user.Token, nil, nil)
	assert.Equal(t, http.StatusOK, status)
	status = api.do(t, http.MethodGet, "/api/sessions/current", user.Token, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestStartSessionValidation(t *testing.T) {
	api := newTestAPI(t)
	user := api.signUp(t, "sam@example.com")

	status := api.do(t, http.MethodPost, "/api/sessions", user.Token,
		map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = api.do(t, http.MethodPost, "/api/sessions", user.Token,
		map[string]interface{}{"chapter_id": "ch-1", "limit": 500}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = api.do(t, http.MethodPost, "/api/sessions", user.Token,
		map[string]interface{}{"chapter_id": "ch-1", "mode": "wrong"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// Unknown chapter surfaces as a retryable load failure
	status = api.do(t, http.MethodPost, "/api/sessions", user.Token,
		map[string]interface{}{"chapter_id": "no-such-chapter"}, nil)
	assert.Equal(t, http.StatusBadGateway, status)
}

func TestSessionSizeFromConfig(t *testing.T) {
	api := newTestAPIWithConfig(t, func(cfg *config.Config) {
		cfg.DefaultSessionSize = 2
		cfg.MaxSessionSize = 10
	})
	api.seedChapter(t, 5)
	user := api.signUp(t, "sam@example.com")

	// Omitted limit falls back to the configured default size
	var state session.State
	status := api.do(t, http.MethodPost, "/api/sessions", user.Token,
		map[string]interface{}{"chapter_id": "ch-1"}, &state)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 2, state.Total)

	// The configured ceiling bounds explicit limits
	var errResp map[string]string
	status = api.do(t, http.MethodPost, "/api/sessions", user.Token,
		map[string]interface{}{"chapter_id": "ch-1", "limit": 11}, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "limit must be between 1 and 10", errResp["error"])
}

func TestBookmarkToggleEndpoint(t *testing.T) {
	api := newTestAPI(t)
	api.seedChapter(t, 2)
	user := api.signUp(t, "sam@example.com")

	status := api.do(t, http.MethodPost, "/api/sessions", user.Token,
		map[string]interface{}{"chapter_id": "ch-1"}, nil)
	require.Equal(t, http.StatusCreated, status)

	var toggled map[string]bool
	status = api.do(t, http.MethodPost, "/api/bookmarks/toggle", user.Token,
		map[string]string{"question_id": "q-0"}, &toggled)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, toggled["bookmarked"])

	var bookmarks []models.Bookmark
	status = api.do(t, http.MethodGet, "/api/bookmarks", user.Token, nil, &bookmarks)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, "q-0", bookmarks[0].QuestionID)

	status = api.do(t, http.MethodPost, "/api/bookmarks/toggle", user.Token,
		map[string]string{"question_id": "q-0"}, &toggled)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, toggled["bookmarked"])
}

func TestAdminQuestionValidation(t *testing.T) {
	api := newTestAPI(t)
	api.seedChapter(t, 0)
	admin := api.signUp(t, "admin@example.com")

	var errResp map[string]string
	status := api.do(t, http.MethodPost, "/api/admin/questions", admin.Token,
		map[string]interface{}{
			"chapter_id": "ch-1", "prompt": "p",
			"option_a": "a", "option_b": "b", "option_c": "c", "option_d": "d",
			"correct": 5,
		}, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "correct must be between 1 and 4", errResp["error"])

	status = api.do(t, http.MethodPost, "/api/admin/questions", admin.Token,
		map[string]interface{}{
			"chapter_id": "ch-1", "prompt": "p",
			"option_a": "a", "option_b": "b", "option_c": "", "option_d": "d",
			"correct": 2,
		}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	var created models.Question
	status = api.do(t, http.MethodPost, "/api/admin/questions", admin.Token,
		map[string]interface{}{
			"chapter_id": "ch-1", "prompt": "p",
			"option_a": "a", "option_b": "b", "option_c": "c", "option_d": "d",
			"correct": 2,
		}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, created.ID)
}

func TestAdminChapterCascadeDelete(t *testing.T) {
	api := newTestAPI(t)
	chapter := api.seedChapter(t, 4)
	admin := api.signUp(t, "admin@example.com")

	status := api.do(t, http.MethodDelete, "/api/admin/chapters/"+chapter.ID, admin.Token, nil, nil)
	require.Equal(t, http.StatusOK, status)

	questions, err := api.store.Questions.GetByChapter(context.Background(), chapter.ID)
	require.NoError(t, err)
	assert.Empty(t, questions)
}
