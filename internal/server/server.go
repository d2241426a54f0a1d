package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/example/quizdeck/internal/auth"
	"github.com/example/quizdeck/internal/config"
	"github.com/example/quizdeck/internal/database"
	"github.com/example/quizdeck/internal/session"
)

// Handler owns the API endpoints and their collaborators
type Handler struct {
	store    *database.Store
	auth     *auth.Service
	sessions *session.Manager
	cfg      *config.Config
}

// New builds the API handler
func New(store *database.Store, authService *auth.Service, sessions *session.Manager, cfg *config.Config) *Handler {
	return &Handler{
		store:    store,
		auth:     authService,
		sessions: sessions,
		cfg:      cfg,
	}
}

// Router wires all routes and middleware and returns the root http.Handler
func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	// Auth
	api.HandleFunc("/auth/signup", h.handleSignUp).Methods(http.MethodPost)
	api.HandleFunc("/auth/signin", h.handleSignIn).Methods(http.MethodPost)

	// Everything below requires a signed-in user
	user := api.NewRoute().Subrouter()
	user.Use(h.requireAuth)
	user.HandleFunc("/auth/profile", h.handleUpdateProfile).Methods(http.MethodPut)

	user.HandleFunc("/subjects", h.handleListSubjects).Methods(http.MethodGet)
	user.HandleFunc("/subjects/{id}/chapters", h.handleListChapters).Methods(http.MethodGet)
	user.HandleFunc("/chapters/{id}/topics", h.handleListTopics).Methods(http.MethodGet)
	user.HandleFunc("/chapters/{id}/formulas", h.handleListFormulas).Methods(http.MethodGet)
	user.HandleFunc("/bookmarks", h.handleListBookmarks).Methods(http.MethodGet)

	user.HandleFunc("/sessions", h.handleStartSession).Methods(http.MethodPost)
	user.HandleFunc("/sessions/current", h.handleSessionState).Methods(http.MethodGet)
	user.HandleFunc("/sessions/current", h.handleEndSession).Methods(http.MethodDelete)
	user.HandleFunc("/sessions/select", h.handleSelect).Methods(http.MethodPost)
	user.HandleFunc("/sessions/check", h.handleCheck).Methods(http.MethodPost)
	user.HandleFunc("/sessions/next", h.handleNext).Methods(http.MethodPost)
	user.HandleFunc("/sessions/reset", h.handleReset).Methods(http.MethodPost)
	user.HandleFunc("/sessions/summary", h.handleSummary).Methods(http.MethodGet)
	user.HandleFunc("/sessions/history", h.handleSessionHistory).Methods(http.MethodGet)
	user.HandleFunc("/bookmarks/toggle", h.handleToggleBookmark).Methods(http.MethodPost)

	// Admin console
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(h.requireAuth, h.requireAdmin)
	admin.HandleFunc("/subjects", h.handleCreateSubject).Methods(http.MethodPost)
	admin.HandleFunc("/subjects/{id}", h.handleUpdateSubject).Methods(http.MethodPut)
	admin.HandleFunc("/subjects/{id}", h.handleDeleteSubject).Methods(http.MethodDelete)
	admin.HandleFunc("/chapters", h.handleCreateChapter).Methods(http.MethodPost)
	admin.HandleFunc("/chapters/{id}", h.handleUpdateChapter).Methods(http.MethodPut)
	admin.HandleFunc("/chapters/{id}", h.handleDeleteChapter).Methods(http.MethodDelete)
	admin.HandleFunc("/topics", h.handleCreateTopic).Methods(http.MethodPost)
	admin.HandleFunc("/topics/{id}", h.handleUpdateTopic).Methods(http.MethodPut)
	admin.HandleFunc("/topics/{id}", h.handleDeleteTopic).Methods(http.MethodDelete)
	admin.HandleFunc("/questions", h.handleCreateQuestion).Methods(http.MethodPost)
	admin.HandleFunc("/questions/{id}", h.handleUpdateQuestion).Methods(http.MethodPut)
	admin.HandleFunc("/questions/{id}", h.handleDeleteQuestion).Methods(http.MethodDelete)
	admin.HandleFunc("/formulas", h.handleCreateFormula).Methods(http.MethodPost)
	admin.HandleFunc("/formulas/{id}", h.handleUpdateFormula).Methods(http.MethodPut)
	admin.HandleFunc("/formulas/{id}", h.handleDeleteFormula).Methods(http.MethodDelete)
	admin.HandleFunc("/questions/import", h.handleImportQuestions).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins: h.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(r)
}

func jsonResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResponse(w http.ResponseWriter, message string, status int) {
	jsonResponse(w, map[string]string{"error": message}, status)
}
