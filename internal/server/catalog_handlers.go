package server

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/example/quizdeck/pkg/models"
)

func (h *Handler) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.store.Subjects.GetAll(r.Context())
	if err != nil {
		log.Printf("Error listing subjects: %v", err)
		errorResponse(w, "failed to load subjects", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, subjects, http.StatusOK)
}

func (h *Handler) handleListChapters(w http.ResponseWriter, r *http.Request) {
	subjectID := mux.Vars(r)["id"]
	chapters, err := h.store.Chapters.GetBySubject(r.Context(), subjectID)
	if err != nil {
		log.Printf("Error listing chapters for subject %s: %v", subjectID, err)
		errorResponse(w, "failed to load chapters", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, chapters, http.StatusOK)
}

// handleListTopics returns a chapter's topics with the "All Topics" pseudo-
// entry injected at the head of the list. The sentinel is never stored.
func (h *Handler) handleListTopics(w http.ResponseWriter, r *http.Request) {
	chapterID := mux.Vars(r)["id"]
	topics, err := h.store.Topics.GetByChapter(r.Context(), chapterID)
	if err != nil {
		log.Printf("Error listing topics for chapter %s: %v", chapterID, err)
		errorResponse(w, "failed to load topics", http.StatusInternalServerError)
		return
	}

	all := make([]models.Topic, 0, len(topics)+1)
	all = append(all, models.Topic{ID: models.AllTopics, ChapterID: chapterID, Title: "All Topics"})
	all = append(all, topics...)
	jsonResponse(w, all, http.StatusOK)
}

func (h *Handler) handleListFormulas(w http.ResponseWriter, r *http.Request) {
	chapterID := mux.Vars(r)["id"]
	formulas, err := h.store.Formulas.GetByChapter(r.Context(), chapterID)
	if err != nil {
		log.Printf("Error listing formulas for chapter %s: %v", chapterID, err)
		errorResponse(w, "failed to load formulas", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, formulas, http.StatusOK)
}

func (h *Handler) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var bookmarks []models.Bookmark
	var err error
	if chapterID := r.URL.Query().Get("chapter_id"); chapterID != "" {
		bookmarks, err = h.store.Bookmarks.GetByUserAndChapter(r.Context(), claims.UserID, chapterID)
	} else {
		bookmarks, err = h.store.Bookmarks.GetByUser(r.Context(), claims.UserID)
	}
	if err != nil {
		log.Printf("Error listing bookmarks for user %s: %v", claims.UserID, err)
		errorResponse(w, "failed to load bookmarks", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, bookmarks, http.StatusOK)
}
