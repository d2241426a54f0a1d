package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/example/quizdeck/internal/excel"
	"github.com/example/quizdeck/pkg/models"
)

// --- subjects ---

func (h *Handler) handleCreateSubject(w http.ResponseWriter, r *http.Request) {
	var subject models.Subject
	if err := json.NewDecoder(r.Body).Decode(&subject); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(subject.Title) == "" {
		errorResponse(w, "title is required", http.StatusBadRequest)
		return
	}
	subject.ID = uuid.NewString()
	if err := h.store.Subjects.Create(r.Context(), &subject); err != nil {
		log.Printf("Error creating subject: %v", err)
		errorResponse(w, "failed to create subject", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, subject, http.StatusCreated)
}

func (h *Handler) handleUpdateSubject(w http.ResponseWriter, r *http.Request) {
	var subject models.Subject
	if err := json.NewDecoder(r.Body).Decode(&subject); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	subject.ID = mux.Vars(r)["id"]
	if strings.TrimSpace(subject.Title) == "" {
		errorResponse(w, "title is required", http.StatusBadRequest)
		return
	}
	if err := h.store.Subjects.Update(r.Context(), &subject); err != nil {
		log.Printf("Error updating subject: %v", err)
		errorResponse(w, "failed to update subject", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, subject, http.StatusOK)
}

func (h *Handler) handleDeleteSubject(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Subjects.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		log.Printf("Error deleting subject: %v", err)
		errorResponse(w, err.Error(), http.StatusConflict)
		return
	}
	jsonResponse(w, map[string]string{"status": "deleted"}, http.StatusOK)
}

// --- chapters ---

func (h *Handler) handleCreateChapter(w http.ResponseWriter, r *http.Request) {
	var chapter models.Chapter
	if err := json.NewDecoder(r.Body).Decode(&chapter); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(chapter.Title) == "" || chapter.SubjectID == "" {
		errorResponse(w, "title and subject_id are required", http.StatusBadRequest)
		return
	}
	chapter.ID = uuid.NewString()
	if err := h.store.Chapters.Create(r.Context(), &chapter); err != nil {
		log.Printf("Error creating chapter: %v", err)
		errorResponse(w, "failed to create chapter", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, chapter, http.StatusCreated)
}

func (h *Handler) handleUpdateChapter(w http.ResponseWriter, r *http.Request) {
	var chapter models.Chapter
	if err := json.NewDecoder(r.Body).Decode(&chapter); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	chapter.ID = mux.Vars(r)["id"]
	if strings.TrimSpace(chapter.Title) == "" {
		errorResponse(w, "title is required", http.StatusBadRequest)
		return
	}
	if err := h.store.Chapters.Update(r.Context(), &chapter); err != nil {
		log.Printf("Error updating chapter: %v", err)
		errorResponse(w, "failed to update chapter", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, chapter, http.StatusOK)
}

// handleDeleteChapter removes the chapter and all dependent topic, question,
// formula, bookmark and progress records in one atomic batch. A failure
// leaves everything in place.
func (h *Handler) handleDeleteChapter(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.store.Chapters.DeleteCascade(r.Context(), id); err != nil {
		log.Printf("Error cascade-deleting chapter %s: %v", id, err)
		errorResponse(w, "failed to delete chapter", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]string{"status": "deleted"}, http.StatusOK)
}

// --- topics ---

func (h *Handler) handleCreateTopic(w http.ResponseWriter, r *http.Request) {
	var topic models.Topic
	if err := json.NewDecoder(r.Body).Decode(&topic); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(topic.Title) == "" || topic.ChapterID == "" {
		errorResponse(w, "title and chapter_id are required", http.StatusBadRequest)
		return
	}
	topic.ID = uuid.NewString()
	if err := h.store.Topics.Create(r.Context(), &topic); err != nil {
		log.Printf("Error creating topic: %v", err)
		errorResponse(w, "failed to create topic", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, topic, http.StatusCreated)
}

func (h *Handler) handleUpdateTopic(w http.ResponseWriter, r *http.Request) {
	var topic models.Topic
	if err := json.NewDecoder(r.Body).Decode(&topic); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	topic.ID = mux.Vars(r)["id"]
	if strings.TrimSpace(topic.Title) == "" {
		errorResponse(w, "title is required", http.StatusBadRequest)
		return
	}
	if err := h.store.Topics.Update(r.Context(), &topic); err != nil {
		log.Printf("Error updating topic: %v", err)
		errorResponse(w, "failed to update topic", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, topic, http.StatusOK)
}

func (h *Handler) handleDeleteTopic(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Topics.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		log.Printf("Error deleting topic: %v", err)
		errorResponse(w, "failed to delete topic", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]string{"status": "deleted"}, http.StatusOK)
}

// --- questions ---

// validateQuestion runs the inline form checks before any store write
func validateQuestion(q *models.Question) string {
	switch {
	case q.ChapterID == "":
		return "chapter_id is required"
	case strings.TrimSpace(q.Prompt) == "":
		return "prompt is required"
	case strings.TrimSpace(q.OptionA) == "" || strings.TrimSpace(q.OptionB) == "" ||
		strings.TrimSpace(q.OptionC) == "" || strings.TrimSpace(q.OptionD) == "":
		return "all four options are required"
	case q.Correct < 1 || q.Correct > models.OptionCount:
		return "correct must be between 1 and 4"
	}
	return ""
}

func (h *Handler) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var q models.Question
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if msg := validateQuestion(&q); msg != "" {
		errorResponse(w, msg, http.StatusBadRequest)
		return
	}
	q.ID = uuid.NewString()
	if err := h.store.Questions.Create(r.Context(), &q); err != nil {
		log.Printf("Error creating question: %v", err)
		errorResponse(w, "failed to create question", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, q, http.StatusCreated)
}

func (h *Handler) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	var q models.Question
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	q.ID = mux.Vars(r)["id"]
	if msg := validateQuestion(&q); msg != "" {
		errorResponse(w, msg, http.StatusBadRequest)
		return
	}
	if err := h.store.Questions.Update(r.Context(), &q); err != nil {
		log.Printf("Error updating question: %v", err)
		errorResponse(w, "failed to update question", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, q, http.StatusOK)
}

func (h *Handler) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Questions.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		log.Printf("Error deleting question: %v", err)
		errorResponse(w, "failed to delete question", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]string{"status": "deleted"}, http.StatusOK)
}

// --- formulas ---

func (h *Handler) handleCreateFormula(w http.ResponseWriter, r *http.Request) {
	var f models.Formula
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(f.Title) == "" || strings.TrimSpace(f.Body) == "" || f.ChapterID == "" {
		errorResponse(w, "title, body and chapter_id are required", http.StatusBadRequest)
		return
	}
	f.ID = uuid.NewString()
	if err := h.store.Formulas.Create(r.Context(), &f); err != nil {
		log.Printf("Error creating formula: %v", err)
		errorResponse(w, "failed to create formula", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, f, http.StatusCreated)
}

func (h *Handler) handleUpdateFormula(w http.ResponseWriter, r *http.Request) {
	var f models.Formula
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	f.ID = mux.Vars(r)["id"]
	if strings.TrimSpace(f.Title) == "" || strings.TrimSpace(f.Body) == "" {
		errorResponse(w, "title and body are required", http.StatusBadRequest)
		return
	}
	if err := h.store.Formulas.Update(r.Context(), &f); err != nil {
		log.Printf("Error updating formula: %v", err)
		errorResponse(w, "failed to update formula", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, f, http.StatusOK)
}

func (h *Handler) handleDeleteFormula(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Formulas.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		log.Printf("Error deleting formula: %v", err)
		errorResponse(w, "failed to delete formula", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]string{"status": "deleted"}, http.StatusOK)
}

// --- bulk import ---

// handleImportQuestions accepts an .xlsx or .csv upload and imports its rows
// as questions for the given chapter
func (h *Handler) handleImportQuestions(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		errorResponse(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	chapterID := r.FormValue("chapter_id")
	if chapterID == "" {
		errorResponse(w, "chapter_id is required", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		errorResponse(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".xlsx"
	}
	tmp, err := os.CreateTemp("", "import-*"+ext)
	if err != nil {
		log.Printf("Error creating temp file: %v", err)
		errorResponse(w, "failed to store upload", http.StatusInternalServerError)
		return
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		log.Printf("Error saving upload: %v", err)
		errorResponse(w, "failed to store upload", http.StatusInternalServerError)
		return
	}
	tmp.Close()

	cfg := excel.DefaultImportConfig()
	cfg.FilePath = tmp.Name()
	cfg.ChapterID = chapterID

	importer := excel.NewImporter(h.store)
	result, err := importer.ImportQuestions(r.Context(), cfg)
	if err != nil {
		log.Printf("Error importing questions: %v", err)
		errorResponse(w, "import failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	jsonResponse(w, result, http.StatusOK)
}
