package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/example/quizdeck/internal/session"
)

type startSessionRequest struct {
	ChapterID string       `json:"chapter_id"`
	TopicID   string       `json:"topic_id"`
	Mode      session.Mode `json:"mode"`
	Limit     int          `json:"limit"`
	Revision  bool         `json:"revision"`
}

// handleStartSession loads the chapter and builds a fresh session. A failed
// load returns an explicit error so the client can retry by calling again.
func (h *Handler) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ChapterID == "" {
		errorResponse(w, "chapter_id is required", http.StatusBadRequest)
		return
	}
	if req.Mode == "" {
		req.Mode = session.ModeAll
	}
	if req.Mode != session.ModeAll && req.Mode != session.ModeBookmarked {
		errorResponse(w, "mode must be \"all\" or \"bookmarked\"", http.StatusBadRequest)
		return
	}
	if req.Limit == 0 {
		req.Limit = h.cfg.DefaultSessionSize
	}
	if req.Limit < session.MinLimit || req.Limit > h.cfg.MaxSessionSize {
		errorResponse(w, fmt.Sprintf("limit must be between 1 and %d", h.cfg.MaxSessionSize), http.StatusBadRequest)
		return
	}

	claims := claimsFrom(r)
	filters := session.Filters{
		TopicID:  req.TopicID,
		Mode:     req.Mode,
		Limit:    req.Limit,
		Revision: req.Revision,
	}
	runner, err := h.sessions.Start(r.Context(), claims.UserID, req.ChapterID, filters)
	if err != nil {
		log.Printf("Error starting session for user %s: %v", claims.UserID, err)
		errorResponse(w, "failed to load chapter, please retry", http.StatusBadGateway)
		return
	}
	jsonResponse(w, runner.State(), http.StatusCreated)
}

// withSession resolves the caller's active session or replies 404
func (h *Handler) withSession(w http.ResponseWriter, r *http.Request) *session.Runner {
	claims := claimsFrom(r)
	runner, err := h.sessions.Get(claims.UserID)
	if err != nil {
		errorResponse(w, "no active session", http.StatusNotFound)
		return nil
	}
	return runner
}

func (h *Handler) handleSessionState(w http.ResponseWriter, r *http.Request) {
	runner := h.withSession(w, r)
	if runner == nil {
		return
	}
	jsonResponse(w, runner.State(), http.StatusOK)
}

func (h *Handler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	h.sessions.End(claims.UserID)
	jsonResponse(w, map[string]string{"status": "ended"}, http.StatusOK)
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	runner := h.withSession(w, r)
	if runner == nil {
		return
	}

	var req struct {
		Option int `json:"option"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := runner.Select(req.Option); err != nil {
		errorResponse(w, err.Error(), http.StatusConflict)
		return
	}
	jsonResponse(w, runner.State(), http.StatusOK)
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	runner := h.withSession(w, r)
	if runner == nil {
		return
	}

	result, err := runner.Check()
	if err != nil {
		status := http.StatusConflict
		if errors.Is(err, session.ErrNoSelection) {
			status = http.StatusBadRequest
		}
		errorResponse(w, err.Error(), status)
		return
	}
	jsonResponse(w, map[string]interface{}{
		"result": result,
		"state":  runner.State(),
	}, http.StatusOK)
}

func (h *Handler) handleNext(w http.ResponseWriter, r *http.Request) {
	runner := h.withSession(w, r)
	if runner == nil {
		return
	}
	if err := runner.Next(); err != nil {
		errorResponse(w, err.Error(), http.StatusConflict)
		return
	}
	jsonResponse(w, runner.State(), http.StatusOK)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	runner := h.withSession(w, r)
	if runner == nil {
		return
	}
	runner.Reset()
	jsonResponse(w, runner.State(), http.StatusOK)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	runner := h.withSession(w, r)
	if runner == nil {
		return
	}
	jsonResponse(w, map[string]interface{}{
		"summary": runner.Summary(),
		"results": runner.Results(),
	}, http.StatusOK)
}

func (h *Handler) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	summaries, err := h.store.Summaries.GetByUser(r.Context(), claims.UserID)
	if err != nil {
		log.Printf("Error loading session history for user %s: %v", claims.UserID, err)
		errorResponse(w, "failed to load session history", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, summaries, http.StatusOK)
}

// handleToggleBookmark flips a bookmark within the active session. On remote
// failure the local set is untouched and the client shows a transient banner.
func (h *Handler) handleToggleBookmark(w http.ResponseWriter, r *http.Request) {
	runner := h.withSession(w, r)
	if runner == nil {
		return
	}

	var req struct {
		QuestionID string `json:"question_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QuestionID == "" {
		errorResponse(w, "question_id is required", http.StatusBadRequest)
		return
	}

	bookmarked, err := runner.ToggleBookmark(r.Context(), req.QuestionID)
	if err != nil {
		log.Printf("Error toggling bookmark: %v", err)
		errorResponse(w, "could not update bookmark, please try again", http.StatusBadGateway)
		return
	}
	jsonResponse(w, map[string]bool{"bookmarked": bookmarked}, http.StatusOK)
}
