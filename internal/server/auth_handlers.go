package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/example/quizdeck/internal/auth"
	"github.com/example/quizdeck/pkg/models"
)

type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.auth.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		log.Printf("Sign-up failed for %s: %v", req.Email, err)
		errorResponse(w, auth.Message(err), http.StatusBadRequest)
		return
	}
	jsonResponse(w, authResponse{Token: token, User: user}, http.StatusCreated)
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Printf("Sign-in failed for %s: %v", req.Email, err)
		errorResponse(w, auth.Message(err), http.StatusUnauthorized)
		return
	}
	jsonResponse(w, authResponse{Token: token, User: user}, http.StatusOK)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}

	claims := claimsFrom(r)
	if err := h.auth.UpdateProfile(r.Context(), claims.UserID, req.DisplayName); err != nil {
		errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	jsonResponse(w, map[string]string{"status": "updated"}, http.StatusOK)
}
