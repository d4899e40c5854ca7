package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"reelmatch/models"
	swipesvc "reelmatch/services/swipes"
)

type userService interface {
	User(userID string) (*models.User, error)
	RenameUser(userID, name string) error
}

// UsersHandler reads and renames the two fixed users.
type UsersHandler struct {
	Service userService
}

var _ userService = (*swipesvc.Service)(nil)

func NewUsersHandler(s userService) *UsersHandler {
	return &UsersHandler{Service: s}
}

// Get returns one user's profile.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	user, err := h.Service.User(userID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

// Rename updates a user's display name.
func (h *UsersHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
		Name   string `json:"name"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Service.RenameUser(request.UserID, request.Name); err != nil {
		if errors.Is(err, swipesvc.ErrInvalidUser) {
			writeError(w, http.StatusBadRequest, "Invalid user")
			return
		}
		log.Printf("[http] rename of %s failed: %v", request.UserID, err)
		writeError(w, http.StatusInternalServerError, "failed to rename user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
