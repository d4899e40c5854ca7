package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"reelmatch/models"
	swipesvc "reelmatch/services/swipes"
)

type swipeRecorder interface {
	RecordSwipe(userID string, movieID int64, action models.SwipeAction, snapshot models.Movie) (swipesvc.SwipeResult, error)
}

// SwipeHandler records swipe decisions.
type SwipeHandler struct {
	Service swipeRecorder
}

var _ swipeRecorder = (*swipesvc.Service)(nil)

func NewSwipeHandler(s swipeRecorder) *SwipeHandler {
	return &SwipeHandler{Service: s}
}

// Record accepts one swipe and reports whether it produced a match.
func (h *SwipeHandler) Record(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID  string             `json:"userId"`
		MovieID int64              `json:"movieId"`
		Action  models.SwipeAction `json:"action"`
		Movie   models.Movie       `json:"movieData"`
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.Service.RecordSwipe(request.UserID, request.MovieID, request.Action, request.Movie)
	if err != nil {
		switch {
		case errors.Is(err, swipesvc.ErrInvalidUser):
			writeError(w, http.StatusBadRequest, "Invalid user")
		case errors.Is(err, swipesvc.ErrUnknownAction):
			writeError(w, http.StatusBadRequest, "Invalid action")
		default:
			log.Printf("[http] swipe by %s on %d failed: %v", request.UserID, request.MovieID, err)
			writeError(w, http.StatusInternalServerError, "failed to record swipe")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"accepted": result.Accepted,
		"isMatch":  result.IsMatch,
	})
}
