package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"reelmatch/models"
	swipesvc "reelmatch/services/swipes"
)

type matchLister interface {
	ActiveMatches() ([]models.Match, error)
	MatchesSince(since time.Time) []models.Match
}

// MatchesHandler serves the active match list and the polling endpoint.
type MatchesHandler struct {
	Service matchLister
}

var _ matchLister = (*swipesvc.Service)(nil)

func NewMatchesHandler(s matchLister) *MatchesHandler {
	return &MatchesHandler{Service: s}
}

// List returns every live match, purging expired ones as a side effect.
func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	matches, err := h.Service.ActiveMatches()
	if err != nil {
		log.Printf("[http] match listing failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load matches")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"matches": matches,
	})
}

// Poll returns matches created after the `since` unix-millisecond query
// parameter plus the server timestamp to use on the next poll. Read-only.
func (h *MatchesHandler) Poll(w http.ResponseWriter, r *http.Request) {
	since := time.Time{}
	if raw := r.URL.Query().Get("since"); raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid since timestamp")
			return
		}
		since = time.UnixMilli(ms)
	}

	matches := h.Service.MatchesSince(since)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"matches":   matches,
		"timestamp": time.Now().UnixMilli(),
	})
}
