package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"reelmatch/models"
	catalogsvc "reelmatch/services/catalog"
	recommendsvc "reelmatch/services/recommend"
	swipesvc "reelmatch/services/swipes"
)

type feedSelector interface {
	Feed(ctx context.Context, user *models.User, page int) []models.Movie
}

type userSnapshotter interface {
	User(userID string) (*models.User, error)
}

type movieDetailer interface {
	Details(ctx context.Context, movieID int64) (*models.Movie, error)
}

// MoviesHandler serves the personalized feed and single-movie lookups.
type MoviesHandler struct {
	Selector feedSelector
	Users    userSnapshotter
	Catalog  movieDetailer
}

var (
	_ feedSelector    = (*recommendsvc.Selector)(nil)
	_ userSnapshotter = (*swipesvc.Service)(nil)
	_ movieDetailer   = (*catalogsvc.Service)(nil)
)

func NewMoviesHandler(selector feedSelector, users userSnapshotter, catalog movieDetailer) *MoviesHandler {
	return &MoviesHandler{Selector: selector, Users: users, Catalog: catalog}
}

// Feed returns the ranked candidate list for one user and logical page.
// An empty movies list tells the client to advance to the next page.
func (h *MoviesHandler) Feed(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = models.UserOneID
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	user, err := h.Users.User(userID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user")
		return
	}

	movies := h.Selector.Feed(r.Context(), user, page)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"movies":  movies,
	})
}

// Details returns the full record for one movie. Upstream trouble degrades
// to a null movie rather than a failed response.
func (h *MoviesHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid movie id")
		return
	}

	movie, err := h.Catalog.Details(r.Context(), id)
	if err != nil {
		log.Printf("[http] movie %d details unavailable: %v", id, err)
		movie = nil
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"movie":   movie,
	})
}
