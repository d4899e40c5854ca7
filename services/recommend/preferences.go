// Package recommend holds the preference model, the scoring function and
// the candidate feed selector.
package recommend

import "reelmatch/models"

const (
	// LikeWeight and WatchedWeight scale how strongly a swipe moves the
	// profile. Passes never reach the preference model.
	LikeWeight    = 1.0
	WatchedWeight = 0.5
)

// UpdatePreferences folds one positive swipe into the user's profile. It is
// called after the movie has been appended to the relevant swipe set, so the
// user's weighted count already includes the current event.
//
// The rating average is skipped when the movie has no catalog rating or when
// the weighted count is not positive; without that guard a division by zero
// would leak NaN into every future score.
func UpdatePreferences(user *models.User, movie models.Movie, weight float64) {
	if len(movie.Genres) > 0 {
		if user.Preferences.GenreWeights == nil {
			user.Preferences.GenreWeights = make(map[string]float64, len(movie.Genres))
		}
		for _, genre := range movie.Genres {
			user.Preferences.GenreWeights[genre] += weight
		}
	}

	if movie.TMDBRating == nil {
		return
	}
	count := user.WeightedCount()
	if count <= 0 {
		return
	}

	prev := user.Preferences.AvgRating
	user.Preferences.AvgRating = (prev*(count-weight) + *movie.TMDBRating*weight) / count
}
