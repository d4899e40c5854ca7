package recommend

import (
	"math"

	"reelmatch/models"
)

// Score rates how desirable a candidate movie is for a user. Pure function;
// scores only order candidates within one request, they carry no absolute
// meaning.
//
// Two additive terms: shared genres contribute up to 50 (each shared genre
// adds its share of the user's total genre weight, scaled by 50), and rating
// proximity contributes (10 - |rating - affinity|) * 5, which goes negative
// for movies far from the user's historical average.
func Score(user *models.User, movie models.Movie) float64 {
	score := 0.0

	if len(movie.Genres) > 0 && len(user.Preferences.GenreWeights) > 0 {
		total := 0.0
		for _, w := range user.Preferences.GenreWeights {
			total += w
		}
		for _, genre := range movie.Genres {
			if w, ok := user.Preferences.GenreWeights[genre]; ok {
				score += (w / total) * 50
			}
		}
	}

	if movie.TMDBRating != nil && user.Preferences.AvgRating != 0 {
		diff := math.Abs(*movie.TMDBRating - user.Preferences.AvgRating)
		score += (10 - diff) * 5
	}

	return score
}
