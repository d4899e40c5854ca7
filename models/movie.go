package models

const (
	// MaxDisplayGenres caps how many genre names a movie carries for display.
	MaxDisplayGenres = 3
	// MaxCastNames caps the credited cast list.
	MaxCastNames = 5
)

// Streaming flags which of the supported flatrate providers carry the movie.
type Streaming struct {
	Netflix bool `json:"netflix"`
	Amazon  bool `json:"amazon"`
	Disney  bool `json:"disney"`
}

// Movie is an ephemeral catalog record. It is fetched on demand and embedded
// verbatim into swipe payloads and match snapshots. The three rating sources
// are independently nullable: an absent upstream rating stays absent instead
// of degrading to zero.
type Movie struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Poster         string    `json:"poster,omitempty"`
	Overview       string    `json:"overview,omitempty"`
	ReleaseDate    string    `json:"releaseDate,omitempty"`
	Genres         []string  `json:"genres,omitempty"`
	TMDBRating     *float64  `json:"tmdbRating,omitempty"`
	IMDBRating     *float64  `json:"imdbRating,omitempty"`
	RottenTomatoes string    `json:"rottenTomatoes,omitempty"`
	Streaming      Streaming `json:"streaming"`
	Cast           []string  `json:"cast,omitempty"`
	Trailer        string    `json:"trailer,omitempty"`
}

// Clone returns a deep copy of the movie.
func (m Movie) Clone() Movie {
	c := m
	c.Genres = append([]string(nil), m.Genres...)
	c.Cast = append([]string(nil), m.Cast...)
	if m.TMDBRating != nil {
		v := *m.TMDBRating
		c.TMDBRating = &v
	}
	if m.IMDBRating != nil {
		v := *m.IMDBRating
		c.IMDBRating = &v
	}
	return c
}
