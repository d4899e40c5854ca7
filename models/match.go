package models

import "time"

// Match records a movie both users liked. The Movie snapshot is frozen at
// match time so the match list survives catalog drift. At most one match is
// stored per movie ID at any time; once a match expires and is replaced or
// purged, a fresh mutual like creates a new record with a new timestamp.
type Match struct {
	ID        string    `json:"id"`
	MovieID   int64     `json:"movieId"`
	Movie     Movie     `json:"movieData"`
	CreatedAt time.Time `json:"timestamp"`
}

// Expired reports whether the match has outlived the given TTL at time now.
func (m Match) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(m.CreatedAt) > ttl
}
