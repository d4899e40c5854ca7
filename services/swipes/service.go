// Package swipes owns the application state: the swipe ledger, mutual-like
// match detection and the match lifecycle. Every read-modify-write runs as
// one critical section behind a single mutex, and every mutation persists
// the full state before the call reports success.
package swipes

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"reelmatch/models"
	"reelmatch/services/recommend"
)

var (
	// ErrInvalidUser rejects operations naming an unknown user ID.
	ErrInvalidUser = errors.New("invalid user")
	// ErrUnknownAction rejects swipe actions outside like/pass/watched.
	ErrUnknownAction = errors.New("unknown swipe action")
)

// DefaultMatchTTL is how long a match stays live.
const DefaultMatchTTL = 48 * time.Hour

// StateStore abstracts the durable snapshot of the application state.
type StateStore interface {
	Load() (*models.AppState, error)
	Save(*models.AppState) error
}

// SwipeResult reports the outcome of one recorded swipe.
type SwipeResult struct {
	// Accepted is true when the swipe changed the ledger; replays and
	// conflicting reclassifications leave it false.
	Accepted bool `json:"accepted"`
	// IsMatch is true only when this call created a match.
	IsMatch bool `json:"isMatch"`
}

// Service guards the state behind one lock.
type Service struct {
	mu    sync.Mutex
	store StateStore
	state *models.AppState
	ttl   time.Duration
	now   func() time.Time
}

// NewService loads the snapshot (or starts fresh) with the default TTL.
func NewService(store StateStore) (*Service, error) {
	return NewServiceWithClock(store, DefaultMatchTTL, time.Now)
}

// NewServiceWithClock injects the TTL and clock, used by tests and by main
// when the TTL is configured.
func NewServiceWithClock(store StateStore, ttl time.Duration, now func() time.Time) (*Service, error) {
	st, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultMatchTTL
	}
	return &Service{store: store, state: st, ttl: ttl, now: now}, nil
}

// RecordSwipe records one decision. First classification wins: a repeat of
// the same action is idempotent, a conflicting action is a no-op. First-time
// likes and watched events feed the preference model. The match check runs
// on every like, replays included, so a match missed earlier (the partner
// liked after the first swipe) is still created; against an already-live
// match it reports IsMatch=false.
func (s *Service) RecordSwipe(userID string, movieID int64, action models.SwipeAction, snapshot models.Movie) (SwipeResult, error) {
	if !action.Valid() {
		return SwipeResult{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.state.User(userID)
	if !ok {
		return SwipeResult{}, fmt.Errorf("%w: %q", ErrInvalidUser, userID)
	}

	prev := s.state.Clone()
	var result SwipeResult

	if !user.Seen(movieID) {
		result.Accepted = true
		switch action {
		case models.ActionLike:
			user.Liked = append(user.Liked, movieID)
			recommend.UpdatePreferences(user, snapshot, recommend.LikeWeight)
		case models.ActionPass:
			user.Passed = append(user.Passed, movieID)
		case models.ActionWatched:
			user.Watched = append(user.Watched, movieID)
			recommend.UpdatePreferences(user, snapshot, recommend.WatchedWeight)
		}
	}

	if action == models.ActionLike && user.HasLiked(movieID) {
		result.IsMatch = s.detectMatch(userID, movieID, snapshot)
	}

	if err := s.store.Save(s.state); err != nil {
		s.state = prev
		return SwipeResult{}, fmt.Errorf("persist swipe: %w", err)
	}
	return result, nil
}

// detectMatch creates a match when the partner already liked the movie and
// no live match exists. Expired leftovers for the movie are replaced so at
// most one record per movie ID is ever stored. Caller holds the lock.
func (s *Service) detectMatch(userID string, movieID int64, snapshot models.Movie) bool {
	other, ok := s.state.User(models.OtherUser(userID))
	if !ok || !other.HasLiked(movieID) {
		return false
	}

	now := s.now()
	for _, m := range s.state.Matches {
		if m.MovieID == movieID && !m.Expired(now, s.ttl) {
			return false
		}
	}

	// Drop any expired leftover for this movie before recording the new one.
	kept := make([]models.Match, 0, len(s.state.Matches)+1)
	for _, m := range s.state.Matches {
		if m.MovieID != movieID {
			kept = append(kept, m)
		}
	}
	s.state.Matches = append(kept, models.Match{
		ID:        uuid.NewString(),
		MovieID:   movieID,
		Movie:     snapshot,
		CreatedAt: now,
	})
	log.Printf("[swipes] match on movie %d (%s)", movieID, snapshot.Title)
	return true
}

// ActiveMatches purges every expired match, persists the purge when it
// removed anything, and returns the remaining matches in creation order.
func (s *Service) ActiveMatches() ([]models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	live := make([]models.Match, 0, len(s.state.Matches))
	for _, m := range s.state.Matches {
		if !m.Expired(now, s.ttl) {
			live = append(live, m)
		}
	}

	if len(live) != len(s.state.Matches) {
		prev := s.state.Clone()
		s.state.Matches = live
		if err := s.store.Save(s.state); err != nil {
			s.state = prev
			return nil, fmt.Errorf("persist match purge: %w", err)
		}
	}

	return append([]models.Match(nil), live...), nil
}

// MatchesSince returns the unexpired matches created strictly after since.
// Pure read: polling is frequent and must never trigger a purge write.
func (s *Service) MatchesSince(since time.Time) []models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var fresh []models.Match
	for _, m := range s.state.Matches {
		if m.CreatedAt.After(since) && !m.Expired(now, s.ttl) {
			fresh = append(fresh, m)
		}
	}
	return fresh
}

// User returns a snapshot copy of the user, decoupled from later mutations.
func (s *Service) User(userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.state.User(userID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUser, userID)
	}
	return user.Clone(), nil
}

// RenameUser sets the user's display name and persists it.
func (s *Service) RenameUser(userID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.state.User(userID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidUser, userID)
	}

	prevName := user.Name
	user.Name = name
	if err := s.store.Save(s.state); err != nil {
		user.Name = prevName
		return fmt.Errorf("persist rename: %w", err)
	}
	return nil
}
