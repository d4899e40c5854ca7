package swipes_test

import (
	"errors"
	"testing"
	"time"

	"reelmatch/models"
	"reelmatch/services/swipes"
)

// memStore keeps the snapshot in memory and can be told to fail writes.
type memStore struct {
	state    *models.AppState
	saves    int
	failSave error
}

func (s *memStore) Load() (*models.AppState, error) {
	if s.state == nil {
		return models.DefaultAppState(), nil
	}
	return s.state.Clone(), nil
}

func (s *memStore) Save(st *models.AppState) error {
	if s.failSave != nil {
		return s.failSave
	}
	s.saves++
	s.state = st.Clone()
	return nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newService(t *testing.T) (*swipes.Service, *memStore, *fakeClock) {
	t.Helper()
	store := &memStore{}
	clock := &fakeClock{now: time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)}
	svc, err := swipes.NewServiceWithClock(store, swipes.DefaultMatchTTL, clock.Now)
	if err != nil {
		t.Fatalf("NewServiceWithClock() error = %v", err)
	}
	return svc, store, clock
}

func drama(id int64, rating float64) models.Movie {
	return models.Movie{ID: id, Title: "Movie", Genres: []string{"Drama"}, TMDBRating: &rating}
}

func TestRecordSwipeRejectsUnknownUser(t *testing.T) {
	svc, store, _ := newService(t)

	_, err := svc.RecordSwipe("user3", 1, models.ActionLike, drama(1, 7.0))
	if !errors.Is(err, swipes.ErrInvalidUser) {
		t.Fatalf("error = %v, want ErrInvalidUser", err)
	}
	if store.saves != 0 {
		t.Fatalf("saves = %d, want 0 (no state change)", store.saves)
	}
}

func TestRecordSwipeRejectsUnknownAction(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.RecordSwipe(models.UserOneID, 1, "superlike", drama(1, 7.0))
	if !errors.Is(err, swipes.ErrUnknownAction) {
		t.Fatalf("error = %v, want ErrUnknownAction", err)
	}
}

func TestFirstClassificationWins(t *testing.T) {
	svc, _, _ := newService(t)

	if res, err := svc.RecordSwipe(models.UserOneID, 5, models.ActionPass, drama(5, 7.0)); err != nil || !res.Accepted {
		t.Fatalf("first pass: res=%+v err=%v", res, err)
	}

	// A conflicting like must not move the movie between sets nor touch
	// the preference model.
	res, err := svc.RecordSwipe(models.UserOneID, 5, models.ActionLike, drama(5, 7.0))
	if err != nil {
		t.Fatalf("conflicting like: %v", err)
	}
	if res.Accepted {
		t.Fatalf("conflicting reclassification was accepted")
	}

	user, err := svc.User(models.UserOneID)
	if err != nil {
		t.Fatalf("User() error = %v", err)
	}
	if !user.HasPassed(5) || user.HasLiked(5) {
		t.Fatalf("movie moved between sets: liked=%v passed=%v", user.Liked, user.Passed)
	}
	if len(user.Preferences.GenreWeights) != 0 {
		t.Fatalf("preferences updated on rejected swipe: %v", user.Preferences.GenreWeights)
	}
}

func TestIdempotentReplayLeavesStateAlone(t *testing.T) {
	svc, _, _ := newService(t)

	if _, err := svc.RecordSwipe(models.UserOneID, 5, models.ActionLike, drama(5, 7.0)); err != nil {
		t.Fatalf("first like: %v", err)
	}
	res, err := svc.RecordSwipe(models.UserOneID, 5, models.ActionLike, drama(5, 7.0))
	if err != nil {
		t.Fatalf("replayed like: %v", err)
	}
	if res.Accepted {
		t.Fatalf("replay reported accepted")
	}

	user, _ := svc.User(models.UserOneID)
	if len(user.Liked) != 1 {
		t.Fatalf("liked set = %v, want a single entry", user.Liked)
	}
	if got := user.Preferences.GenreWeights["Drama"]; got != 1.0 {
		t.Fatalf("Drama weight = %v, want 1.0 (replay must not re-apply)", got)
	}
}

func TestMutualLikeCreatesExactlyOneMatch(t *testing.T) {
	svc, _, _ := newService(t)

	res, err := svc.RecordSwipe(models.UserOneID, 7, models.ActionLike, drama(7, 8.0))
	if err != nil || res.IsMatch {
		t.Fatalf("first like: res=%+v err=%v", res, err)
	}

	res, err = svc.RecordSwipe(models.UserTwoID, 7, models.ActionLike, drama(7, 8.0))
	if err != nil {
		t.Fatalf("second like: %v", err)
	}
	if !res.IsMatch {
		t.Fatalf("mutual like did not report a match")
	}

	matches, err := svc.ActiveMatches()
	if err != nil {
		t.Fatalf("ActiveMatches() error = %v", err)
	}
	if len(matches) != 1 || matches[0].MovieID != 7 {
		t.Fatalf("matches = %+v, want one match on movie 7", matches)
	}
	if matches[0].ID == "" {
		t.Fatalf("match has no identifier")
	}

	// Liking again while the match is live must not duplicate it.
	res, err = svc.RecordSwipe(models.UserOneID, 7, models.ActionLike, drama(7, 8.0))
	if err != nil {
		t.Fatalf("replayed like: %v", err)
	}
	if res.IsMatch {
		t.Fatalf("replay against a live match reported IsMatch")
	}
	matches, _ = svc.ActiveMatches()
	if len(matches) != 1 {
		t.Fatalf("match duplicated: %+v", matches)
	}
}

func TestMatchExpiryAndRematch(t *testing.T) {
	svc, _, clock := newService(t)

	svc.RecordSwipe(models.UserOneID, 7, models.ActionLike, drama(7, 8.0))
	res, _ := svc.RecordSwipe(models.UserTwoID, 7, models.ActionLike, drama(7, 8.0))
	if !res.IsMatch {
		t.Fatalf("expected initial match")
	}

	clock.Advance(swipes.DefaultMatchTTL + time.Minute)

	matches, err := svc.ActiveMatches()
	if err != nil {
		t.Fatalf("ActiveMatches() error = %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expired match still listed: %+v", matches)
	}

	// Both users already have the movie in their liked sets; a replayed
	// like re-creates the match because the old one is no longer live.
	res, err = svc.RecordSwipe(models.UserOneID, 7, models.ActionLike, drama(7, 8.0))
	if err != nil {
		t.Fatalf("post-expiry like: %v", err)
	}
	if !res.IsMatch {
		t.Fatalf("post-expiry mutual like did not re-match")
	}

	matches, _ = svc.ActiveMatches()
	if len(matches) != 1 {
		t.Fatalf("matches after re-match = %+v, want exactly one", matches)
	}
	if got := matches[0].CreatedAt; !got.Equal(clock.Now()) {
		t.Fatalf("re-match timestamp = %v, want fresh %v", got, clock.Now())
	}
}

func TestExpiredButUnpurgedMatchDoesNotBlockRematch(t *testing.T) {
	svc, store, clock := newService(t)

	svc.RecordSwipe(models.UserOneID, 7, models.ActionLike, drama(7, 8.0))
	svc.RecordSwipe(models.UserTwoID, 7, models.ActionLike, drama(7, 8.0))

	clock.Advance(swipes.DefaultMatchTTL + time.Minute)

	// No ActiveMatches call in between: the expired record is still stored.
	res, err := svc.RecordSwipe(models.UserOneID, 7, models.ActionLike, drama(7, 8.0))
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if !res.IsMatch {
		t.Fatalf("expired leftover blocked a re-match")
	}

	// Storage holds exactly one record for the movie.
	count := 0
	for _, m := range store.state.Matches {
		if m.MovieID == 7 {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("stored matches for movie 7 = %d, want 1", count)
	}
}

func TestMatchesSinceIsPure(t *testing.T) {
	svc, store, clock := newService(t)

	svc.RecordSwipe(models.UserOneID, 7, models.ActionLike, drama(7, 8.0))
	svc.RecordSwipe(models.UserTwoID, 7, models.ActionLike, drama(7, 8.0))
	firstMatchAt := clock.Now()

	clock.Advance(time.Hour)
	svc.RecordSwipe(models.UserOneID, 8, models.ActionLike, drama(8, 8.0))
	svc.RecordSwipe(models.UserTwoID, 8, models.ActionLike, drama(8, 8.0))

	fresh := svc.MatchesSince(firstMatchAt)
	if len(fresh) != 1 || fresh[0].MovieID != 8 {
		t.Fatalf("MatchesSince = %+v, want only movie 8", fresh)
	}

	// Polling past the TTL must hide expired matches without purging them.
	savesBefore := store.saves
	clock.Advance(swipes.DefaultMatchTTL)
	if fresh := svc.MatchesSince(time.Time{}); len(fresh) != 0 {
		t.Fatalf("MatchesSince returned expired matches: %+v", fresh)
	}
	if store.saves != savesBefore {
		t.Fatalf("poll persisted state (saves %d -> %d)", savesBefore, store.saves)
	}
	if len(store.state.Matches) != 2 {
		t.Fatalf("poll purged storage: %+v", store.state.Matches)
	}
}

func TestPersistenceFailureRollsBack(t *testing.T) {
	svc, store, _ := newService(t)

	store.failSave = errors.New("disk full")
	_, err := svc.RecordSwipe(models.UserOneID, 5, models.ActionLike, drama(5, 7.0))
	if err == nil {
		t.Fatalf("swipe reported success despite failed persistence")
	}

	store.failSave = nil
	user, _ := svc.User(models.UserOneID)
	if user.Seen(5) {
		t.Fatalf("failed swipe left state behind: %+v", user)
	}
	if len(user.Preferences.GenreWeights) != 0 {
		t.Fatalf("failed swipe left preferences behind: %v", user.Preferences.GenreWeights)
	}
}

func TestRenameUserPersists(t *testing.T) {
	svc, store, _ := newService(t)

	if err := svc.RenameUser(models.UserOneID, "Alex"); err != nil {
		t.Fatalf("RenameUser() error = %v", err)
	}
	if got := store.state.Users[models.UserOneID].Name; got != "Alex" {
		t.Fatalf("persisted name = %q, want Alex", got)
	}

	if err := svc.RenameUser("user9", "X"); !errors.Is(err, swipes.ErrInvalidUser) {
		t.Fatalf("rename of unknown user: error = %v, want ErrInvalidUser", err)
	}
}
