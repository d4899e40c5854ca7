package models

const (
	// UserOneID and UserTwoID are the two fixed profile identifiers.
	UserOneID = "user1"
	UserTwoID = "user2"

	// Placeholder names used until an owner renames their profile.
	UserOneDefaultName = "User 1"
	UserTwoDefaultName = "User 2"
)

// OtherUser returns the partner of a known user ID, or "" for anything else.
func OtherUser(userID string) string {
	switch userID {
	case UserOneID:
		return UserTwoID
	case UserTwoID:
		return UserOneID
	}
	return ""
}

// SwipeAction classifies a single swipe decision.
type SwipeAction string

const (
	ActionLike    SwipeAction = "like"
	ActionPass    SwipeAction = "pass"
	ActionWatched SwipeAction = "watched"
)

// Valid reports whether the action is one of the three known decisions.
func (a SwipeAction) Valid() bool {
	return a == ActionLike || a == ActionPass || a == ActionWatched
}

// Preferences accumulates a user's taste profile from their positive swipes.
type Preferences struct {
	// GenreWeights maps genre name to accumulated swipe weight.
	GenreWeights map[string]float64 `json:"genres"`
	// AvgRating is the running weighted mean of liked/watched movie ratings.
	AvgRating float64 `json:"avgRating"`
}

// User models one of the two swiping profiles.
// A movie ID lives in at most one of Liked, Passed, Watched; the first
// classification wins and later conflicting swipes are no-ops.
type User struct {
	Name        string      `json:"name"`
	Liked       []int64     `json:"liked"`
	Passed      []int64     `json:"passed"`
	Watched     []int64     `json:"watched"`
	Preferences Preferences `json:"preferences"`
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// HasLiked reports whether the user has liked the movie.
func (u *User) HasLiked(movieID int64) bool { return containsID(u.Liked, movieID) }

// HasPassed reports whether the user has passed on the movie.
func (u *User) HasPassed(movieID int64) bool { return containsID(u.Passed, movieID) }

// HasWatched reports whether the user has marked the movie as watched.
func (u *User) HasWatched(movieID int64) bool { return containsID(u.Watched, movieID) }

// Seen reports whether the movie sits in any of the three swipe sets.
func (u *User) Seen(movieID int64) bool {
	return u.HasLiked(movieID) || u.HasPassed(movieID) || u.HasWatched(movieID)
}

// WeightedCount is the preference-model denominator: likes count fully,
// watched entries count half.
func (u *User) WeightedCount() float64 {
	return float64(len(u.Liked)) + 0.5*float64(len(u.Watched))
}

// Clone returns a deep copy safe to mutate independently.
func (u *User) Clone() *User {
	c := &User{
		Name:    u.Name,
		Liked:   append([]int64(nil), u.Liked...),
		Passed:  append([]int64(nil), u.Passed...),
		Watched: append([]int64(nil), u.Watched...),
		Preferences: Preferences{
			AvgRating: u.Preferences.AvgRating,
		},
	}
	if u.Preferences.GenreWeights != nil {
		c.Preferences.GenreWeights = make(map[string]float64, len(u.Preferences.GenreWeights))
		for k, v := range u.Preferences.GenreWeights {
			c.Preferences.GenreWeights[k] = v
		}
	}
	return c
}
