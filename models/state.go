package models

// AppState is the whole of the service's durable state: the two users plus
// the match list. It is persisted as a single JSON snapshot after every
// mutating operation and loaded once at startup.
type AppState struct {
	Users   map[string]*User `json:"users"`
	Matches []Match          `json:"matches"`
}

// DefaultAppState builds the first-run state: two placeholder users, no
// history, no matches.
func DefaultAppState() *AppState {
	return &AppState{
		Users: map[string]*User{
			UserOneID: {Name: UserOneDefaultName},
			UserTwoID: {Name: UserTwoDefaultName},
		},
		Matches: []Match{},
	}
}

// User looks up a user by ID.
func (s *AppState) User(userID string) (*User, bool) {
	u, ok := s.Users[userID]
	return u, ok
}

// Clone returns a deep copy used to roll back in-memory state when a
// persistence attempt fails.
func (s *AppState) Clone() *AppState {
	c := &AppState{
		Users:   make(map[string]*User, len(s.Users)),
		Matches: make([]Match, len(s.Matches)),
	}
	for id, u := range s.Users {
		c.Users[id] = u.Clone()
	}
	for i, m := range s.Matches {
		m.Movie = m.Movie.Clone()
		c.Matches[i] = m
	}
	return c
}
