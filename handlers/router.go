package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires every API route. The browser client is served from a
// separate origin, so CORS stays permissive.
func NewRouter(movies *MoviesHandler, swipe *SwipeHandler, matches *MatchesHandler, users *UsersHandler) *mux.Router {
	r := mux.NewRouter()
	r.Use(corsMiddleware)

	// Preflight requests never match the method-restricted routes below, so
	// they get their own catch-all.
	r.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/movies", movies.Feed).Methods(http.MethodGet)
	api.HandleFunc("/movie", movies.Details).Methods(http.MethodGet)
	api.HandleFunc("/swipe", swipe.Record).Methods(http.MethodPost)
	api.HandleFunc("/matches", matches.List).Methods(http.MethodGet)
	api.HandleFunc("/matches/poll", matches.Poll).Methods(http.MethodGet)
	api.HandleFunc("/user", users.Get).Methods(http.MethodGet)
	api.HandleFunc("/user", users.Rename).Methods(http.MethodPost)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
