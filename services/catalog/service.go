// Package catalog talks to the upstream movie providers (TMDB, OMDB) and
// presents the engine with ready-to-rank movie records. Upstream trouble is
// absorbed here: a failed call degrades to fewer or less-enriched results,
// never into an error the engine has to handle.
package catalog

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"reelmatch/internal/database"
	"reelmatch/models"
)

// DefaultCacheTTL bounds how long a cached enrichment payload stays fresh.
const DefaultCacheTTL = 24 * time.Hour

// EnrichmentCache stores fetched enrichment payloads keyed by movie ID.
type EnrichmentCache interface {
	Get(ctx context.Context, movieID int64) (payload []byte, fetchedAt time.Time, ok bool, err error)
	Put(ctx context.Context, movieID int64, payload []byte, fetchedAt time.Time) error
}

var _ EnrichmentCache = (*database.EnrichmentRepository)(nil)

// Enrichment carries the per-movie extras resolved outside the popular
// listing: external ratings, streaming availability, cast and trailer.
type Enrichment struct {
	IMDBRating     *float64         `json:"imdbRating,omitempty"`
	RottenTomatoes string           `json:"rottenTomatoes,omitempty"`
	Streaming      models.Streaming `json:"streaming"`
	Cast           []string         `json:"cast,omitempty"`
	Trailer        string           `json:"trailer,omitempty"`
}

// Service is the catalog facade the engine consumes.
type Service struct {
	tmdb     *TMDBClient
	omdb     *OMDBClient
	cache    EnrichmentCache
	cacheTTL time.Duration
	now      func() time.Time

	genreMu sync.Mutex
	genres  map[int64]string
}

// NewService builds the facade. cache may be nil to disable caching.
func NewService(tmdb *TMDBClient, omdb *OMDBClient, cache EnrichmentCache, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &Service{
		tmdb:     tmdb,
		omdb:     omdb,
		cache:    cache,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// PopularPage fetches one upstream page of popular movies with genre IDs
// already mapped to display names. On upstream failure it returns an empty
// page.
func (s *Service) PopularPage(ctx context.Context, page int) []models.Movie {
	entries, err := s.tmdb.PopularPage(ctx, page)
	if err != nil {
		log.Printf("[catalog] popular page %d unavailable: %v", page, err)
		return nil
	}

	movies := make([]models.Movie, 0, len(entries))
	for _, e := range entries {
		movies = append(movies, models.Movie{
			ID:          e.ID,
			Title:       e.Title,
			Poster:      PosterURL(e.PosterPath),
			Overview:    e.Overview,
			ReleaseDate: e.ReleaseDate,
			Genres:      s.genreNames(ctx, e.GenreIDs),
			TMDBRating:  e.VoteAverage,
		})
	}
	return movies
}

// Enrich resolves the movie's external ratings, streaming flags, cast and
// trailer, returning an enriched copy. Failed lookups leave the affected
// fields empty.
func (s *Service) Enrich(ctx context.Context, movie models.Movie) models.Movie {
	e := s.enrichment(ctx, movie.ID)
	movie.IMDBRating = e.IMDBRating
	movie.RottenTomatoes = e.RottenTomatoes
	movie.Streaming = e.Streaming
	movie.Cast = e.Cast
	movie.Trailer = e.Trailer
	return movie
}

// Details fetches the full single-movie record including enrichment.
func (s *Service) Details(ctx context.Context, movieID int64) (*models.Movie, error) {
	details, err := s.tmdb.Details(ctx, movieID)
	if err != nil {
		return nil, err
	}

	genres := make([]string, 0, models.MaxDisplayGenres)
	for _, g := range details.Genres {
		if len(genres) == models.MaxDisplayGenres {
			break
		}
		genres = append(genres, g.Name)
	}

	movie := models.Movie{
		ID:          details.ID,
		Title:       details.Title,
		Poster:      PosterURL(details.PosterPath),
		Overview:    details.Overview,
		ReleaseDate: details.ReleaseDate,
		Genres:      genres,
		TMDBRating:  details.VoteAverage,
	}
	movie = s.Enrich(ctx, movie)
	return &movie, nil
}

func (s *Service) enrichment(ctx context.Context, movieID int64) Enrichment {
	if cached, ok := s.cachedEnrichment(ctx, movieID); ok {
		return cached
	}

	var e Enrichment

	// The OMDB lookup needs the IMDB ID first; the rest fan out together.
	imdbID, err := s.tmdb.IMDBID(ctx, movieID)
	if err != nil {
		log.Printf("[catalog] external ids for %d unavailable: %v", movieID, err)
	}

	var wg conc.WaitGroup
	wg.Go(func() {
		rating, rt, err := s.omdb.Ratings(ctx, imdbID)
		if err != nil {
			log.Printf("[catalog] omdb ratings for %s unavailable: %v", imdbID, err)
			return
		}
		e.IMDBRating = rating
		e.RottenTomatoes = rt
	})
	wg.Go(func() {
		netflix, amazon, disney, err := s.tmdb.StreamingFlags(ctx, movieID)
		if err != nil {
			log.Printf("[catalog] providers for %d unavailable: %v", movieID, err)
			return
		}
		e.Streaming = models.Streaming{Netflix: netflix, Amazon: amazon, Disney: disney}
	})
	wg.Go(func() {
		cast, err := s.tmdb.TopCast(ctx, movieID, models.MaxCastNames)
		if err != nil {
			log.Printf("[catalog] credits for %d unavailable: %v", movieID, err)
			return
		}
		e.Cast = cast
	})
	wg.Go(func() {
		trailer, err := s.tmdb.TrailerURL(ctx, movieID)
		if err != nil {
			log.Printf("[catalog] videos for %d unavailable: %v", movieID, err)
			return
		}
		e.Trailer = trailer
	})
	wg.Wait()

	s.storeEnrichment(ctx, movieID, e)
	return e
}

func (s *Service) cachedEnrichment(ctx context.Context, movieID int64) (Enrichment, bool) {
	if s.cache == nil {
		return Enrichment{}, false
	}
	payload, fetchedAt, ok, err := s.cache.Get(ctx, movieID)
	if err != nil {
		log.Printf("[catalog] cache read for %d failed: %v", movieID, err)
		return Enrichment{}, false
	}
	if !ok || s.now().Sub(fetchedAt) > s.cacheTTL {
		return Enrichment{}, false
	}

	var e Enrichment
	if err := json.Unmarshal(payload, &e); err != nil {
		log.Printf("[catalog] cache entry for %d corrupt: %v", movieID, err)
		return Enrichment{}, false
	}
	return e, true
}

func (s *Service) storeEnrichment(ctx context.Context, movieID int64, e Enrichment) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := s.cache.Put(ctx, movieID, payload, s.now()); err != nil {
		log.Printf("[catalog] cache write for %d failed: %v", movieID, err)
	}
}

// genreNames maps TMDB genre IDs to names, capped for display. The genre
// table is fetched once and reused; when it is unavailable the movie goes
// out without genres rather than with raw IDs.
func (s *Service) genreNames(ctx context.Context, ids []int64) []string {
	if len(ids) == 0 {
		return nil
	}

	s.genreMu.Lock()
	if s.genres == nil {
		genres, err := s.tmdb.GenreList(ctx)
		if err != nil {
			s.genreMu.Unlock()
			log.Printf("[catalog] genre list unavailable: %v", err)
			return nil
		}
		s.genres = genres
	}
	table := s.genres
	s.genreMu.Unlock()

	names := make([]string, 0, models.MaxDisplayGenres)
	for _, id := range ids {
		if len(names) == models.MaxDisplayGenres {
			break
		}
		if name, ok := table[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
