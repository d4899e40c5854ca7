package recommend

import (
	"context"
	"sort"
	"time"

	"github.com/sourcegraph/conc/iter"

	"reelmatch/models"
)

const (
	// feedSize bounds how many candidates one feed request enriches and
	// returns.
	feedSize = 10
	// upstreamPageCount is the usable depth of the popular listing.
	upstreamPageCount = 500
)

// Catalog is the slice of the catalog facade the selector needs.
type Catalog interface {
	PopularPage(ctx context.Context, page int) []models.Movie
	Enrich(ctx context.Context, movie models.Movie) models.Movie
}

// Selector turns raw catalog pages into a filtered, scored feed for one
// user. The logical-to-upstream page mapping rotates daily so the same
// logical page surfaces different movies across days, while both users
// asking for the same logical page on the same day still see the same
// upstream page.
type Selector struct {
	catalog Catalog
	now     func() time.Time
}

// NewSelector creates a selector on the real clock.
func NewSelector(catalog Catalog) *Selector {
	return NewSelectorWithClock(catalog, time.Now)
}

// NewSelectorWithClock creates a selector with an injected clock, used by
// tests to pin the rotation offset.
func NewSelectorWithClock(catalog Catalog, now func() time.Time) *Selector {
	return &Selector{catalog: catalog, now: now}
}

// UpstreamPage maps a logical page number to today's upstream page.
func (s *Selector) UpstreamPage(page int) int {
	offset := s.now().YearDay()%feedSize + 1
	return ((page-1)*feedSize+offset)%upstreamPageCount + 1
}

// Feed returns up to feedSize enriched candidates for the user, ranked by
// preference score once the user has any like history. The user value is a
// snapshot taken by the caller; swipes landing mid-request don't shift the
// filter. An empty result means the caller should advance to the next
// logical page.
func (s *Selector) Feed(ctx context.Context, user *models.User, page int) []models.Movie {
	raw := s.catalog.PopularPage(ctx, s.UpstreamPage(page))

	candidates := make([]models.Movie, 0, feedSize)
	for _, movie := range raw {
		if user.Seen(movie.ID) {
			continue
		}
		candidates = append(candidates, movie)
		if len(candidates) == feedSize {
			break
		}
	}

	enriched := iter.Map(candidates, func(movie *models.Movie) models.Movie {
		return s.catalog.Enrich(ctx, *movie)
	})

	if len(user.Liked) > 0 {
		type scoredMovie struct {
			movie models.Movie
			score float64
		}
		ranked := make([]scoredMovie, len(enriched))
		for i, movie := range enriched {
			ranked[i] = scoredMovie{movie: movie, score: Score(user, movie)}
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].score > ranked[j].score
		})
		for i, r := range ranked {
			enriched[i] = r.movie
		}
	}

	return enriched
}
