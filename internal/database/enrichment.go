package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// EnrichmentRepository stores one cached enrichment payload per movie ID.
// Freshness is the caller's concern; the repository only records when a
// payload was fetched.
type EnrichmentRepository struct {
	db *sql.DB
}

// NewEnrichmentRepository creates a repository over an open connection.
func NewEnrichmentRepository(db *sql.DB) *EnrichmentRepository {
	return &EnrichmentRepository{db: db}
}

// Get returns the cached payload for a movie, with ok=false when absent.
func (r *EnrichmentRepository) Get(ctx context.Context, movieID int64) (payload []byte, fetchedAt time.Time, ok bool, err error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM enrichment_cache WHERE movie_id = ?`, movieID)

	var raw string
	if err := row.Scan(&raw, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, false, nil
		}
		return nil, time.Time{}, false, fmt.Errorf("query enrichment cache: %w", err)
	}
	return []byte(raw), fetchedAt, true, nil
}

// Put inserts or replaces the cached payload for a movie.
func (r *EnrichmentRepository) Put(ctx context.Context, movieID int64, payload []byte, fetchedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO enrichment_cache (movie_id, payload, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(movie_id) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		movieID, string(payload), fetchedAt)
	if err != nil {
		return fmt.Errorf("store enrichment cache entry: %w", err)
	}
	return nil
}
