// Package performance serves per-fund time series with summary statistics,
// backed by a msgpack series cache so repeated chart loads skip regeneration.
package performance

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/corgilabs/bufferscope/internal/database"
	"github.com/corgilabs/bufferscope/internal/modules/funds"
)

// Repository persists generated series in the cache database, keyed by
// ticker. Rows carry the as-of date they were generated for; a row for a
// different as-of is treated as a miss.
type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewRepository creates a new series cache repository
func NewRepository(db *database.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "performance").Logger(),
	}
}

// Get returns the cached series for a ticker, or ok=false on a miss.
func (r *Repository) Get(ticker, asOf string) ([]funds.TimeSeriesPoint, bool, error) {
	var storedAsOf string
	var blob []byte

	err := r.db.QueryRow(
		"SELECT as_of, points FROM fund_series WHERE ticker = ?",
		ticker,
	).Scan(&storedAsOf, &blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached series for %s: %w", ticker, err)
	}

	if storedAsOf != asOf {
		return nil, false, nil
	}

	var points []funds.TimeSeriesPoint
	if err := msgpack.Unmarshal(blob, &points); err != nil {
		// A corrupt blob is a miss; the caller regenerates and overwrites.
		r.log.Warn().Err(err).Str("ticker", ticker).Msg("Discarding undecodable cached series")
		return nil, false, nil
	}

	return points, true, nil
}

// Put stores a series, replacing any previous row for the ticker.
func (r *Repository) Put(ticker, asOf string, points []funds.TimeSeriesPoint) error {
	blob, err := msgpack.Marshal(points)
	if err != nil {
		return fmt.Errorf("failed to encode series for %s: %w", ticker, err)
	}

	_, err = r.db.Exec(`
		INSERT INTO fund_series (ticker, as_of, points, generated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(ticker) DO UPDATE SET
			as_of = excluded.as_of,
			points = excluded.points,
			generated_at = excluded.generated_at`,
		ticker, asOf, blob, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to cache series for %s: %w", ticker, err)
	}
	return nil
}

// PurgeStale removes rows generated for a different as-of date.
func (r *Repository) PurgeStale(asOf string) (int64, error) {
	res, err := r.db.Exec("DELETE FROM fund_series WHERE as_of != ?", asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to purge stale series: %w", err)
	}
	return res.RowsAffected()
}
