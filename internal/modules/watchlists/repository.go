package watchlists

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/corgilabs/bufferscope/internal/database"
)

const timeLayout = "2006-01-02 15:04:05"

// Repository handles watchlist and alert persistence
type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewRepository creates a new watchlist repository
func NewRepository(db *database.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "watchlists").Logger(),
	}
}

// CreateWatchlist inserts a new empty watchlist
func (r *Repository) CreateWatchlist(name string) (*Watchlist, error) {
	now := time.Now().UTC()
	w := &Watchlist{
		ID:        uuid.New().String(),
		Name:      name,
		Tickers:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.db.Exec(
		"INSERT INTO watchlists (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		w.ID, w.Name, now.Format(timeLayout), now.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert watchlist: %w", err)
	}
	return w, nil
}

// GetWatchlists returns all watchlists with their tickers, oldest first
func (r *Repository) GetWatchlists() ([]Watchlist, error) {
	rows, err := r.db.Query("SELECT id, name, created_at, updated_at FROM watchlists ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlists: %w", err)
	}
	defer rows.Close()

	var lists []Watchlist
	for rows.Next() {
		w, err := scanWatchlist(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate watchlists: %w", err)
	}

	for i := range lists {
		tickers, err := r.getTickers(lists[i].ID)
		if err != nil {
			return nil, err
		}
		lists[i].Tickers = tickers
	}
	return lists, nil
}

// GetWatchlist returns one watchlist by id, or nil when absent
func (r *Repository) GetWatchlist(id string) (*Watchlist, error) {
	row := r.db.QueryRow("SELECT id, name, created_at, updated_at FROM watchlists WHERE id = ?", id)

	w, err := scanWatchlist(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	w.Tickers, err = r.getTickers(w.ID)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// RenameWatchlist updates a watchlist's name
func (r *Repository) RenameWatchlist(id, name string) error {
	res, err := r.db.Exec(
		"UPDATE watchlists SET name = ?, updated_at = ? WHERE id = ?",
		name, time.Now().UTC().Format(timeLayout), id,
	)
	if err != nil {
		return fmt.Errorf("failed to rename watchlist: %w", err)
	}
	return requireRowAffected(res, "watchlist", id)
}

// DeleteWatchlist removes a watchlist and retargets its alerts to all funds.
// Ticker rows cascade via the schema.
func (r *Repository) DeleteWatchlist(id string) error {
	return database.WithTransaction(r.db.Conn(), func(tx *sql.Tx) error {
		res, err := tx.Exec("DELETE FROM watchlists WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete watchlist: %w", err)
		}
		if err := requireRowAffected(res, "watchlist", id); err != nil {
			return err
		}

		if _, err := tx.Exec("UPDATE alert_rules SET applied_to = ? WHERE applied_to = ?", AppliedToAll, id); err != nil {
			return fmt.Errorf("failed to retarget alerts: %w", err)
		}
		return nil
	})
}

// AddTicker adds a ticker to a watchlist. Adding a ticker twice is a no-op.
func (r *Repository) AddTicker(watchlistID, ticker string) error {
	w, err := r.GetWatchlist(watchlistID)
	if err != nil {
		return err
	}
	if w == nil {
		return fmt.Errorf("watchlist %s not found", watchlistID)
	}

	_, err = r.db.Exec(
		"INSERT OR IGNORE INTO watchlist_tickers (watchlist_id, ticker, added_at) VALUES (?, ?, ?)",
		watchlistID, ticker, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to add ticker: %w", err)
	}
	return r.touch(watchlistID)
}

// RemoveTicker removes a ticker from a watchlist
func (r *Repository) RemoveTicker(watchlistID, ticker string) error {
	res, err := r.db.Exec(
		"DELETE FROM watchlist_tickers WHERE watchlist_id = ? AND ticker = ?",
		watchlistID, ticker,
	)
	if err != nil {
		return fmt.Errorf("failed to remove ticker: %w", err)
	}
	if err := requireRowAffected(res, "ticker", ticker); err != nil {
		return err
	}
	return r.touch(watchlistID)
}

// CreateAlert inserts a new alert rule
func (r *Repository) CreateAlert(rule AlertRule) (*AlertRule, error) {
	rule.ID = uuid.New().String()
	rule.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(
		"INSERT INTO alert_rules (id, metric, condition, threshold, applied_to, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		rule.ID, rule.Metric, rule.Condition, rule.Threshold, rule.AppliedTo, rule.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert alert rule: %w", err)
	}
	return &rule, nil
}

// GetAlerts returns all alert rules, oldest first
func (r *Repository) GetAlerts() ([]AlertRule, error) {
	rows, err := r.db.Query("SELECT id, metric, condition, threshold, applied_to, created_at FROM alert_rules ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query alert rules: %w", err)
	}
	defer rows.Close()

	var rules []AlertRule
	for rows.Next() {
		var rule AlertRule
		var createdAt string
		if err := rows.Scan(&rule.ID, &rule.Metric, &rule.Condition, &rule.Threshold, &rule.AppliedTo, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert rule: %w", err)
		}
		rule.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// DeleteAlert removes an alert rule
func (r *Repository) DeleteAlert(id string) error {
	res, err := r.db.Exec("DELETE FROM alert_rules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete alert rule: %w", err)
	}
	return requireRowAffected(res, "alert rule", id)
}

// RecordEvent appends an alert trigger observation
func (r *Repository) RecordEvent(event AlertEvent) error {
	_, err := r.db.Exec(
		"INSERT INTO alert_events (rule_id, ticker, metric_value, triggered_at) VALUES (?, ?, ?, ?)",
		event.RuleID, event.Ticker, event.MetricValue, event.TriggeredAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to record alert event: %w", err)
	}
	return nil
}

// GetEvents returns the most recent alert events, newest first
func (r *Repository) GetEvents(limit int) ([]AlertEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(
		"SELECT id, rule_id, ticker, metric_value, triggered_at FROM alert_events ORDER BY triggered_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query alert events: %w", err)
	}
	defer rows.Close()

	var events []AlertEvent
	for rows.Next() {
		var e AlertEvent
		var triggeredAt string
		if err := rows.Scan(&e.ID, &e.RuleID, &e.Ticker, &e.MetricValue, &triggeredAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert event: %w", err)
		}
		e.TriggeredAt, _ = time.Parse(timeLayout, triggeredAt)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *Repository) getTickers(watchlistID string) ([]string, error) {
	// added_at has one-second resolution; rowid breaks ties in insertion order
	rows, err := r.db.Query(
		"SELECT ticker FROM watchlist_tickers WHERE watchlist_id = ? ORDER BY added_at, rowid",
		watchlistID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist tickers: %w", err)
	}
	defer rows.Close()

	tickers := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}

func (r *Repository) touch(watchlistID string) error {
	_, err := r.db.Exec(
		"UPDATE watchlists SET updated_at = ? WHERE id = ?",
		time.Now().UTC().Format(timeLayout), watchlistID,
	)
	if err != nil {
		return fmt.Errorf("failed to touch watchlist: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWatchlist(row rowScanner) (*Watchlist, error) {
	var w Watchlist
	var createdAt, updatedAt string

	if err := row.Scan(&w.ID, &w.Name, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan watchlist: %w", err)
	}
	w.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	w.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	w.Tickers = []string{}
	return &w, nil
}

func requireRowAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s not found", kind, id)
	}
	return nil
}
