package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PlayCount is one grouped aggregation row from the listening history.
type PlayCount struct {
	ID              int64
	Name            string
	DurationSeconds int // only set for track aggregations
	Plays           int64
}

// HistoryRepository aggregates the local listening history into grouped play
// counts, joined to the catalog.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository with the given database connection
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// TopTracks returns the user's most played songs since the optional lower
// bound, ordered by descending play count. Equal counts order by song id so
// results stay deterministic.
func (r *HistoryRepository) TopTracks(ctx context.Context, userID int64, since *time.Time, limit int) ([]PlayCount, error) {
	query := `
		SELECT s.id, s.title, COALESCE(s.duration, 0), COUNT(*) AS plays
		FROM listen_history h
		JOIN songs s ON s.id = h.song_id
		WHERE h.user_id = ?
	`
	args := []any{userID}

	if since != nil {
		query += " AND h.played_at >= ?"
		args = append(args, *since)
	}

	query += `
		GROUP BY s.id
		ORDER BY plays DESC, s.id ASC
		LIMIT ?
	`
	args = append(args, limit)

	return r.queryPlayCounts(ctx, query, args, true)
}

// TopArtists returns the user's most played artists since the optional lower bound.
func (r *HistoryRepository) TopArtists(ctx context.Context, userID int64, since *time.Time, limit int) ([]PlayCount, error) {
	query := `
		SELECT a.id, a.name, 0, COUNT(*) AS plays
		FROM listen_history h
		JOIN songs s ON s.id = h.song_id
		JOIN artists a ON a.id = s.artist_id
		WHERE h.user_id = ?
	`
	args := []any{userID}

	if since != nil {
		query += " AND h.played_at >= ?"
		args = append(args, *since)
	}

	query += `
		GROUP BY a.id
		ORDER BY plays DESC, a.id ASC
		LIMIT ?
	`
	args = append(args, limit)

	return r.queryPlayCounts(ctx, query, args, false)
}

// TopAlbums returns the user's most played albums since the optional lower
// bound. Plays of songs without an album are not counted.
func (r *HistoryRepository) TopAlbums(ctx context.Context, userID int64, since *time.Time, limit int) ([]PlayCount, error) {
	query := `
		SELECT al.id, al.title, 0, COUNT(*) AS plays
		FROM listen_history h
		JOIN songs s ON s.id = h.song_id
		JOIN albums al ON al.id = s.album_id
		WHERE h.user_id = ?
	`
	args := []any{userID}

	if since != nil {
		query += " AND h.played_at >= ?"
		args = append(args, *since)
	}

	query += `
		GROUP BY al.id
		ORDER BY plays DESC, al.id ASC
		LIMIT ?
	`
	args = append(args, limit)

	return r.queryPlayCounts(ctx, query, args, false)
}

func (r *HistoryRepository) queryPlayCounts(ctx context.Context, query string, args []any, withDuration bool) ([]PlayCount, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query play counts: %w", err)
	}
	defer rows.Close()

	var counts []PlayCount
	for rows.Next() {
		var pc PlayCount
		if err := rows.Scan(&pc.ID, &pc.Name, &pc.DurationSeconds, &pc.Plays); err != nil {
			return nil, fmt.Errorf("failed to scan play count: %w", err)
		}
		if !withDuration {
			pc.DurationSeconds = 0
		}
		counts = append(counts, pc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return counts, nil
}
