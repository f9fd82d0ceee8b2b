package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/topcharts/internal/models"
)

// ReplaceItems swaps the derived ranked rows for a cache record in one
// transaction. Called after every successful refresh; the old snapshot is
// never merged with the new one.
func (r *TopCacheRepository) ReplaceItems(ctx context.Context, cacheID string, items []models.TopItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM top_cache_items WHERE cache_id = ?", cacheID); err != nil {
		return fmt.Errorf("failed to clear cached items: %w", err)
	}

	query := `
		INSERT INTO top_cache_items (cache_id, rank, title, external_id, playcount, listeners,
			score, url, duration, matched_song_id, match_confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, item := range items {
		_, err := tx.ExecContext(ctx, query,
			cacheID, item.Rank, item.Title, item.ExternalID, item.Playcount, item.Listeners,
			item.Score, item.URL, item.DurationSeconds, item.MatchedSongID, item.MatchConfidence,
		)
		if err != nil {
			return fmt.Errorf("failed to insert cached item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cached items: %w", err)
	}

	return nil
}

// ItemsByCacheID loads the ranked snapshot for a cache record in rank order.
func (r *TopCacheRepository) ItemsByCacheID(ctx context.Context, cacheID string) ([]models.TopItem, error) {
	query := `
		SELECT rank, title, external_id, playcount, listeners, score, url, duration,
			matched_song_id, match_confidence
		FROM top_cache_items
		WHERE cache_id = ?
		ORDER BY rank ASC
	`

	rows, err := r.db.QueryContext(ctx, query, cacheID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached items: %w", err)
	}
	defer rows.Close()

	items := []models.TopItem{}
	for rows.Next() {
		var item models.TopItem
		err := rows.Scan(&item.Rank, &item.Title, &item.ExternalID, &item.Playcount, &item.Listeners,
			&item.Score, &item.URL, &item.DurationSeconds, &item.MatchedSongID, &item.MatchConfidence)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cached item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}
