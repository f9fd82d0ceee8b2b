package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/topcharts/internal/models"
)

// CatalogRepository looks up songs and artists in the local library.
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new CatalogRepository with the given database connection
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// TracksByArtist returns every track in one artist's catalog as match
// candidates. Unpaginated; matching is scoped to a single artist.
func (r *CatalogRepository) TracksByArtist(ctx context.Context, artistID int64) ([]models.TrackCandidate, error) {
	query := `
		SELECT id, title, COALESCE(duration, 0)
		FROM songs
		WHERE artist_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, artistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query artist tracks: %w", err)
	}
	defer rows.Close()

	var candidates []models.TrackCandidate
	for rows.Next() {
		var c models.TrackCandidate
		if err := rows.Scan(&c.ID, &c.Title, &c.DurationSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan track candidate: %w", err)
		}
		candidates = append(candidates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return candidates, nil
}

// ArtistName resolves an artist's display name by id. Returns "" when the
// artist does not exist.
func (r *CatalogRepository) ArtistName(ctx context.Context, artistID int64) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx, "SELECT name FROM artists WHERE id = ?", artistID).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up artist: %w", err)
	}
	return name, nil
}

// FindArtistByName resolves an artist id by exact name. Returns 0 when no
// artist matches.
func (r *CatalogRepository) FindArtistByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, "SELECT id FROM artists WHERE name = ?", name).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up artist: %w", err)
	}
	return id, nil
}
