package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/desertthunder/topcharts/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied.
//
// The pool is pinned to one connection so the in-memory database is shared
// across all statements in a test.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// seedLibrary inserts a small catalog and listening history:
// two artists, three songs, and plays for user 1 at the given times.
func seedLibrary(t *testing.T, db *sql.DB) {
	t.Helper()

	stmts := []struct {
		query string
		args  []any
	}{
		{"INSERT INTO users (id, name) VALUES (1, 'listener')", nil},
		{"INSERT INTO artists (id, name) VALUES (1, 'First Artist'), (2, 'Second Artist')", nil},
		{"INSERT INTO albums (id, artist_id, title) VALUES (1, 1, 'Debut'), (2, 2, 'Sophomore')", nil},
		{`INSERT INTO songs (id, artist_id, album_id, title, duration) VALUES
			(1, 1, 1, 'Opening Track', 200),
			(2, 1, 1, 'Deep Cut', 185),
			(3, 2, 2, 'Single', NULL)`, nil},
	}

	for _, s := range stmts {
		if _, err := db.Exec(s.query, s.args...); err != nil {
			t.Fatalf("failed to seed library: %v", err)
		}
	}
}

// seedPlay records one play for user/song at the given time.
func seedPlay(t *testing.T, db *sql.DB, userID, songID int64, playedAt time.Time) {
	t.Helper()

	_, err := db.Exec("INSERT INTO listen_history (user_id, song_id, played_at) VALUES (?, ?, ?)",
		userID, songID, playedAt)
	if err != nil {
		t.Fatalf("failed to seed play: %v", err)
	}
}
