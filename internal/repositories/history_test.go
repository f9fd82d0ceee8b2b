package repositories

import (
	"context"
	"testing"
	"time"
)

func TestHistoryRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("TopTracks", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		seedLibrary(t, db)
		now := time.Now().UTC()

		// Song 2 played three times, song 1 twice, song 3 once.
		for i := 0; i < 3; i++ {
			seedPlay(t, db, 1, 2, now.Add(-time.Duration(i)*time.Hour))
		}
		seedPlay(t, db, 1, 1, now.Add(-time.Hour))
		seedPlay(t, db, 1, 1, now.Add(-2*time.Hour))
		seedPlay(t, db, 1, 3, now.Add(-time.Hour))

		repo := NewHistoryRepository(db)
		counts, err := repo.TopTracks(ctx, 1, nil, 50)
		if err != nil {
			t.Fatalf("aggregation failed: %v", err)
		}

		if len(counts) != 3 {
			t.Fatalf("expected 3 grouped rows, got %d", len(counts))
		}
		if counts[0].ID != 2 || counts[0].Plays != 3 || counts[0].Name != "Deep Cut" {
			t.Errorf("unexpected leader: %+v", counts[0])
		}
		if counts[0].DurationSeconds != 185 {
			t.Errorf("expected duration joined from songs, got %d", counts[0].DurationSeconds)
		}
		if counts[2].ID != 3 || counts[2].DurationSeconds != 0 {
			t.Errorf("expected NULL duration coalesced to 0: %+v", counts[2])
		}
	})

	t.Run("TimeWindowExcludesOldPlays", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		seedLibrary(t, db)
		now := time.Now().UTC()

		seedPlay(t, db, 1, 1, now.Add(-time.Hour))
		seedPlay(t, db, 1, 2, now.Add(-40*24*time.Hour))

		repo := NewHistoryRepository(db)
		since := now.AddDate(0, 0, -30)
		counts, err := repo.TopTracks(ctx, 1, &since, 50)
		if err != nil {
			t.Fatalf("aggregation failed: %v", err)
		}

		if len(counts) != 1 || counts[0].ID != 1 {
			t.Errorf("expected only the recent play, got %+v", counts)
		}
	})

	t.Run("LimitTruncates", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		seedLibrary(t, db)
		now := time.Now().UTC()

		seedPlay(t, db, 1, 1, now)
		seedPlay(t, db, 1, 2, now)
		seedPlay(t, db, 1, 3, now)

		repo := NewHistoryRepository(db)
		counts, err := repo.TopTracks(ctx, 1, nil, 2)
		if err != nil {
			t.Fatalf("aggregation failed: %v", err)
		}

		if len(counts) != 2 {
			t.Errorf("expected 2 rows, got %d", len(counts))
		}
	})

	t.Run("TopArtists", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		seedLibrary(t, db)
		now := time.Now().UTC()

		// Artist 1 owns songs 1 and 2; artist 2 owns song 3.
		seedPlay(t, db, 1, 1, now)
		seedPlay(t, db, 1, 2, now)
		seedPlay(t, db, 1, 3, now)

		repo := NewHistoryRepository(db)
		counts, err := repo.TopArtists(ctx, 1, nil, 50)
		if err != nil {
			t.Fatalf("aggregation failed: %v", err)
		}

		if len(counts) != 2 {
			t.Fatalf("expected 2 artists, got %d", len(counts))
		}
		if counts[0].ID != 1 || counts[0].Plays != 2 || counts[0].Name != "First Artist" {
			t.Errorf("unexpected leader: %+v", counts[0])
		}
	})

	t.Run("TopAlbums", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		seedLibrary(t, db)
		now := time.Now().UTC()

		seedPlay(t, db, 1, 1, now)
		seedPlay(t, db, 1, 3, now)
		seedPlay(t, db, 1, 3, now.Add(-time.Hour))

		repo := NewHistoryRepository(db)
		counts, err := repo.TopAlbums(ctx, 1, nil, 50)
		if err != nil {
			t.Fatalf("aggregation failed: %v", err)
		}

		if len(counts) != 2 {
			t.Fatalf("expected 2 albums, got %d", len(counts))
		}
		if counts[0].ID != 2 || counts[0].Plays != 2 || counts[0].Name != "Sophomore" {
			t.Errorf("unexpected leader: %+v", counts[0])
		}
	})

	t.Run("OtherUsersExcluded", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		seedLibrary(t, db)
		if _, err := db.Exec("INSERT INTO users (id, name) VALUES (2, 'other')"); err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}

		now := time.Now().UTC()
		seedPlay(t, db, 2, 1, now)

		repo := NewHistoryRepository(db)
		counts, err := repo.TopTracks(ctx, 1, nil, 50)
		if err != nil {
			t.Fatalf("aggregation failed: %v", err)
		}

		if len(counts) != 0 {
			t.Errorf("expected no rows for user 1, got %+v", counts)
		}
	})
}

func TestCatalogRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("TracksByArtist", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		seedLibrary(t, db)

		repo := NewCatalogRepository(db)
		candidates, err := repo.TracksByArtist(ctx, 1)
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}

		if len(candidates) != 2 {
			t.Fatalf("expected 2 candidates, got %d", len(candidates))
		}
		if candidates[0].Title != "Opening Track" || candidates[0].DurationSeconds != 200 {
			t.Errorf("unexpected candidate: %+v", candidates[0])
		}
	})

	t.Run("UnknownArtistEmpty", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		seedLibrary(t, db)

		repo := NewCatalogRepository(db)
		candidates, err := repo.TracksByArtist(ctx, 99)
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if len(candidates) != 0 {
			t.Errorf("expected no candidates, got %d", len(candidates))
		}
	})

	t.Run("ArtistName", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		seedLibrary(t, db)

		repo := NewCatalogRepository(db)

		name, err := repo.ArtistName(ctx, 2)
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if name != "Second Artist" {
			t.Errorf("expected Second Artist, got %q", name)
		}

		missing, err := repo.ArtistName(ctx, 99)
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if missing != "" {
			t.Errorf("expected empty name for unknown artist, got %q", missing)
		}
	})

	t.Run("FindArtistByName", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		seedLibrary(t, db)

		repo := NewCatalogRepository(db)

		id, err := repo.FindArtistByName(ctx, "First Artist")
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if id != 1 {
			t.Errorf("expected id 1, got %d", id)
		}

		missing, err := repo.FindArtistByName(ctx, "Nobody")
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if missing != 0 {
			t.Errorf("expected 0 for unknown name, got %d", missing)
		}
	})
}
