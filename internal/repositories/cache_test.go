package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/desertthunder/topcharts/internal/models"
)

func userTrackKey(userID int64, scope string) models.CacheKey {
	return models.CacheKey{
		SubjectType: models.SubjectUser,
		SubjectID:   userID,
		ItemType:    models.ItemTrack,
		Provider:    "local-plays",
		ScopeKey:    scope,
	}
}

func TestTopCacheRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("UpsertInsertsThenUpdatesInPlace", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTopCacheRepository(db)
		key := userTrackKey(7, "30d")
		now := time.Now()

		first, err := repo.Upsert(ctx, key, now, now.Add(time.Hour), models.StatusSuccess, "")
		if err != nil {
			t.Fatalf("first upsert failed: %v", err)
		}
		if first.ID == "" {
			t.Error("record ID should be set after upsert")
		}

		second, err := repo.Upsert(ctx, key, now.Add(time.Minute), now.Add(2*time.Hour), models.StatusFailed, "boom")
		if err != nil {
			t.Fatalf("second upsert failed: %v", err)
		}

		if second.ID != first.ID {
			t.Errorf("expected the same row to be updated, got %s then %s", first.ID, second.ID)
		}
		if second.Status != models.StatusFailed || second.ErrorMessage != "boom" {
			t.Errorf("expected latest values, got %+v", second)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM top_cache").Scan(&count); err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count != 1 {
			t.Errorf("expected exactly one row for the key, got %d", count)
		}
	})

	t.Run("NullCoalescedKeysAreDistinct", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTopCacheRepository(db)
		now := time.Now()

		// Same tuple except the subject reference: absent, numeric, textual.
		keys := []models.CacheKey{
			{SubjectType: models.SubjectArtist, ItemType: models.ItemTrack, Provider: "lastfm", ScopeKey: "all-time"},
			{SubjectType: models.SubjectArtist, SubjectID: 3, ItemType: models.ItemTrack, Provider: "lastfm", ScopeKey: "all-time"},
			{SubjectType: models.SubjectArtist, SubjectValue: "Some Artist", ItemType: models.ItemTrack, Provider: "lastfm", ScopeKey: "all-time"},
		}

		for _, key := range keys {
			if _, err := repo.Upsert(ctx, key, now, now.Add(time.Hour), models.StatusSuccess, ""); err != nil {
				t.Fatalf("upsert failed: %v", err)
			}
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM top_cache").Scan(&count); err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count != 3 {
			t.Errorf("expected 3 distinct rows, got %d", count)
		}

		for _, key := range keys {
			record, err := repo.FindByKey(ctx, key)
			if err != nil {
				t.Fatalf("find failed: %v", err)
			}
			if record == nil {
				t.Errorf("expected a row for key %s", key.String())
			}
		}
	})

	t.Run("FindByKeyAbsent", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTopCacheRepository(db)

		record, err := repo.FindByKey(ctx, userTrackKey(1, "7d"))
		if err != nil {
			t.Fatalf("expected nil error for a miss, got %v", err)
		}
		if record != nil {
			t.Errorf("expected nil record, got %+v", record)
		}
	})

	t.Run("FindValidByKey", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTopCacheRepository(db)
		now := time.Now()

		t.Run("FreshSuccess", func(t *testing.T) {
			key := userTrackKey(1, "7d")
			if _, err := repo.Upsert(ctx, key, now, now.Add(time.Hour), models.StatusSuccess, ""); err != nil {
				t.Fatalf("upsert failed: %v", err)
			}

			record, err := repo.FindValidByKey(ctx, key, now)
			if err != nil {
				t.Fatalf("find failed: %v", err)
			}
			if record == nil {
				t.Fatal("expected a valid record")
			}
		})

		t.Run("Expired", func(t *testing.T) {
			key := userTrackKey(2, "7d")
			if _, err := repo.Upsert(ctx, key, now.Add(-2*time.Hour), now.Add(-time.Hour), models.StatusSuccess, ""); err != nil {
				t.Fatalf("upsert failed: %v", err)
			}

			record, err := repo.FindValidByKey(ctx, key, now)
			if err != nil {
				t.Fatalf("find failed: %v", err)
			}
			if record != nil {
				t.Error("expected an expired record to be a cache miss")
			}
		})

		t.Run("Failed", func(t *testing.T) {
			key := userTrackKey(3, "7d")
			if _, err := repo.Upsert(ctx, key, now, now.Add(time.Hour), models.StatusFailed, "remote down"); err != nil {
				t.Fatalf("upsert failed: %v", err)
			}

			record, err := repo.FindValidByKey(ctx, key, now)
			if err != nil {
				t.Fatalf("find failed: %v", err)
			}
			if record != nil {
				t.Error("expected a failed record to be a cache miss")
			}

			// The failure itself is still there for diagnostics.
			stored, err := repo.FindByKey(ctx, key)
			if err != nil {
				t.Fatalf("find failed: %v", err)
			}
			if stored == nil || stored.ErrorMessage != "remote down" {
				t.Errorf("expected the failure to be memoized, got %+v", stored)
			}
		})
	})

	t.Run("DeleteByID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTopCacheRepository(db)
		now := time.Now()

		record, err := repo.Upsert(ctx, userTrackKey(5, "90d"), now, now.Add(time.Hour), models.StatusSuccess, "")
		if err != nil {
			t.Fatalf("upsert failed: %v", err)
		}

		if err := repo.DeleteByID(ctx, record.ID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}

		if err := repo.DeleteByID(ctx, record.ID); err == nil {
			t.Error("expected an error deleting a missing record")
		}
	})

	t.Run("DeleteExpired", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTopCacheRepository(db)
		now := time.Now()

		if _, err := repo.Upsert(ctx, userTrackKey(1, "7d"), now, now.Add(-time.Minute), models.StatusSuccess, ""); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
		if _, err := repo.Upsert(ctx, userTrackKey(2, "7d"), now, now.Add(time.Hour), models.StatusSuccess, ""); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}

		purged, err := repo.DeleteExpired(ctx, now)
		if err != nil {
			t.Fatalf("purge failed: %v", err)
		}
		if purged != 1 {
			t.Errorf("expected 1 purged row, got %d", purged)
		}

		records, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(records) != 1 {
			t.Errorf("expected 1 surviving record, got %d", len(records))
		}
	})

	t.Run("ReplaceAndLoadItems", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTopCacheRepository(db)
		now := time.Now()

		record, err := repo.Upsert(ctx, userTrackKey(7, "30d"), now, now.Add(time.Hour), models.StatusSuccess, "")
		if err != nil {
			t.Fatalf("upsert failed: %v", err)
		}

		first := []models.TopItem{
			{Rank: 1, Title: "Old Leader", Playcount: 10},
			{Rank: 2, Title: "Old Runner-Up", Playcount: 5},
		}
		if err := repo.ReplaceItems(ctx, record.ID, first); err != nil {
			t.Fatalf("replace failed: %v", err)
		}

		second := []models.TopItem{
			{Rank: 1, Title: "New Leader", Playcount: 20, MatchedSongID: 3, MatchConfidence: 0.99},
		}
		if err := repo.ReplaceItems(ctx, record.ID, second); err != nil {
			t.Fatalf("replace failed: %v", err)
		}

		items, err := repo.ItemsByCacheID(ctx, record.ID)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}

		if len(items) != 1 {
			t.Fatalf("expected the snapshot to be replaced wholesale, got %d items", len(items))
		}
		if items[0].Title != "New Leader" || items[0].MatchedSongID != 3 || items[0].MatchConfidence != 0.99 {
			t.Errorf("unexpected item: %+v", items[0])
		}
	})
}
