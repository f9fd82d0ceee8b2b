package matcher

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/topcharts/internal/models"
)

// stubCatalog returns a fixed candidate list for any artist.
type stubCatalog struct {
	tracks []models.TrackCandidate
	err    error
}

func (s *stubCatalog) TracksByArtist(ctx context.Context, artistID int64) ([]models.TrackCandidate, error) {
	return s.tracks, s.err
}

func newMatcher(tracks ...models.TrackCandidate) *Matcher {
	return New(&stubCatalog{tracks: tracks}, nil)
}

func TestMatcherExactPass(t *testing.T) {
	t.Run("DurationBonusOrdering", func(t *testing.T) {
		cases := []struct {
			name       string
			queryDur   int
			confidence float64
			method     string
		}{
			{"Within2s", 101, 0.99, "title-exact+duration-2s"},
			{"Within5s", 104, 0.96, "title-exact+duration-5s"},
			{"NoBonus", 120, 0.90, "title-exact"},
			{"AbsentDuration", 0, 0.90, "title-exact"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				m := newMatcher(models.TrackCandidate{ID: 11, Title: "Song Title", DurationSeconds: 100})

				res, err := m.Match(context.Background(), 1, "Song Title", tc.queryDur)
				if err != nil {
					t.Fatalf("match failed: %v", err)
				}

				if res.SongID != 11 {
					t.Errorf("expected song 11, got %d", res.SongID)
				}
				if res.Confidence != tc.confidence {
					t.Errorf("expected confidence %v, got %v", tc.confidence, res.Confidence)
				}
				if res.Method != tc.method {
					t.Errorf("expected method %q, got %q", tc.method, res.Method)
				}
			})
		}
	})

	t.Run("NormalizedEquality", func(t *testing.T) {
		m := newMatcher(models.TrackCandidate{ID: 5, Title: "song title"})

		res, err := m.Match(context.Background(), 1, "Song Title (Live) [Remaster] feat. Someone!!", 0)
		if err != nil {
			t.Fatalf("match failed: %v", err)
		}

		if res.SongID != 5 || res.Method != "title-exact" {
			t.Errorf("expected exact match on song 5, got %+v", res)
		}
	})

	t.Run("TiesKeepFirst", func(t *testing.T) {
		m := newMatcher(
			models.TrackCandidate{ID: 1, Title: "Same Song"},
			models.TrackCandidate{ID: 2, Title: "Same Song"},
		)

		res, err := m.Match(context.Background(), 1, "Same Song", 0)
		if err != nil {
			t.Fatalf("match failed: %v", err)
		}

		if res.SongID != 1 {
			t.Errorf("expected the first candidate to win the tie, got %d", res.SongID)
		}
	})

	t.Run("HigherBonusWins", func(t *testing.T) {
		m := newMatcher(
			models.TrackCandidate{ID: 1, Title: "Same Song", DurationSeconds: 110},
			models.TrackCandidate{ID: 2, Title: "Same Song", DurationSeconds: 101},
		)

		res, err := m.Match(context.Background(), 1, "Same Song", 100)
		if err != nil {
			t.Fatalf("match failed: %v", err)
		}

		if res.SongID != 2 || res.Confidence != 0.99 {
			t.Errorf("expected the 2s-bonus candidate to win, got %+v", res)
		}
	})
}

func TestMatcherPrefixPass(t *testing.T) {
	t.Run("CandidatePrefixOfQuery", func(t *testing.T) {
		m := newMatcher(models.TrackCandidate{ID: 3, Title: "Song"})

		res, err := m.Match(context.Background(), 1, "Song Title Extended", 0)
		if err != nil {
			t.Fatalf("match failed: %v", err)
		}

		if res.SongID != 3 || res.Method != "title-prefix" || res.Confidence != 0.60 {
			t.Errorf("expected a 0.60 prefix match, got %+v", res)
		}
	})

	t.Run("QueryPrefixOfCandidate", func(t *testing.T) {
		m := newMatcher(models.TrackCandidate{ID: 4, Title: "Song Title Extended Mix"})

		res, err := m.Match(context.Background(), 1, "Song Title", 0)
		if err != nil {
			t.Fatalf("match failed: %v", err)
		}

		if res.SongID != 4 || res.Method != "title-prefix" {
			t.Errorf("expected a prefix match, got %+v", res)
		}
	})

	t.Run("DurationBonus", func(t *testing.T) {
		m := newMatcher(models.TrackCandidate{ID: 4, Title: "Song Title Extended", DurationSeconds: 203})

		res, err := m.Match(context.Background(), 1, "Song Title", 200)
		if err != nil {
			t.Fatalf("match failed: %v", err)
		}

		if res.Confidence != 0.70 || res.Method != "title-prefix+duration-5s" {
			t.Errorf("expected 0.70 prefix+duration match, got %+v", res)
		}
	})

	t.Run("ExactAlwaysOutranksPrefix", func(t *testing.T) {
		// Prefix candidate has a perfect duration bonus; the exact
		// candidate still wins because the prefix pass never runs.
		m := newMatcher(
			models.TrackCandidate{ID: 1, Title: "Song Title Extended", DurationSeconds: 200},
			models.TrackCandidate{ID: 2, Title: "Song Title", DurationSeconds: 350},
		)

		res, err := m.Match(context.Background(), 1, "Song Title", 200)
		if err != nil {
			t.Fatalf("match failed: %v", err)
		}

		if res.SongID != 2 {
			t.Errorf("expected the exact candidate, got %d", res.SongID)
		}
		if res.Method != "title-exact" {
			t.Errorf("expected method title-exact, got %q", res.Method)
		}
	})
}

func TestMatcherNoMatch(t *testing.T) {
	t.Run("NoCandidates", func(t *testing.T) {
		m := newMatcher()

		res, err := m.Match(context.Background(), 1, "Anything", 0)
		if err != nil {
			t.Fatalf("match failed: %v", err)
		}

		if res.SongID != 0 || res.Confidence != 0 || res.Method != "no-match" {
			t.Errorf("expected no-match result, got %+v", res)
		}
	})

	t.Run("NoTitleOverlap", func(t *testing.T) {
		m := newMatcher(models.TrackCandidate{ID: 9, Title: "Completely Different"})

		res, err := m.Match(context.Background(), 1, "Song Title", 0)
		if err != nil {
			t.Fatalf("match failed: %v", err)
		}

		if res.SongID != 0 || res.Method != "no-match" {
			t.Errorf("expected no-match result, got %+v", res)
		}
	})

	t.Run("EmptyQueryTitle", func(t *testing.T) {
		m := newMatcher(models.TrackCandidate{ID: 9, Title: "Anything"})

		res, err := m.Match(context.Background(), 1, "(!!)", 0)
		if err != nil {
			t.Fatalf("match failed: %v", err)
		}

		if res.SongID != 0 {
			t.Errorf("expected no match for a title that normalizes to empty, got %+v", res)
		}
	})

	t.Run("CatalogError", func(t *testing.T) {
		m := New(&stubCatalog{err: errors.New("db closed")}, nil)

		if _, err := m.Match(context.Background(), 1, "Song Title", 0); err == nil {
			t.Error("expected catalog errors to propagate")
		}
	})
}
