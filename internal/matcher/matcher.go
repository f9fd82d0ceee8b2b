// package matcher links externally-sourced track titles to local catalog songs.
//
// Matching runs two passes over one artist's catalog: an exact pass on
// normalized titles, then a prefix pass only when the exact pass finds
// nothing. Exact-title agreement always outranks prefix agreement, no matter
// how close the durations are. Duration proximity only raises confidence
// within a pass.
package matcher

import (
	"context"
	"fmt"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/topcharts/internal/models"
	"github.com/desertthunder/topcharts/internal/shared"
)

// Confidence scores per matching rule.
const (
	confExact           = 0.90
	confExactDuration2s = 0.99
	confExactDuration5s = 0.96
	confPrefix          = 0.60
	confPrefixDur2s     = 0.80
	confPrefixDur5s     = 0.70
)

// Catalog is the local song catalog query surface consumed by the matcher.
type Catalog interface {
	// TracksByArtist returns all candidate tracks for one artist. The
	// result is unpaginated; matching is scoped to a single artist's
	// catalog.
	TracksByArtist(ctx context.Context, artistID int64) ([]models.TrackCandidate, error)
}

// Matcher finds the best-matching local track for an external title.
type Matcher struct {
	catalog Catalog
	logger  *log.Logger
	jaro    *metrics.JaroWinkler
}

// New creates a Matcher over the given catalog.
func New(catalog Catalog, logger *log.Logger) *Matcher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Matcher{
		catalog: catalog,
		logger:  shared.WithLogger(logger, "component", "matcher"),
		jaro:    metrics.NewJaroWinkler(),
	}
}

// Match finds the best local track for the title within one artist's catalog.
//
// durationSeconds is optional; pass 0 when unknown. A result with SongID 0
// means no candidate passed either pass; callers treat that as "unlinked",
// not as a failure.
func (m *Matcher) Match(ctx context.Context, artistID int64, title string, durationSeconds int) (models.MatchResult, error) {
	noMatch := models.MatchResult{Method: "no-match"}

	candidates, err := m.catalog.TracksByArtist(ctx, artistID)
	if err != nil {
		return noMatch, fmt.Errorf("failed to load candidate tracks: %w", err)
	}

	query := Normalize(title)
	if query == "" || len(candidates) == 0 {
		return noMatch, nil
	}

	best := m.exactPass(query, durationSeconds, candidates)
	if best.SongID == 0 {
		best = m.prefixPass(query, durationSeconds, candidates)
	}
	if best.SongID == 0 {
		return noMatch, nil
	}

	m.logger.Debug("matched track", "title", title, "song_id", best.SongID,
		"confidence", best.Confidence, "method", best.Method)
	return best, nil
}

// exactPass keeps the highest-confidence candidate whose normalized title
// equals the query; ties keep the first encountered.
func (m *Matcher) exactPass(query string, duration int, candidates []models.TrackCandidate) models.MatchResult {
	var best models.MatchResult

	for _, cand := range candidates {
		norm := Normalize(cand.Title)
		if norm != query {
			continue
		}

		conf, method := confExact, "title-exact"
		if bonus, ok := durationBonus(duration, cand.DurationSeconds); ok {
			conf, method = bonus.conf(confExactDuration2s, confExactDuration5s), "title-exact"+bonus.tag()
		}

		if conf > best.Confidence {
			best = models.MatchResult{
				SongID:     cand.ID,
				Confidence: conf,
				Method:     method,
				Similarity: strutil.Similarity(query, norm, m.jaro),
			}
		}
	}

	return best
}

// prefixPass keeps the highest-confidence candidate whose normalized title is
// a prefix of the query or vice versa. Only runs when the exact pass is empty.
func (m *Matcher) prefixPass(query string, duration int, candidates []models.TrackCandidate) models.MatchResult {
	var best models.MatchResult

	for _, cand := range candidates {
		norm := Normalize(cand.Title)
		if norm == "" || !eitherPrefix(norm, query) {
			continue
		}

		conf, method := confPrefix, "title-prefix"
		if bonus, ok := durationBonus(duration, cand.DurationSeconds); ok {
			conf, method = bonus.conf(confPrefixDur2s, confPrefixDur5s), "title-prefix"+bonus.tag()
		}

		if conf > best.Confidence {
			best = models.MatchResult{
				SongID:     cand.ID,
				Confidence: conf,
				Method:     method,
				Similarity: strutil.Similarity(query, norm, m.jaro),
			}
		}
	}

	return best
}

func eitherPrefix(a, b string) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	return b[:len(a)] == a
}

// durationProximity classifies how close two durations are.
type durationProximity int

const (
	within2s durationProximity = iota
	within5s
)

func (p durationProximity) conf(tight, loose float64) float64 {
	if p == within2s {
		return tight
	}
	return loose
}

func (p durationProximity) tag() string {
	if p == within2s {
		return "+duration-2s"
	}
	return "+duration-5s"
}

// durationBonus reports whether both durations are present and within 5s of
// each other.
func durationBonus(query, candidate int) (durationProximity, bool) {
	if query <= 0 || candidate <= 0 {
		return 0, false
	}

	diff := query - candidate
	if diff < 0 {
		diff = -diff
	}

	switch {
	case diff <= 2:
		return within2s, true
	case diff <= 5:
		return within5s, true
	}
	return 0, false
}
