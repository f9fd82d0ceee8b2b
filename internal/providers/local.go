package providers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/topcharts/internal/models"
	"github.com/desertthunder/topcharts/internal/repositories"
	"github.com/desertthunder/topcharts/internal/scope"
	"github.com/desertthunder/topcharts/internal/shared"
)

// LocalPlaysName is the cache-key identifier for the local history provider.
const LocalPlaysName = "local-plays"

// History is the listening-history query surface consumed by the local provider.
type History interface {
	TopTracks(ctx context.Context, userID int64, since *time.Time, limit int) ([]repositories.PlayCount, error)
	TopArtists(ctx context.Context, userID int64, since *time.Time, limit int) ([]repositories.PlayCount, error)
	TopAlbums(ctx context.Context, userID int64, since *time.Time, limit int) ([]repositories.PlayCount, error)
}

// LocalPlaysProvider ranks a user's tracks, artists or albums by play count
// from the local listening history.
type LocalPlaysProvider struct {
	history History
	logger  *log.Logger
}

// NewLocalPlaysProvider creates a local history provider.
func NewLocalPlaysProvider(history History, logger *log.Logger) *LocalPlaysProvider {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &LocalPlaysProvider{
		history: history,
		logger:  shared.WithLogger(logger, "provider", LocalPlaysName),
	}
}

func (p *LocalPlaysProvider) Name() string { return LocalPlaysName }

// Supports accepts user subjects ranked by track, artist or album.
func (p *LocalPlaysProvider) Supports(params GetTopParams) bool {
	if params.SubjectType != models.SubjectUser {
		return false
	}

	switch params.ItemType {
	case models.ItemTrack, models.ItemArtist, models.ItemAlbum:
		return true
	}
	return false
}

// GetTop aggregates the user's listening history within the scope window.
// A request without a user id returns no items without touching the store.
func (p *LocalPlaysProvider) GetTop(ctx context.Context, params GetTopParams) ([]models.TopItem, error) {
	if params.SubjectID == 0 {
		return []models.TopItem{}, nil
	}

	window := scope.Resolve(params.ScopeKey)
	limit := params.EffectiveLimit()

	var (
		counts []repositories.PlayCount
		err    error
	)

	switch params.ItemType {
	case models.ItemTrack:
		counts, err = p.history.TopTracks(ctx, params.SubjectID, window.Since, limit)
	case models.ItemArtist:
		counts, err = p.history.TopArtists(ctx, params.SubjectID, window.Since, limit)
	case models.ItemAlbum:
		counts, err = p.history.TopAlbums(ctx, params.SubjectID, window.Since, limit)
	default:
		return nil, fmt.Errorf("unsupported item type %q", params.ItemType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate listening history: %w", err)
	}

	items := make([]models.TopItem, 0, len(counts))
	for i, pc := range counts {
		items = append(items, models.TopItem{
			Rank:            i + 1,
			Title:           pc.Name,
			ExternalID:      strconv.FormatInt(pc.ID, 10),
			Playcount:       pc.Plays,
			DurationSeconds: pc.DurationSeconds,
		})
	}

	p.logger.Debug("aggregated local plays", "user", params.SubjectID,
		"item_type", params.ItemType, "scope", params.ScopeKey, "items", len(items))
	return items, nil
}
