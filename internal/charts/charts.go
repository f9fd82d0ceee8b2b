package charts

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/topcharts/internal/models"
	"github.com/desertthunder/topcharts/internal/providers"
	"github.com/desertthunder/topcharts/internal/shared"
	"golang.org/x/sync/singleflight"
)

// Default TTLs, overridable via [Opts].
const (
	DefaultTTL        = 7 * 24 * time.Hour
	DefaultFailureTTL = 30 * time.Minute
)

// CacheStore is the persistence surface the orchestrator needs from the
// top-chart cache.
type CacheStore interface {
	FindValidByKey(ctx context.Context, key models.CacheKey, now time.Time) (*models.CacheRecord, error)
	Upsert(ctx context.Context, key models.CacheKey, scannedAt, expiresAt time.Time, status models.CacheStatus, errorMessage string) (*models.CacheRecord, error)
	ReplaceItems(ctx context.Context, cacheID string, items []models.TopItem) error
	ItemsByCacheID(ctx context.Context, cacheID string) ([]models.TopItem, error)
}

// TrackMatcher links an external title to a local song within one artist's catalog.
type TrackMatcher interface {
	Match(ctx context.Context, artistID int64, title string, durationSeconds int) (models.MatchResult, error)
}

// Request describes one chart lookup from a collaborator.
type Request struct {
	SubjectType  models.SubjectType
	SubjectID    int64
	SubjectValue string
	ItemType     models.ItemType
	Provider     string
	ScopeKey     string
	Limit        int

	// Match asks the orchestrator to annotate artist/track results with
	// local song links.
	Match bool
}

// Key builds the composite cache identity for the request, defaulting the
// scope to all-time.
func (r Request) Key() models.CacheKey {
	scopeKey := r.ScopeKey
	if scopeKey == "" {
		scopeKey = "all-time"
	}
	return models.CacheKey{
		SubjectType:  r.SubjectType,
		SubjectID:    r.SubjectID,
		SubjectValue: r.SubjectValue,
		ItemType:     r.ItemType,
		Provider:     r.Provider,
		ScopeKey:     scopeKey,
	}
}

// Result is a served chart.
type Result struct {
	Items     []models.TopItem
	FromCache bool
}

// Opts configures a chart Service.
type Opts struct {
	Cache      CacheStore
	Registry   *providers.Registry
	Matcher    TrackMatcher // optional
	Logger     *log.Logger
	TTL        time.Duration
	FailureTTL time.Duration
}

// Service is the top-charts orchestrator: the sole entry point collaborators
// call for ranked charts.
type Service struct {
	cache      CacheStore
	registry   *providers.Registry
	matcher    TrackMatcher
	logger     *log.Logger
	ttl        time.Duration
	failureTTL time.Duration
	group      singleflight.Group
	now        func() time.Time
}

// NewService creates the orchestrator with the provided dependencies.
func NewService(opts Opts) *Service {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.FailureTTL <= 0 {
		opts.FailureTTL = DefaultFailureTTL
	}

	return &Service{
		cache:      opts.Cache,
		registry:   opts.Registry,
		matcher:    opts.Matcher,
		logger:     shared.WithLogger(opts.Logger, "component", "charts"),
		ttl:        opts.TTL,
		failureTTL: opts.FailureTTL,
		now:        time.Now,
	}
}

// GetTopCharts serves a chart from cache when a valid record exists,
// otherwise fetches from the selected provider, persists the outcome and
// serves fresh.
//
// When persisting a successful fetch fails, the fetched items are still
// returned best-effort alongside the storage error.
func (s *Service) GetTopCharts(ctx context.Context, req Request) (*Result, error) {
	key := req.Key()
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	// The cache is consulted before provider resolution; a valid record
	// serves even when the provider is no longer resolvable.
	record, err := s.cache.FindValidByKey(ctx, key, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to check cache: %w", err)
	}
	if record != nil {
		items, err := s.cache.ItemsByCacheID(ctx, record.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load cached items: %w", err)
		}
		s.logger.Debug("served from cache", "key", key.String(), "items", len(items))
		return &Result{Items: items, FromCache: true}, nil
	}

	params := providers.GetTopParams{
		SubjectType:  req.SubjectType,
		SubjectID:    req.SubjectID,
		SubjectValue: req.SubjectValue,
		ItemType:     req.ItemType,
		ScopeKey:     key.ScopeKey,
		Limit:        req.Limit,
	}

	// Resolution errors are fatal to the request and never cached.
	provider, err := s.registry.Select(req.Provider, params)
	if err != nil {
		return nil, err
	}

	// Collapse concurrent fetches for the same stale key into one
	// provider call; every waiter shares the outcome. Requests that want
	// match annotations fetch separately from requests that don't.
	groupKey := key.String()
	if req.Match {
		groupKey += "+match"
	}
	value, err, _ := s.group.Do(groupKey, func() (any, error) {
		return s.fetchAndPersist(ctx, key, provider, params, req.Match)
	})
	if err != nil {
		return nil, err
	}

	return value.(*Result), nil
}

// fetchAndPersist runs FETCH → PERSIST → SERVE_FRESH for one key.
func (s *Service) fetchAndPersist(ctx context.Context, key models.CacheKey, provider providers.Provider, params providers.GetTopParams, match bool) (*Result, error) {
	now := s.now()

	items, fetchErr := provider.GetTop(ctx, params)
	if fetchErr != nil {
		s.logger.Warn("provider fetch failed", "key", key.String(), "error", fetchErr)

		// Memoize the failure with a short expiry so the provider is
		// retried soon rather than treated as permanently broken.
		if _, err := s.cache.Upsert(ctx, key, now, now.Add(s.failureTTL), models.StatusFailed, fetchErr.Error()); err != nil {
			s.logger.Error("failed to record fetch failure", "key", key.String(), "error", err)
		}

		return nil, fmt.Errorf("top charts temporarily unavailable for this scope: %w", fetchErr)
	}

	if match && s.matcher != nil {
		items = s.annotate(ctx, key, items)
	}

	record, err := s.cache.Upsert(ctx, key, now, now.Add(s.ttl), models.StatusSuccess, "")
	if err != nil {
		s.logger.Error("failed to persist fetch outcome", "key", key.String(), "error", err)
		return &Result{Items: items}, fmt.Errorf("failed to persist chart: %w", err)
	}

	if err := s.cache.ReplaceItems(ctx, record.ID, items); err != nil {
		s.logger.Error("failed to persist chart items", "key", key.String(), "error", err)
		return &Result{Items: items}, fmt.Errorf("failed to persist chart items: %w", err)
	}

	s.logger.Info("fetched fresh chart", "key", key.String(), "items", len(items))
	return &Result{Items: items}, nil
}

// annotate links each item's title to a local song. Only meaningful for
// artist/track charts with a known local artist id; match failures leave the
// item unlinked rather than failing the request.
func (s *Service) annotate(ctx context.Context, key models.CacheKey, items []models.TopItem) []models.TopItem {
	if key.SubjectType != models.SubjectArtist || key.ItemType != models.ItemTrack || key.SubjectID == 0 {
		return items
	}

	for i, item := range items {
		result, err := s.matcher.Match(ctx, key.SubjectID, item.Title, item.DurationSeconds)
		if err != nil {
			s.logger.Warn("match failed", "title", item.Title, "error", err)
			continue
		}
		if result.SongID != 0 {
			items[i].MatchedSongID = result.SongID
			items[i].MatchConfidence = result.Confidence
		}
	}

	return items
}
