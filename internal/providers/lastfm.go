// Last.fm chart client implementation of [Provider]
//
// Response shapes follow https://www.last.fm/api/show/artist.getTopTracks
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/topcharts/internal/models"
	"github.com/desertthunder/topcharts/internal/shared"
	"golang.org/x/time/rate"
)

// LastFMName is the cache-key identifier for the Last.fm provider.
const LastFMName = "lastfm"

const defaultLastFMBaseURL = "https://ws.audioscrobbler.com/2.0/"

// Last.fm allows roughly 5 requests per second per originating IP.
const lastFMRequestsPerSecond = 5

// ArtistDirectory resolves a local artist id to a display name, used when a
// request carries a numeric subject instead of a textual one.
type ArtistDirectory interface {
	ArtistName(ctx context.Context, artistID int64) (string, error)
}

// lastFMTopTracks mirrors the artist.gettoptracks response envelope. Numeric
// fields arrive as strings and are coerced during mapping.
type lastFMTopTracks struct {
	TopTracks struct {
		Track []lastFMTrack `json:"track"`
	} `json:"toptracks"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

type lastFMTrack struct {
	Name      string `json:"name"`
	MBID      string `json:"mbid"`
	URL       string `json:"url"`
	Playcount string `json:"playcount"`
	Listeners string `json:"listeners"`
	Duration  string `json:"duration"`
	Attr      struct {
		Rank string `json:"rank"`
	} `json:"@attr"`
}

// LastFMProvider fetches an artist's global top tracks from the Last.fm API.
type LastFMProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	artists    ArtistDirectory
	logger     *log.Logger
}

// NewLastFMProvider creates a Last.fm chart client. An empty apiKey leaves
// the provider unconfigured: it still registers, but answers every request
// with an empty item list.
func NewLastFMProvider(apiKey, baseURL string, artists ArtistDirectory, client *http.Client, logger *log.Logger) *LastFMProvider {
	if baseURL == "" {
		baseURL = defaultLastFMBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &LastFMProvider{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(lastFMRequestsPerSecond), 1),
		artists:    artists,
		logger:     shared.WithLogger(logger, "provider", LastFMName),
	}
}

func (p *LastFMProvider) Name() string { return LastFMName }

// Supports accepts artist subjects ranked by track.
func (p *LastFMProvider) Supports(params GetTopParams) bool {
	return params.SubjectType == models.SubjectArtist && params.ItemType == models.ItemTrack
}

// GetTop fetches the artist's global top tracks. An unconfigured provider or
// an unresolvable artist name yields no items; transport and malformed
// responses are errors.
func (p *LastFMProvider) GetTop(ctx context.Context, params GetTopParams) ([]models.TopItem, error) {
	if p.apiKey == "" {
		p.logger.Debug("no API key configured, returning empty chart")
		return []models.TopItem{}, nil
	}

	artist, err := p.resolveArtist(ctx, params)
	if err != nil {
		return nil, err
	}
	if artist == "" {
		return []models.TopItem{}, nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	query := url.Values{}
	query.Set("method", "artist.gettoptracks")
	query.Set("artist", artist)
	query.Set("api_key", p.apiKey)
	query.Set("format", "json")
	query.Set("limit", strconv.Itoa(params.EffectiveLimit()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrProviderFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: last.fm status %d", shared.ErrProviderFetch, resp.StatusCode)
	}

	var payload lastFMTopTracks
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrProviderResponse, err)
	}
	if payload.Error != 0 {
		return nil, fmt.Errorf("%w: last.fm error %d: %s", shared.ErrProviderFetch, payload.Error, payload.Message)
	}

	items := make([]models.TopItem, 0, len(payload.TopTracks.Track))
	for i, track := range payload.TopTracks.Track {
		items = append(items, models.TopItem{
			Rank:            coerceInt(track.Attr.Rank, i+1),
			Title:           track.Name,
			ExternalID:      track.MBID,
			URL:             track.URL,
			Playcount:       coerceInt64(track.Playcount),
			Listeners:       coerceInt64(track.Listeners),
			DurationSeconds: int(coerceInt64(track.Duration)),
		})
	}

	p.logger.Debug("fetched top tracks", "artist", artist, "items", len(items))
	return items, nil
}

// resolveArtist prefers the textual subject and falls back to a catalog
// lookup of the numeric one.
func (p *LastFMProvider) resolveArtist(ctx context.Context, params GetTopParams) (string, error) {
	if params.SubjectValue != "" {
		return params.SubjectValue, nil
	}
	if params.SubjectID == 0 || p.artists == nil {
		return "", nil
	}

	name, err := p.artists.ArtistName(ctx, params.SubjectID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve artist name: %w", err)
	}
	return name, nil
}

// coerceInt parses a numeric-as-string field, defaulting to the sequential
// position when missing or malformed.
func coerceInt(s string, fallback int) int {
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return fallback
}

func coerceInt64(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
