// Spotify chart client implementation of [Provider]
//
// Uses the client-credentials grant; response types based on
// https://developer.spotify.com/documentation/web-api/reference/get-an-artists-top-tracks
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/topcharts/internal/models"
	"github.com/desertthunder/topcharts/internal/shared"
	"golang.org/x/oauth2/clientcredentials"
)

// SpotifyName is the cache-key identifier for the Spotify provider.
const SpotifyName = "spotify"

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

type spotifyTopTracks struct {
	Tracks []spotifyTrack `json:"tracks"`
}

type spotifyTrack struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DurationMS   int    `json:"duration_ms"`
	Popularity   int    `json:"popularity"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

// SpotifyProvider fetches an artist's top tracks from the Spotify Web API.
//
// The subject value is the Spotify artist id; requests without one yield no
// items.
type SpotifyProvider struct {
	httpClient *http.Client
	baseURL    string
	configured bool
	logger     *log.Logger
}

// NewSpotifyProvider creates a Spotify chart client authenticating with the
// client-credentials flow. Empty credentials leave the provider unconfigured.
func NewSpotifyProvider(clientID, clientSecret string, logger *log.Logger) *SpotifyProvider {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	p := &SpotifyProvider{
		baseURL: spotifyBaseURL,
		logger:  shared.WithLogger(logger, "provider", SpotifyName),
	}

	if clientID != "" && clientSecret != "" {
		conf := &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     spotifyTokenURL,
		}
		p.httpClient = conf.Client(context.Background())
		p.configured = true
	}

	return p
}

func (p *SpotifyProvider) Name() string { return SpotifyName }

// Supports accepts artist subjects ranked by track.
func (p *SpotifyProvider) Supports(params GetTopParams) bool {
	return params.SubjectType == models.SubjectArtist && params.ItemType == models.ItemTrack
}

// GetTop fetches the artist's top tracks. Spotify returns at most ten and
// assigns no explicit ranks, so positions become dense sequential ranks.
func (p *SpotifyProvider) GetTop(ctx context.Context, params GetTopParams) ([]models.TopItem, error) {
	if !p.configured {
		p.logger.Debug("no client credentials configured, returning empty chart")
		return []models.TopItem{}, nil
	}
	if params.SubjectValue == "" {
		return []models.TopItem{}, nil
	}

	endpoint := fmt.Sprintf("%s/artists/%s/top-tracks?market=US", p.baseURL, params.SubjectValue)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrProviderFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: spotify status %d", shared.ErrProviderFetch, resp.StatusCode)
	}

	var payload spotifyTopTracks
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrProviderResponse, err)
	}

	limit := params.EffectiveLimit()
	items := make([]models.TopItem, 0, len(payload.Tracks))
	for i, track := range payload.Tracks {
		if i >= limit {
			break
		}
		items = append(items, models.TopItem{
			Rank:            i + 1,
			Title:           track.Name,
			ExternalID:      track.ID,
			Score:           float64(track.Popularity),
			URL:             track.ExternalURLs.Spotify,
			DurationSeconds: track.DurationMS / 1000,
		})
	}

	p.logger.Debug("fetched top tracks", "artist", params.SubjectValue, "items", len(items))
	return items, nil
}
