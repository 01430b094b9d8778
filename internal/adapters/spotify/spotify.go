package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/luccarvs/PlaylistImport-API/internal/domain"
)

const (
	defaultBaseURL = "https://api.spotify.com/v1"
	pageSize       = 50
)

// Client implements ports.SourceClient against the Spotify Web API.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a new Spotify client. If client is nil,
// http.DefaultClient is used; if baseURL is empty, the public API URL
// is used.
func NewClient(client *http.Client, baseURL string) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{client: client, baseURL: baseURL}
}

// -- API response types (internal) ------------------------------------------

type tracksPage struct {
	// Items is a pointer so an absent list can be told apart from an
	// empty page.
	Items *[]pageItem `json:"items"`
	Next  string      `json:"next"`
}

type pageItem struct {
	Track *trackData `json:"track"`
}

type trackData struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	IsLocal bool         `json:"is_local"`
	Artists []artistData `json:"artists"`
}

type artistData struct {
	Name string `json:"name"`
}

// -- SourceClient implementation ---------------------------------------------

// FetchPlaylistTracks materializes the whole playlist eagerly, following
// the server-supplied next URL until exhausted. Entries without a track
// reference and locally-hosted files are dropped. A page whose body
// parses but carries no item list ends pagination with whatever was
// accumulated so far.
func (c *Client) FetchPlaylistTracks(ctx context.Context, token string, playlistID string) ([]domain.ForeignTrack, error) {
	var tracks []domain.ForeignTrack
	endpoint := fmt.Sprintf("%s/playlists/%s/tracks?limit=%d", c.baseURL, playlistID, pageSize)

	for endpoint != "" {
		body, err := c.doGet(ctx, token, endpoint)
		if err != nil {
			return nil, fmt.Errorf("spotify: failed to get playlist tracks: %w", err)
		}

		var page tracksPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("spotify: failed to parse tracks page: %w", err)
		}

		if page.Items == nil {
			break
		}

		for _, item := range *page.Items {
			if item.Track == nil || item.Track.ID == "" || item.Track.IsLocal {
				continue // skip local or unavailable tracks
			}
			tracks = append(tracks, toForeignTrack(*item.Track))
		}

		endpoint = page.Next
	}

	return tracks, nil
}

// -- HTTP helpers ------------------------------------------------------------

func (c *Client) doGet(ctx context.Context, token string, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spotify API returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// -- Helpers -----------------------------------------------------------------

func toForeignTrack(t trackData) domain.ForeignTrack {
	var artist string
	if len(t.Artists) > 0 {
		artist = t.Artists[0].Name
	}
	return domain.ForeignTrack{
		ID:      t.ID,
		Title:   t.Name,
		Artist:  artist,
		IsLocal: t.IsLocal,
	}
}
