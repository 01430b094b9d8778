package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/luccarvs/PlaylistImport-API/internal/domain"
)

const defaultBaseURL = "https://saavnapi-nine.vercel.app"

// Client implements ports.CatalogSearcher against the hosted catalog
// search API.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a new catalog client. If client is nil,
// http.DefaultClient is used; if baseURL is empty, the hosted API URL
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

// resultItem mirrors the search API's loosely-shaped payload. Older and
// newer deployments disagree on field names, hence the fallback pairs
// (song/title, media_url/url, primary_artists/singers/artist).
type resultItem struct {
	ID              string `json:"id"`
	Song            string `json:"song"`
	Title           string `json:"title"`
	Album           string `json:"album"`
	Image           string `json:"image"`
	MediaURL        string `json:"media_url"`
	URL             string `json:"url"`
	MediaPreviewURL string `json:"media_preview_url"`
	Duration        string `json:"duration"`
	Year            string `json:"year"`
	PrimaryArtists  string `json:"primary_artists"`
	Singers         string `json:"singers"`
	Artist          string `json:"artist"`
}

// -- CatalogSearcher implementation ------------------------------------------

// Search returns ranked candidate songs for a free-text query. Records
// that arrive without an id are dropped at the boundary.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Song, error) {
	endpoint := fmt.Sprintf("%s/result/?query=%s", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog API returned status %d: %s", resp.StatusCode, string(body))
	}

	var items []resultItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("catalog: failed to parse search response: %w", err)
	}

	songs := make([]domain.Song, 0, len(items))
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		songs = append(songs, toSong(item))
	}

	return songs, nil
}

// -- Helpers -----------------------------------------------------------------

func toSong(item resultItem) domain.Song {
	return domain.Song{
		ID:         item.ID,
		Title:      firstNonEmpty(item.Song, item.Title),
		Artist:     firstNonEmpty(item.PrimaryArtists, item.Singers, item.Artist),
		Album:      item.Album,
		URL:        firstNonEmpty(item.MediaURL, item.URL),
		PreviewURL: item.MediaPreviewURL,
		Image:      item.Image,
		Duration:   item.Duration,
		Year:       item.Year,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
