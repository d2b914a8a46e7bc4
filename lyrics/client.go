package lyrics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

type SearchResult struct {
	ID           int    `json:"id"`
	TrackName    string `json:"trackName"`
	ArtistName   string `json:"artistName"`
	AlbumName    string `json:"albumName"`
	PlainLyrics  string `json:"plainLyrics"`
	SyncedLyrics string `json:"syncedLyrics"`
}

type Client struct {
	httpClient *http.Client
}

func New() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewWithHTTPClient builds a client on a caller-supplied HTTP client,
// which tests use to stub the transport.
func NewWithHTTPClient(httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient}
}

var timestampPattern = regexp.MustCompile(`\[\d+:\d+\.\d+\]`)

// Search looks a song up on lrclib by artist and title. It returns the
// lyrics and a "track - artist" label for the best hit; no hit returns
// empty strings without an error.
func (c *Client) Search(ctx context.Context, artist, title string) (string, string, error) {
	u := fmt.Sprintf("https://lrclib.net/api/search?track_name=%s&artist_name=%s",
		url.QueryEscape(title), url.QueryEscape(artist))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("lrclib API returned status %d", resp.StatusCode)
	}

	var results []SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", "", err
	}

	if len(results) == 0 {
		return "", "", nil
	}

	res := results[0]
	trackInfo := res.TrackName + " - " + res.ArtistName
	return flattenLyrics(res), trackInfo, nil
}

// flattenLyrics prefers the plain text and falls back to synced lyrics
// with their timestamps stripped.
func flattenLyrics(res SearchResult) string {
	if res.PlainLyrics != "" {
		return res.PlainLyrics
	}
	if res.SyncedLyrics == "" {
		return ""
	}
	return strings.TrimSpace(timestampPattern.ReplaceAllString(res.SyncedLyrics, ""))
}
