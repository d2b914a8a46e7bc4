package spotify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	spotifyclient "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

var Spotify *spotifyclient.Client

// AlbumEnrichment is the extra metadata Spotify knows about an album
// that a Subsonic server usually does not: a canonical cover image,
// release year and a link out.
type AlbumEnrichment struct {
	SpotifyID   string
	SpotifyURL  string
	CoverURL    string
	ReleaseYear uint64
}

func NewSpotifyClient() error {
	ctx := context.Background()
	config := &clientcredentials.Config{
		ClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		ClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := config.Token(ctx)
	if err != nil {
		sentry.CaptureException(err)
		return err
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	client := spotifyclient.New(httpClient)
	Spotify = client
	return nil
}

// EnrichAlbum searches Spotify for an album by name and artist. A miss
// is not an error: the enrichment is simply nil.
func EnrichAlbum(name, artist string) (*AlbumEnrichment, error) {
	if Spotify == nil {
		return nil, errors.New("spotify client not configured")
	}

	log.Tracef("Enriching album '%s' by %s via Spotify", name, artist)
	ctx := context.Background()

	span := sentry.StartSpan(ctx, "spotify.enrich_album")
	span.Description = "Search album on Spotify API"
	span.SetTag("album", name)
	defer span.Finish()

	results, err := Spotify.Search(ctx, buildAlbumQuery(name, artist), spotifyclient.SearchTypeAlbum, spotifyclient.Limit(5))
	if err != nil {
		log.Errorf("Spotify album search failed for '%s': %v", name, err)
		sentry.CaptureException(err)
		span.Status = sentry.SpanStatusInternalError
		return nil, err
	}

	if results.Albums == nil || len(results.Albums.Albums) == 0 {
		log.Debugf("No Spotify match for album '%s' by %s", name, artist)
		span.Status = sentry.SpanStatusOK
		return nil, nil
	}

	match := results.Albums.Albums[bestMatch(results.Albums.Albums, name)]

	log.Debugf("Matched album '%s' to Spotify album %s", name, match.ID)
	span.Status = sentry.SpanStatusOK
	span.SetData("spotify_id", string(match.ID))

	return &AlbumEnrichment{
		SpotifyID:   string(match.ID),
		SpotifyURL:  match.ExternalURLs["spotify"],
		CoverURL:    largestImage(match.Images),
		ReleaseYear: releaseYear(match.ReleaseDate),
	}, nil
}

func buildAlbumQuery(name, artist string) string {
	if artist == "" {
		return fmt.Sprintf("album:%s", name)
	}
	return fmt.Sprintf("album:%s artist:%s", name, artist)
}

// bestMatch prefers an exact case-insensitive name match over Spotify's
// own ranking, falling back to the first result.
func bestMatch(albums []spotifyclient.SimpleAlbum, name string) int {
	for i, a := range albums {
		if strings.EqualFold(a.Name, name) {
			return i
		}
	}
	return 0
}

// largestImage returns the URL of the widest cover image.
func largestImage(images []spotifyclient.Image) string {
	url := ""
	bestWidth := -1
	for _, img := range images {
		if w := int(img.Width); w > bestWidth {
			bestWidth = w
			url = img.URL
		}
	}
	return url
}

// releaseYear pulls the year out of a Spotify release date. Depending on
// the precision Spotify reports, the date is a bare year, year-month or
// a full year-month-day.
func releaseYear(date string) uint64 {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.ParseUint(date[:4], 10, 64)
	if err != nil {
		return 0
	}
	return year
}
