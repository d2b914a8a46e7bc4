package handlers

// handlers are the HTTP surface of the gateway. They translate browser
// requests into catalog calls, keep pins and browse history in the local
// database, and map upstream failures onto useful status codes.

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"subwave/config"
	"subwave/database"
	"subwave/lyrics"
	"subwave/pages"
	"subwave/sentry"
	"subwave/spotify"
	"subwave/subsonic"
)

const coverSize = 300

type AlbumSummary struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Artist    string `json:"artist,omitempty"`
	ArtistID  uint64 `json:"artistId,omitempty"`
	Genre     string `json:"genre,omitempty"`
	Year      uint64 `json:"year,omitempty"`
	Duration  uint64 `json:"duration"`
	SongCount uint64 `json:"songCount"`
	CoverURL  string `json:"coverUrl,omitempty"`
	Pinned    bool   `json:"pinned"`
}

type AlbumDetail struct {
	AlbumSummary
	Songs   []SongSummary   `json:"songs"`
	Spotify *EnrichmentInfo `json:"spotify,omitempty"`
}

type SongSummary struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	Track     uint64 `json:"track,omitempty"`
	Duration  uint64 `json:"duration"`
	StreamURL string `json:"streamUrl"`
}

type EnrichmentInfo struct {
	URL         string `json:"url,omitempty"`
	CoverURL    string `json:"coverUrl,omitempty"`
	ReleaseYear uint64 `json:"releaseYear,omitempty"`
}

type PinRequest struct {
	AlbumID uint64 `json:"albumId"`
}

type PinInfo struct {
	AlbumID  uint64    `json:"albumId"`
	Name     string    `json:"name"`
	Artist   string    `json:"artist,omitempty"`
	PinnedAt time.Time `json:"pinnedAt"`
}

type BrowseInfo struct {
	AlbumID  uint64    `json:"albumId"`
	Name     string    `json:"name"`
	Artist   string    `json:"artist,omitempty"`
	ViewedAt time.Time `json:"viewedAt"`
}

type Manager struct {
	Catalog         *subsonic.Client
	DB              *database.Database
	Lyrics          *lyrics.Client
	SpotifyEnabled  bool
	DefaultListSize int
	HistoryLimit    int

	views *viewDebouncer
}

func NewManager(catalog *subsonic.Client, db *database.Database, lyricsClient *lyrics.Client) *Manager {
	return &Manager{
		Catalog:         catalog,
		DB:              db,
		Lyrics:          lyricsClient,
		SpotifyEnabled:  config.Config.Spotify.Enabled,
		DefaultListSize: config.Config.Options.DefaultListSize,
		HistoryLimit:    config.Config.Options.HistoryLimit,
		views:           newViewDebouncer(),
	}
}

func (m *Manager) Register(router *gin.Engine) {
	router.GET("/", m.home)
	router.GET("/ping", m.ping)

	api := router.Group("/api")
	api.GET("/albums", m.browse)
	api.GET("/albums/:id", m.albumDetail)
	api.GET("/albums/:id/songs", m.albumSongs)
	api.GET("/pins", m.listPins)
	api.POST("/pins", m.pin)
	api.DELETE("/pins/:id", m.unpin)
	api.GET("/history", m.history)
	api.GET("/lyrics", m.songLyrics)
}

func (m *Manager) home(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(pages.AlbumBrowser))
}

func (m *Manager) ping(c *gin.Context) {
	if err := m.Catalog.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "music server unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (m *Manager) browse(c *gin.Context) {
	lt := subsonic.Newest
	if typeParam := c.Query("type"); typeParam != "" {
		parsed, err := subsonic.ParseListType(typeParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		lt = parsed
	}

	size := uint64(m.DefaultListSize)
	if sizeParam := c.Query("size"); sizeParam != "" {
		parsed, err := strconv.ParseUint(sizeParam, 10, 64)
		if err != nil || parsed == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be a positive number"})
			return
		}
		size = parsed
	}
	opts := []subsonic.ListOption{subsonic.Size(size)}

	if offsetParam := c.Query("offset"); offsetParam != "" {
		parsed, err := strconv.ParseUint(offsetParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a number"})
			return
		}
		opts = append(opts, subsonic.Offset(parsed))
	}

	if folderParam := c.Query("folder"); folderParam != "" {
		parsed, err := strconv.ParseUint(folderParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "folder must be a number"})
			return
		}
		opts = append(opts, subsonic.MusicFolder(parsed))
	}

	albums, err := m.Catalog.GetAlbumList(c.Request.Context(), lt, opts...)
	if err != nil {
		m.catalogError(c, err)
		return
	}

	summaries := make([]AlbumSummary, 0, len(albums))
	for _, a := range albums {
		summaries = append(summaries, m.albumSummary(a))
	}
	c.JSON(http.StatusOK, summaries)
}

func (m *Manager) albumDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "album id must be numeric"})
		return
	}

	album, err := m.Catalog.GetAlbum(c.Request.Context(), id)
	if err != nil {
		m.catalogError(c, err)
		return
	}

	if m.views.ShouldRecord(album.ID) {
		if err := m.DB.RecordView(album.ID, album.Name, album.Artist); err != nil {
			log.Warnf("Failed to record view of album %d: %v", album.ID, err)
		}
	}

	songs, err := album.Songs(c.Request.Context(), m.Catalog)
	if err != nil {
		m.catalogError(c, err)
		return
	}

	detail := AlbumDetail{
		AlbumSummary: m.albumSummary(album),
		Songs:        make([]SongSummary, 0, len(songs)),
	}
	for _, s := range songs {
		detail.Songs = append(detail.Songs, m.songSummary(s))
	}

	if m.SpotifyEnabled {
		enrichment, err := spotify.EnrichAlbum(album.Name, album.Artist)
		if err != nil {
			log.Warnf("Spotify enrichment failed for album %d: %v", album.ID, err)
		} else if enrichment != nil {
			detail.Spotify = &EnrichmentInfo{
				URL:         enrichment.SpotifyURL,
				CoverURL:    enrichment.CoverURL,
				ReleaseYear: enrichment.ReleaseYear,
			}
		}
	}

	c.JSON(http.StatusOK, detail)
}

func (m *Manager) albumSongs(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "album id must be numeric"})
		return
	}

	album, err := m.Catalog.GetAlbum(c.Request.Context(), id)
	if err != nil {
		m.catalogError(c, err)
		return
	}
	songs, err := album.Songs(c.Request.Context(), m.Catalog)
	if err != nil {
		m.catalogError(c, err)
		return
	}

	summaries := make([]SongSummary, 0, len(songs))
	for _, s := range songs {
		summaries = append(summaries, m.songSummary(s))
	}
	c.JSON(http.StatusOK, summaries)
}

func (m *Manager) listPins(c *gin.Context) {
	pins, err := m.DB.GetPins()
	if err != nil {
		sentry.ReportError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load pins"})
		return
	}

	infos := make([]PinInfo, 0, len(pins))
	for _, p := range pins {
		infos = append(infos, PinInfo{
			AlbumID:  p.AlbumID,
			Name:     p.Name,
			Artist:   p.Artist,
			PinnedAt: p.PinnedAt,
		})
	}
	c.JSON(http.StatusOK, infos)
}

func (m *Manager) pin(c *gin.Context) {
	var req PinRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.AlbumID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "albumId is required"})
		return
	}

	// Fetch the album so only real albums get pinned and the snapshot
	// carries the current name and artist.
	album, err := m.Catalog.GetAlbum(c.Request.Context(), req.AlbumID)
	if err != nil {
		m.catalogError(c, err)
		return
	}

	if err := m.DB.Pin(album.ID, album.Name, album.Artist); err != nil {
		sentry.ReportError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save pin"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

func (m *Manager) unpin(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "album id must be numeric"})
		return
	}

	if err := m.DB.Unpin(id); err != nil {
		sentry.ReportError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove pin"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (m *Manager) history(c *gin.Context) {
	records, err := m.DB.GetRecentViews(m.HistoryLimit)
	if err != nil {
		sentry.ReportError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	infos := make([]BrowseInfo, 0, len(records))
	for _, r := range records {
		infos = append(infos, BrowseInfo{
			AlbumID:  r.AlbumID,
			Name:     r.Name,
			Artist:   r.Artist,
			ViewedAt: r.ViewedAt,
		})
	}
	c.JSON(http.StatusOK, infos)
}

func (m *Manager) songLyrics(c *gin.Context) {
	artist := c.Query("artist")
	title := c.Query("title")
	if artist == "" || title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "artist and title are required"})
		return
	}

	text, trackInfo, err := m.Lyrics.Search(c.Request.Context(), artist, title)
	if err != nil {
		sentry.ReportError(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "lyrics service unreachable"})
		return
	}
	if text == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no lyrics found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lyrics": text, "track": trackInfo})
}

func (m *Manager) albumSummary(a *subsonic.Album) AlbumSummary {
	s := AlbumSummary{
		ID:        a.ID,
		Name:      a.Name,
		Artist:    a.Artist,
		ArtistID:  a.ArtistID,
		Genre:     a.Genre,
		Year:      a.Year,
		Duration:  a.Duration,
		SongCount: a.SongCount,
		Pinned:    m.DB.IsPinned(a.ID),
	}
	if a.CoverID != "" {
		s.CoverURL = m.Catalog.CoverArtURL(a.CoverID, coverSize)
	}
	return s
}

func (m *Manager) songSummary(s subsonic.Song) SongSummary {
	return SongSummary{
		ID:        s.ID,
		Title:     s.Title,
		Track:     s.Track,
		Duration:  s.Duration,
		StreamURL: m.Catalog.StreamURL(s.ID),
	}
}

// catalogError maps an upstream failure onto a response status. Code 70
// is the Subsonic "requested data not found" error; everything else from
// the server, and any transport or decode failure, is a gateway problem.
func (m *Manager) catalogError(c *gin.Context, err error) {
	var apiErr *subsonic.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 70 {
			c.JSON(http.StatusNotFound, gin.H{"error": apiErr.Message})
			return
		}
		sentry.ReportError(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": apiErr.Message})
		return
	}

	var decErr *subsonic.DecodeError
	if errors.As(err, &decErr) {
		sentry.ReportError(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream sent a malformed response"})
		return
	}

	sentry.ReportError(err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "music server unreachable"})
}
