package subsonic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

// ListType identifies a server-side album list ordering for GetAlbumList.
type ListType int

const (
	AlphaByArtist ListType = iota
	AlphaByName
	Frequent
	Highest
	Newest
	Random
	Recent
	Starred
)

// String returns the canonical wire form sent as the type parameter.
func (lt ListType) String() string {
	switch lt {
	case AlphaByArtist:
		return "alphabeticalByArtist"
	case AlphaByName:
		return "alphabeticalByName"
	case Frequent:
		return "frequent"
	case Highest:
		return "highest"
	case Newest:
		return "newest"
	case Random:
		return "random"
	case Recent:
		return "recent"
	case Starred:
		return "starred"
	}
	return "unknown"
}

// ParseListType maps a wire form back to its ListType.
func ParseListType(s string) (ListType, error) {
	switch s {
	case "alphabeticalByArtist":
		return AlphaByArtist, nil
	case "alphabeticalByName":
		return AlphaByName, nil
	case "frequent":
		return Frequent, nil
	case "highest":
		return Highest, nil
	case "newest":
		return Newest, nil
	case "random":
		return Random, nil
	case "recent":
		return Recent, nil
	case "starred":
		return Starred, nil
	}
	return 0, fmt.Errorf("unknown album list type %q", s)
}

// ListOption adds an optional parameter to a GetAlbumList call. An option
// that is not passed leaves the outgoing request untouched.
type ListOption func(*Query)

// Size limits how many albums the server returns.
func Size(n uint64) ListOption {
	return func(q *Query) { q.ArgUint("size", n) }
}

// Offset skips the first n albums of the list, for paging.
func Offset(n uint64) ListOption {
	return func(q *Query) { q.ArgUint("offset", n) }
}

// MusicFolder restricts the list to one top-level music folder.
func MusicFolder(id uint64) ListOption {
	return func(q *Query) { q.ArgUint("musicFolderId", id) }
}

// Album is one album record as known to the catalog. An Album is built
// only by decoding a server response and never modified afterwards, so
// values can be shared freely across goroutines.
//
// A list endpoint usually returns albums without their song arrays; the
// held song list is therefore not trusted until Songs has reconciled it
// against SongCount.
type Album struct {
	ID        uint64
	Name      string
	Artist    string // empty when the server sent none
	ArtistID  uint64 // zero when the server sent none
	CoverID   string
	Duration  uint64 // seconds
	Year      uint64
	Genre     string
	SongCount uint64
	songs     []Song
}

// albumJSON matches the wire shape, numeric-string identifiers included.
// Required members are pointers so absence can be told from zero.
type albumJSON struct {
	ID        *string `json:"id"`
	Name      *string `json:"name"`
	Artist    string  `json:"artist"`
	ArtistID  *string `json:"artistId"`
	CoverArt  string  `json:"coverArt"`
	SongCount *uint64 `json:"songCount"`
	Duration  *uint64 `json:"duration"`
	Created   string  `json:"created"`
	Year      uint64  `json:"year"`
	Genre     string  `json:"genre"`
	Song      []Song  `json:"song"`
}

// UnmarshalJSON validates and converts one album object. The decoder
// rejects malformed payloads outright: missing required fields, type
// mismatches and unparsable identifiers all fail the decode, and a single
// malformed nested song fails the whole album. It does not check that the
// song array matches songCount; that reconciliation belongs to Songs.
func (a *Album) UnmarshalJSON(data []byte) error {
	var raw albumJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			// a nested song already carries its own context
			return err
		}
		return decodeErr("album", err)
	}

	if raw.ID == nil {
		return &DecodeError{Entity: "album", Field: "id", Err: errMissingField}
	}
	id, err := strconv.ParseUint(*raw.ID, 10, 64)
	if err != nil {
		return &DecodeError{Entity: "album", Field: "id", Err: err}
	}
	if raw.Name == nil {
		return &DecodeError{Entity: "album", Field: "name", Err: errMissingField}
	}
	if raw.SongCount == nil {
		return &DecodeError{Entity: "album", Field: "songCount", Err: errMissingField}
	}
	if raw.Duration == nil {
		return &DecodeError{Entity: "album", Field: "duration", Err: errMissingField}
	}

	var artistID uint64
	if raw.ArtistID != nil {
		if artistID, err = strconv.ParseUint(*raw.ArtistID, 10, 64); err != nil {
			return &DecodeError{Entity: "album", Field: "artistId", Err: err}
		}
	}

	*a = Album{
		ID:        id,
		Name:      *raw.Name,
		Artist:    raw.Artist,
		ArtistID:  artistID,
		CoverID:   raw.CoverArt,
		Duration:  *raw.Duration,
		Year:      raw.Year,
		Genre:     raw.Genre,
		SongCount: *raw.SongCount,
		songs:     raw.Song,
	}
	return nil
}

// Songs returns the album's complete track list in server order.
//
// When the held list already matches the declared SongCount it is handed
// back without a network call. On any mismatch, longer or shorter, the
// full record is fetched fresh through c and the fresh copy's songs are
// returned; the receiver itself is never modified.
func (a *Album) Songs(ctx context.Context, c *Client) ([]Song, error) {
	if uint64(len(a.songs)) == a.SongCount {
		return append([]Song(nil), a.songs...), nil
	}

	log.Debugf("Album %d song list is partial (%d held, %d declared), refetching", a.ID, len(a.songs), a.SongCount)
	full, err := c.GetAlbum(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return full.songs, nil
}

// GetAlbum fetches one album by ID. The server contract for getAlbum is
// that the returned record carries the complete song list.
func (c *Client) GetAlbum(ctx context.Context, id uint64) (*Album, error) {
	log.Tracef("Fetching album %d from Subsonic server", id)

	span := sentry.StartSpan(ctx, "subsonic.get_album")
	span.Description = "Get single album from Subsonic server"
	span.SetTag("album_id", strconv.FormatUint(id, 10))
	defer span.Finish()

	payload, err := c.Get(ctx, "getAlbum", NewQuery().ArgUint("id", id))
	if err != nil {
		log.Errorf("Failed to fetch album %d: %v", id, err)
		sentry.CaptureException(err)
		span.Status = sentry.SpanStatusInternalError
		return nil, err
	}

	album, err := decodeAlbum(payload)
	if err != nil {
		log.Errorf("Failed to decode album %d: %v", id, err)
		sentry.CaptureException(err)
		span.Status = sentry.SpanStatusInternalError
		return nil, err
	}

	log.Debugf("Successfully fetched album: '%s' by %s (%d songs)", album.Name, album.Artist, album.SongCount)
	span.Status = sentry.SpanStatusOK
	span.SetData("album_name", album.Name)
	span.SetData("song_count", album.SongCount)
	return album, nil
}

// GetAlbumList fetches albums ordered by the given list type. Optional
// size, offset and music-folder arguments appear in the request only when
// the caller passes the matching option.
//
// A response without the album array is a legitimate empty list, not an
// error; a response where any element fails to decode fails the whole
// call with no partial result.
func (c *Client) GetAlbumList(ctx context.Context, lt ListType, opts ...ListOption) ([]*Album, error) {
	log.Tracef("Fetching %s album list from Subsonic server", lt)

	span := sentry.StartSpan(ctx, "subsonic.get_album_list")
	span.Description = "Get album list from Subsonic server"
	span.SetTag("list_type", lt.String())
	defer span.Finish()

	q := NewQuery().Arg("type", lt.String())
	for _, opt := range opts {
		opt(q)
	}

	payload, err := c.Get(ctx, "getAlbumList2", q)
	if err != nil {
		log.Errorf("Failed to fetch %s album list: %v", lt, err)
		sentry.CaptureException(err)
		span.Status = sentry.SpanStatusInternalError
		return nil, err
	}

	albums, err := decodeAlbumList(payload)
	if err != nil {
		log.Errorf("Failed to decode %s album list: %v", lt, err)
		sentry.CaptureException(err)
		span.Status = sentry.SpanStatusInternalError
		return nil, err
	}

	log.Debugf("Successfully fetched %d albums (%s)", len(albums), lt)
	span.Status = sentry.SpanStatusOK
	span.SetData("albums_count", len(albums))
	return albums, nil
}

func decodeAlbum(data []byte) (*Album, error) {
	album := &Album{}
	if err := json.Unmarshal(data, album); err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, decodeErr("album", err)
	}
	return album, nil
}

// decodeAlbumList pulls the album array out of a getAlbumList2 payload.
// The server omits the key entirely when the list is empty, so an absent
// or non-array value decodes to no albums.
func decodeAlbumList(data []byte) ([]*Album, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var payload struct {
		Album json.RawMessage `json:"album"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, decodeErr("album list", err)
	}

	value := bytes.TrimLeft(payload.Album, " \t\r\n")
	if len(value) == 0 || value[0] != '[' {
		return nil, nil
	}

	var albums []*Album
	if err := json.Unmarshal(payload.Album, &albums); err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, decodeErr("album list", err)
	}
	return albums, nil
}
