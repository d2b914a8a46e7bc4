package subsonic

import (
	"encoding/json"
	"strconv"
)

// Song is one track as known to the catalog. Like Album, a Song is only
// ever produced by decoding a server response.
type Song struct {
	ID          uint64
	Title       string
	Album       string
	Artist      string
	AlbumID     uint64
	ArtistID    uint64
	Track       uint64
	Duration    uint64 // seconds
	Genre       string
	CoverID     string
	Size        uint64 // bytes
	ContentType string
	Suffix      string
	BitRate     uint64
	Path        string
	PlayCount   uint64
}

// songJSON matches the wire shape. Identifiers arrive as decimal strings
// and required members are pointers so absence can be told from zero.
type songJSON struct {
	ID          *string `json:"id"`
	Title       *string `json:"title"`
	Album       string  `json:"album"`
	Artist      string  `json:"artist"`
	AlbumID     *string `json:"albumId"`
	ArtistID    *string `json:"artistId"`
	Track       uint64  `json:"track"`
	Duration    *uint64 `json:"duration"`
	Genre       string  `json:"genre"`
	CoverArt    string  `json:"coverArt"`
	Size        uint64  `json:"size"`
	ContentType string  `json:"contentType"`
	Suffix      string  `json:"suffix"`
	BitRate     uint64  `json:"bitRate"`
	Path        string  `json:"path"`
	PlayCount   uint64  `json:"playCount"`
}

// UnmarshalJSON validates and converts one song object. Any missing
// required field, type mismatch or unparsable identifier fails the
// decode; nothing is repaired or defaulted beyond optional fields.
func (s *Song) UnmarshalJSON(data []byte) error {
	var raw songJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return decodeErr("song", err)
	}

	if raw.ID == nil {
		return &DecodeError{Entity: "song", Field: "id", Err: errMissingField}
	}
	id, err := strconv.ParseUint(*raw.ID, 10, 64)
	if err != nil {
		return &DecodeError{Entity: "song", Field: "id", Err: err}
	}
	if raw.Title == nil {
		return &DecodeError{Entity: "song", Field: "title", Err: errMissingField}
	}
	if raw.Duration == nil {
		return &DecodeError{Entity: "song", Field: "duration", Err: errMissingField}
	}

	var albumID uint64
	if raw.AlbumID != nil {
		if albumID, err = strconv.ParseUint(*raw.AlbumID, 10, 64); err != nil {
			return &DecodeError{Entity: "song", Field: "albumId", Err: err}
		}
	}
	var artistID uint64
	if raw.ArtistID != nil {
		if artistID, err = strconv.ParseUint(*raw.ArtistID, 10, 64); err != nil {
			return &DecodeError{Entity: "song", Field: "artistId", Err: err}
		}
	}

	*s = Song{
		ID:          id,
		Title:       *raw.Title,
		Album:       raw.Album,
		Artist:      raw.Artist,
		AlbumID:     albumID,
		ArtistID:    artistID,
		Track:       raw.Track,
		Duration:    *raw.Duration,
		Genre:       raw.Genre,
		CoverID:     raw.CoverArt,
		Size:        raw.Size,
		ContentType: raw.ContentType,
		Suffix:      raw.Suffix,
		BitRate:     raw.BitRate,
		Path:        raw.Path,
		PlayCount:   raw.PlayCount,
	}
	return nil
}
