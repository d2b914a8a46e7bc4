package config

import (
	"os"
	"strconv"
)

type ConfigStruct struct {
	Subsonic SubsonicConfig
	Options  Options
	Spotify  SpotifyConfig
	Database DatabaseConfig
}

type SubsonicConfig struct {
	ServerURL  string
	Username   string
	Password   string
	ClientName string
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	Enabled      bool
}

type DatabaseConfig struct {
	Path string
}

type Options struct {
	Port            string
	DefaultListSize int
	HistoryLimit    int
}

func (s *SubsonicConfig) IsComplete() bool {
	return s.ServerURL != "" && s.Username != "" && s.Password != ""
}

var Config *ConfigStruct

func NewConfig() {
	config := &ConfigStruct{
		Subsonic: SubsonicConfig{
			ServerURL:  os.Getenv("SUBSONIC_SERVER_URL"),
			Username:   os.Getenv("SUBSONIC_USERNAME"),
			Password:   os.Getenv("SUBSONIC_PASSWORD"),
			ClientName: os.Getenv("SUBSONIC_CLIENT_NAME"),
		},
		Options: Options{
			Port:            os.Getenv("PORT"),
			DefaultListSize: getDefaultListSize(),
			HistoryLimit:    getHistoryLimit(),
		},
		Spotify: SpotifyConfig{
			ClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
			ClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
			Enabled:      os.Getenv("SPOTIFY_ENABLED") == "true",
		},
		Database: DatabaseConfig{
			Path: getDatabasePath(),
		},
	}

	Config = config
}

func getDefaultListSize() int {
	sizeStr := os.Getenv("DEFAULT_LIST_SIZE")
	if sizeStr == "" {
		return 20
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size <= 0 {
		return 20
	}
	if size > 500 {
		return 500 // Subsonic caps getAlbumList2 at 500 per page
	}
	return size
}

func getHistoryLimit() int {
	limitStr := os.Getenv("HISTORY_LIMIT")
	if limitStr == "" {
		return 50
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		return 50
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}

func getDatabasePath() string {
	path := os.Getenv("DATABASE_PATH")
	if path == "" {
		return "subwave.db"
	}
	return path
}
