package config

import "testing"

func TestGetDefaultListSize(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{"empty", "", 20},
		{"invalid", "abc", 20},
		{"zero", "0", 20},
		{"negative", "-5", 20},
		{"min", "1", 1},
		{"mid", "100", 100},
		{"max", "500", 500},
		{"over", "501", 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DEFAULT_LIST_SIZE", tt.env)
			if got := getDefaultListSize(); got != tt.want {
				t.Errorf("getDefaultListSize() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestGetHistoryLimit(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{"empty", "", 50},
		{"invalid", "foo", 50},
		{"zero", "0", 50},
		{"negative", "-10", 50},
		{"min", "1", 1},
		{"mid", "200", 200},
		{"max", "1000", 1000},
		{"over", "1001", 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HISTORY_LIMIT", tt.env)
			if got := getHistoryLimit(); got != tt.want {
				t.Errorf("getHistoryLimit() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestGetDatabasePath(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want string
	}{
		{"empty", "", "subwave.db"},
		{"custom", "/var/lib/subwave/catalog.db", "/var/lib/subwave/catalog.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_PATH", tt.env)
			if got := getDatabasePath(); got != tt.want {
				t.Errorf("getDatabasePath() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestSubsonicConfigIsComplete(t *testing.T) {
	tests := []struct {
		name string
		cfg  SubsonicConfig
		want bool
	}{
		{"all set", SubsonicConfig{ServerURL: "http://music.local", Username: "admin", Password: "sesame"}, true},
		{"missing url", SubsonicConfig{Username: "admin", Password: "sesame"}, false},
		{"missing username", SubsonicConfig{ServerURL: "http://music.local", Password: "sesame"}, false},
		{"missing password", SubsonicConfig{ServerURL: "http://music.local", Username: "admin"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.IsComplete(); got != tt.want {
				t.Errorf("IsComplete() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestNewConfigReadsEnvironment(t *testing.T) {
	t.Setenv("SUBSONIC_SERVER_URL", "http://music.local")
	t.Setenv("SUBSONIC_USERNAME", "admin")
	t.Setenv("SUBSONIC_PASSWORD", "sesame")
	t.Setenv("SUBSONIC_CLIENT_NAME", "subwave-test")
	t.Setenv("SPOTIFY_ENABLED", "true")
	t.Setenv("SPOTIFY_CLIENT_ID", "id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "secret")
	t.Setenv("DEFAULT_LIST_SIZE", "30")
	t.Setenv("HISTORY_LIMIT", "")
	t.Setenv("DATABASE_PATH", "")

	NewConfig()

	if Config.Subsonic.ServerURL != "http://music.local" || Config.Subsonic.ClientName != "subwave-test" {
		t.Errorf("unexpected subsonic config: %+v", Config.Subsonic)
	}
	if !Config.Spotify.Enabled || Config.Spotify.ClientID != "id" {
		t.Errorf("unexpected spotify config: %+v", Config.Spotify)
	}
	if Config.Options.DefaultListSize != 30 || Config.Options.HistoryLimit != 50 {
		t.Errorf("unexpected options: %+v", Config.Options)
	}
	if Config.Database.Path != "subwave.db" {
		t.Errorf("unexpected database path: %q", Config.Database.Path)
	}
}
