package spotify

import (
	"testing"

	spotifyclient "github.com/zmb3/spotify/v2"
)

func TestBuildAlbumQuery(t *testing.T) {
	tests := []struct {
		name   string
		album  string
		artist string
		want   string
	}{
		{"with artist", "Bellevue", "Misteur Valaire", "album:Bellevue artist:Misteur Valaire"},
		{"without artist", "Bellevue", "", "album:Bellevue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildAlbumQuery(tt.album, tt.artist); got != tt.want {
				t.Errorf("buildAlbumQuery() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestBestMatch(t *testing.T) {
	albums := []spotifyclient.SimpleAlbum{
		{Name: "Bellevue (Deluxe Edition)"},
		{Name: "bellevue"},
		{Name: "Bellevue Live"},
	}

	if got := bestMatch(albums, "Bellevue"); got != 1 {
		t.Errorf("bestMatch() = %d; want the exact match at 1", got)
	}
	if got := bestMatch(albums, "Something Else"); got != 0 {
		t.Errorf("bestMatch() = %d; want fallback 0", got)
	}
}

func TestLargestImage(t *testing.T) {
	images := []spotifyclient.Image{
		{Width: 64, URL: "https://img.example/small"},
		{Width: 640, URL: "https://img.example/large"},
		{Width: 300, URL: "https://img.example/medium"},
	}

	if got := largestImage(images); got != "https://img.example/large" {
		t.Errorf("largestImage() = %q", got)
	}
	if got := largestImage(nil); got != "" {
		t.Errorf("largestImage(nil) = %q; want empty", got)
	}
}

func TestReleaseYear(t *testing.T) {
	tests := []struct {
		name string
		date string
		want uint64
	}{
		{"full date", "2017-03-10", 2017},
		{"year and month", "2017-03", 2017},
		{"bare year", "2017", 2017},
		{"empty", "", 0},
		{"garbage", "soon", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := releaseYear(tt.date); got != tt.want {
				t.Errorf("releaseYear(%q) = %d; want %d", tt.date, got, tt.want)
			}
		})
	}
}
