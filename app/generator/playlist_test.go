package generator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/guide"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/matching"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/playlist"
)

func TestPlaylistRun_InsertsIdentifier(t *testing.T) {
	gen := NewPlaylist()
	path := filepath.Join(t.TempDir(), "out.m3u")

	results := []matching.Result{
		{
			Entry: playlist.Entry{
				Name:           "HBO East",
				URL:            "http://stream.example.com/hbo",
				OriginalExtinf: `#EXTINF:-1 tvg-logo="http://logo/hbo.png" group-title="Movies",HBO East`,
			},
			Channel:  &guide.Channel{ID: "hbo.us", DisplayName: "HBO East HD"},
			Score:    73,
			Selected: true,
		},
	}

	count, err := gen.Run(results, path)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 entry written, got %d", count)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	out := string(data)

	if !strings.HasPrefix(out, "#EXTM3U\n") {
		t.Error("Output must start with the #EXTM3U header")
	}
	if strings.Count(out, `tvg-id="`) != 1 {
		t.Errorf("Exactly one tvg-id attribute expected, got: %s", out)
	}
	if !strings.Contains(out, `#EXTINF:-1 tvg-id="hbo.us" tvg-logo="http://logo/hbo.png" group-title="Movies",HBO East HD`) {
		t.Errorf("Descriptor not rewritten as expected: %s", out)
	}
	if !strings.Contains(out, "http://stream.example.com/hbo\n") {
		t.Error("Original URL line must be preserved")
	}
}

func TestPlaylistRun_ReplacesIdentifier(t *testing.T) {
	gen := NewPlaylist()
	path := filepath.Join(t.TempDir(), "out.m3u")

	results := []matching.Result{
		{
			Entry: playlist.Entry{
				URL:            "http://stream.example.com/fox",
				OriginalExtinf: `#EXTINF:-1 tvg-id="stale.id" group-title="News",Fox News HD`,
			},
			Channel:  &guide.Channel{ID: "fox.us", DisplayName: "Fox News"},
			Score:    100,
			Selected: true,
		},
	}

	if _, err := gen.Run(results, path); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	out := string(data)

	if strings.Contains(out, "stale.id") {
		t.Error("Stale tvg-id value must be replaced")
	}
	if !strings.Contains(out, `tvg-id="fox.us"`) {
		t.Error("Matched identifier must be written")
	}
	if !strings.Contains(out, `group-title="News",Fox News`) {
		t.Errorf("Untouched attributes must survive and the trailing name must be replaced: %s", out)
	}
}

func TestPlaylistRun_SkipsUnselected(t *testing.T) {
	gen := NewPlaylist()
	path := filepath.Join(t.TempDir(), "out.m3u")

	results := []matching.Result{
		{
			Entry:    playlist.Entry{URL: "http://a", OriginalExtinf: "#EXTINF:-1,A"},
			Channel:  &guide.Channel{ID: "a.id", DisplayName: "A"},
			Selected: false,
		},
		{
			Entry:    playlist.Entry{URL: "http://b", OriginalExtinf: "#EXTINF:-1,B"},
			Channel:  nil,
			Selected: true,
		},
	}

	count, err := gen.Run(results, path)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Unselected and unassociated results must be skipped, wrote %d", count)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "#EXTM3U\n" {
		t.Errorf("Expected header-only output, got: %s", data)
	}
}

func TestRewriteExtinf_NoComma(t *testing.T) {
	got := rewriteExtinf("#EXTINF:-1", "x.id", "X")
	if !strings.Contains(got, `tvg-id="x.id"`) {
		t.Errorf("Identifier must be inserted after the duration field, got: %s", got)
	}
}
