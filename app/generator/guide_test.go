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

const guideSource = `<?xml version="1.0" encoding="UTF-8"?>
<tv>
  <channel id="fox.us">
    <display-name>Fox News</display-name>
  </channel>
  <channel id="hbo.us">
    <display-name>HBO East HD</display-name>
    <icon src="http://logo/hbo.png"/>
  </channel>
  <programme start="20260101000000 +0000" stop="20260101010000 +0000" channel="hbo.us">
    <title>Late Movie</title>
  </programme>
  <programme start="20260101010000 +0000" stop="20260101020000 +0000" channel="cnn.us">
    <title>World Report</title>
  </programme>
  <programme start="20260101020000 +0000" stop="20260101030000 +0000" channel="fox.us">
    <title>Morning Brief</title>
  </programme>
</tv>
`

func selectedResult(id, name string) matching.Result {
	return matching.Result{
		Entry:    playlist.Entry{Name: name},
		Channel:  &guide.Channel{ID: id, DisplayName: name},
		Score:    100,
		Selected: true,
	}
}

func TestGuideRun(t *testing.T) {
	gen := NewGuide()
	sourceDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(sourceDir, "guide.xml"), []byte(guideSource), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	outPath := filepath.Join(t.TempDir(), "out.xml")

	results := []matching.Result{
		selectedResult("hbo.us", "HBO East HD"),
		selectedResult("fox.us", "Fox News"),
	}

	channels, programs, err := gen.Run(results, sourceDir, outPath)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if channels != 2 {
		t.Errorf("Expected 2 channels emitted, got %d", channels)
	}
	if programs != 2 {
		t.Errorf("Expected 2 programs emitted (cnn.us excluded), got %d", programs)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, `<tv generator-info-name="M3U-XMLTV Channel Matcher">`) {
		t.Error("Output must declare the generator label")
	}
	if strings.Contains(out, "cnn.us") {
		t.Error("Programs of unwanted channels must not be emitted")
	}
	if !strings.Contains(out, "<title>Late Movie</title>") || !strings.Contains(out, "<title>Morning Brief</title>") {
		t.Error("Programs of wanted channels must be emitted with their subtrees")
	}

	// Channels are emitted in ascending identifier order
	fox := strings.Index(out, `<channel id="fox.us">`)
	hbo := strings.Index(out, `<channel id="hbo.us">`)
	if fox == -1 || hbo == -1 {
		t.Fatalf("Both channels must appear in the output: %s", out)
	}
	if fox > hbo {
		t.Error("Channels must be sorted by identifier")
	}
}

func TestGuideRun_EmptyWantedSet(t *testing.T) {
	gen := NewGuide()
	sourceDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(sourceDir, "guide.xml"), []byte(guideSource), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	outPath := filepath.Join(t.TempDir(), "out.xml")

	results := []matching.Result{
		{Entry: playlist.Entry{Name: "Unmatched"}, Selected: false},
	}

	channels, programs, err := gen.Run(results, sourceDir, outPath)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if channels != 0 || programs != 0 {
		t.Errorf("Empty wanted set must abort with zero counts, got %d/%d", channels, programs)
	}
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Error("No output file may be written when the wanted set is empty")
	}
}

func TestGuideRun_SkipsBrokenSource(t *testing.T) {
	gen := NewGuide()
	sourceDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(sourceDir, "a-broken.xml"), []byte("<tv><channel id="), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sourceDir, "b-guide.xml"), []byte(guideSource), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	outPath := filepath.Join(t.TempDir(), "out.xml")

	results := []matching.Result{selectedResult("hbo.us", "HBO East HD")}

	channels, programs, err := gen.Run(results, sourceDir, outPath)
	if err != nil {
		t.Fatalf("A broken sibling source must not fail generation: %v", err)
	}
	if channels != 1 {
		t.Errorf("Expected 1 channel from the healthy source, got %d", channels)
	}
	if programs != 1 {
		t.Errorf("Expected 1 program from the healthy source, got %d", programs)
	}
}

func TestGuideRun_FreshSubtreesFromDisk(t *testing.T) {
	gen := NewGuide()
	sourceDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(sourceDir, "guide.xml"), []byte(guideSource), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	outPath := filepath.Join(t.TempDir(), "out.xml")

	// The in-memory channel carries no subtree, as after a restored
	// session; the generator must re-read it from the source
	results := []matching.Result{
		{
			Entry:    playlist.Entry{Name: "HBO East"},
			Channel:  &guide.Channel{ID: "hbo.us", DisplayName: "HBO East HD"},
			Score:    100,
			Selected: true,
		},
	}

	if _, _, err := gen.Run(results, sourceDir, outPath); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, _ := os.ReadFile(outPath)
	if !strings.Contains(string(data), `<icon src="http://logo/hbo.png"/>`) {
		t.Error("Channel subtree must come fresh from the source file")
	}
}
