package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/sources"
)

func TestRun_LocalCopy(t *testing.T) {
	f := NewFetcher(http.DefaultClient, "test-agent")

	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "channels.m3u")
	if err := os.WriteFile(srcPath, []byte("#EXTM3U\n"), 0644); err != nil {
		t.Fatalf("Failed to write source: %v", err)
	}

	m3uDir := t.TempDir()
	epgDir := t.TempDir()

	ok, count := f.Run(context.Background(), &sources.Config{M3U: []string{srcPath}}, m3uDir, epgDir, false)
	if !ok {
		t.Error("Expected playlist group success")
	}
	if count != 1 {
		t.Errorf("Expected 1 fetched file, got %d", count)
	}

	data, err := os.ReadFile(filepath.Join(m3uDir, "channels.m3u"))
	if err != nil {
		t.Fatalf("Copied file missing: %v", err)
	}
	if string(data) != "#EXTM3U\n" {
		t.Errorf("Copied content mismatch: %q", data)
	}
}

func TestRun_CollisionSuffix(t *testing.T) {
	f := NewFetcher(http.DefaultClient, "test-agent")

	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "channels.m3u")
	if err := os.WriteFile(srcPath, []byte("#EXTM3U\n"), 0644); err != nil {
		t.Fatalf("Failed to write source: %v", err)
	}

	m3uDir := t.TempDir()
	config := &sources.Config{M3U: []string{srcPath, srcPath}}

	ok, count := f.Run(context.Background(), config, m3uDir, t.TempDir(), false)
	if !ok || count != 2 {
		t.Fatalf("Expected both copies to succeed, ok=%t count=%d", ok, count)
	}

	if _, err := os.Stat(filepath.Join(m3uDir, "channels.m3u")); err != nil {
		t.Error("First copy should keep the base name")
	}
	if _, err := os.Stat(filepath.Join(m3uDir, "channels-1.m3u")); err != nil {
		t.Error("Second copy should get a numeric suffix, never overwrite")
	}
}

func TestRun_Download(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("Expected configured user agent, got %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte("<tv></tv>"))
	}))
	defer server.Close()

	f := NewFetcher(server.Client(), "test-agent")
	epgDir := t.TempDir()

	config := &sources.Config{EPG: []string{server.URL + "/guide.xml"}}
	ok, count := f.Run(context.Background(), config, t.TempDir(), epgDir, false)

	// EPG-only fetches never satisfy the playlist group outcome
	if ok {
		t.Error("EPG sources must not gate the playlist group outcome")
	}
	if count != 1 {
		t.Errorf("Expected 1 fetched file, got %d", count)
	}

	data, err := os.ReadFile(filepath.Join(epgDir, "guide.xml"))
	if err != nil {
		t.Fatalf("Downloaded file missing: %v", err)
	}
	if string(data) != "<tv></tv>" {
		t.Errorf("Downloaded content mismatch: %q", data)
	}
}

func TestRun_FailuresDoNotStopSiblings(t *testing.T) {
	f := NewFetcher(http.DefaultClient, "test-agent")

	srcDir := t.TempDir()
	goodPath := filepath.Join(srcDir, "good.m3u")
	if err := os.WriteFile(goodPath, []byte("#EXTM3U\n"), 0644); err != nil {
		t.Fatalf("Failed to write source: %v", err)
	}

	config := &sources.Config{M3U: []string{filepath.Join(srcDir, "missing.m3u"), goodPath}}
	ok, count := f.Run(context.Background(), config, t.TempDir(), t.TempDir(), false)

	if !ok {
		t.Error("One successful playlist source is enough for group success")
	}
	if count != 1 {
		t.Errorf("Expected 1 fetched file, got %d", count)
	}
}

func TestDestPath_UnusableFolder(t *testing.T) {
	// The destination "folder" is a regular file, so every stat fails with
	// something other than not-exist; the first candidate must come back
	// instead of the suffix search running away
	notAFolder := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(notAFolder, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	got := destPath("channels.m3u", notAFolder)
	if got != filepath.Join(notAFolder, "channels.m3u") {
		t.Errorf("Expected the base candidate, got %s", got)
	}
}

func TestRun_CleanFirst(t *testing.T) {
	f := NewFetcher(http.DefaultClient, "test-agent")

	m3uDir := t.TempDir()
	epgDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(m3uDir, "stale.m3u"), []byte("old"), 0644); err != nil {
		t.Fatalf("Failed to write stale file: %v", err)
	}
	if err := os.Mkdir(filepath.Join(epgDir, "stale-dir"), 0755); err != nil {
		t.Fatalf("Failed to create stale dir: %v", err)
	}

	f.Run(context.Background(), &sources.Config{}, m3uDir, epgDir, true)

	if _, err := os.Stat(filepath.Join(m3uDir, "stale.m3u")); !os.IsNotExist(err) {
		t.Error("Clean mode must delete stale files")
	}
	if _, err := os.Stat(filepath.Join(epgDir, "stale-dir")); !os.IsNotExist(err) {
		t.Error("Clean mode must delete stale subdirectories")
	}
}
