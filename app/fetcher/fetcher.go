package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/sources"
)

const downloadChunkSize = 8192

// Fetcher acquires declared source files: network locations are streamed to
// the destination folder in bounded chunks, existing local paths are copied.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
}

// NewFetcher creates a new source fetcher
func NewFetcher(httpClient *http.Client, userAgent string) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// Run fetches every declared source into its destination folder. Per-source
// failures are logged and do not stop the remaining fetches. Returns whether
// at least one playlist source succeeded (guide sources are best-effort and
// never gate the outcome) and the total number of files fetched.
func (f *Fetcher) Run(ctx context.Context, config *sources.Config, m3uDir, epgDir string, clean bool) (bool, int) {
	if clean {
		slog.Info("Cleaning destination folders before download")
		cleanFolder(m3uDir)
		cleanFolder(epgDir)
	}

	m3uOK := false
	count := 0

	for _, src := range config.M3U {
		slog.Info("Fetching M3U source", "source", src)
		if err := f.fetchOne(ctx, src, m3uDir); err != nil {
			slog.Error("Failed to fetch M3U source", "source", src, "error", err)
			continue
		}
		m3uOK = true
		count++
	}

	for _, src := range config.EPG {
		slog.Info("Fetching EPG source", "source", src)
		if err := f.fetchOne(ctx, src, epgDir); err != nil {
			slog.Error("Failed to fetch EPG source", "source", src, "error", err)
			continue
		}
		count++
	}

	return m3uOK, count
}

func (f *Fetcher) fetchOne(ctx context.Context, src, destFolder string) error {
	dest := destPath(src, destFolder)

	if strings.HasPrefix(strings.ToLower(src), "http") {
		return f.download(ctx, src, dest)
	}

	if _, err := os.Stat(src); err == nil {
		return copyFile(src, dest)
	}

	return fmt.Errorf("invalid source: %q is not a URL or an existing file path", src)
}

func (f *Fetcher) download(ctx context.Context, src, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected HTTP status %d for %s", resp.StatusCode, src)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.CopyBuffer(out, resp.Body, make([]byte, downloadChunkSize)); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", dest, err)
	}

	slog.Info("Downloaded source", "source", src, "file", filepath.Base(dest))
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", dest, err)
	}

	slog.Info("Copied local source", "source", src, "file", filepath.Base(dest))
	return nil
}

// destPath derives a collision-free destination filename from the source's
// base name; an existing file is never overwritten.
func destPath(src, destFolder string) string {
	base := filepath.Base(src)
	if strings.HasPrefix(strings.ToLower(src), "http") {
		if u, err := url.Parse(src); err == nil {
			base = path.Base(u.Path)
		}
	}
	if base == "" || base == "." || base == "/" {
		base = fmt.Sprintf("download_%s.file", time.Now().Format("20060102150405"))
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	dest := filepath.Join(destFolder, base)
	for counter := 1; ; counter++ {
		// Any stat failure means the name is unoccupied or the folder is
		// unusable; either way the create reports it
		if _, err := os.Stat(dest); err != nil {
			return dest
		}
		dest = filepath.Join(destFolder, fmt.Sprintf("%s-%d%s", stem, counter, ext))
	}
}

func cleanFolder(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Error("Failed to list folder for cleaning", "folder", dir, "error", err)
		return
	}

	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		if err := os.RemoveAll(p); err != nil {
			slog.Error("Failed to delete", "path", p, "error", err)
			continue
		}
		slog.Info("Deleted old entry", "path", p)
	}
}
