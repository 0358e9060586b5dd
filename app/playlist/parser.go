package playlist

import (
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	tvgNameRe    = regexp.MustCompile(`tvg-name="([^"]+)"`)
	tvgIDRe      = regexp.MustCompile(`tvg-id="([^"]+)"`)
	groupTitleRe = regexp.MustCompile(`group-title="([^"]+)"`)
	tvgLogoRe    = regexp.MustCompile(`tvg-logo="([^"]+)"`)
)

// Parser handles parsing of M3U playlist files
type Parser struct{}

// NewParser creates a new playlist parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile reads a single M3U file and returns its entries in file order.
// Compressed input is handled transparently based on the .gz extension.
// Failure to open or decode the file is fatal for that file only; sibling
// files are parsed independently by the caller.
func (p *Parser) ParseFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("Failed to open M3U file", "file", path, "error", err)
		return nil, fmt.Errorf("failed to open M3U file %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			slog.Error("Failed to decompress M3U file", "file", path, "error", err)
			return nil, fmt.Errorf("failed to decompress M3U file %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	data, err := io.ReadAll(r)
	if err != nil {
		slog.Error("Failed to read M3U file", "file", path, "error", err)
		return nil, fmt.Errorf("failed to read M3U file %s: %w", path, err)
	}

	entries := p.parse(string(data), filepath.Base(path))
	slog.Debug("Parsed M3U file", "file", path, "entries", len(entries))
	return entries, nil
}

// parse splits content into consecutive descriptor+URL pairs: an #EXTINF
// line followed by the line(s) up to the next descriptor.
func (p *Parser) parse(content, sourceFile string) []Entry {
	lines := strings.Split(content, "\n")
	entries := make([]Entry, 0)

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "#EXTINF:") {
			i++
			continue
		}

		var urlLines []string
		j := i + 1
		for j < len(lines) && !strings.HasPrefix(strings.TrimSpace(lines[j]), "#EXTINF:") {
			urlLines = append(urlLines, lines[j])
			j++
		}

		// A descriptor with no stream location is not an entry
		url := strings.TrimSpace(strings.Join(urlLines, "\n"))
		if url != "" {
			entries = append(entries, p.newEntry(line, url, sourceFile))
		}
		i = j
	}

	return entries
}

func (p *Parser) newEntry(extinf, url, sourceFile string) Entry {
	name := attrValue(tvgNameRe, extinf)
	if name == "" {
		// Fall back to the text after the final comma of the descriptor
		name = strings.TrimSpace(extinf[strings.LastIndex(extinf, ",")+1:])
	}

	return Entry{
		Name:           name,
		URL:            url,
		OriginalExtinf: extinf,
		TvgID:          attrValue(tvgIDRe, extinf),
		GroupTitle:     attrValue(groupTitleRe, extinf),
		TvgLogo:        attrValue(tvgLogoRe, extinf),
		SourceFile:     sourceFile,
	}
}

func attrValue(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
