package generator

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/guide"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/matching"
)

const generatorInfoName = "M3U-XMLTV Channel Matcher"

// Guide writes the filtered XMLTV document for the selected associations.
// Generation is two-pass: the sources are re-parsed from disk so the output
// always carries the freshest authoritative copy of each channel subtree,
// never one restored from a saved session.
type Guide struct {
	parser *guide.Parser
}

// NewGuide creates a new guide generator
func NewGuide() *Guide {
	return &Guide{parser: guide.NewParser()}
}

// Run generates the guide document at path from the XMLTV sources in
// sourceDir, restricted to the channels of the selected associations.
// Returns the counts of distinct channels and program entries emitted.
func (g *Guide) Run(results []matching.Result, sourceDir, path string) (int, int, error) {
	files, err := sourceFiles(sourceDir)
	if err != nil {
		return 0, 0, err
	}

	// Pass 1: re-parse the sources for fresh channel subtrees
	slog.Info("Starting XMLTV generation (pass 1/2): collecting channel data")
	fresh := make(map[string]guide.RawElement)
	for _, file := range files {
		channels, err := g.parser.ParseFile(file)
		if err != nil {
			slog.Error("Skipping XMLTV file due to parsing error", "file", file, "error", err)
			continue
		}
		for _, ch := range channels {
			if ch.ID != "" {
				fresh[ch.ID] = ch.Raw
			}
		}
	}

	wanted := make(map[string]struct{})
	captured := make(map[string]guide.RawElement)
	for _, r := range results {
		if !r.Selected || r.Channel == nil || r.Channel.ID == "" {
			continue
		}
		wanted[r.Channel.ID] = struct{}{}
		if raw, ok := fresh[r.Channel.ID]; ok {
			if _, done := captured[r.Channel.ID]; !done {
				captured[r.Channel.ID] = raw
			}
		}
	}

	if len(wanted) == 0 {
		slog.Warn("No channels selected for XMLTV generation, aborting")
		return 0, 0, nil
	}

	slog.Info("Collected channel elements to write", "channels", len(captured))

	// Pass 2: stream-write the output document
	slog.Info("Starting XMLTV generation (pass 2/2): writing channel and program data")
	programCount, err := g.write(files, captured, wanted, path)
	if err != nil {
		return 0, 0, err
	}

	slog.Info("Generated XMLTV", "file", path, "channels", len(captured), "programs", programCount)
	return len(captured), programCount, nil
}

func (g *Guide) write(files []string, captured map[string]guide.RawElement, wanted map[string]struct{}, path string) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create XMLTV output %s: %w", path, err)
	}
	defer f.Close()

	var out io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz = gzip.NewWriter(f)
		defer gz.Close()
		out = gz
	}
	w := bufio.NewWriter(out)

	if _, err := w.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"); err != nil {
		return 0, fmt.Errorf("failed to write XMLTV output %s: %w", path, err)
	}
	if _, err := w.WriteString(`<tv generator-info-name="` + generatorInfoName + "\">\n"); err != nil {
		return 0, fmt.Errorf("failed to write XMLTV output %s: %w", path, err)
	}

	// Channels in ascending identifier order for deterministic output
	ids := make([]string, 0, len(captured))
	for id := range captured {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := captured[id].WriteTo(w); err != nil {
			return 0, fmt.Errorf("failed to write XMLTV output %s: %w", path, err)
		}
	}

	programCount := 0
	keep := func(channelID string) bool {
		_, ok := wanted[channelID]
		return ok
	}
	for _, file := range files {
		slog.Debug("Scanning for programs", "file", filepath.Base(file))
		n, err := g.parser.ScanPrograms(file, keep, func(e guide.RawElement) error {
			return e.WriteTo(w)
		})
		programCount += n
		if err != nil {
			// Losing one source's programs is not fatal to the whole output
			slog.Error("Skipping remainder of XMLTV file due to parsing error", "file", file, "error", err)
		}
	}

	if _, err := w.WriteString("</tv>\n"); err != nil {
		return programCount, fmt.Errorf("failed to write XMLTV output %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return programCount, fmt.Errorf("failed to write XMLTV output %s: %w", path, err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return programCount, fmt.Errorf("failed to write XMLTV output %s: %w", path, err)
		}
	}
	if err := f.Close(); err != nil {
		return programCount, fmt.Errorf("failed to close XMLTV output %s: %w", path, err)
	}

	return programCount, nil
}

func sourceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list XMLTV folder %s: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		if strings.HasSuffix(name, ".xml") || strings.HasSuffix(name, ".xmltv") || strings.HasSuffix(name, ".gz") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
