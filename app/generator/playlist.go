package generator

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/matching"
)

var (
	tvgIDAttrRe  = regexp.MustCompile(`tvg-id="[^"]*"`)
	extinfLeadRe = regexp.MustCompile(`^#EXTINF:-?\d+`)
)

// Playlist writes the rewritten M3U document for the selected associations.
type Playlist struct{}

// NewPlaylist creates a new playlist generator
func NewPlaylist() *Playlist {
	return &Playlist{}
}

// Run writes the playlist to path: a header line, then for every selected
// and associated result the rewritten descriptor and the original URL line.
// The rewrite is textual: only the tvg-id value and the text after the final
// comma change, every other attribute is preserved byte-for-byte. Returns
// the number of entries written.
func (g *Playlist) Run(results []matching.Result, path string) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create playlist %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString("#EXTM3U\n"); err != nil {
		return 0, fmt.Errorf("failed to write playlist %s: %w", path, err)
	}

	count := 0
	for _, r := range results {
		if !r.Selected || r.Channel == nil {
			continue
		}

		extinf := rewriteExtinf(r.Entry.OriginalExtinf, r.Channel.ID, r.Channel.DisplayName)
		if _, err := w.WriteString(extinf + "\n" + r.Entry.URL + "\n"); err != nil {
			return count, fmt.Errorf("failed to write playlist %s: %w", path, err)
		}
		count++
	}

	if err := w.Flush(); err != nil {
		return count, fmt.Errorf("failed to write playlist %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return count, fmt.Errorf("failed to close playlist %s: %w", path, err)
	}

	slog.Info("Generated playlist", "file", path, "channels", count)
	return count, nil
}

// rewriteExtinf replaces the descriptor's tvg-id value in place, or inserts
// the attribute right after the leading duration field when the descriptor
// does not carry one. The text after the final comma becomes the matched
// channel's primary display name.
func rewriteExtinf(extinf, channelID, displayName string) string {
	newID := `tvg-id="` + channelID + `"`

	rewritten := tvgIDAttrRe.ReplaceAllLiteralString(extinf, newID)
	if !strings.Contains(rewritten, newID) {
		if loc := extinfLeadRe.FindStringIndex(rewritten); loc != nil {
			rewritten = rewritten[:loc[1]] + " " + newID + rewritten[loc[1]:]
		}
	}

	if last := strings.LastIndex(rewritten, ","); last != -1 {
		rewritten = rewritten[:last+1] + displayName
	}

	return strings.TrimSpace(rewritten)
}
