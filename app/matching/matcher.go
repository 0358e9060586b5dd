package matching

import (
	"log/slog"
	"strings"

	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/guide"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/playlist"
)

// Matcher associates playlist entries with guide channels
type Matcher struct{}

// NewMatcher creates a new matcher
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Run produces one Result per playlist entry, in input order. Per entry the
// first rule that applies wins: a preserved tvg-id present in the identifier
// index, an exact normalized-name match, then a token-filtered fuzzy search.
// The optional progress callback fires once per entry with the 1-based count
// processed so far, on the matching goroutine.
func (m *Matcher) Run(entries []playlist.Entry, channels []*guide.Channel, threshold int, preserveExisting bool, progress func(processed int)) []Result {
	if preserveExisting {
		slog.Info("Starting auto-matching, prioritizing existing tvg-id assignments")
	} else {
		slog.Info("Starting auto-matching, re-matching all channels")
	}

	if len(channels) == 0 {
		slog.Warn("No guide channels loaded, skipping matching")
		return []Result{}
	}

	idx := BuildIndices(channels)
	results := make([]Result, 0, len(entries))

	for i, entry := range entries {
		best, score := m.matchEntry(entry, idx, preserveExisting)
		results = append(results, Result{
			Entry:    entry,
			Channel:  best,
			Score:    score,
			Selected: score >= threshold,
		})

		if progress != nil {
			progress(i + 1)
		}
	}

	slog.Info("Auto-matching completed", "entries", len(entries))
	return results
}

func (m *Matcher) matchEntry(entry playlist.Entry, idx *Indices, preserveExisting bool) (*guide.Channel, int) {
	// An existing tvg-id represents a previously confirmed decision and is
	// never overridden by the fuzzy pass
	tvgID := strings.TrimSpace(entry.TvgID)
	if preserveExisting && tvgID != "" {
		if ch, ok := idx.ByID[tvgID]; ok {
			slog.Debug("Existing tvg-id match locked", "channel", entry.Name, "tvg_id", tvgID)
			return ch, 100
		}
	}

	normalized := NormalizeName(entry.Name)
	if ch, ok := idx.ByName[normalized]; ok {
		return ch, 100
	}

	pool := idx.CandidatePool(normalized)
	if len(pool) == 0 {
		return nil, 0
	}

	bestName := ""
	bestScore := -1
	for _, name := range pool {
		if s := Ratio(entry.Name, name); s > bestScore {
			bestScore = s
			bestName = name
		}
	}

	return idx.ByName[NormalizeName(bestName)], bestScore
}
