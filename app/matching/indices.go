package matching

import (
	"log/slog"
	"strings"

	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/guide"
)

// BuildIndices builds the identifier, normalized-name and token lookup
// structures in a single pass over the guide catalog. Deterministic for a
// fixed input order; not safe to call while the catalog is being mutated.
func BuildIndices(channels []*guide.Channel) *Indices {
	idx := &Indices{
		ByID:     make(map[string]*guide.Channel),
		ByName:   make(map[string]*guide.Channel),
		Tokens:   make(map[string]map[string]struct{}),
		AllNames: make([]string, 0, len(channels)),
	}

	for _, ch := range channels {
		if ch.ID != "" {
			idx.ByID[ch.ID] = ch
		}
		normalized := NormalizeName(ch.DisplayName)
		idx.ByName[normalized] = ch
		idx.AllNames = append(idx.AllNames, ch.DisplayName)

		for _, token := range strings.Fields(normalized) {
			if len(token) <= 1 {
				continue
			}
			names, ok := idx.Tokens[token]
			if !ok {
				names = make(map[string]struct{})
				idx.Tokens[token] = names
			}
			names[ch.DisplayName] = struct{}{}
		}
	}

	slog.Debug("Guide indices built", "ids", len(idx.ByID), "tokens", len(idx.Tokens))
	return idx
}

// CandidatePool returns the fuzzy-match candidate names for a normalized
// playlist name: the union of the token postings for every token of length
// > 1, or the full catalog when no token matches anything. The pool follows
// catalog order, so a score tie always resolves the same way within a run.
func (idx *Indices) CandidatePool(normalizedName string) []string {
	seen := make(map[string]struct{})
	for _, token := range strings.Fields(normalizedName) {
		if len(token) <= 1 {
			continue
		}
		for name := range idx.Tokens[token] {
			seen[name] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return idx.AllNames
	}

	pool := make([]string, 0, len(seen))
	for _, name := range idx.AllNames {
		if _, ok := seen[name]; ok {
			pool = append(pool, name)
			delete(seen, name)
		}
	}
	return pool
}
