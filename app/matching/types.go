package matching

import (
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/guide"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/playlist"
)

// Result is one association record: the owning playlist entry, the guide
// channel it was matched to (nil = unmatched), the similarity score and the
// output-selection flag. Results are produced one per entry in input order;
// callers may flip Selected or swap Channel afterwards (manual override),
// the engine never re-derives a result implicitly.
type Result struct {
	Entry    playlist.Entry
	Channel  *guide.Channel
	Score    int
	Selected bool
}

// Indices are derived read-only lookup views over a guide catalog. They are
// rebuilt wholesale whenever the catalog changes; last-write-wins semantics
// depend on processing order, so they are never patched in place.
type Indices struct {
	// ByID maps a channel identifier to its channel (last write wins)
	ByID map[string]*guide.Channel
	// ByName maps a normalized primary display name to its channel
	// (last write wins; aliases beyond the primary name are not indexed)
	ByName map[string]*guide.Channel
	// Tokens maps a normalized-name token (len > 1) to the set of primary
	// display names containing it
	Tokens map[string]map[string]struct{}
	// AllNames lists every primary display name in catalog order
	AllNames []string
}
