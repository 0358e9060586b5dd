package playlist

// Entry is one #EXTINF descriptor and its stream URL as read from an M3U
// source. The original descriptor text is preserved verbatim so the
// generator can rewrite it without disturbing attributes it does not touch.
// Attribute fields default to "" when the descriptor does not carry them.
type Entry struct {
	Name           string
	URL            string
	OriginalExtinf string
	TvgID          string
	GroupTitle     string
	TvgLogo        string
	SourceFile     string
}
