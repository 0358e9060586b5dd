package matching

import (
	"testing"

	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/guide"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/playlist"
)

func guideCatalog() []*guide.Channel {
	return []*guide.Channel{
		{ID: "hbo.us", DisplayName: "HBO East HD"},
		{ID: "fox.us", DisplayName: "Fox News"},
		{ID: "cnn.us", DisplayName: "CNN International"},
	}
}

func TestRun_EmptyGuideCatalog(t *testing.T) {
	matcher := NewMatcher()

	entries := []playlist.Entry{{Name: "HBO East"}, {Name: "Fox News"}}
	results := matcher.Run(entries, nil, 80, true, nil)

	if len(results) != 0 {
		t.Errorf("Empty guide catalog should short-circuit to an empty result list, got %d results", len(results))
	}
}

func TestRun_IdentifierPriority(t *testing.T) {
	matcher := NewMatcher()

	// The tvg-id points at CNN even though the name is lexically HBO; the
	// preserved identifier must win with score 100
	entries := []playlist.Entry{{Name: "HBO East HD", TvgID: "cnn.us"}}
	results := matcher.Run(entries, guideCatalog(), 80, true, nil)

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Channel == nil || r.Channel.ID != "cnn.us" {
		t.Errorf("Expected association with 'cnn.us', got %+v", r.Channel)
	}
	if r.Score != 100 {
		t.Errorf("Identifier match must score exactly 100, got %d", r.Score)
	}
	if !r.Selected {
		t.Error("Score 100 with threshold 80 must be selected")
	}
}

func TestRun_IdentifierIgnoredWhenNotPreserving(t *testing.T) {
	matcher := NewMatcher()

	entries := []playlist.Entry{{Name: "HBO East HD", TvgID: "cnn.us"}}
	results := matcher.Run(entries, guideCatalog(), 80, false, nil)

	if results[0].Channel == nil || results[0].Channel.ID != "hbo.us" {
		t.Errorf("Without identifier continuity the name match must win, got %+v", results[0].Channel)
	}
	if results[0].Score != 100 {
		t.Errorf("Exact normalized-name match must score 100, got %d", results[0].Score)
	}
}

func TestRun_ExactNameMatch(t *testing.T) {
	matcher := NewMatcher()

	entries := []playlist.Entry{{Name: "FOX NEWS!"}}
	results := matcher.Run(entries, guideCatalog(), 80, true, nil)

	if results[0].Channel == nil || results[0].Channel.ID != "fox.us" {
		t.Errorf("Expected exact-name association with 'fox.us', got %+v", results[0].Channel)
	}
	if results[0].Score != 100 {
		t.Errorf("Exact normalized-name match must score 100, got %d", results[0].Score)
	}
}

func TestRun_FuzzyTokenMatch(t *testing.T) {
	matcher := NewMatcher()

	entries := []playlist.Entry{{Name: "HBO East", GroupTitle: "Movies"}}
	results := matcher.Run(entries, guideCatalog(), 70, true, nil)

	r := results[0]
	if r.Channel == nil || r.Channel.ID != "hbo.us" {
		t.Fatalf("Expected fuzzy association with 'hbo.us', got %+v", r.Channel)
	}
	// Ratio("HBO East", "HBO East HD"): distance 3 over length 11
	if r.Score != 73 {
		t.Errorf("Expected score 73, got %d", r.Score)
	}
	if !r.Selected {
		t.Error("Score 73 with threshold 70 must be selected")
	}
}

func TestRun_UnmatchedBelowThreshold(t *testing.T) {
	matcher := NewMatcher()

	entries := []playlist.Entry{{Name: "Completely Different"}}
	results := matcher.Run(entries, guideCatalog(), 80, true, nil)

	r := results[0]
	if r.Selected {
		t.Errorf("Low-similarity result must not be selected, score %d", r.Score)
	}
	if r.Score < 0 || r.Score > 100 {
		t.Errorf("Score out of bounds: %d", r.Score)
	}
}

func TestRun_ScoreBoundsAndSelection(t *testing.T) {
	matcher := NewMatcher()

	entries := []playlist.Entry{
		{Name: "HBO East"},
		{Name: "Fox News"},
		{Name: "Nothing Alike Whatsoever"},
		{Name: "CNN Intl", TvgID: "cnn.us"},
	}
	threshold := 73
	results := matcher.Run(entries, guideCatalog(), threshold, true, nil)

	if len(results) != len(entries) {
		t.Fatalf("Expected %d results, got %d", len(entries), len(results))
	}
	for i, r := range results {
		if r.Score < 0 || r.Score > 100 {
			t.Errorf("Result %d score out of bounds: %d", i, r.Score)
		}
		if r.Selected != (r.Score >= threshold) {
			t.Errorf("Result %d: selected=%t inconsistent with score %d and threshold %d", i, r.Selected, r.Score, threshold)
		}
	}
}

func TestRun_ProgressCallback(t *testing.T) {
	matcher := NewMatcher()

	entries := []playlist.Entry{{Name: "HBO East"}, {Name: "Fox News"}, {Name: "CNN"}}

	var calls []int
	matcher.Run(entries, guideCatalog(), 80, true, func(processed int) {
		calls = append(calls, processed)
	})

	if len(calls) != len(entries) {
		t.Fatalf("Progress must fire once per entry, got %d calls", len(calls))
	}
	for i, c := range calls {
		if c != i+1 {
			t.Errorf("Progress call %d reported %d, expected %d", i, c, i+1)
		}
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio("same", "same"); got != 100 {
		t.Errorf("Identical strings must score 100, got %d", got)
	}
	if got := Ratio("", ""); got != 100 {
		t.Errorf("Two empty strings must score 100, got %d", got)
	}
	if got := Ratio("abc", "xyz"); got != 0 {
		t.Errorf("Fully different strings of equal length must score 0, got %d", got)
	}
	if got := Ratio("HBO East", "HBO East HD"); got != 73 {
		t.Errorf("Expected 73, got %d", got)
	}
}
