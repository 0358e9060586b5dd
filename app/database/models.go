package database

import (
	"time"
)

// SessionMatch represents a match record from the current session
type SessionMatch struct {
	Position       int // Playlist order, 1-based
	EntryName      string
	EntryURL       string
	OriginalExtinf string
	TvgID          string
	GroupTitle     string
	TvgLogo        string
	SourceFile     string
	ChannelID      string
	ChannelName    string
	Score          int
	Selected       bool
	CreatedAt      time.Time
}

// SessionStats summarizes the current session
type SessionStats struct {
	Total    int `json:"total"`
	Matched  int `json:"matched"`
	Selected int `json:"selected"`
}
