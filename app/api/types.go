package api

import (
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/database"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/fetcher"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/generator"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/guide"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/matching"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/playlist"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/tasks"
)

type Handler struct {
	matchRepo      *database.MatchRepository
	scheduler      tasks.TaskSchedulerInterface
	fetcher        *fetcher.Fetcher
	playlistParser *playlist.Parser
	guideParser    *guide.Parser
	matcher        *matching.Matcher
	playlistGen    *generator.Playlist
	guideGen       *generator.Guide
}
