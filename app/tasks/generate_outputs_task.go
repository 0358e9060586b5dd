package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/database"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/generator"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/guide"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/matching"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/playlist"
)

type GenerateOutputsTask struct {
	Task
	matchRepo   *database.MatchRepository
	playlistGen *generator.Playlist
	guideGen    *generator.Guide
	xmltvDir    string
	outputM3U   string
	outputXMLTV string
}

func NewGenerateOutputsTask(matchRepo *database.MatchRepository, playlistGen *generator.Playlist,
	guideGen *generator.Guide, xmltvDir, outputM3U, outputXMLTV string) *GenerateOutputsTask {
	return &GenerateOutputsTask{
		Task:        NewTask(TaskTypeGenerateOutputs),
		matchRepo:   matchRepo,
		playlistGen: playlistGen,
		guideGen:    guideGen,
		xmltvDir:    xmltvDir,
		outputM3U:   outputM3U,
		outputXMLTV: outputXMLTV,
	}
}

func (t *GenerateOutputsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	session, err := t.matchRepo.GetSession()
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	if len(session) == 0 {
		slog.Warn("No stored session, nothing to generate")
		return nil
	}

	results := toResults(session)

	written, err := t.playlistGen.Run(results, t.outputM3U)
	if err != nil {
		return fmt.Errorf("failed to generate playlist: %w", err)
	}

	channelCount, programCount, err := t.guideGen.Run(results, t.xmltvDir, t.outputXMLTV)
	if err != nil {
		return fmt.Errorf("failed to generate guide: %w", err)
	}

	slog.Info("Task completed",
		"type", "GenerateOutputs",
		"duration", t.GetDuration(),
		"playlist_entries", written,
		"guide_channels", channelCount,
		"guide_programs", programCount)

	return nil
}

// toResults rebuilds match results from their stored form. Channel carries
// only identity; the guide generator re-reads full subtrees from disk.
func toResults(session []database.SessionMatch) []matching.Result {
	results := make([]matching.Result, 0, len(session))
	for _, m := range session {
		result := matching.Result{
			Entry: playlist.Entry{
				Name:           m.EntryName,
				URL:            m.EntryURL,
				OriginalExtinf: m.OriginalExtinf,
				TvgID:          m.TvgID,
				GroupTitle:     m.GroupTitle,
				TvgLogo:        m.TvgLogo,
				SourceFile:     m.SourceFile,
			},
			Score:    m.Score,
			Selected: m.Selected,
		}
		if m.ChannelID != "" {
			result.Channel = &guide.Channel{ID: m.ChannelID, DisplayName: m.ChannelName}
		}
		results = append(results, result)
	}

	return results
}
