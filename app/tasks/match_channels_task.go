package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/database"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/guide"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/matching"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/playlist"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/sources"
)

type MatchChannelsTask struct {
	Task
	playlistParser *playlist.Parser
	guideParser    *guide.Parser
	matcher        *matching.Matcher
	matchRepo      *database.MatchRepository
	sourcesFile    string
	m3uDir         string
	xmltvDir       string
}

func NewMatchChannelsTask(playlistParser *playlist.Parser, guideParser *guide.Parser,
	matcher *matching.Matcher, matchRepo *database.MatchRepository,
	sourcesFile, m3uDir, xmltvDir string) *MatchChannelsTask {
	return &MatchChannelsTask{
		Task:           NewTask(TaskTypeMatchChannels),
		playlistParser: playlistParser,
		guideParser:    guideParser,
		matcher:        matcher,
		matchRepo:      matchRepo,
		sourcesFile:    sourcesFile,
		m3uDir:         m3uDir,
		xmltvDir:       xmltvDir,
	}
}

func (t *MatchChannelsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	config, err := sources.Load(t.sourcesFile)
	if err != nil {
		return fmt.Errorf("failed to load sources config: %w", err)
	}

	entries, err := t.loadEntries(config)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no playlist entries found in %s", t.m3uDir)
	}

	channels, err := t.loadChannels()
	if err != nil {
		return err
	}

	results := t.matcher.Run(entries, channels, config.Settings.Threshold,
		config.Settings.PreserveExisting, func(processed int) {
			if processed%100 == 0 {
				slog.Debug("Matching progress", "processed", processed, "total", len(entries))
			}
		})

	if err := t.matchRepo.ReplaceSession(results); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	selected := 0
	for _, result := range results {
		if result.Selected {
			selected++
		}
	}

	slog.Info("Task completed",
		"type", "MatchChannels",
		"duration", t.GetDuration(),
		"entries", len(entries),
		"channels", len(channels),
		"selected", selected)

	return nil
}

func (t *MatchChannelsTask) loadEntries(config *sources.Config) ([]playlist.Entry, error) {
	files, err := listFiles(t.m3uDir, ".m3u", ".m3u8")
	if err != nil {
		return nil, fmt.Errorf("failed to list playlist folder: %w", err)
	}

	var entries []playlist.Entry
	for _, file := range files {
		parsed, err := t.playlistParser.ParseFile(file)
		if err != nil {
			slog.Warn("Skipping unreadable playlist file", "file", file, "error", err)
			continue
		}
		for _, entry := range parsed {
			if config.SelectsCategory(entry.GroupTitle) {
				entries = append(entries, entry)
			}
		}
	}

	return entries, nil
}

func (t *MatchChannelsTask) loadChannels() ([]*guide.Channel, error) {
	files, err := listFiles(t.xmltvDir, ".xml", ".xmltv")
	if err != nil {
		return nil, fmt.Errorf("failed to list guide folder: %w", err)
	}

	var channels []*guide.Channel
	for _, file := range files {
		parsed, err := t.guideParser.ParseFile(file)
		if err != nil {
			slog.Warn("Skipping unreadable guide file", "file", file, "error", err)
			continue
		}
		channels = append(channels, parsed...)
	}

	return channels, nil
}

// listFiles returns the files in dir matching one of the extensions, a
// gzipped variant of one, or a plain .gz name, in name order. The folder
// decides the file's role, so a bare .gz is always taken as a source.
func listFiles(dir string, exts ...string) ([]string, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() {
			continue
		}
		name := strings.ToLower(dirEntry.Name())
		if strings.HasSuffix(name, ".gz") {
			files = append(files, filepath.Join(dir, dirEntry.Name()))
			continue
		}
		for _, ext := range exts {
			if strings.HasSuffix(name, ext) {
				files = append(files, filepath.Join(dir, dirEntry.Name()))
				break
			}
		}
	}
	sort.Strings(files)

	return files, nil
}
