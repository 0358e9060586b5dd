package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/fetcher"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/sources"
)

type FetchSourcesTask struct {
	Task
	fetcher     *fetcher.Fetcher
	sourcesFile string
	m3uDir      string
	epgDir      string
}

func NewFetchSourcesTask(f *fetcher.Fetcher, sourcesFile, m3uDir, epgDir string) *FetchSourcesTask {
	return &FetchSourcesTask{
		Task:        NewTask(TaskTypeFetchSources),
		fetcher:     f,
		sourcesFile: sourcesFile,
		m3uDir:      m3uDir,
		epgDir:      epgDir,
	}
}

func (t *FetchSourcesTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	config, err := sources.Load(t.sourcesFile)
	if err != nil {
		return fmt.Errorf("failed to load sources config: %w", err)
	}

	if len(config.M3U) == 0 && len(config.EPG) == 0 {
		slog.Warn("No sources configured, nothing to fetch", "file", t.sourcesFile)
		return nil
	}

	ok, fetched := t.fetcher.Run(ctx, config, t.m3uDir, t.epgDir, config.Settings.CleanDownload)
	if !ok && len(config.M3U) > 0 {
		return fmt.Errorf("no playlist source could be fetched")
	}

	slog.Info("Task completed",
		"type", "FetchSources",
		"duration", t.GetDuration(),
		"sources", len(config.M3U)+len(config.EPG),
		"fetched", fetched)

	return nil
}
