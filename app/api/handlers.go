package api

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/cfg"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/database"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/fetcher"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/generator"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/guide"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/matching"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/playlist"
	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/tasks"
)

func NewHandler(matchRepo *database.MatchRepository, scheduler tasks.TaskSchedulerInterface,
	f *fetcher.Fetcher) *Handler {
	return &Handler{
		matchRepo:      matchRepo,
		scheduler:      scheduler,
		fetcher:        f,
		playlistParser: playlist.NewParser(),
		guideParser:    guide.NewParser(),
		matcher:        matching.NewMatcher(),
		playlistGen:    generator.NewPlaylist(),
		guideGen:       generator.NewGuide(),
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if stats, err := h.matchRepo.GetStats(); err == nil {
		health["session_entries"] = stats.Total
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.matchRepo.GetStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) TriggerFetch(c *gin.Context) {
	appCfg := cfg.Get()
	task := tasks.NewFetchSourcesTask(h.fetcher, appCfg.SourcesFile, appCfg.M3UDir, appCfg.XMLTVDir)

	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue task", "type", string(task.GetType()), "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Task queue is full"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "queued",
		"task_id": task.GetID(),
		"type":    string(task.GetType()),
	})
}

func (h *Handler) TriggerMatch(c *gin.Context) {
	appCfg := cfg.Get()
	task := tasks.NewMatchChannelsTask(h.playlistParser, h.guideParser, h.matcher, h.matchRepo,
		appCfg.SourcesFile, appCfg.M3UDir, appCfg.XMLTVDir)

	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue task", "type", string(task.GetType()), "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Task queue is full"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "queued",
		"task_id": task.GetID(),
		"type":    string(task.GetType()),
	})
}

func (h *Handler) TriggerGenerate(c *gin.Context) {
	appCfg := cfg.Get()
	task := tasks.NewGenerateOutputsTask(h.matchRepo, h.playlistGen, h.guideGen,
		appCfg.XMLTVDir, appCfg.OutputM3U, appCfg.OutputXMLTV)

	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue task", "type", string(task.GetType()), "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Task queue is full"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "queued",
		"task_id": task.GetID(),
		"type":    string(task.GetType()),
	})
}

func (h *Handler) ListMatches(c *gin.Context) {
	session, err := h.matchRepo.GetSession()
	if err != nil {
		slog.Error("Database error", "operation", "get_session", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	matches := make([]map[string]interface{}, 0, len(session))
	for _, m := range session {
		matches = append(matches, map[string]interface{}{
			"position":     m.Position,
			"entry_name":   m.EntryName,
			"group_title":  m.GroupTitle,
			"channel_id":   m.ChannelID,
			"channel_name": m.ChannelName,
			"score":        m.Score,
			"selected":     m.Selected,
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"matches": matches,
		"total":   len(matches),
	})
}

type updateMatchRequest struct {
	Selected    *bool   `json:"selected"`
	ChannelID   *string `json:"channel_id"`
	ChannelName *string `json:"channel_name"`
	Score       *int    `json:"score"`
}

func (h *Handler) UpdateMatch(c *gin.Context) {
	position, err := strconv.Atoi(c.Param("position"))
	if err != nil || position < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid position parameter"})
		return
	}

	var req updateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updated, err := h.matchRepo.UpdateMatch(position, req.Selected, req.ChannelID, req.ChannelName, req.Score)
	if err != nil {
		slog.Error("Database error", "operation", "update_match", "position", position, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No match at given position"})
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"position":     updated.Position,
		"entry_name":   updated.EntryName,
		"channel_id":   updated.ChannelID,
		"channel_name": updated.ChannelName,
		"score":        updated.Score,
		"selected":     updated.Selected,
	})
}

func (h *Handler) GetPlaylist(c *gin.Context) {
	h.serveOutput(c, cfg.Get().OutputM3U, "audio/x-mpegurl")
}

func (h *Handler) GetGuide(c *gin.Context) {
	h.serveOutput(c, cfg.Get().OutputXMLTV, "application/xml; charset=utf-8")
}

func (h *Handler) serveOutput(c *gin.Context, path, contentType string) {
	info, err := os.Stat(path)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Output not generated yet"})
		return
	}

	c.Header("Content-Type", contentType)
	c.Header("X-Last-Updated", info.ModTime().Format(time.RFC3339))
	c.File(path)
}
