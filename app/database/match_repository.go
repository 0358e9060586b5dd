package database

import (
	"database/sql"
	"fmt"

	"github.com/cjhines7/MXCM---M3U-XMLTV-Channel-Matcher/app/matching"
)

// MatchRepository handles database operations for session matches
type MatchRepository struct {
	db *DB
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db *DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// ReplaceSession discards the stored session and writes the given results in playlist order
func (r *MatchRepository) ReplaceSession(results []matching.Result) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM session_matches`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO session_matches
			(position, entry_name, entry_url, original_extinf, tvg_id, group_title,
			 tvg_logo, source_file, channel_id, channel_name, score, selected)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, result := range results {
		channelID := ""
		channelName := ""
		if result.Channel != nil {
			channelID = result.Channel.ID
			channelName = result.Channel.DisplayName
		}

		_, err := stmt.Exec(i+1, result.Entry.Name, result.Entry.URL, result.Entry.OriginalExtinf,
			result.Entry.TvgID, result.Entry.GroupTitle, result.Entry.TvgLogo, result.Entry.SourceFile,
			channelID, channelName, result.Score, result.Selected)
		if err != nil {
			return fmt.Errorf("failed to insert match at position %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}

	return nil
}

// GetSession returns all stored matches in playlist order
func (r *MatchRepository) GetSession() ([]SessionMatch, error) {
	rows, err := r.db.Query(`
		SELECT position, entry_name, entry_url, original_extinf, tvg_id, group_title,
		       tvg_logo, source_file, channel_id, channel_name, score, selected, created_at
		FROM session_matches
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	defer rows.Close()

	var matches []SessionMatch
	for rows.Next() {
		var m SessionMatch
		err := rows.Scan(&m.Position, &m.EntryName, &m.EntryURL, &m.OriginalExtinf,
			&m.TvgID, &m.GroupTitle, &m.TvgLogo, &m.SourceFile,
			&m.ChannelID, &m.ChannelName, &m.Score, &m.Selected, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session: %w", err)
	}

	return matches, nil
}

// GetMatch returns the stored match at the given position
func (r *MatchRepository) GetMatch(position int) (*SessionMatch, error) {
	var m SessionMatch
	err := r.db.QueryRow(`
		SELECT position, entry_name, entry_url, original_extinf, tvg_id, group_title,
		       tvg_logo, source_file, channel_id, channel_name, score, selected, created_at
		FROM session_matches
		WHERE position = ?
	`, position).Scan(&m.Position, &m.EntryName, &m.EntryURL, &m.OriginalExtinf,
		&m.TvgID, &m.GroupTitle, &m.TvgLogo, &m.SourceFile,
		&m.ChannelID, &m.ChannelName, &m.Score, &m.Selected, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return &m, nil
}

// UpdateMatch overrides the association stored at the given position. Nil fields are left unchanged.
func (r *MatchRepository) UpdateMatch(position int, selected *bool, channelID, channelName *string, score *int) (*SessionMatch, error) {
	existing, err := r.GetMatch(position)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if selected != nil {
		existing.Selected = *selected
	}
	if channelID != nil {
		existing.ChannelID = *channelID
	}
	if channelName != nil {
		existing.ChannelName = *channelName
	}
	if score != nil {
		existing.Score = *score
	}

	_, err = r.db.Exec(`
		UPDATE session_matches
		SET channel_id = ?, channel_name = ?, score = ?, selected = ?
		WHERE position = ?
	`, existing.ChannelID, existing.ChannelName, existing.Score, existing.Selected, position)
	if err != nil {
		return nil, fmt.Errorf("failed to update match: %w", err)
	}

	return existing, nil
}

// GetStats returns summary counts for the stored session
func (r *MatchRepository) GetStats() (SessionStats, error) {
	var stats SessionStats
	err := r.db.QueryRow(`
		SELECT COUNT(*),
		       COUNT(CASE WHEN channel_id != '' THEN 1 END),
		       COUNT(CASE WHEN selected THEN 1 END)
		FROM session_matches
	`).Scan(&stats.Total, &stats.Matched, &stats.Selected)
	if err != nil {
		return SessionStats{}, fmt.Errorf("failed to get session stats: %w", err)
	}

	return stats, nil
}

// ClearSession removes all stored matches
func (r *MatchRepository) ClearSession() error {
	if _, err := r.db.Exec(`DELETE FROM session_matches`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	return nil
}
