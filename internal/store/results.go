package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/soupgym/soupgym/internal/domain"
)

// ResultRow is one recorded grading outcome.
type ResultRow struct {
	EpisodeID   string             `json:"episode_id"`
	ArchetypeID string             `json:"archetype_id"`
	Seed        uint64             `json:"seed"`
	Reward      float64            `json:"reward"`
	Metrics     map[string]float64 `json:"metrics"`
	CreatedAt   time.Time          `json:"created_at"`
}

// RecordResult persists one graded episode for offline analysis.
func (d *DB) RecordResult(episodeID string, task *domain.TaskInstance, bd *domain.RewardBreakdown) error {
	metrics, err := json.Marshal(bd.Metrics())
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	_, err = d.db.Exec(
		`INSERT INTO results (episode_id, archetype_id, seed, reward, metrics, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		episodeID, task.ArchetypeID, int64(task.Seed), bd.Reward, string(metrics), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

// ListResults returns the most recent results, newest first.
func (d *DB) ListResults(limit int) ([]ResultRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.db.Query(
		`SELECT episode_id, archetype_id, seed, reward, metrics, created_at
		 FROM results ORDER BY created_at DESC, episode_id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ResultRow
	for rows.Next() {
		var r ResultRow
		var seed, created int64
		var metrics string
		if err := rows.Scan(&r.EpisodeID, &r.ArchetypeID, &seed, &r.Reward, &metrics, &created); err != nil {
			return nil, err
		}
		r.Seed = uint64(seed)
		r.CreatedAt = time.Unix(created, 0)
		if err := json.Unmarshal([]byte(metrics), &r.Metrics); err != nil {
			return nil, fmt.Errorf("decode metrics for %s: %w", r.EpisodeID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
