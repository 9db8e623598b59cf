package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ai-garden-planner/internal/shared"
)

// GenerationMetric records metadata for a single plant generation attempt.
type GenerationMetric struct {
	PlantName        string
	Model            string
	Outcome          string
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
	Timestamp        time.Time
}

// Store handles persistence of generation metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(m GenerationMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO generation_metrics (plant_name, model, outcome, prompt_tokens, completion_tokens, latency_ms, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.PlantName, m.Model, m.Outcome, m.PromptTokens, m.CompletionTokens, m.LatencyMS, ts)
	if err != nil {
		return fmt.Errorf("failed to insert generation metric for %s: %w", m.PlantName, err)
	}
	return nil
}

// RecordGeneration records metrics directly from shared.GenerationMeta. It
// satisfies the resolver's MetricsRecorder interface.
func (s *Store) RecordGeneration(meta shared.GenerationMeta) error {
	return s.Record(GenerationMetric{
		PlantName:        meta.PlantName,
		Model:            meta.Usage.Model,
		Outcome:          meta.Outcome,
		PromptTokens:     meta.Usage.PromptTokens,
		CompletionTokens: meta.Usage.CompletionTokens,
		LatencyMS:        meta.Latency.Milliseconds(),
		Timestamp:        time.Now().UTC(),
	})
}

// DailyUsage represents generation totals for a single day.
type DailyUsage struct {
	Date            string
	TotalPrompt     int
	TotalCompletion int
	TotalCalls      int
	Failures        int
}

// GetDailyUsage retrieves usage for the last N days, newest first.
func (s *Store) GetDailyUsage(days int) ([]DailyUsage, error) {
	since := time.Now().AddDate(0, 0, -days)
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT date(timestamp) AS day,
		        COALESCE(SUM(prompt_tokens), 0),
		        COALESCE(SUM(completion_tokens), 0),
		        COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome != 'ok' THEN 1 ELSE 0 END), 0)
		 FROM generation_metrics
		 WHERE timestamp >= ?
		 GROUP BY day
		 ORDER BY day DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var u DailyUsage
		if err := rows.Scan(&u.Date, &u.TotalPrompt, &u.TotalCompletion, &u.TotalCalls, &u.Failures); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage row: %w", err)
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days and
// returns the number of rows deleted.
func (s *Store) Cleanup(olderThanDays int) (int64, error) {
	threshold := time.Now().AddDate(0, 0, -olderThanDays)
	res, err := s.db.ExecContext(context.Background(),
		`DELETE FROM generation_metrics WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up generation metrics: %w", err)
	}
	return res.RowsAffected()
}
