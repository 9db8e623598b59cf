package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"ai-garden-planner/internal/plant"
)

// Repository is the durable cache of resolved plant records, keyed by
// normalized name. Entries have no expiry; writes are last-writer-wins
// upserts, which is acceptable because generated content is idempotent
// enough to overwrite.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository backed by an existing connection.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Get retrieves a cached record by name. Returns (nil, nil) when the name
// is not cached; errors are real I/O faults.
func (r *Repository) Get(ctx context.Context, name string) (*plant.Record, error) {
	key := plant.NormalizeName(name)

	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM plants WHERE name = ?`, key,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plant %q from cache: %w", key, err)
	}

	var rec plant.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached plant %q: %w", key, err)
	}
	return &rec, nil
}

// Put upserts a record into the cache. The model argument records which
// generation model produced the data, for stats purposes.
func (r *Repository) Put(ctx context.Context, rec plant.Record, model string) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal plant %q: %w", rec.Name, err)
	}

	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO plants (name, data, source, model, usage_count, created_at, updated_at)
		VALUES (?, ?, 'generated', ?, 0, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			data = excluded.data,
			model = excluded.model,
			updated_at = excluded.updated_at`,
		rec.Key(), string(data), model, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert plant %q into cache: %w", rec.Key(), err)
	}
	return nil
}

// Search returns cached records whose name contains the query substring,
// most used first, then alphabetical.
func (r *Repository) Search(ctx context.Context, query string, limit int) ([]plant.Record, error) {
	pattern := "%" + plant.NormalizeName(query) + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT data FROM plants
		WHERE name LIKE ?
		ORDER BY usage_count DESC, name ASC
		LIMIT ?`,
		pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search cache for %q: %w", query, err)
	}
	defer rows.Close()

	var records []plant.Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan cached plant: %w", err)
		}
		var rec plant.Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			log.Printf("Warning: skipping corrupt cache entry: %v", err)
			continue
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// IncrementUsage bumps the usage counter for a cached plant. Failures are
// non-critical and logged rather than propagated.
func (r *Repository) IncrementUsage(ctx context.Context, name string) {
	key := plant.NormalizeName(name)
	if _, err := r.db.ExecContext(ctx,
		`UPDATE plants SET usage_count = usage_count + 1 WHERE name = ?`, key,
	); err != nil {
		log.Printf("Warning: could not increment usage count for %q: %v", key, err)
	}
}

// Count returns the number of cached records.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM plants`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cached plants: %w", err)
	}
	return count, nil
}
