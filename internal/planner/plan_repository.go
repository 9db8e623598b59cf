package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// StoredPlan is one persisted plan row. Data holds the raw plan JSON.
type StoredPlan struct {
	ID         string
	PostalCode string
	Data       []byte
	CreatedAt  time.Time
}

// PlanRepository is the database-backed store for garden plans. Plans are
// written once and never updated.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(db *sql.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Save inserts a finished plan keyed by its id.
func (r *PlanRepository) Save(ctx context.Context, plan *GardenPlan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan %s: %w", plan.ID, err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO garden_plans (id, postal_code, data, created_at) VALUES (?, ?, ?, ?)`,
		plan.ID, plan.Location.PostalCode, data, plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert plan %s: %w", plan.ID, err)
	}
	return nil
}

// Get retrieves one plan by id. Returns (nil, nil) when the id is unknown.
func (r *PlanRepository) Get(ctx context.Context, id string) (*GardenPlan, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM garden_plans WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query plan %s: %w", id, err)
	}

	var plan GardenPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan %s: %w", id, err)
	}
	return &plan, nil
}

// ListRecent returns the N most recently created plans, newest first.
func (r *PlanRepository) ListRecent(ctx context.Context, limit int) ([]StoredPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, postal_code, data, created_at FROM garden_plans ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent plans: %w", err)
	}
	defer rows.Close()

	var plans []StoredPlan
	for rows.Next() {
		var p StoredPlan
		if err := rows.Scan(&p.ID, &p.PostalCode, &p.Data, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}
