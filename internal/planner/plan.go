package planner

import (
	"time"

	"ai-garden-planner/internal/location"
	"ai-garden-planner/internal/plant"
	"ai-garden-planner/internal/schedule"
)

// GrowingInstructionSet holds the free-text guidance sections for one plant.
type GrowingInstructionSet struct {
	Preparation string `json:"preparation"`
	Planting    string `json:"planting"`
	Care        string `json:"care"`
	PestControl string `json:"pest_control"`
	Harvest     string `json:"harvest"`
	Storage     string `json:"storage"`
}

// PlantEntry bundles everything the plan knows about one resolved plant.
// The record is a snapshot taken at synthesis time; later cache updates
// never alter a stored plan.
type PlantEntry struct {
	Record       plant.Record              `json:"record"`
	Source       plant.Source              `json:"source"`
	Schedule     schedule.PlantingSchedule `json:"schedule"`
	Instructions GrowingInstructionSet     `json:"instructions"`
}

// LayoutGroup is one named cluster of plants with an advisory spacing note.
type LayoutGroup struct {
	Name        string   `json:"name"`
	Plants      []string `json:"plants"`
	SpacingNote string   `json:"spacing_note"`
}

// LayoutRecommendation is advisory prose grouping, not a geometric layout.
type LayoutRecommendation struct {
	Groups []LayoutGroup `json:"groups"`
	Notes  string        `json:"notes,omitempty"`
}

// GardenPlan is one immutable planning document. PlantNames holds the
// resolved names in the caller's requested order; Unresolved lists the
// requested names that no tier could satisfy, so callers can diff the two.
type GardenPlan struct {
	ID          string               `json:"plan_id"`
	CreatedAt   time.Time            `json:"created_at"`
	Location    location.Profile     `json:"location"`
	PlantNames  []string             `json:"plant_names"`
	Unresolved  []string             `json:"unresolved,omitempty"`
	Plants      []PlantEntry         `json:"plants"`
	Layout      LayoutRecommendation `json:"layout"`
	GeneralTips []string             `json:"general_tips"`
}
