package plant

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Category classifies a plant for scheduling and layout purposes.
type Category string

const (
	CategoryVegetable Category = "vegetable"
	CategoryFruit     Category = "fruit"
	CategoryHerb      Category = "herb"
	CategoryFlower    Category = "flower"
)

// Sun is a plant's sunlight requirement.
type Sun string

const (
	SunFull    Sun = "full sun"
	SunPartial Sun = "partial shade"
	SunShade   Sun = "shade"
)

// Water is a plant's watering requirement.
type Water string

const (
	WaterLow      Water = "low"
	WaterModerate Water = "moderate"
	WaterHigh     Water = "high"
)

// Source tags which tier produced a record.
type Source string

const (
	SourceCatalog   Source = "catalog"
	SourceCache     Source = "cache"
	SourceGenerated Source = "generated"
)

// PHRange is an inclusive soil pH range. It serializes as "6.0-7.0",
// the format used by the catalog dataset and the generation prompt.
type PHRange struct {
	Low  float64
	High float64
}

// MarshalJSON renders the range in its "low-high" string form.
func (r PHRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(fmt.Sprintf("%.1f-%.1f", r.Low, r.High))
}

// UnmarshalJSON parses the "low-high" string form.
func (r *PHRange) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePHRange(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParsePHRange parses a "6.0-7.0" style range. A single value like "6.5"
// is accepted and treated as a degenerate range.
func ParsePHRange(s string) (PHRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PHRange{}, fmt.Errorf("empty pH range")
	}
	parts := strings.SplitN(s, "-", 2)
	low, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return PHRange{}, fmt.Errorf("invalid pH range %q: %w", s, err)
	}
	high := low
	if len(parts) == 2 {
		high, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return PHRange{}, fmt.Errorf("invalid pH range %q: %w", s, err)
		}
	}
	if low > high {
		return PHRange{}, fmt.Errorf("invalid pH range %q: low exceeds high", s)
	}
	return PHRange{Low: low, High: high}, nil
}

// Record holds normalized growing data for a single plant. Identity is the
// normalized name; the same record shape is used across all three tiers.
type Record struct {
	Name                string   `json:"name"`
	ScientificName      string   `json:"scientific_name,omitempty"`
	Category            Category `json:"plant_type"`
	DaysToHarvest       int      `json:"days_to_harvest"`
	SpacingInches       float64  `json:"spacing_inches"`
	PlantingDepthInches float64  `json:"planting_depth_inches"`
	Sun                 Sun      `json:"sun_requirements"`
	Water               Water    `json:"water_requirements"`
	SoilPH              PHRange  `json:"soil_ph_range"`
	CompanionPlants     []string `json:"companion_plants"`
	AvoidPlantingWith   []string `json:"avoid_planting_with"`
}

// NormalizeName returns the lowercase, trimmed form of a plant name. It is
// the identity key across catalog, cache, and generation.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Key returns the record's identity key.
func (r Record) Key() string {
	return NormalizeName(r.Name)
}

// Validate checks the structural invariants of a record.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("plant record has empty name")
	}
	if r.DaysToHarvest <= 0 {
		return fmt.Errorf("plant %q: days_to_harvest must be positive, got %d", r.Name, r.DaysToHarvest)
	}
	if r.SpacingInches <= 0 {
		return fmt.Errorf("plant %q: spacing_inches must be positive, got %v", r.Name, r.SpacingInches)
	}
	if r.PlantingDepthInches <= 0 {
		return fmt.Errorf("plant %q: planting_depth_inches must be positive, got %v", r.Name, r.PlantingDepthInches)
	}
	if r.SoilPH.Low > r.SoilPH.High {
		return fmt.Errorf("plant %q: soil pH low exceeds high", r.Name)
	}
	return nil
}
