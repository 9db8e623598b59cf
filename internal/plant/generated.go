package plant

import (
	"encoding/json"
	"fmt"
	"strings"
)

// generatedPayload is the semi-structured shape returned by the generation
// model. Numeric fields use json.Number because models occasionally emit
// them as strings or floats.
type generatedPayload struct {
	Name                string      `json:"name"`
	ScientificName      string      `json:"scientific_name"`
	PlantType           string      `json:"plant_type"`
	DaysToHarvest       json.Number `json:"days_to_harvest"`
	SpacingInches       json.Number `json:"spacing_inches"`
	PlantingDepthInches json.Number `json:"planting_depth_inches"`
	SunRequirements     string      `json:"sun_requirements"`
	WaterRequirements   string      `json:"water_requirements"`
	SoilPHRange         string      `json:"soil_ph_range"`
	CompanionPlants     []string    `json:"companion_plants"`
	AvoidPlantingWith   []string    `json:"avoid_planting_with"`
}

// ParseGenerated validates a raw generation response and converts it into a
// Record. Required numeric fields must parse and be positive. An unknown
// category defaults to vegetable; missing companion lists become empty
// slices. The returned record still needs a provenance tag from the caller.
func ParseGenerated(name, raw string) (Record, error) {
	raw = StripCodeFence(raw)
	if raw == "" || raw == "null" {
		return Record{}, fmt.Errorf("empty generation response for %q", name)
	}

	var payload generatedPayload
	dec := json.NewDecoder(strings.NewReader(raw))
	if err := dec.Decode(&payload); err != nil {
		return Record{}, fmt.Errorf("malformed generation response for %q: %w", name, err)
	}

	if strings.TrimSpace(payload.Name) == "" {
		payload.Name = strings.TrimSpace(name)
	}

	days, err := positiveInt(payload.DaysToHarvest)
	if err != nil {
		return Record{}, fmt.Errorf("generated %q: days_to_harvest: %w", name, err)
	}
	spacing, err := positiveFloat(payload.SpacingInches)
	if err != nil {
		return Record{}, fmt.Errorf("generated %q: spacing_inches: %w", name, err)
	}
	depth, err := positiveFloat(payload.PlantingDepthInches)
	if err != nil {
		return Record{}, fmt.Errorf("generated %q: planting_depth_inches: %w", name, err)
	}

	ph, err := ParsePHRange(payload.SoilPHRange)
	if err != nil {
		// A missing or garbled pH range is tolerated; the rest of the
		// record is still usable for scheduling.
		ph = PHRange{Low: 6.0, High: 7.0}
	}

	rec := Record{
		Name:                payload.Name,
		ScientificName:      strings.TrimSpace(payload.ScientificName),
		Category:            normalizeCategory(payload.PlantType),
		DaysToHarvest:       days,
		SpacingInches:       spacing,
		PlantingDepthInches: depth,
		Sun:                 normalizeSun(payload.SunRequirements),
		Water:               normalizeWater(payload.WaterRequirements),
		SoilPH:              ph,
		CompanionPlants:     cleanNames(payload.CompanionPlants),
		AvoidPlantingWith:   cleanNames(payload.AvoidPlantingWith),
	}

	if err := rec.Validate(); err != nil {
		return Record{}, fmt.Errorf("generated record for %q failed validation: %w", name, err)
	}
	return rec, nil
}

// StripCodeFence removes a surrounding markdown code fence, which models
// add despite instructions not to.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func positiveInt(n json.Number) (int, error) {
	if n.String() == "" {
		return 0, fmt.Errorf("missing")
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("not numeric: %w", err)
	}
	v := int(f)
	if v <= 0 {
		return 0, fmt.Errorf("must be positive, got %v", f)
	}
	return v, nil
}

func positiveFloat(n json.Number) (float64, error) {
	if n.String() == "" {
		return 0, fmt.Errorf("missing")
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("not numeric: %w", err)
	}
	if f <= 0 {
		return 0, fmt.Errorf("must be positive, got %v", f)
	}
	return f, nil
}

func normalizeCategory(s string) Category {
	switch Category(NormalizeName(s)) {
	case CategoryVegetable, CategoryFruit, CategoryHerb, CategoryFlower:
		return Category(NormalizeName(s))
	default:
		return CategoryVegetable
	}
}

func normalizeSun(s string) Sun {
	switch Sun(NormalizeName(s)) {
	case SunFull, SunPartial, SunShade:
		return Sun(NormalizeName(s))
	default:
		return SunFull
	}
}

func normalizeWater(s string) Water {
	switch Water(NormalizeName(s)) {
	case WaterLow, WaterModerate, WaterHigh:
		return Water(NormalizeName(s))
	default:
		return WaterModerate
	}
}

func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) != "" {
			out = append(out, strings.TrimSpace(n))
		}
	}
	return out
}
