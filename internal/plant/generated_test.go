package plant

import (
	"testing"
)

const validResponse = `{
  "name": "Dragon Fruit",
  "scientific_name": "Hylocereus undatus",
  "plant_type": "fruit",
  "days_to_harvest": 365,
  "spacing_inches": 72,
  "planting_depth_inches": 0.5,
  "sun_requirements": "full sun",
  "water_requirements": "low",
  "soil_ph_range": "6.0-7.0",
  "companion_plants": ["marigold"],
  "avoid_planting_with": []
}`

func TestParseGenerated(t *testing.T) {
	rec, err := ParseGenerated("dragon fruit", validResponse)
	if err != nil {
		t.Fatalf("ParseGenerated failed: %v", err)
	}
	if rec.Name != "Dragon Fruit" {
		t.Errorf("Expected name 'Dragon Fruit', got %q", rec.Name)
	}
	if rec.Category != CategoryFruit {
		t.Errorf("Expected category fruit, got %q", rec.Category)
	}
	if rec.DaysToHarvest != 365 {
		t.Errorf("Expected 365 days to harvest, got %d", rec.DaysToHarvest)
	}
	if rec.Water != WaterLow {
		t.Errorf("Expected low water, got %q", rec.Water)
	}
	if len(rec.CompanionPlants) != 1 || rec.CompanionPlants[0] != "marigold" {
		t.Errorf("Unexpected companion plants: %v", rec.CompanionPlants)
	}
}

func TestParseGeneratedCodeFence(t *testing.T) {
	fenced := "```json\n" + validResponse + "\n```"
	rec, err := ParseGenerated("dragon fruit", fenced)
	if err != nil {
		t.Fatalf("ParseGenerated failed on fenced response: %v", err)
	}
	if rec.Name != "Dragon Fruit" {
		t.Errorf("Expected name 'Dragon Fruit', got %q", rec.Name)
	}
}

func TestParseGeneratedDefaults(t *testing.T) {
	raw := `{
	  "plant_type": "succulent",
	  "days_to_harvest": 90,
	  "spacing_inches": 10,
	  "planting_depth_inches": 1,
	  "sun_requirements": "bright indirect",
	  "water_requirements": "whenever"
	}`
	rec, err := ParseGenerated("Mystery Plant", raw)
	if err != nil {
		t.Fatalf("ParseGenerated failed: %v", err)
	}
	if rec.Name != "Mystery Plant" {
		t.Errorf("Expected name fallback to requested name, got %q", rec.Name)
	}
	if rec.Category != CategoryVegetable {
		t.Errorf("Unknown category should default to vegetable, got %q", rec.Category)
	}
	if rec.Sun != SunFull {
		t.Errorf("Unknown sun requirement should default to full sun, got %q", rec.Sun)
	}
	if rec.Water != WaterModerate {
		t.Errorf("Unknown water requirement should default to moderate, got %q", rec.Water)
	}
	if rec.CompanionPlants == nil || len(rec.CompanionPlants) != 0 {
		t.Errorf("Missing companion list should default to empty set, got %v", rec.CompanionPlants)
	}
	if rec.SoilPH.Low != 6.0 || rec.SoilPH.High != 7.0 {
		t.Errorf("Missing pH range should default to 6.0-7.0, got %v-%v", rec.SoilPH.Low, rec.SoilPH.High)
	}
}

func TestParseGeneratedRejects(t *testing.T) {
	cases := map[string]string{
		"NotJSON":       "I am not sure about that plant.",
		"NullResponse":  "null",
		"Empty":         "",
		"ZeroDays":      `{"days_to_harvest": 0, "spacing_inches": 12, "planting_depth_inches": 0.5}`,
		"NegativeDepth": `{"days_to_harvest": 60, "spacing_inches": 12, "planting_depth_inches": -0.5}`,
		"MissingSpacing": `{"days_to_harvest": 60, "planting_depth_inches": 0.5}`,
		"StringDays":    `{"days_to_harvest": "soon", "spacing_inches": 12, "planting_depth_inches": 0.5}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseGenerated("test plant", raw); err == nil {
				t.Fatalf("Expected an error for %s, got nil", name)
			}
		})
	}
}
