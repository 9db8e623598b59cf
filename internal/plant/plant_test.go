package plant

import (
	"encoding/json"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"Tomato":     "tomato",
		"  Basil  ":  "basil",
		"BELL PEPPER": "bell pepper",
		"lettuce":    "lettuce",
	}
	for input, want := range cases {
		if got := NormalizeName(input); got != want {
			t.Errorf("NormalizeName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestParsePHRange(t *testing.T) {
	t.Run("Range", func(t *testing.T) {
		r, err := ParsePHRange("6.0-7.0")
		if err != nil {
			t.Fatalf("ParsePHRange failed: %v", err)
		}
		if r.Low != 6.0 || r.High != 7.0 {
			t.Errorf("Expected 6.0-7.0, got %v-%v", r.Low, r.High)
		}
	})

	t.Run("SingleValue", func(t *testing.T) {
		r, err := ParsePHRange("6.5")
		if err != nil {
			t.Fatalf("ParsePHRange failed: %v", err)
		}
		if r.Low != 6.5 || r.High != 6.5 {
			t.Errorf("Expected degenerate range 6.5-6.5, got %v-%v", r.Low, r.High)
		}
	})

	t.Run("Inverted", func(t *testing.T) {
		if _, err := ParsePHRange("7.5-6.0"); err == nil {
			t.Fatal("Expected an error for inverted range, got nil")
		}
	})

	t.Run("Garbage", func(t *testing.T) {
		if _, err := ParsePHRange("acidic"); err == nil {
			t.Fatal("Expected an error for non-numeric range, got nil")
		}
	})
}

func TestPHRangeJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(PHRange{Low: 6.0, High: 6.8})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"6.0-6.8"` {
		t.Errorf("Expected \"6.0-6.8\", got %s", data)
	}

	var r PHRange
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if r.Low != 6.0 || r.High != 6.8 {
		t.Errorf("Round trip mismatch: got %v-%v", r.Low, r.High)
	}
}

func TestRecordValidate(t *testing.T) {
	valid := Record{
		Name:                "Tomato",
		Category:            CategoryVegetable,
		DaysToHarvest:       75,
		SpacingInches:       24,
		PlantingDepthInches: 0.25,
		Sun:                 SunFull,
		Water:               WaterModerate,
		SoilPH:              PHRange{Low: 6.0, High: 6.8},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Expected valid record, got %v", err)
	}

	t.Run("ZeroDaysToHarvest", func(t *testing.T) {
		r := valid
		r.DaysToHarvest = 0
		if err := r.Validate(); err == nil {
			t.Fatal("Expected an error for zero days_to_harvest, got nil")
		}
	})

	t.Run("NegativeSpacing", func(t *testing.T) {
		r := valid
		r.SpacingInches = -1
		if err := r.Validate(); err == nil {
			t.Fatal("Expected an error for negative spacing, got nil")
		}
	})

	t.Run("EmptyName", func(t *testing.T) {
		r := valid
		r.Name = "  "
		if err := r.Validate(); err == nil {
			t.Fatal("Expected an error for empty name, got nil")
		}
	})
}
