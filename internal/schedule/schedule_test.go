package schedule

import (
	"encoding/json"
	"testing"
	"time"

	"ai-garden-planner/internal/location"
	"ai-garden-planner/internal/plant"
)

func testLocation() location.Profile {
	return location.Profile{
		PostalCode:        "55401",
		USDAZone:          "5b",
		LastFrostDate:     location.Date(2025, time.May, 10),
		FirstFrostDate:    location.Date(2025, time.October, 5),
		GrowingSeasonDays: 148,
	}
}

func tomato() plant.Record {
	return plant.Record{
		Name:                "Tomato",
		Category:            plant.CategoryVegetable,
		DaysToHarvest:       75,
		SpacingInches:       24,
		PlantingDepthInches: 0.25,
	}
}

func lettuce() plant.Record {
	return plant.Record{
		Name:                "Lettuce",
		Category:            plant.CategoryVegetable,
		DaysToHarvest:       50,
		SpacingInches:       8,
		PlantingDepthInches: 0.25,
	}
}

func TestComputeIndoorStart(t *testing.T) {
	s := Compute(tomato(), testLocation())

	if s.StartIndoorsDate == nil || s.TransplantDate == nil {
		t.Fatal("Expected indoor-start plant to have both indoor dates")
	}
	if s.DirectSowDate != nil {
		t.Error("Indoor-start plant must not have a direct-sow date")
	}
	if got := s.StartIndoorsDate.Format("2006-01-02"); got != "2025-03-29" {
		t.Errorf("Expected start indoors 6 weeks before last frost (2025-03-29), got %s", got)
	}
	if got := s.TransplantDate.Format("2006-01-02"); got != "2025-05-24" {
		t.Errorf("Expected transplant 2025-05-24, got %s", got)
	}
	if got := s.HarvestStartDate.Format("2006-01-02"); got != "2025-08-07" {
		t.Errorf("Expected harvest start 2025-08-07, got %s", got)
	}
}

func TestComputeDirectSow(t *testing.T) {
	s := Compute(lettuce(), testLocation())

	if s.DirectSowDate == nil {
		t.Fatal("Expected direct-sow plant to have a direct-sow date")
	}
	if s.StartIndoorsDate != nil || s.TransplantDate != nil {
		t.Error("Direct-sow plant must not have indoor dates")
	}
	if got := s.DirectSowDate.Format("2006-01-02"); got != "2025-05-10" {
		t.Errorf("Expected direct sow at last frost (2025-05-10), got %s", got)
	}
	if got := s.HarvestStartDate.Format("2006-01-02"); got != "2025-06-29" {
		t.Errorf("Expected harvest start 2025-06-29, got %s", got)
	}
	if s.SuccessionIntervalDays == nil || *s.SuccessionIntervalDays != 14 {
		t.Errorf("Expected 14-day succession interval for a quick vegetable, got %v", s.SuccessionIntervalDays)
	}
}

func TestComputeHarvestOffsetExact(t *testing.T) {
	loc := testLocation()
	for _, rec := range []plant.Record{tomato(), lettuce()} {
		s := Compute(rec, loc)
		days := location.DaysBetween(s.PlantingReference(), s.HarvestStartDate)
		if days != rec.DaysToHarvest {
			t.Errorf("%s: harvest start must be planting reference + %d days, got %d",
				rec.Name, rec.DaysToHarvest, days)
		}
		if s.HarvestEndDate.Before(s.HarvestStartDate) {
			t.Errorf("%s: harvest end precedes harvest start", rec.Name)
		}
	}
}

func TestComputeCrossYearHarvest(t *testing.T) {
	garlic := plant.Record{
		Name:                "Garlic",
		Category:            plant.CategoryVegetable,
		DaysToHarvest:       240,
		SpacingInches:       4,
		PlantingDepthInches: 2,
	}
	s := Compute(garlic, testLocation())

	// Calendar-day arithmetic is authoritative; the window is allowed to
	// cross into the following year.
	if s.HarvestStartDate.Year() != 2026 {
		t.Errorf("Expected garlic harvest to cross into 2026, got %s",
			s.HarvestStartDate.Format("2006-01-02"))
	}
	if days := location.DaysBetween(s.PlantingReference(), s.HarvestStartDate); days != 240 {
		t.Errorf("Expected exact 240-day offset across the year boundary, got %d", days)
	}
}

func TestComputeIsPure(t *testing.T) {
	loc := testLocation()
	first, err := json.Marshal(Compute(tomato(), loc))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		next, err := json.Marshal(Compute(tomato(), loc))
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if string(next) != string(first) {
			t.Fatalf("Compute is not deterministic:\n%s\n%s", first, next)
		}
	}
}

func TestSuccessionOnlyForQuickVegetables(t *testing.T) {
	s := Compute(tomato(), testLocation())
	if s.SuccessionIntervalDays != nil {
		t.Errorf("Long-maturity tomato should not get a succession interval, got %d", *s.SuccessionIntervalDays)
	}

	herb := plant.Record{Name: "Basil", Category: plant.CategoryHerb, DaysToHarvest: 30,
		SpacingInches: 10, PlantingDepthInches: 0.25}
	if s := Compute(herb, testLocation()); s.SuccessionIntervalDays != nil {
		t.Error("Herbs should not get a succession interval")
	}
}
