package schedule

import (
	"time"

	"ai-garden-planner/internal/location"
	"ai-garden-planner/internal/plant"
)

// Scheduling constants. All arithmetic is calendar-day addition on UTC
// midnights; there is no timezone component.
const (
	indoorStartLeadDays      = 42 // 6 weeks before last frost
	transplantLagDays        = 14 // 2 weeks after last frost
	indoorStartThresholdDays = 60
	successionMaxDays        = 60
	successionIntervalDays   = 14
	defaultHarvestSpreadDays = 21
)

// PlantingSchedule holds the computed dates for one plant. A plant gets
// either the two indoor dates or a direct-sow date, never both.
type PlantingSchedule struct {
	PlantName              string     `json:"plant_name"`
	StartIndoorsDate       *time.Time `json:"start_indoors_date,omitempty"`
	DirectSowDate          *time.Time `json:"direct_sow_date,omitempty"`
	TransplantDate         *time.Time `json:"transplant_date,omitempty"`
	HarvestStartDate       time.Time  `json:"harvest_start_date"`
	HarvestEndDate         time.Time  `json:"harvest_end_date"`
	SuccessionIntervalDays *int       `json:"succession_interval_days,omitempty"`
}

// PlantingReference returns the date harvest arithmetic is anchored to:
// the transplant date when present, otherwise the direct-sow date.
func (s PlantingSchedule) PlantingReference() time.Time {
	if s.TransplantDate != nil {
		return *s.TransplantDate
	}
	return *s.DirectSowDate
}

// StartsIndoors classifies a plant's maturation profile. Long-maturity
// vegetables and fruits are started inside ahead of the frost window;
// everything else sows directly at last frost.
func StartsIndoors(rec plant.Record) bool {
	switch rec.Category {
	case plant.CategoryVegetable, plant.CategoryFruit:
		return rec.DaysToHarvest > indoorStartThresholdDays
	default:
		return false
	}
}

// SupportsSuccession reports whether a plant is worth re-sowing in waves.
// Quick vegetables are; long-maturity plants and perennials are not.
func SupportsSuccession(rec plant.Record) bool {
	return rec.Category == plant.CategoryVegetable && rec.DaysToHarvest <= successionMaxDays
}

// Compute derives a planting schedule from a record and a location. It is
// pure: identical inputs always produce identical output. The harvest
// window is never clipped to first frost; long-maturity plants may run
// past it or into the next calendar year, and calendar-day arithmetic is
// authoritative.
func Compute(rec plant.Record, loc location.Profile) PlantingSchedule {
	s := PlantingSchedule{PlantName: rec.Name}

	if StartsIndoors(rec) {
		start := loc.LastFrostDate.AddDate(0, 0, -indoorStartLeadDays)
		transplant := loc.LastFrostDate.AddDate(0, 0, transplantLagDays)
		s.StartIndoorsDate = &start
		s.TransplantDate = &transplant
	} else {
		sow := loc.LastFrostDate
		s.DirectSowDate = &sow
	}

	s.HarvestStartDate = s.PlantingReference().AddDate(0, 0, rec.DaysToHarvest)

	if SupportsSuccession(rec) {
		interval := successionIntervalDays
		s.SuccessionIntervalDays = &interval
		s.HarvestEndDate = s.HarvestStartDate.AddDate(0, 0, 3*interval)
	} else {
		s.HarvestEndDate = s.HarvestStartDate.AddDate(0, 0, defaultHarvestSpreadDays)
	}

	return s
}
