package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"ai-garden-planner/internal/llm"
	"ai-garden-planner/internal/location"
	"ai-garden-planner/internal/plant"
	"ai-garden-planner/internal/schedule"
)

// buildInstructions produces the deterministic instruction set for a plant.
// Every section is derived from the record's attributes and the location, so
// the same inputs always yield the same text.
func buildInstructions(rec plant.Record, sched schedule.PlantingSchedule, loc location.Profile) GrowingInstructionSet {
	var planting string
	if sched.StartIndoorsDate != nil {
		planting = fmt.Sprintf(
			"Start %s seeds indoors around %s, %.2f inches deep. Transplant outdoors around %s once frost danger has passed, spacing plants %.0f inches apart.",
			rec.Name, sched.StartIndoorsDate.Format("January 2"), rec.PlantingDepthInches,
			sched.TransplantDate.Format("January 2"), rec.SpacingInches)
	} else {
		planting = fmt.Sprintf(
			"Direct sow %s around %s, %.2f inches deep, spacing plants %.0f inches apart.",
			rec.Name, sched.DirectSowDate.Format("January 2"), rec.PlantingDepthInches, rec.SpacingInches)
	}

	care := fmt.Sprintf("Provide %s and %s watering.", rec.Sun, rec.Water)
	if len(rec.CompanionPlants) > 0 {
		care += fmt.Sprintf(" Good companions: %s.", strings.Join(rec.CompanionPlants, ", "))
	}
	if len(rec.AvoidPlantingWith) > 0 {
		care += fmt.Sprintf(" Keep away from %s.", strings.Join(rec.AvoidPlantingWith, ", "))
	}
	if sched.SuccessionIntervalDays != nil {
		care += fmt.Sprintf(" Sow a fresh batch every %d days for a continuous harvest.", *sched.SuccessionIntervalDays)
	}

	harvest := fmt.Sprintf("Expect the first harvest around %s, about %d days after planting out. The window runs through %s.",
		sched.HarvestStartDate.Format("January 2"), rec.DaysToHarvest, sched.HarvestEndDate.Format("January 2"))

	zone := loc.USDAZone
	if zone == "" {
		zone = "your area"
	}

	return GrowingInstructionSet{
		Preparation: fmt.Sprintf("Prepare a %s bed with well-drained soil at pH %.1f-%.1f. In zone %s the last expected frost is around %s.",
			rec.Sun, rec.SoilPH.Low, rec.SoilPH.High, zone, loc.LastFrostDate.Format("January 2")),
		Planting:    planting,
		Care:        care,
		PestControl: fmt.Sprintf("Inspect %s weekly for common pests and remove affected leaves early. Healthy spacing of %.0f inches keeps air moving and fungal pressure down.", rec.Name, rec.SpacingInches),
		Harvest:     harvest,
		Storage:     fmt.Sprintf("Store harvested %s cool and dry; use the ripest produce first.", rec.Name),
	}
}

// enrichInstructions asks the model to rewrite the deterministic sections
// with location-specific detail. Any failure falls back to the input set.
func enrichInstructions(ctx context.Context, textGen llm.TextGenerator, rec plant.Record, loc location.Profile, base GrowingInstructionSet) GrowingInstructionSet {
	prompt := buildInstructionPrompt(rec, loc, base)

	resp, err := textGen.GenerateContent(ctx, prompt)
	if err != nil {
		log.Printf("Warning: instruction enrichment for %q failed, using template: %v", rec.Name, err)
		return base
	}

	var enriched GrowingInstructionSet
	if err := json.Unmarshal([]byte(plant.StripCodeFence(resp.Content)), &enriched); err != nil {
		log.Printf("Warning: instruction enrichment for %q returned malformed JSON, using template: %v", rec.Name, err)
		return base
	}

	// Partial responses keep the template text for the missing sections.
	fill := func(dst *string, fallback string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = fallback
		}
	}
	fill(&enriched.Preparation, base.Preparation)
	fill(&enriched.Planting, base.Planting)
	fill(&enriched.Care, base.Care)
	fill(&enriched.PestControl, base.PestControl)
	fill(&enriched.Harvest, base.Harvest)
	fill(&enriched.Storage, base.Storage)
	return enriched
}

func buildInstructionPrompt(rec plant.Record, loc location.Profile, base GrowingInstructionSet) string {
	return fmt.Sprintf(`You are an expert gardener. Improve the growing instructions below for "%s" grown in USDA zone %s (%s climate, last frost around %s).

Current instructions:
Preparation: %s
Planting: %s
Care: %s
Pest control: %s
Harvest: %s
Storage: %s

Keep every date and measurement exactly as given. Return the result strictly as a JSON object with this structure:
{
  "preparation": "...",
  "planting": "...",
  "care": "...",
  "pest_control": "...",
  "harvest": "...",
  "storage": "..."
}

Do not include any other text or formatting in your response.`,
		rec.Name, loc.USDAZone, loc.ClimateType, loc.LastFrostDate.Format("January 2"),
		base.Preparation, base.Planting, base.Care, base.PestControl, base.Harvest, base.Storage)
}
