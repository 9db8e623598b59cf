package planner

import (
	"fmt"
	"sort"
	"strings"

	"ai-garden-planner/internal/location"
	"ai-garden-planner/internal/plant"
)

var sunGroupNames = map[plant.Sun]string{
	plant.SunFull:    "Full sun bed",
	plant.SunPartial: "Partial shade bed",
	plant.SunShade:   "Shade corner",
}

// buildLayout groups plants by sunlight requirement. Wider plants lead each
// group so they can anchor the back of the bed. This is advisory prose, not
// a geometric layout.
func buildLayout(entries []PlantEntry) LayoutRecommendation {
	bySun := make(map[plant.Sun][]plant.Record)
	for _, e := range entries {
		bySun[e.Record.Sun] = append(bySun[e.Record.Sun], e.Record)
	}

	var layout LayoutRecommendation
	for _, sun := range []plant.Sun{plant.SunFull, plant.SunPartial, plant.SunShade} {
		records := bySun[sun]
		if len(records) == 0 {
			continue
		}
		sort.Slice(records, func(i, j int) bool {
			if records[i].SpacingInches != records[j].SpacingInches {
				return records[i].SpacingInches > records[j].SpacingInches
			}
			return records[i].Key() < records[j].Key()
		})

		names := make([]string, len(records))
		for i, r := range records {
			names[i] = r.Name
		}
		layout.Groups = append(layout.Groups, LayoutGroup{
			Name:   sunGroupNames[sun],
			Plants: names,
			SpacingNote: fmt.Sprintf("Place %s at the back; allow up to %.0f inches between the largest plants.",
				records[0].Name, records[0].SpacingInches),
		})
	}

	if conflicts := plantingConflicts(entries); len(conflicts) > 0 {
		layout.Notes = "Keep these apart: " + strings.Join(conflicts, "; ") + "."
	}
	return layout
}

// plantingConflicts lists avoid-pairs where both plants are in the plan.
func plantingConflicts(entries []PlantEntry) []string {
	present := make(map[string]string)
	for _, e := range entries {
		present[e.Record.Key()] = e.Record.Name
	}

	var conflicts []string
	seen := make(map[string]bool)
	for _, e := range entries {
		for _, avoid := range e.Record.AvoidPlantingWith {
			other, ok := present[plant.NormalizeName(avoid)]
			if !ok {
				continue
			}
			a, b := e.Record.Name, other
			if plant.NormalizeName(a) > plant.NormalizeName(b) {
				a, b = b, a
			}
			pair := a + " and " + b
			if !seen[pair] {
				seen[pair] = true
				conflicts = append(conflicts, pair)
			}
		}
	}
	sort.Strings(conflicts)
	return conflicts
}

// buildGeneralTips aggregates short advisory strings for the plan,
// de-duplicated by exact text, ordered plants-first then location.
func buildGeneralTips(entries []PlantEntry, loc location.Profile) []string {
	var tips []string
	seen := make(map[string]bool)
	add := func(tip string) {
		if !seen[tip] {
			seen[tip] = true
			tips = append(tips, tip)
		}
	}

	for _, e := range entries {
		if e.Schedule.SuccessionIntervalDays != nil {
			add(fmt.Sprintf("Sow %s in batches every %d days to stretch the harvest.",
				e.Record.Name, *e.Schedule.SuccessionIntervalDays))
		}
		if e.Record.Water == plant.WaterHigh {
			add("Mulch heavily around thirsty plants to cut down on watering.")
		}
	}

	switch loc.ClimateType {
	case location.ClimateCold:
		add("Short season: use row covers to protect transplants from late cold snaps.")
	case location.ClimateWarm, location.ClimateSubtropical:
		add("Hot summers: provide afternoon shade cloth for cool-season crops.")
	default:
		add("Water deeply once or twice a week rather than lightly every day.")
	}
	add(fmt.Sprintf("Frost-free window for %s runs roughly %s to %s.",
		loc.PostalCode, loc.LastFrostDate.Format("January 2"), loc.FirstFrostDate.Format("January 2")))

	return tips
}
