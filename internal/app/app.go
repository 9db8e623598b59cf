package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"ai-garden-planner/internal/config"
	"ai-garden-planner/internal/location"
	"ai-garden-planner/internal/metrics"
	"ai-garden-planner/internal/planner"
	"ai-garden-planner/internal/resolver"
	"ai-garden-planner/internal/search"
)

// App holds the application's dependencies.
type App struct {
	resolver     *resolver.Resolver
	searchIndex  *search.Index
	synthesizer  *planner.Synthesizer
	planRepo     *planner.PlanRepository
	locations    location.Provider
	metricsStore *metrics.Store
	cfg          *config.Config
}

// NewApp creates and initializes a new App instance.
func NewApp(
	res *resolver.Resolver,
	searchIndex *search.Index,
	synthesizer *planner.Synthesizer,
	planRepo *planner.PlanRepository,
	locations location.Provider,
	metricsStore *metrics.Store,
	cfg *config.Config,
) *App {
	return &App{
		resolver:     res,
		searchIndex:  searchIndex,
		synthesizer:  synthesizer,
		planRepo:     planRepo,
		locations:    locations,
		metricsStore: metricsStore,
		cfg:          cfg,
	}
}

// ResolvePlant looks a single plant up through the tiers and prints it.
func (a *App) ResolvePlant(ctx context.Context, name string, allowGeneration bool) error {
	res, err := a.resolver.Resolve(ctx, name, allowGeneration)
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", name, err)
	}

	rec := res.Record
	fmt.Printf("%s (%s)\n", rec.Name, res.Source)
	if rec.ScientificName != "" {
		fmt.Printf("  Scientific name: %s\n", rec.ScientificName)
	}
	fmt.Printf("  Type: %s, days to harvest: %d\n", rec.Category, rec.DaysToHarvest)
	fmt.Printf("  Spacing: %.0f in, depth: %.2f in, %s, %s water, pH %.1f-%.1f\n",
		rec.SpacingInches, rec.PlantingDepthInches, rec.Sun, rec.Water, rec.SoilPH.Low, rec.SoilPH.High)
	if len(rec.CompanionPlants) > 0 {
		fmt.Printf("  Companions: %s\n", strings.Join(rec.CompanionPlants, ", "))
	}
	if len(rec.AvoidPlantingWith) > 0 {
		fmt.Printf("  Avoid: %s\n", strings.Join(rec.AvoidPlantingWith, ", "))
	}
	return nil
}

// SearchPlants runs a ranked lookup and prints the hits.
func (a *App) SearchPlants(ctx context.Context, query string, includeGenerated bool, limit int) error {
	results := a.searchIndex.Search(ctx, query, includeGenerated, limit)
	if len(results) == 0 {
		fmt.Printf("No plants found for %q.\n", query)
		return nil
	}

	fmt.Printf("Found %d plant(s) in %s:\n", len(results), results[len(results)-1].Elapsed.Round(time.Millisecond))
	for _, r := range results {
		fmt.Printf("  %-20s %-9s %d days to harvest\n", r.Record.Name, r.Source, r.Record.DaysToHarvest)
	}
	return nil
}

// GeneratePlan resolves the location, synthesizes a garden plan, and prints it.
func (a *App) GeneratePlan(ctx context.Context, postalCode string, plantNames []string, includeGenerated bool) error {
	fmt.Printf("Generating garden plan for %s: %s...\n", postalCode, strings.Join(plantNames, ", "))

	loc, err := a.locations.ResolveLocation(ctx, postalCode)
	if err != nil {
		return fmt.Errorf("failed to resolve location %q: %w", postalCode, err)
	}

	plan, err := a.synthesizer.Synthesize(ctx, loc, plantNames, planner.Options{
		IncludeGenerated:   includeGenerated,
		EnrichInstructions: true,
	})
	if err != nil {
		return fmt.Errorf("failed to generate plan: %w", err)
	}

	printPlan(plan)
	return nil
}

// ShowPlan prints a previously stored plan by id.
func (a *App) ShowPlan(ctx context.Context, planID string) error {
	plan, err := a.planRepo.Get(ctx, planID)
	if err != nil {
		return fmt.Errorf("failed to load plan %s: %w", planID, err)
	}
	if plan == nil {
		return fmt.Errorf("no plan with id %s", planID)
	}
	printPlan(plan)
	return nil
}

// ShowStats prints generation usage for the last N days plus system health.
func (a *App) ShowStats(days int) error {
	usage, err := a.metricsStore.GetDailyUsage(days)
	if err != nil {
		return fmt.Errorf("failed to load usage stats: %w", err)
	}

	fmt.Printf("=== GENERATION USAGE (last %d days) ===\n", days)
	if len(usage) == 0 {
		fmt.Println("No generation calls recorded.")
	}
	for _, u := range usage {
		fmt.Printf("%s: %d call(s), %d failed, %d prompt / %d completion tokens\n",
			u.Date, u.TotalCalls, u.Failures, u.TotalPrompt, u.TotalCompletion)
	}

	health := metrics.GetSysHealth(a.cfg.DatabaseDir())
	fmt.Println("\n=== SYSTEM HEALTH ===")
	fmt.Printf("Memory: %d MB alloc, %d MB sys, %d GC cycles\n", health.AllocMB, health.SysMB, health.NumGC)
	fmt.Printf("Goroutines: %d, data size: %s\n", health.Goroutines, health.DataDiskSize)
	return nil
}

// CleanupMetrics removes generation metrics older than the given age.
func (a *App) CleanupMetrics(olderThanDays int) error {
	deleted, err := a.metricsStore.Cleanup(olderThanDays)
	if err != nil {
		return fmt.Errorf("failed to clean up metrics: %w", err)
	}
	fmt.Printf("Removed %d metric record(s) older than %d days.\n", deleted, olderThanDays)
	return nil
}

func printPlan(plan *planner.GardenPlan) {
	loc := plan.Location
	fmt.Printf("\n=== GARDEN PLAN %s ===\n", plan.ID)
	fmt.Printf("Location: %s %s (zone %s), frost-free %s to %s\n",
		loc.City, loc.PostalCode, loc.USDAZone,
		loc.LastFrostDate.Format("Jan 2"), loc.FirstFrostDate.Format("Jan 2"))
	if len(plan.Unresolved) > 0 {
		log.Printf("Warning: could not resolve: %s", strings.Join(plan.Unresolved, ", "))
	}

	for _, p := range plan.Plants {
		fmt.Printf("\n--- %s (%s) ---\n", p.Record.Name, p.Source)
		s := p.Schedule
		if s.StartIndoorsDate != nil {
			fmt.Printf("Start indoors %s, transplant %s\n",
				s.StartIndoorsDate.Format("Jan 2"), s.TransplantDate.Format("Jan 2"))
		} else {
			fmt.Printf("Direct sow %s\n", s.DirectSowDate.Format("Jan 2"))
		}
		fmt.Printf("Harvest %s to %s\n", s.HarvestStartDate.Format("Jan 2"), s.HarvestEndDate.Format("Jan 2"))
		fmt.Printf("Planting: %s\n", p.Instructions.Planting)
		fmt.Printf("Care: %s\n", p.Instructions.Care)
	}

	fmt.Println("\n=== LAYOUT ===")
	for _, g := range plan.Layout.Groups {
		fmt.Printf("%s: %s\n", g.Name, strings.Join(g.Plants, ", "))
		fmt.Printf("  %s\n", g.SpacingNote)
	}
	if plan.Layout.Notes != "" {
		fmt.Printf("  %s\n", plan.Layout.Notes)
	}

	fmt.Println("\n=== TIPS ===")
	for _, tip := range plan.GeneralTips {
		fmt.Printf("- %s\n", tip)
	}
}
