package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"ai-garden-planner/internal/app"
	"ai-garden-planner/internal/cache"
	"ai-garden-planner/internal/catalog"
	"ai-garden-planner/internal/config"
	"ai-garden-planner/internal/database"
	"ai-garden-planner/internal/llm"
	"ai-garden-planner/internal/location"
	"ai-garden-planner/internal/metrics"
	"ai-garden-planner/internal/planner"
	"ai-garden-planner/internal/resolver"
	"ai-garden-planner/internal/search"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Groq's JSON mode handles the structured plant lookups; Gemini does
	// the free-text instruction enrichment.
	groqClient := llm.NewGroqClient(cfg)
	geminiClient, err := llm.NewGeminiClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	if closer, ok := geminiClient.(llm.Closer); ok {
		defer closer.Close()
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	plantCatalog, err := catalog.Load()
	if err != nil {
		log.Fatalf("Failed to load plant catalog: %v", err)
	}

	plantCache := cache.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)
	planRepo := planner.NewPlanRepository(db.SQL)

	plantResolver := resolver.NewResolver(plantCatalog, plantCache, groqClient, cfg.GenerationTimeout)
	plantResolver.SetMetricsRecorder(metricsStore)

	searchIndex := search.NewIndex(plantCatalog, plantCache, plantResolver)
	synthesizer := planner.NewSynthesizer(plantResolver, geminiClient, planRepo, cfg.MaxPlantsPerPlan)
	locations := location.NewHTTPProvider()

	application := app.NewApp(plantResolver, searchIndex, synthesizer, planRepo, locations, metricsStore, cfg)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "resolve":
		resolveCmd := flag.NewFlagSet("resolve", flag.ExitOnError)
		generate := resolveCmd.Bool("generate", true, "Allow on-demand generation for unknown plants")
		resolveCmd.Parse(os.Args[2:])
		if resolveCmd.NArg() < 1 {
			log.Fatal("resolve needs a plant name")
		}
		name := strings.Join(resolveCmd.Args(), " ")
		if err := application.ResolvePlant(ctx, name, *generate); err != nil {
			log.Fatalf("Resolve failed: %v", err)
		}
	case "search":
		searchCmd := flag.NewFlagSet("search", flag.ExitOnError)
		generate := searchCmd.Bool("generate", false, "Allow generation when nothing matches")
		limit := searchCmd.Int("limit", 10, "Maximum number of results")
		searchCmd.Parse(os.Args[2:])
		if searchCmd.NArg() < 1 {
			log.Fatal("search needs a query")
		}
		query := strings.Join(searchCmd.Args(), " ")
		if err := application.SearchPlants(ctx, query, *generate, *limit); err != nil {
			log.Fatalf("Search failed: %v", err)
		}
	case "plan":
		planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
		zip := planCmd.String("zip", "", "Postal code of the garden")
		plants := planCmd.String("plants", "", "Comma-separated plant names")
		generate := planCmd.Bool("generate", true, "Allow generation for unknown plants")
		planCmd.Parse(os.Args[2:])
		if *zip == "" || *plants == "" {
			log.Fatal("plan needs -zip and -plants")
		}
		names := splitNames(*plants)
		if err := application.GeneratePlan(ctx, *zip, names, *generate); err != nil {
			log.Fatalf("Plan generation failed: %v", err)
		}
	case "show-plan":
		if len(os.Args) < 3 {
			log.Fatal("show-plan needs a plan id")
		}
		if err := application.ShowPlan(ctx, os.Args[2]); err != nil {
			log.Fatalf("Show plan failed: %v", err)
		}
	case "stats":
		statsCmd := flag.NewFlagSet("stats", flag.ExitOnError)
		days := statsCmd.Int("days", 7, "Number of days to report")
		statsCmd.Parse(os.Args[2:])
		if err := application.ShowStats(*days); err != nil {
			log.Fatalf("Stats failed: %v", err)
		}
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])
		if err := application.CleanupMetrics(*days); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func splitNames(s string) []string {
	var names []string
	for _, name := range strings.Split(s, ",") {
		if n := strings.TrimSpace(name); n != "" {
			names = append(names, n)
		}
	}
	return names
}

func printUsage() {
	fmt.Println("Usage: garden-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  resolve <name>                       Look a plant up through catalog, cache, and generation")
	fmt.Println("  search <query>                       Ranked plant search")
	fmt.Println("  plan -zip <code> -plants <a,b,c>     Generate a garden plan")
	fmt.Println("  show-plan <id>                       Print a stored plan")
	fmt.Println("  stats                                Show generation usage and system health")
	fmt.Println("  metrics-cleanup                      Remove old metric records")
}
