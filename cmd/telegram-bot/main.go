package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

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
	"ai-garden-planner/internal/telegram"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.TelegramBotToken == "" || cfg.TelegramWebhookURL == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN and TELEGRAM_WEBHOOK_URL must be set")
	}

	ctx := context.Background()

	groqClient := llm.NewGroqClient(cfg)
	geminiClient, err := llm.NewGeminiClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
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

	bot, err := telegram.NewBot(cfg, searchIndex, synthesizer, locations, metricsStore)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
