package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	defaultDatabasePath      = "data/garden.db"
	defaultMaxPlantsPerPlan  = 20
	defaultGenerationTimeout = 30 * time.Second
)

// Config holds the configuration for the application.
type Config struct {
	GeminiAPIKey string
	GroqAPIKey   string

	DatabasePath      string
	MaxPlantsPerPlan  int
	GenerationTimeout time.Duration

	// Telegram Config
	TelegramBotToken    string
	TelegramWebhookURL  string
	TelegramAllowUserID int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	if geminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	groqAPIKey := os.Getenv("GROQ_API_KEY")
	if groqAPIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
	}

	dbPath := os.Getenv("GARDEN_DB_PATH")
	if dbPath == "" {
		dbPath = defaultDatabasePath
	}

	maxPlants := defaultMaxPlantsPerPlan
	if v := os.Getenv("MAX_PLANTS_PER_PLAN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("MAX_PLANTS_PER_PLAN must be a positive integer, got %q", v)
		}
		maxPlants = n
	}

	genTimeout := defaultGenerationTimeout
	if v := os.Getenv("GENERATION_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("GENERATION_TIMEOUT_SECONDS must be a positive integer, got %q", v)
		}
		genTimeout = time.Duration(n) * time.Second
	}

	// Telegram Config (Optional for CLI, required for Bot)
	telegramBotToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	telegramWebhookURL := os.Getenv("TELEGRAM_WEBHOOK_URL")
	telegramAllowUserIDStr := os.Getenv("TELEGRAM_ALLOW_USER_ID")
	var telegramAllowUserID int64
	if telegramAllowUserIDStr != "" {
		fmt.Sscanf(telegramAllowUserIDStr, "%d", &telegramAllowUserID)
	}

	return &Config{
		GeminiAPIKey:        geminiAPIKey,
		GroqAPIKey:          groqAPIKey,
		DatabasePath:        dbPath,
		MaxPlantsPerPlan:    maxPlants,
		GenerationTimeout:   genTimeout,
		TelegramBotToken:    telegramBotToken,
		TelegramWebhookURL:  telegramWebhookURL,
		TelegramAllowUserID: telegramAllowUserID,
	}, nil
}

// DatabaseDir returns the directory holding the SQLite database file.
func (c *Config) DatabaseDir() string {
	return filepath.Dir(c.DatabasePath)
}
