package config

import (
	"os"
	"testing"
	"time"
)

func TestNewFromEnv(t *testing.T) {
	// Helper function to set environment variables for a test
	setEnv := func(key, value string) {
		t.Helper()
		t.Setenv(key, value)
	}

	t.Run("Success", func(t *testing.T) {
		setEnv("GEMINI_API_KEY", "gemini_key")
		setEnv("GROQ_API_KEY", "groq_key")
		os.Unsetenv("GARDEN_DB_PATH")
		os.Unsetenv("MAX_PLANTS_PER_PLAN")
		os.Unsetenv("GENERATION_TIMEOUT_SECONDS")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.GeminiAPIKey != "gemini_key" {
			t.Errorf("Expected GeminiAPIKey to be 'gemini_key', got '%s'", cfg.GeminiAPIKey)
		}
		if cfg.GroqAPIKey != "groq_key" {
			t.Errorf("Expected GroqAPIKey to be 'groq_key', got '%s'", cfg.GroqAPIKey)
		}
		if cfg.DatabasePath != "data/garden.db" {
			t.Errorf("Expected default database path, got '%s'", cfg.DatabasePath)
		}
		if cfg.MaxPlantsPerPlan != 20 {
			t.Errorf("Expected default max plants 20, got %d", cfg.MaxPlantsPerPlan)
		}
		if cfg.GenerationTimeout != 30*time.Second {
			t.Errorf("Expected default generation timeout 30s, got %v", cfg.GenerationTimeout)
		}
	})

	t.Run("Overrides", func(t *testing.T) {
		setEnv("GEMINI_API_KEY", "gemini_key")
		setEnv("GROQ_API_KEY", "groq_key")
		setEnv("GARDEN_DB_PATH", "/tmp/test.db")
		setEnv("MAX_PLANTS_PER_PLAN", "5")
		setEnv("GENERATION_TIMEOUT_SECONDS", "10")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "/tmp/test.db" {
			t.Errorf("Expected database path '/tmp/test.db', got '%s'", cfg.DatabasePath)
		}
		if cfg.MaxPlantsPerPlan != 5 {
			t.Errorf("Expected max plants 5, got %d", cfg.MaxPlantsPerPlan)
		}
		if cfg.GenerationTimeout != 10*time.Second {
			t.Errorf("Expected generation timeout 10s, got %v", cfg.GenerationTimeout)
		}
	})

	t.Run("MissingGeminiAPIKey", func(t *testing.T) {
		setEnv("GROQ_API_KEY", "groq_key")
		os.Unsetenv("GEMINI_API_KEY")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GEMINI_API_KEY, got nil")
		}
		expectedError := "GEMINI_API_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("MissingGroqAPIKey", func(t *testing.T) {
		setEnv("GEMINI_API_KEY", "gemini_key")
		os.Unsetenv("GROQ_API_KEY")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GROQ_API_KEY, got nil")
		}
		expectedError := "GROQ_API_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("InvalidMaxPlants", func(t *testing.T) {
		setEnv("GEMINI_API_KEY", "gemini_key")
		setEnv("GROQ_API_KEY", "groq_key")
		setEnv("MAX_PLANTS_PER_PLAN", "zero")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for non-numeric MAX_PLANTS_PER_PLAN, got nil")
		}
	})
}
