// Package config provides configuration loading and validation for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the service configuration read from the environment.
// Load .env via godotenv in main before calling New.
type Config struct {
	Port         int
	DatabaseURL  string
	GeminiAPIKey string
	OntologyPath    string // optional override for the embedded skill ontology
	HoursPerWeek    int    // default weekly study hours for roadmap generation
	FetchUseBrowser bool   // render JS-heavy postings with a headless browser
}

// New reads configuration from environment variables and validates it.
// DATABASE_URL is required; GEMINI_API_KEY is optional (LLM-backed features
// fall back to rule-based behavior without it).
func New() (*Config, error) {
	cfg := &Config{
		Port:         8080,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		OntologyPath: os.Getenv("SKILL_ONTOLOGY_PATH"),
		HoursPerWeek: 10,
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	if browserStr := os.Getenv("FETCH_USE_BROWSER"); browserStr != "" {
		useBrowser, err := strconv.ParseBool(browserStr)
		if err != nil {
			return nil, fmt.Errorf("invalid FETCH_USE_BROWSER: %v", err)
		}
		cfg.FetchUseBrowser = useBrowser
	}

	if hoursStr := os.Getenv("HOURS_PER_WEEK"); hoursStr != "" {
		hours, err := strconv.Atoi(hoursStr)
		if err != nil {
			return nil, fmt.Errorf("invalid HOURS_PER_WEEK: %v", err)
		}
		cfg.HoursPerWeek = hours
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// normalize validates the configuration.
func (c *Config) normalize() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.HoursPerWeek < 1 {
		return fmt.Errorf("HOURS_PER_WEEK must be at least 1, got: %d", c.HoursPerWeek)
	}
	return nil
}
