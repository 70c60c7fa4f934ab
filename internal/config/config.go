package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Receipts
	ReceiptsDir string
	ChartWidth  int

	// Logging
	LogLevel string

	// Assistant
	OllamaURL          string
	OllamaModel        string
	HistoryDBPath      string
	AgentMaxIterations int
	AgentTimeout       time.Duration

	// Google Sheets export
	GoogleSpreadsheetID    string
	GoogleSummarySheetName string
}

func Load() *Config {
	cfg := &Config{
		ReceiptsDir: getEnv("HSA_RECEIPTS_DIR", ""),
		ChartWidth:  getEnvInt("HSA_CHART_WIDTH", 40),

		LogLevel: getEnv("HSA_LOG_LEVEL", "info"),

		OllamaURL:          getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:        getEnv("OLLAMA_MODEL", "llama3.1"),
		HistoryDBPath:      getEnv("HSA_HISTORY_DB_PATH", "./data/history.db"),
		AgentMaxIterations: getEnvInt("HSA_AGENT_MAX_ITERATIONS", 6),
		AgentTimeout:       getEnvDuration("HSA_AGENT_TIMEOUT", 90*time.Second),

		GoogleSpreadsheetID:    getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSummarySheetName: getEnv("GOOGLE_SUMMARY_SHEET_NAME", "HSA Summary"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate chart width
	if c.ChartWidth < 1 || c.ChartWidth > 200 {
		errors = append(errors, fmt.Sprintf("invalid chart width %d: must be between 1 and 200", c.ChartWidth))
	}

	// Validate log level
	validLevels := []string{"debug", "info", "warn", "error"}
	isValidLevel := false
	for _, level := range validLevels {
		if strings.EqualFold(c.LogLevel, level) {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}

	// Validate Ollama URL
	if c.OllamaURL != "" {
		if parsedURL, err := url.Parse(c.OllamaURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid Ollama URL '%s': %v", c.OllamaURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid Ollama URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}

	// Validate history database path
	if c.HistoryDBPath == "" {
		errors = append(errors, "history database path cannot be empty")
	} else {
		// Check if directory exists or can be created
		dir := filepath.Dir(c.HistoryDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create history database directory '%s': %v", dir, err))
				}
			}
		}
	}

	// Validate agent limits
	if c.AgentMaxIterations < 1 {
		errors = append(errors, fmt.Sprintf("invalid agent max iterations %d: must be at least 1", c.AgentMaxIterations))
	} else if c.AgentMaxIterations > 50 {
		errors = append(errors, fmt.Sprintf("invalid agent max iterations %d: must be at most 50", c.AgentMaxIterations))
	}

	if c.AgentTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid agent timeout %v: must be at least 1 second", c.AgentTimeout))
	} else if c.AgentTimeout > 30*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid agent timeout %v: must be at most 30 minutes", c.AgentTimeout))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
