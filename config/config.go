// Package config loads and persists editor settings.
//
// Settings live in a JSON file; missing keys fall back to defaults, and a
// corrupt or missing file silently falls back to all defaults. API
// credentials come from the environment, optionally seeded from a .env
// file via godotenv.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Settings are the persisted editor preferences.
type Settings struct {
	Theme            string `json:"theme"`
	FontFamily       string `json:"font_family"`
	FontSize         int    `json:"font_size"`
	TabWidth         int    `json:"tab_width"`
	AutoSaveInterval int    `json:"auto_save_interval"` // seconds, 0 disables
	AIEnabled        bool   `json:"ai_enabled"`
	AIAutoSuggest    bool   `json:"ai_auto_suggest"`
	AISuggestionMS   int    `json:"ai_suggestion_delay"` // milliseconds
}

// Defaults returns the hard-coded fallback settings.
func Defaults() Settings {
	return Settings{
		Theme:            "dark",
		FontFamily:       "monospace",
		FontSize:         12,
		TabWidth:         4,
		AutoSaveInterval: 0,
		AIEnabled:        true,
		AIAutoSuggest:    true,
		AISuggestionMS:   1500,
	}
}

// DefaultPath returns the standard settings location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "settings.json"
	}
	return filepath.Join(dir, "inkpad", "settings.json")
}

// Load reads settings from path. A missing file or bad JSON yields the
// defaults without surfacing an error; settings are never a reason the
// editor fails to start.
func Load(path string) Settings {
	s := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Defaults()
	}
	return s
}

// Save writes settings as indented JSON, creating parent directories.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Env carries the AI provider configuration read from the environment.
type Env struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Enabled     bool
	AutoSuggest bool
	DelayMS     int
}

// LoadEnv loads a .env file when present (existing environment wins) and
// reads the provider variables.
func LoadEnv() Env {
	_ = godotenv.Load()

	e := Env{
		APIKey:      os.Getenv("OPENROUTER_API_KEY"),
		Model:       os.Getenv("AI_MODEL"),
		Temperature: envFloat("AI_TEMPERATURE", 0.7),
		MaxTokens:   envInt("AI_MAX_TOKENS", 2048),
		Enabled:     envBool("AI_ENABLED", true),
		AutoSuggest: envBool("AI_AUTO_SUGGEST", true),
		DelayMS:     envInt("AI_SUGGESTION_DELAY", 1500),
	}
	return e
}

func envFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return def
	}
	return v
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	s := strings.ToLower(os.Getenv(key))
	if s == "" {
		return def
	}
	return s == "true" || s == "1" || s == "yes"
}
