package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	got := Load(filepath.Join(t.TempDir(), "nope.json"))
	if got != Defaults() {
		t.Fatalf("settings=%+v, want defaults", got)
	}
}

func TestLoad_CorruptFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := Load(path); got != Defaults() {
		t.Fatalf("settings=%+v, want defaults", got)
	}
}

func TestLoad_PartialFileKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"tab_width": 8, "ai_enabled": false}`), 0o644); err != nil {
		t.Fatal(err)
	}
	got := Load(path)
	if got.TabWidth != 8 {
		t.Fatalf("tab_width=%d, want 8", got.TabWidth)
	}
	if got.AIEnabled {
		t.Fatalf("ai_enabled must be false")
	}
	if got.Theme != Defaults().Theme || got.AISuggestionMS != Defaults().AISuggestionMS {
		t.Fatalf("missing keys must keep defaults: %+v", got)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "settings.json")
	s := Defaults()
	s.FontSize = 16
	s.AIAutoSuggest = false
	if err := Save(path, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := Load(path); got != s {
		t.Fatalf("round trip: got %+v, want %+v", got, s)
	}
}

func TestEnvParsers(t *testing.T) {
	t.Setenv("AI_TEMPERATURE", "0.2")
	t.Setenv("AI_MAX_TOKENS", "notanumber")
	t.Setenv("AI_ENABLED", "false")
	t.Setenv("AI_AUTO_SUGGEST", "")

	if got := envFloat("AI_TEMPERATURE", 0.7); got != 0.2 {
		t.Fatalf("temperature=%v, want 0.2", got)
	}
	if got := envInt("AI_MAX_TOKENS", 2048); got != 2048 {
		t.Fatalf("bad int must keep default, got %d", got)
	}
	if envBool("AI_ENABLED", true) {
		t.Fatalf("AI_ENABLED=false must parse false")
	}
	if !envBool("AI_AUTO_SUGGEST", true) {
		t.Fatalf("empty env must keep default")
	}
}
