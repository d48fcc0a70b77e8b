package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/MrDoe/lyrehero/internal/engine"
)

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := NewFileStore(path)
	want := engine.Config{RMSThreshold: 0.002, ClarityThreshold: 0.05, HoldDurationMs: 150, Gain: 2.0}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")
	store := NewFileStore(path)
	got, err := store.Load()
	if !errors.Is(err, engine.ErrConfigLoadFailed) {
		t.Fatalf("err = %v, want ErrConfigLoadFailed", err)
	}
	if got != engine.DefaultConfig() {
		t.Errorf("got %+v, want defaults", got)
	}
}

func TestLoadCorruptFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	store := NewFileStore(path)
	got, err := store.Load()
	if !errors.Is(err, engine.ErrConfigLoadFailed) {
		t.Fatalf("err = %v, want ErrConfigLoadFailed", err)
	}
	if got != engine.DefaultConfig() {
		t.Errorf("got %+v, want defaults", got)
	}
}

func TestLoadFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.json")
	content := `{"lyrehero-audio-config":{"rmsThreshold":0.01}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	store := NewFileStore(path)
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.RMSThreshold != 0.01 {
		t.Errorf("RMSThreshold = %v, want 0.01", got.RMSThreshold)
	}
	def := engine.DefaultConfig()
	if got.ClarityThreshold != def.ClarityThreshold || got.HoldDurationMs != def.HoldDurationMs || got.Gain != def.Gain {
		t.Errorf("missing fields not defaulted: %+v", got)
	}
}
